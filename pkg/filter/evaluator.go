// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package filter

import (
	"sync"
)

// Record is the flat-ish mapping a filter expression is evaluated against.
// Values may be strings, numbers, booleans, time.Time, nil, or a nested map
// one level deep. Records are never mutated by evaluation.
type Record map[string]interface{}

// Program is a compiled filter expression. A nil root means the expression
// was empty and matches every record.
type Program struct {
	source string
	root   Expr
}

// Compile parses an expression into a reusable Program.
// An empty expression compiles to the match-all program.
func Compile(expression string) (*Program, error) {
	if expression == "" {
		return &Program{}, nil
	}
	root, err := parse(expression)
	if err != nil {
		return nil, err
	}
	return &Program{source: expression, root: root}, nil
}

// Source returns the expression the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// Eval reports whether the record satisfies the expression.
// Evaluation is pure and deterministic; repeated calls with identical
// arguments yield identical results.
func (p *Program) Eval(record Record) bool {
	if p.root == nil {
		return true
	}
	return evalExpr(p.root, record)
}

// Evaluator evaluates filter expressions against records.
// It caches compiled programs for improved performance on repeated
// evaluations (one expression is typically evaluated once per displayed
// row). The zero value is not usable; call New.
type Evaluator struct {
	cache map[string]*Program
	mu    sync.RWMutex
}

// New creates a new filter evaluator.
func New() *Evaluator {
	return &Evaluator{
		cache: make(map[string]*Program),
	}
}

// Evaluate evaluates an expression against the given record.
// Returns the boolean result, or an error if the expression does not parse.
//
// Example:
//
//	ok, err := eval.Evaluate(`severity == "high" && status == "firing"`, filter.Record{
//	    "severity": "high",
//	    "status":   "firing",
//	})
func (e *Evaluator) Evaluate(expression string, record Record) (bool, error) {
	program, err := e.compile(expression)
	if err != nil {
		return false, err
	}
	return program.Eval(record), nil
}

// Match is the fail-closed entry point used for row filtering: an empty
// expression matches everything, and a malformed expression matches
// nothing. It never panics and never returns an error.
func (e *Evaluator) Match(expression string, record Record) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()
	ok, err := e.Evaluate(expression, record)
	if err != nil {
		return false
	}
	return ok
}

// compile compiles an expression and caches the result.
func (e *Evaluator) compile(expression string) (*Program, error) {
	// Check cache first (read lock)
	e.mu.RLock()
	if prog, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	prog, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	// Cache the compiled program (write lock)
	e.mu.Lock()
	e.cache[expression] = prog
	e.mu.Unlock()

	return prog, nil
}

// ClearCache clears the compiled-program cache.
// This is mainly useful for testing.
func (e *Evaluator) ClearCache() {
	e.mu.Lock()
	e.cache = make(map[string]*Program)
	e.mu.Unlock()
}

// CacheSize returns the number of cached programs.
func (e *Evaluator) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

// defaultEvaluator backs the package-level Match for callers that do not
// need their own cache.
var defaultEvaluator = New()

// Match evaluates an expression against a record using a shared evaluator.
// See Evaluator.Match for the fail-closed contract.
func Match(expression string, record Record) bool {
	return defaultEvaluator.Match(expression, record)
}
