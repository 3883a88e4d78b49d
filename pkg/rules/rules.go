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

// Package rules builds filter expressions programmatically.
//
// It is the library counterpart of a visual query builder: a tree of
// condition groups serializes to the filter syntax, so built rules
// round-trip through filter.Compile.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tombee/sieve/pkg/errors"
)

// Operator is a condition operator in a rule.
type Operator string

const (
	OpEq       Operator = "=="
	OpNe       Operator = "!="
	OpLt       Operator = "<"
	OpLe       Operator = "<="
	OpGt       Operator = ">"
	OpGe       Operator = ">="
	OpContains Operator = "contains"
	OpIn       Operator = "in"
)

// IsValid reports whether the operator is one of the supported set.
func (op Operator) IsValid() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpContains, OpIn:
		return true
	}
	return false
}

// Combinator joins the members of a group.
type Combinator string

const (
	CombinatorAnd Combinator = "and"
	CombinatorOr  Combinator = "or"
)

// Condition is a single field test.
// Value may be a string, a bool, any numeric type, or, for OpIn, a
// []string of list items.
type Condition struct {
	Field    string      `json:"field" yaml:"field"`
	Operator Operator    `json:"operator" yaml:"operator"`
	Value    interface{} `json:"value" yaml:"value"`
}

// Group is a combinator over conditions and nested groups.
type Group struct {
	Combinator Combinator  `json:"combinator" yaml:"combinator"`
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Groups     []Group     `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Expression validates the group and serializes it to filter syntax.
func (g Group) Expression() (string, error) {
	if err := g.validate(); err != nil {
		return "", err
	}
	return g.serialize(false), nil
}

func (g Group) validate() error {
	if len(g.Conditions) == 0 && len(g.Groups) == 0 {
		return &errors.ValidationError{
			Field:      "group",
			Message:    "empty rule group",
			Suggestion: "add at least one condition or nested group",
		}
	}
	switch g.Combinator {
	case CombinatorAnd, CombinatorOr:
	default:
		return &errors.ValidationError{
			Field:      "combinator",
			Message:    fmt.Sprintf("unknown combinator %q", string(g.Combinator)),
			Suggestion: `use "and" or "or"`,
		}
	}
	for _, c := range g.Conditions {
		if c.Field == "" {
			return &errors.ValidationError{
				Field:   "field",
				Message: "condition has no field name",
			}
		}
		if !c.Operator.IsValid() {
			return &errors.ValidationError{
				Field:      "operator",
				Message:    fmt.Sprintf("unknown operator %q", string(c.Operator)),
				Suggestion: "use one of ==, !=, <, <=, >, >=, contains, in",
			}
		}
		if c.Operator == OpIn {
			items, ok := c.Value.([]string)
			if !ok || len(items) == 0 {
				return &errors.ValidationError{
					Field:      "value",
					Message:    "in condition needs a non-empty []string value",
					Suggestion: `e.g. Value: []string{"firing", "resolved"}`,
				}
			}
		}
	}
	for _, sub := range g.Groups {
		if err := sub.validate(); err != nil {
			return err
		}
	}
	return nil
}

// serialize renders the group. nested controls parenthesization: the root
// group needs none, inner groups are always grouped.
func (g Group) serialize(nested bool) string {
	joiner := " && "
	if g.Combinator == CombinatorOr {
		joiner = " || "
	}

	var parts []string
	for _, c := range g.Conditions {
		parts = append(parts, c.serialize())
	}
	for _, sub := range g.Groups {
		parts = append(parts, sub.serialize(true))
	}

	expr := strings.Join(parts, joiner)
	if nested && len(parts) > 1 {
		return "(" + expr + ")"
	}
	return expr
}

func (c Condition) serialize() string {
	switch c.Operator {
	case OpContains:
		return fmt.Sprintf("%s.contains(%s)", c.Field, quoteValue(c.Value))
	case OpIn:
		items := c.Value.([]string)
		quoted := make([]string, len(items))
		for i, item := range items {
			quoted[i] = quoteString(item)
		}
		return fmt.Sprintf("%s in [%s]", c.Field, strings.Join(quoted, ", "))
	default:
		return fmt.Sprintf("%s %s %s", c.Field, c.Operator, quoteValue(c.Value))
	}
}

// quoteValue renders a condition value as a filter literal: numbers and
// booleans stay bare, everything else is quoted as a string.
func quoteValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case string:
		return quoteString(val)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return quoteString(fmt.Sprintf("%v", val))
	}
}

func quoteString(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
	return `"` + escaped + `"`
}
