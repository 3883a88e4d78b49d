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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// evalExpr walks the AST against a record. The walk is total: every
// predicate against a missing or type-mismatched value degrades to a
// defined boolean rather than an error.
func evalExpr(e Expr, r Record) bool {
	switch node := e.(type) {
	case *AndExpr:
		return evalExpr(node.Left, r) && evalExpr(node.Right, r)
	case *OrExpr:
		return evalExpr(node.Left, r) || evalExpr(node.Right, r)
	case *CompareExpr:
		return evalCompare(node, r)
	case *ContainsExpr:
		return evalContains(node, r)
	case *InExpr:
		return evalIn(node, r)
	default:
		return false
	}
}

func evalCompare(node *CompareExpr, r Record) bool {
	v, ok := resolve(r, node.Field)
	if !ok || v == nil {
		// An absent field equals null and nothing else.
		if node.Value.Kind == LiteralNull {
			return node.Op == OpEq
		}
		return node.Op == OpNe
	}
	if node.Value.Kind == LiteralNull {
		return node.Op == OpNe
	}

	// Severity compares by rank when both sides resolve to a level;
	// otherwise it falls through to a plain comparison.
	if node.Field == SeverityField {
		if vRank, vok := severityRankOfValue(v); vok {
			if lRank, lok := severityRankOfLiteral(node.Value); lok {
				return compareFloats(float64(vRank), float64(lRank), node.Op)
			}
		}
	}

	return compareValue(v, node.Value, node.Op)
}

func evalContains(node *ContainsExpr, r Record) bool {
	v, ok := resolve(r, node.Field)
	if !ok || v == nil {
		return false
	}
	switch hay := v.(type) {
	case string:
		return strings.Contains(hay, node.Needle.Str)
	case []string:
		for _, item := range hay {
			if item == node.Needle.Str {
				return true
			}
		}
		return false
	case []interface{}:
		for _, item := range hay {
			if compareValue(item, node.Needle, OpEq) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func evalIn(node *InExpr, r Record) bool {
	v, ok := resolve(r, node.Field)
	if !ok || v == nil {
		return false
	}
	for _, item := range node.Items {
		if node.Field == SeverityField {
			if vRank, vok := severityRankOfValue(v); vok {
				if iRank, iok := severityRankOfLiteral(item); iok && vRank == iRank {
					return true
				}
			}
		}
		if compareValue(v, item, OpEq) {
			return true
		}
	}
	return false
}

// resolve looks a field up in the record: direct key first, then nested-map
// traversal for dotted paths (labels.job). Callers that flatten records
// up front only ever hit the direct lookup.
func resolve(r Record, field string) (interface{}, bool) {
	if v, ok := r[field]; ok {
		return v, true
	}
	name, rest, found := strings.Cut(field, ".")
	if !found {
		return nil, false
	}
	v, ok := r[name]
	if !ok {
		return nil, false
	}
	switch nested := v.(type) {
	case map[string]interface{}:
		return resolve(Record(nested), rest)
	case Record:
		return resolve(nested, rest)
	case map[string]string:
		if s, ok := nested[rest]; ok {
			return s, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// compareValue compares a record value against a literal, coercing loosely
// the way the original filter did: numbers compare numerically when either
// side is a number, booleans as booleans, times chronologically when the
// literal parses as RFC 3339, and everything else as strings.
func compareValue(v interface{}, lit Literal, op CompareOp) bool {
	if b, ok := v.(bool); ok {
		if lb, ok := literalBool(lit); ok {
			switch op {
			case OpEq:
				return b == lb
			case OpNe:
				return b != lb
			default:
				return false
			}
		}
	}

	if t, ok := v.(time.Time); ok {
		if lt, err := time.Parse(time.RFC3339Nano, lit.Str); err == nil {
			return compareTimes(t, lt, op)
		}
	}

	if vf, vok := toFloat(v); vok {
		if lf, lok := literalFloat(lit); lok {
			return compareFloats(vf, lf, op)
		}
	}
	if lit.Kind == LiteralNumber {
		if s, ok := v.(string); ok {
			if vf, err := strconv.ParseFloat(s, 64); err == nil {
				return compareFloats(vf, lit.Num, op)
			}
		}
	}

	return compareStrings(stringify(v), lit.Str, op)
}

func compareFloats(a, b float64, op CompareOp) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	default:
		return false
	}
}

func compareStrings(a, b string, op CompareOp) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	default:
		return false
	}
}

func compareTimes(a, b time.Time, op CompareOp) bool {
	switch op {
	case OpEq:
		return a.Equal(b)
	case OpNe:
		return !a.Equal(b)
	case OpLt:
		return a.Before(b)
	case OpLe:
		return !a.After(b)
	case OpGt:
		return a.After(b)
	case OpGe:
		return !a.Before(b)
	default:
		return false
	}
}

// toFloat converts numeric record values to float64. Strings are not
// accepted here; string-vs-number coercion is decided by the literal side.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func literalFloat(lit Literal) (float64, bool) {
	if lit.Kind == LiteralNumber {
		return lit.Num, true
	}
	if lit.Kind == LiteralString {
		f, err := strconv.ParseFloat(lit.Str, 64)
		return f, err == nil
	}
	return 0, false
}

func literalBool(lit Literal) (bool, bool) {
	if lit.Kind == LiteralBool {
		return lit.Bool, true
	}
	if lit.Kind == LiteralString {
		b, err := strconv.ParseBool(lit.Str)
		return b, err == nil
	}
	return false, false
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.Format(time.RFC3339)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
