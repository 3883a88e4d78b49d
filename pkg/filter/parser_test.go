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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/sieve/pkg/errors"
)

func TestParse_ComparisonShapes(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want Expr
	}{
		{
			name: "string comparison",
			expr: `status == "firing"`,
			want: &CompareExpr{Field: "status", Op: OpEq, Value: Literal{Kind: LiteralString, Str: "firing"}},
		},
		{
			name: "numeric comparison",
			expr: `count >= 10`,
			want: &CompareExpr{Field: "count", Op: OpGe, Value: Literal{Kind: LiteralNumber, Str: "10", Num: 10}},
		},
		{
			name: "negative number",
			expr: `delta < -1.5`,
			want: &CompareExpr{Field: "delta", Op: OpLt, Value: Literal{Kind: LiteralNumber, Str: "-1.5", Num: -1.5}},
		},
		{
			name: "boolean literal",
			expr: `acknowledged == true`,
			want: &CompareExpr{Field: "acknowledged", Op: OpEq, Value: Literal{Kind: LiteralBool, Str: "true", Bool: true}},
		},
		{
			name: "null literal",
			expr: `assignee != null`,
			want: &CompareExpr{Field: "assignee", Op: OpNe, Value: Literal{Kind: LiteralNull, Str: "null"}},
		},
		{
			name: "dotted field path",
			expr: `labels.job == "node"`,
			want: &CompareExpr{Field: "labels.job", Op: OpEq, Value: Literal{Kind: LiteralString, Str: "node"}},
		},
		{
			name: "contains call form",
			expr: `message.contains("CPU")`,
			want: &ContainsExpr{Field: "message", Needle: Literal{Kind: LiteralString, Str: "CPU"}},
		},
		{
			name: "contains infix form",
			expr: `message contains "CPU"`,
			want: &ContainsExpr{Field: "message", Needle: Literal{Kind: LiteralString, Str: "CPU"}},
		},
		{
			name: "contains call on dotted field",
			expr: `labels.team.contains("infra")`,
			want: &ContainsExpr{Field: "labels.team", Needle: Literal{Kind: LiteralString, Str: "infra"}},
		},
		{
			name: "membership with bare items",
			expr: `status in [firing, resolved]`,
			want: &InExpr{Field: "status", Items: []Literal{
				{Kind: LiteralString, Str: "firing"},
				{Kind: LiteralString, Str: "resolved"},
			}},
		},
		{
			name: "membership with mixed items",
			expr: `status in ["firing", acknowledged, 3]`,
			want: &InExpr{Field: "status", Items: []Literal{
				{Kind: LiteralString, Str: "firing"},
				{Kind: LiteralString, Str: "acknowledged"},
				{Kind: LiteralNumber, Str: "3", Num: 3},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_BooleanStructure(t *testing.T) {
	got, err := parse(`a == "1" || b == "2" && c == "3"`)
	require.NoError(t, err)

	// && binds tighter than ||.
	or, ok := got.(*OrExpr)
	require.True(t, ok)
	assert.IsType(t, &CompareExpr{}, or.Left)
	and, ok := or.Right.(*AndExpr)
	require.True(t, ok)
	assert.IsType(t, &CompareExpr{}, and.Left)
	assert.IsType(t, &CompareExpr{}, and.Right)

	got, err = parse(`(a == "1" || b == "2") && c == "3"`)
	require.NoError(t, err)
	and, ok = got.(*AndExpr)
	require.True(t, ok)
	assert.IsType(t, &OrExpr{}, and.Left)
}

func TestParse_ErrorsCarryOffset(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		offset int
	}{
		{
			name:   "single equals",
			expr:   `status = "firing"`,
			offset: 7,
		},
		{
			name:   "unterminated string",
			expr:   `status == "firing`,
			offset: 10,
		},
		{
			name:   "unbalanced paren",
			expr:   `(status == "firing"`,
			offset: 19,
		},
		{
			name:   "trailing garbage",
			expr:   `status == "firing" status`,
			offset: 19,
		},
		{
			name:   "missing literal",
			expr:   `status ==`,
			offset: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.expr)
			require.Error(t, err)

			var pe *errors.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.expr, pe.Expression)
			assert.Equal(t, tt.offset, pe.Offset)
		})
	}
}

func TestParse_RejectsUnsupportedSyntax(t *testing.T) {
	exprs := []string{
		`!enabled`,                  // unary negation
		`count + 1 > 2`,             // arithmetic
		`startsWith(name, "x")`,     // function calls other than contains
		`a == "1" and b == "2"`,     // word combinators
		`status in (firing)`,        // membership needs brackets
		`in [firing]`,               // missing field
		``,                          // parse requires non-empty input
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			_, err := parse(expr)
			assert.Error(t, err)
		})
	}
}
