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

// Expr is a node in the filter expression AST.
// Nodes are immutable after parsing.
type Expr interface {
	expr()
}

// AndExpr represents a logical AND of two expressions.
type AndExpr struct {
	Left, Right Expr
}

func (*AndExpr) expr() {}

// OrExpr represents a logical OR of two expressions.
type OrExpr struct {
	Left, Right Expr
}

func (*OrExpr) expr() {}

// CompareOp is the comparison operator of a CompareExpr.
type CompareOp int

const (
	OpEq CompareOp = iota // ==
	OpNe                  // !=
	OpLt                  // <
	OpLe                  // <=
	OpGt                  // >
	OpGe                  // >=
)

// String returns the source form of the operator.
func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "unknown"
	}
}

// CompareExpr represents a field comparison like `status == "firing"`.
// Field is a dot-separated path, e.g. "labels.job".
type CompareExpr struct {
	Field string
	Op    CompareOp
	Value Literal
}

func (*CompareExpr) expr() {}

// ContainsExpr represents a containment test like `message.contains("CPU")`.
// String fields match on substring, slice fields on element membership.
type ContainsExpr struct {
	Field  string
	Needle Literal
}

func (*ContainsExpr) expr() {}

// InExpr represents a membership test like `status in [firing, resolved]`.
// Bare (unquoted) list items are treated as string literals.
type InExpr struct {
	Field string
	Items []Literal
}

func (*InExpr) expr() {}

// LiteralKind identifies the type of a literal value.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBool
	LiteralNull
)

// Literal is a constant operand in a filter expression.
// Str holds the string form for every kind; Num and Bool are only
// meaningful for LiteralNumber and LiteralBool respectively.
type Literal struct {
	Kind LiteralKind
	Str  string
	Num  float64
	Bool bool
}
