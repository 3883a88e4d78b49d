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
	"fmt"
	"strconv"
	"strings"

	"github.com/tombee/sieve/pkg/errors"
)

// containsSuffix marks the call form of containment: field.contains("x").
const containsSuffix = ".contains"

// parser is a recursive-descent parser over the token stream.
//
// Grammar:
//
//	expression = and { "||" and }
//	and        = primary { "&&" primary }
//	primary    = "(" expression ")" | predicate
//	predicate  = field compareOp literal
//	           | field "contains" literal
//	           | field ".contains" "(" literal ")"
//	           | field "in" "[" literal { "," literal } "]"
type parser struct {
	input  string
	tokens []token
	pos    int
}

// parse parses a non-empty expression into its AST root.
func parse(input string) (Expr, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{input: input, tokens: tokens}
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.errorf(tok.pos, "unexpected %q after expression", tok.text)
	}
	return root, nil
}

func (p *parser) parseExpression() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &OrExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &AndExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	if tok.kind == tokenLParen {
		p.next()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, p.errorf(closing.pos, "expected ')'")
		}
		return inner, nil
	}
	return p.parsePredicate()
}

func (p *parser) parsePredicate() (Expr, error) {
	tok := p.next()
	if tok.kind != tokenIdent {
		return nil, p.errorf(tok.pos, "expected field name, got %q", tok.text)
	}
	field := tok.text

	// Call form: field.contains("x") lexes as one identifier ending in
	// ".contains" followed by an opening paren.
	if strings.HasSuffix(field, containsSuffix) && p.peek().kind == tokenLParen {
		return p.parseContainsCall(strings.TrimSuffix(field, containsSuffix))
	}

	op := p.next()
	switch op.kind {
	case tokenEq, tokenNe, tokenLt, tokenLe, tokenGt, tokenGe:
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Field: field, Op: compareOpOf(op.kind), Value: lit}, nil
	case tokenContains:
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &ContainsExpr{Field: field, Needle: lit}, nil
	case tokenIn:
		return p.parseMembership(field)
	default:
		return nil, p.errorf(op.pos, "expected operator after field %q, got %q", field, op.text)
	}
}

func (p *parser) parseContainsCall(field string) (Expr, error) {
	p.next() // consume '('
	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if closing := p.next(); closing.kind != tokenRParen {
		return nil, p.errorf(closing.pos, "expected ')' to close contains()")
	}
	return &ContainsExpr{Field: field, Needle: lit}, nil
}

func (p *parser) parseMembership(field string) (Expr, error) {
	if open := p.next(); open.kind != tokenLBracket {
		return nil, p.errorf(open.pos, "expected '[' after 'in'")
	}
	var items []Literal
	for {
		lit, err := p.parseListItem()
		if err != nil {
			return nil, err
		}
		items = append(items, lit)
		sep := p.next()
		if sep.kind == tokenRBracket {
			return &InExpr{Field: field, Items: items}, nil
		}
		if sep.kind != tokenComma {
			return nil, p.errorf(sep.pos, "expected ',' or ']' in list, got %q", sep.text)
		}
	}
}

// parseListItem accepts everything parseLiteral does, plus bare words, which
// are quoted as strings (status in [firing, resolved]).
func (p *parser) parseListItem() (Literal, error) {
	if p.peek().kind == tokenIdent {
		tok := p.next()
		return Literal{Kind: LiteralString, Str: tok.text}, nil
	}
	return p.parseLiteral()
}

func (p *parser) parseLiteral() (Literal, error) {
	tok := p.next()
	switch tok.kind {
	case tokenString:
		return Literal{Kind: LiteralString, Str: tok.text}, nil
	case tokenNumber:
		num, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return Literal{}, p.errorf(tok.pos, "invalid number %q", tok.text)
		}
		return Literal{Kind: LiteralNumber, Str: tok.text, Num: num}, nil
	case tokenTrue:
		return Literal{Kind: LiteralBool, Str: "true", Bool: true}, nil
	case tokenFalse:
		return Literal{Kind: LiteralBool, Str: "false", Bool: false}, nil
	case tokenNull:
		return Literal{Kind: LiteralNull, Str: "null"}, nil
	default:
		return Literal{}, p.errorf(tok.pos, "expected literal value, got %q", tok.text)
	}
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(pos int, format string, args ...interface{}) error {
	return &errors.ParseError{
		Expression: p.input,
		Offset:     pos,
		Message:    fmt.Sprintf(format, args...),
	}
}

func compareOpOf(kind tokenKind) CompareOp {
	switch kind {
	case tokenNe:
		return OpNe
	case tokenLt:
		return OpLt
	case tokenLe:
		return OpLe
	case tokenGt:
		return OpGt
	case tokenGe:
		return OpGe
	default:
		return OpEq
	}
}
