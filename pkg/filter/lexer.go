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

// tokenKind identifies the type of a lexed token.
type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
	tokenEq
	tokenNe
	tokenLt
	tokenLe
	tokenGt
	tokenGe
	tokenAnd
	tokenOr
	tokenIn
	tokenContains
	tokenTrue
	tokenFalse
	tokenNull
)

// token is a single lexeme with its byte offset in the source expression.
type token struct {
	kind tokenKind
	text string
	pos  int
}

// keywords maps bare-word tokens to their keyword kinds.
// Any other bare word lexes as an identifier.
var keywords = map[string]tokenKind{
	"in":       tokenIn,
	"contains": tokenContains,
	"true":     tokenTrue,
	"false":    tokenFalse,
	"null":     tokenNull,
}

// lex tokenizes a complete expression. It returns a ParseError on the first
// character it cannot form a token from.
func lex(input string) ([]token, error) {
	var tokens []token
	pos := 0
	for pos < len(input) {
		c := input[pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			pos++
		case c == '(':
			tokens = append(tokens, token{tokenLParen, "(", pos})
			pos++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")", pos})
			pos++
		case c == '[':
			tokens = append(tokens, token{tokenLBracket, "[", pos})
			pos++
		case c == ']':
			tokens = append(tokens, token{tokenRBracket, "]", pos})
			pos++
		case c == ',':
			tokens = append(tokens, token{tokenComma, ",", pos})
			pos++
		case c == '&':
			if pos+1 >= len(input) || input[pos+1] != '&' {
				return nil, lexError(input, pos, "expected '&&'")
			}
			tokens = append(tokens, token{tokenAnd, "&&", pos})
			pos += 2
		case c == '|':
			if pos+1 >= len(input) || input[pos+1] != '|' {
				return nil, lexError(input, pos, "expected '||'")
			}
			tokens = append(tokens, token{tokenOr, "||", pos})
			pos += 2
		case c == '=':
			if pos+1 >= len(input) || input[pos+1] != '=' {
				return nil, lexError(input, pos, "expected '=='")
			}
			tokens = append(tokens, token{tokenEq, "==", pos})
			pos += 2
		case c == '!':
			if pos+1 >= len(input) || input[pos+1] != '=' {
				return nil, lexError(input, pos, "expected '!=' (unary negation is not supported)")
			}
			tokens = append(tokens, token{tokenNe, "!=", pos})
			pos += 2
		case c == '<':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, token{tokenLe, "<=", pos})
				pos += 2
			} else {
				tokens = append(tokens, token{tokenLt, "<", pos})
				pos++
			}
		case c == '>':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, token{tokenGe, ">=", pos})
				pos += 2
			} else {
				tokens = append(tokens, token{tokenGt, ">", pos})
				pos++
			}
		case c == '"' || c == '\'':
			tok, next, err := lexString(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next
		case c >= '0' && c <= '9', c == '-':
			tok, next, err := lexNumber(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next
		case isIdentStart(c):
			start := pos
			for pos < len(input) && isIdentPart(input[pos]) {
				pos++
			}
			word := input[start:pos]
			if kind, ok := keywords[word]; ok {
				tokens = append(tokens, token{kind, word, start})
			} else {
				tokens = append(tokens, token{tokenIdent, word, start})
			}
		default:
			return nil, lexError(input, pos, fmt.Sprintf("unexpected character %q", c))
		}
	}
	tokens = append(tokens, token{tokenEOF, "", len(input)})
	return tokens, nil
}

// lexString lexes a quoted string starting at pos. Both single and double
// quotes are accepted; backslash escapes the quote character and itself.
func lexString(input string, pos int) (token, int, error) {
	quote := input[pos]
	var sb strings.Builder
	i := pos + 1
	for i < len(input) {
		c := input[i]
		switch c {
		case '\\':
			if i+1 >= len(input) {
				return token{}, 0, lexError(input, i, "unterminated escape sequence")
			}
			sb.WriteByte(input[i+1])
			i += 2
		case quote:
			return token{tokenString, sb.String(), pos}, i + 1, nil
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return token{}, 0, lexError(input, pos, "unterminated string literal")
}

// lexNumber lexes an integer or decimal literal, with optional leading minus.
func lexNumber(input string, pos int) (token, int, error) {
	i := pos
	if input[i] == '-' {
		i++
	}
	digits := 0
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		i++
		digits++
	}
	if i < len(input) && input[i] == '.' && i+1 < len(input) && input[i+1] >= '0' && input[i+1] <= '9' {
		i++
		for i < len(input) && input[i] >= '0' && input[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return token{}, 0, lexError(input, pos, "expected digits after '-'")
	}
	text := input[pos:i]
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return token{}, 0, lexError(input, pos, fmt.Sprintf("invalid number %q", text))
	}
	return token{tokenNumber, text, pos}, i, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isIdentPart allows dots inside identifiers so that nested field paths like
// labels.job lex as a single token.
func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '.' || (c >= '0' && c <= '9')
}

func lexError(input string, pos int, message string) error {
	return &errors.ParseError{Expression: input, Offset: pos, Message: message}
}
