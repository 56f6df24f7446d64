// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"fmt"

	"github.com/celrt/celgo/ast"
	"github.com/celrt/celgo/common"
)

// Parse lexes and parses src into an AST per the grammar of section 4.2:
// ternary (right-assoc) -> || -> && -> equality -> relational -> additive
// -> multiplicative -> unary -> postfix -> primary.
//
// Macros (has, all, exists, exists_one, map, filter) are not special
// grammar productions: has(x.y) parses as an ordinary free call and
// list.all(v, pred) as an ordinary receiver call, exactly like any other
// function or method invocation. Recognizing and evaluating them as
// macros is the evaluator's job (section 4.7), which keeps this grammar
// free of macro-specific productions.
func Parse(src common.Source) (ast.Node, error) {
	errs := common.NewErrors(src)
	lx := newLexer(src.Contents(), errs)
	toks := lx.tokenize()
	if !errs.Empty() {
		return nil, errs
	}

	p := &parser{toks: toks, errs: errs}
	var root ast.Node
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(abort); !ok {
					panic(r)
				}
			}
		}()
		root = p.parseTernary()
		if !p.check(EOF) {
			p.fail(p.peek().Pos, "unexpected trailing input: %s", tokenDisplay(p.peek()))
		}
	}()
	if !errs.Empty() {
		return nil, errs
	}
	return root, nil
}

// abort is panicked by parser.fail to unwind to Parse's recover once a
// syntax error has been reported; cascading errors from a broken token
// stream are rarely useful, so parsing stops at the first one.
type abort struct{}

type parser struct {
	toks []Token
	pos  int
	errs *common.Errors
}

func (p *parser) peek() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.toks[len(p.toks)-1] // EOF
}

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(tt TokenType) Token {
	if !p.check(tt) {
		p.fail(p.peek().Pos, "expected %s but found %s", tt, tokenDisplay(p.peek()))
	}
	return p.advance()
}

func (p *parser) fail(pos int, format string, args ...interface{}) {
	p.errs.ReportError(pos, format, args...)
	panic(abort{})
}

func tokenDisplay(t Token) string {
	if t.Type == EOF {
		return "<EOF>"
	}
	if t.Text == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%q", t.Text)
}

// parseTernary is the lowest-precedence production: `a ? b : c ? d : e`
// parses as `a ? b : (c ? d : e)` because the else branch recurses back
// into parseTernary rather than a lower level (section 4.2).
func (p *parser) parseTernary() ast.Node {
	cond := p.parseLogicalOr()
	if !p.check(QUESTION) {
		return cond
	}
	pos := p.advance().Pos
	thenExpr := p.parseTernary()
	p.expect(COLON)
	elseExpr := p.parseTernary()
	return ast.NewTernary(pos, cond, thenExpr, elseExpr)
}

func (p *parser) parseLogicalOr() ast.Node {
	x := p.parseLogicalAnd()
	for p.check(OR) {
		pos := p.advance().Pos
		rhs := p.parseLogicalAnd()
		x = ast.NewLogicalOr(pos, x, rhs)
	}
	return x
}

func (p *parser) parseLogicalAnd() ast.Node {
	x := p.parseEquality()
	for p.check(AND) {
		pos := p.advance().Pos
		rhs := p.parseEquality()
		x = ast.NewLogicalAnd(pos, x, rhs)
	}
	return x
}

func (p *parser) parseEquality() ast.Node {
	x := p.parseRelational()
	for {
		var op string
		switch p.peek().Type {
		case EQ:
			op = "=="
		case NE:
			op = "!="
		default:
			return x
		}
		pos := p.advance().Pos
		rhs := p.parseRelational()
		x = ast.NewBinary(pos, op, x, rhs)
	}
}

func (p *parser) parseRelational() ast.Node {
	x := p.parseAdditive()
	for {
		var op string
		switch p.peek().Type {
		case LT:
			op = "<"
		case LE:
			op = "<="
		case GT:
			op = ">"
		case GE:
			op = ">="
		case IN:
			op = "in"
		default:
			return x
		}
		pos := p.advance().Pos
		rhs := p.parseAdditive()
		x = ast.NewBinary(pos, op, x, rhs)
	}
}

func (p *parser) parseAdditive() ast.Node {
	x := p.parseMultiplicative()
	for {
		var op string
		switch p.peek().Type {
		case PLUS:
			op = "+"
		case MINUS:
			op = "-"
		default:
			return x
		}
		pos := p.advance().Pos
		rhs := p.parseMultiplicative()
		x = ast.NewBinary(pos, op, x, rhs)
	}
}

func (p *parser) parseMultiplicative() ast.Node {
	x := p.parseUnary()
	for {
		var op string
		switch p.peek().Type {
		case STAR:
			op = "*"
		case SLASH:
			op = "/"
		case PERCENT:
			op = "%"
		default:
			return x
		}
		pos := p.advance().Pos
		rhs := p.parseUnary()
		x = ast.NewBinary(pos, op, x, rhs)
	}
}

// parseUnary handles `!` and `-`; unary plus is not a grammar production
// (section 4.2), so a leading `+` is a parse error rather than a no-op.
func (p *parser) parseUnary() ast.Node {
	switch p.peek().Type {
	case NOT:
		pos := p.advance().Pos
		return ast.NewNot(pos, p.parseUnary())
	case MINUS:
		pos := p.advance().Pos
		return ast.NewNeg(pos, p.parseUnary())
	case PLUS:
		p.fail(p.peek().Pos, "unary plus is not a valid operator")
	}
	return p.parsePostfix()
}

// parsePostfix handles the three postfix productions: `.ident`,
// `.ident(args)`, and `[expr]`, chained left to right so
// `a.b.c[0].d(x)` builds up one production at a time.
func (p *parser) parsePostfix() ast.Node {
	x := p.parsePrimary()
	for {
		switch {
		case p.check(DOT):
			dotPos := p.advance().Pos
			name := p.expect(IDENTIFIER)
			if p.check(LPAREN) {
				p.advance()
				args := p.parseArgs()
				p.expect(RPAREN)
				x = ast.NewCall(dotPos, name.Text, x, args)
			} else {
				x = ast.NewSelect(dotPos, x, name.Text)
			}
		case p.check(LBRACKET):
			brPos := p.advance().Pos
			key := p.parseTernary()
			p.expect(RBRACKET)
			x = ast.NewIndex(brPos, x, key)
		default:
			return x
		}
	}
}

func (p *parser) parsePrimary() ast.Node {
	tok := p.peek()
	switch tok.Type {
	case NUMBER, STRING, BYTES, BOOLEAN, NULL:
		p.advance()
		return ast.NewLiteral(tok.Pos, tok.Value)
	case LPAREN:
		p.advance()
		inner := p.parseTernary()
		p.expect(RPAREN)
		return inner
	case LBRACKET:
		return p.parseListLiteral()
	case LBRACE:
		return p.parseMapLiteral()
	case IDENTIFIER:
		p.advance()
		if p.check(LPAREN) {
			p.advance()
			args := p.parseArgs()
			p.expect(RPAREN)
			return ast.NewCall(tok.Pos, tok.Text, nil, args)
		}
		return ast.NewIdent(tok.Pos, tok.Text)
	}
	p.fail(tok.Pos, "unexpected token: %s", tokenDisplay(tok))
	panic(abort{}) // unreachable; fail always panics
}

// parseArgs parses a comma-separated argument list up to (but not
// including) the closing RPAREN. Trailing commas are a syntax error
// here, unlike in list and map literals (section 4.2).
func (p *parser) parseArgs() []ast.Node {
	var args []ast.Node
	if p.check(RPAREN) {
		return args
	}
	for {
		args = append(args, p.parseTernary())
		if !p.match(COMMA) {
			return args
		}
		if p.check(RPAREN) {
			p.fail(p.peek().Pos, "unexpected trailing comma in argument list")
		}
	}
}

func (p *parser) parseListLiteral() ast.Node {
	pos := p.expect(LBRACKET).Pos
	var elems []ast.Node
	for !p.check(RBRACKET) {
		elems = append(elems, p.parseTernary())
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(RBRACKET)
	return ast.NewList(pos, elems)
}

func (p *parser) parseMapLiteral() ast.Node {
	pos := p.expect(LBRACE).Pos
	var keys, values []ast.Node
	for !p.check(RBRACE) {
		k := p.parseTernary()
		p.expect(COLON)
		v := p.parseTernary()
		keys = append(keys, k)
		values = append(values, v)
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(RBRACE)
	return ast.NewMap(pos, keys, values)
}
