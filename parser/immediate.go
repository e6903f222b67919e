package parser

import (
	"github.com/diana-lang/dianac/codec"
	"github.com/diana-lang/dianac/diag"
	"github.com/diana-lang/dianac/ir"
	"github.com/diana-lang/dianac/token"
)

// parseImmediateAtom implements the `immediate` production of spec §4.3:
//
//	immediate := '(' expr ')' | '!' immediate | identifier ':' ('0'|'1') | numeric | char
func (p *Parser) parseImmediateAtom() ir.Expr {
	switch p.cur().Kind {
	case token.OpenParen:
		p.advance()
		e := p.parseExprChain()
		p.expect(token.CloseParen)
		return e

	case token.Bang:
		p.advance()
		return ir.Not{X: p.parseImmediateAtom()}

	case token.Identifier:
		name, span := p.cur().Text, p.cur().Span
		p.advance()
		p.expect(token.Colon)
		half := p.cur()
		p.advanceUnlessLineEnd()
		if half.Text == "1" {
			return ir.LabelLo{Name: name, Span: span}
		}
		return ir.LabelHi{Name: name, Span: span}

	case token.Numeric:
		return p.parseNumericConstant()

	case token.Character:
		return p.parseCharConstant()

	default:
		p.errorHere(diag.NewUnexpectedToken(describe(p.cur()), "an immediate value"))
		p.advanceUnlessLineEnd()
		return ir.Constant(0)
	}
}

// parseExprChain implements the `expr` production: a left-associative
// chain of immediates joined by binary operators, only meaningful inside
// a parenthesized group.
func (p *Parser) parseExprChain() ir.Expr {
	left := p.parseImmediateAtom()
	for {
		op, ok := p.tryBinOp()
		if !ok {
			break
		}
		right := p.parseImmediateAtom()
		left = ir.Bin{Op: op, X: left, Y: right}
	}
	return left
}

// tryBinOp consumes one of `& | + - * / << >>`, if present. `<<` and `>>`
// need a two-token lookahead since the lexer only ever emits single Less
// or Greater tokens.
func (p *Parser) tryBinOp() (ir.BinKind, bool) {
	switch p.cur().Kind {
	case token.Amp:
		p.advance()
		return ir.OpAnd, true
	case token.Or:
		p.advance()
		return ir.OpOr, true
	case token.Plus:
		p.advance()
		return ir.OpAdd, true
	case token.Minus:
		p.advance()
		return ir.OpSub, true
	case token.Star:
		p.advance()
		return ir.OpMul, true
	case token.Slash:
		p.advance()
		return ir.OpDiv, true
	case token.Less:
		if p.peekKind() == token.Less {
			p.advance()
			p.advance()
			return ir.OpRol, true
		}
		return 0, false
	case token.Greater:
		if p.peekKind() == token.Greater {
			p.advance()
			p.advance()
			return ir.OpRor, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func radixOf(base token.Base) int {
	switch base {
	case token.Binary:
		return 2
	case token.Hex:
		return 16
	default:
		return 10
	}
}

func (p *Parser) parseNumericConstant() ir.Expr {
	t := p.cur()
	p.advance()
	digits := t.Text[t.PrefixLen:]
	value, err := ir.ParseNumeric(digits, radixOf(t.NumBase))
	if err != nil {
		p.errorAt(t.Span, diag.NewParseImmediate(err))
		return ir.Constant(0)
	}
	return ir.Constant(value)
}

func (p *Parser) parseCharConstant() ir.Expr {
	t := p.cur()
	p.advance()
	w6, ok := codec.Encode(t.CharValue)
	if !ok {
		p.errorAt(t.Span, diag.NewUnsupportedCharacter(t.CharValue))
		return ir.Constant(0)
	}
	return ir.Constant(w6)
}
