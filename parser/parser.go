// Package parser drives the token stream through keyword-directed operand
// parsing (spec §4.5), pushing primitives into an ir.Generator as it goes.
package parser

import (
	"strings"

	"github.com/diana-lang/dianac/diag"
	"github.com/diana-lang/dianac/ir"
	"github.com/diana-lang/dianac/token"
)

// Parser consumes a token stream line by line. Each line is blank, a
// comment, or a keyword followed by its operands and an optional
// trailing comment.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  *diag.List
	gen    *ir.Generator
}

// New returns a Parser over source, lowering statements directly into an
// ir.Generator seeded at initialOffset.
func New(source string, initialOffset int) *Parser {
	diags := &diag.List{}
	lexer := token.NewLexer(source, diags)
	return &Parser{
		tokens: lexer.Tokens(),
		diags:  diags,
		gen:    ir.NewGenerator(initialOffset, diags),
	}
}

// Parse consumes the entire token stream and returns the generated IR,
// the resolved symbol table, and any diagnostics collected along the way.
func (p *Parser) Parse() ([]ir.Node, *ir.SymbolTable, *diag.List) {
	for !p.isEOF() {
		p.parseLine()
	}
	nodes, symbols := p.gen.Finalize()
	return nodes, symbols, p.diags
}

// --- cursor utilities (spec §4.2) ---

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1].Kind
	}
	return token.Eof
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) isEOF() bool {
	return p.cur().Kind == token.Eof
}

// advanceUnlessLineEnd consumes the current token unless doing so would
// swallow the newline or EOF that marks where the current line ends -
// every error-recovery path uses this so one bad token never eats into
// the next line.
func (p *Parser) advanceUnlessLineEnd() {
	if p.cur().Kind != token.NewLine && p.cur().Kind != token.Eof {
		p.advance()
	}
}

func (p *Parser) errorAt(span diag.Span, k diag.Kind) {
	p.diags.Add(diag.Diagnostic{Level: diag.Fatal, Span: span, Kind: k})
}

func (p *Parser) errorHere(k diag.Kind) {
	p.errorAt(p.cur().Span, k)
}

func describe(t token.Token) string {
	if t.Kind == token.Eof {
		return "end of file"
	}
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.String()
}

// expect consumes the current token if it has kind k, else reports
// UnexpectedToken and leaves the cursor where it is.
func (p *Parser) expect(k token.Kind) {
	if p.cur().Kind != k {
		p.errorHere(diag.NewUnexpectedToken(describe(p.cur()), k.String()))
		return
	}
	p.advance()
}

// recover skips to the next newline (or EOF) and consumes it, so one
// malformed line never desynchronizes the rest of the file.
func (p *Parser) recover() {
	for p.cur().Kind != token.NewLine && p.cur().Kind != token.Eof {
		p.advance()
	}
	if p.cur().Kind == token.NewLine {
		p.advance()
	}
}

// --- line-level dispatch ---

func (p *Parser) parseLine() {
	switch p.cur().Kind {
	case token.NewLine:
		p.advance()
	case token.LineComment:
		p.advance()
		p.expectLineEnd()
	case token.Keyword:
		p.parseStatement()
		p.expectLineEnd()
	default:
		p.errorHere(diag.NewUnexpectedToken(describe(p.cur()), "a keyword"))
		p.recover()
	}
}

// expectLineEnd enforces spec §4.5's end-of-line rule: a newline, EOF, or
// a trailing comment followed by newline/EOF.
func (p *Parser) expectLineEnd() {
	switch p.cur().Kind {
	case token.NewLine:
		p.advance()
	case token.Eof:
	case token.LineComment:
		p.advance()
		if p.cur().Kind == token.NewLine {
			p.advance()
		} else if p.cur().Kind != token.Eof {
			p.errorHere(diag.NewUnexpectedToken(describe(p.cur()), "end of line"))
			p.recover()
		}
	default:
		p.errorHere(diag.NewUnexpectedToken(describe(p.cur()), "end of line"))
		p.recover()
	}
}

func (p *Parser) parseStatement() {
	kw := strings.ToUpper(p.cur().Text)
	p.advance()

	switch kw {
	case "NOT":
		p.gen.Not(p.parseRegister())
	case "ROL":
		p.gen.Rol(p.parseRegister())
	case "ROR":
		p.gen.Ror(p.parseRegister())
	case "SHL":
		p.gen.Shl(p.parseRegister())
	case "SHR":
		p.gen.Shr(p.parseRegister())
	case "AND":
		r := p.parseRegister()
		p.gen.And(r, p.parseOperand())
	case "NAND":
		r := p.parseRegister()
		p.gen.Nand(r, p.parseOperand())
	case "OR":
		r := p.parseRegister()
		p.gen.Or(r, p.parseOperand())
	case "NOR":
		r := p.parseRegister()
		p.gen.Nor(r, p.parseOperand())
	case "XOR":
		r := p.parseRegister()
		p.gen.Xor(r, p.parseOperand())
	case "NXOR":
		r := p.parseRegister()
		p.gen.Nxor(r, p.parseOperand())
	case "ADD":
		r := p.parseRegister()
		p.gen.Add(r, p.parseOperand())
	case "SUB":
		r := p.parseRegister()
		p.gen.Sub(r, p.parseOperand())
	case "MOV":
		r := p.parseRegister()
		p.gen.Mov(r, p.parseOperand())
	case "SET":
		p.gen.Set(p.parseImmediateAtom())
	case "LOD":
		p.gen.Lod(p.parseAddrTuple())
	case "STO":
		p.gen.Sto(p.parseAddrTuple())
	case "PC":
		p.gen.Pc(p.parseAddrTuple())
	case "LAB":
		name, span := p.parseLabelName()
		p.gen.Lab(name, span)
	case "LIH":
		cond := p.parseConditional()
		p.gen.Lih(cond, p.parseAddrTuple())
	case "NOP":
		p.gen.Nop()
	case "HLT":
		p.gen.Hlt()
	}
}

// --- operand parsing (spec §4.5) ---

func regFromText(text string) ir.Reg {
	switch strings.ToUpper(text) {
	case "A":
		return ir.A
	case "B":
		return ir.B
	default:
		return ir.C
	}
}

func (p *Parser) parseRegister() ir.Reg {
	if p.cur().Kind != token.Register {
		p.errorHere(diag.NewUnexpectedToken(describe(p.cur()), "a register"))
		p.advanceUnlessLineEnd()
		return ir.A
	}
	r := regFromText(p.cur().Text)
	p.advance()
	return r
}

func (p *Parser) parseOperand() ir.Operand {
	if p.cur().Kind == token.Register {
		r := regFromText(p.cur().Text)
		p.advance()
		return ir.RegOperand(r)
	}
	return ir.ImmOperand(p.parseImmediateAtom())
}

func (p *Parser) parseLabelName() (string, diag.Span) {
	if p.cur().Kind != token.Identifier {
		p.errorHere(diag.NewUnexpectedToken(describe(p.cur()), "a label name"))
		span := p.cur().Span
		p.advanceUnlessLineEnd()
		return "", span
	}
	name, span := p.cur().Text, p.cur().Span
	p.advance()
	return name, span
}

// parseAddrTuple implements the `lod|sto|pc` operand rule: a bare
// identifier not followed by `:` is full-label shorthand for
// (LabelHi(n), LabelLo(n)); anything else is two ordinary operands.
func (p *Parser) parseAddrTuple() ir.Addr {
	if p.cur().Kind == token.Identifier && p.peekKind() != token.Colon {
		name, span := p.cur().Text, p.cur().Span
		p.advance()
		return ir.Addr{
			Hi: ir.ImmOperand(ir.LabelHi{Name: name, Span: span}),
			Lo: ir.ImmOperand(ir.LabelLo{Name: name, Span: span}),
		}
	}
	hi := p.parseOperand()
	lo := p.parseOperand()
	return ir.Addr{Hi: hi, Lo: lo}
}

func (p *Parser) parseConditional() ir.Conditional {
	p.expect(token.OpenBracket)
	left := p.parseOperand()
	kind := p.parseComparator()
	right := p.parseOperand()
	p.expect(token.CloseBracket)
	return ir.Conditional{Left: left, Kind: kind, Right: right}
}

func (p *Parser) parseComparator() ir.CondKind {
	switch p.cur().Kind {
	case token.Eq:
		p.advance()
		p.expect(token.Eq)
		return ir.CondEq
	case token.Bang:
		p.advance()
		p.expect(token.Eq)
		return ir.CondNotEq
	case token.Less:
		p.advance()
		if p.cur().Kind == token.Eq {
			p.advance()
			return ir.CondLtEq
		}
		return ir.CondLt
	case token.Greater:
		p.advance()
		if p.cur().Kind == token.Eq {
			p.advance()
			return ir.CondGtEq
		}
		return ir.CondGt
	default:
		p.errorHere(diag.NewUnexpectedToken(describe(p.cur()), "a comparator"))
		p.advanceUnlessLineEnd()
		return ir.CondEq
	}
}
