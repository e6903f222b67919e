package token

import (
	"strings"

	"github.com/diana-lang/dianac/diag"
)

// Lexer scans DCL source byte by byte, following the same cursor/peek/advance
// shape as the teacher's parser.Lexer, but driven by an explicit state
// machine in the manner of the y4 assembler's lexer: each call to Next
// resolves the token starting at the cursor in one pass, with no lookahead
// beyond what a single token kind requires.
type Lexer struct {
	source string
	pos    int
	diags  *diag.List
}

// NewLexer returns a Lexer over source, reporting malformed tokens into diags.
func NewLexer(source string, diags *diag.List) *Lexer {
	return &Lexer{source: source, diags: diags}
}

func (l *Lexer) isEOF() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek() byte {
	if l.isEOF() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	i := l.pos + offset
	if i >= len(l.source) {
		return 0
	}
	return l.source[i]
}

func (l *Lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	return c
}

// Tokens scans the entire source and returns the full token stream, ending
// with a single Eof token. Lexing never stops early: unrecognized bytes
// become Unknown tokens and keep the stream moving so the parser can report
// every error in a source file in one pass.
func (l *Lexer) Tokens() []Token {
	var out []Token
	for {
		t := l.Next()
		out = append(out, t)
		if t.Kind == Eof {
			return out
		}
	}
}

// Next scans and returns the next token, advancing the cursor past it.
func (l *Lexer) Next() Token {
	l.skipInlineWhitespace()

	start := l.pos
	if l.isEOF() {
		return Token{Kind: Eof, Span: diag.Span{Start: start, End: start}}
	}

	c := l.peek()
	switch {
	case c == '#':
		return l.lexLineComment(start)
	case c == '\n':
		l.advance()
		return l.spanToken(NewLine, start)
	case c == '\'':
		return l.lexCharacter(start)
	case isDigit(c):
		return l.lexNumeric(start)
	case isIdentStart(c):
		return l.lexWord(start)
	default:
		return l.lexPunct(start)
	}
}

// skipInlineWhitespace skips spaces and tabs, but not newlines: NewLine is a
// significant token that separates statements (spec.md §4.1).
func (l *Lexer) skipInlineWhitespace() {
	for !l.isEOF() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) spanToken(kind Kind, start int) Token {
	return Token{Kind: kind, Span: diag.Span{Start: start, End: l.pos}}
}

func (l *Lexer) lexLineComment(start int) Token {
	for !l.isEOF() && l.peek() != '\n' {
		l.advance()
	}
	t := l.spanToken(LineComment, start)
	t.Text = l.source[start:l.pos]
	return t
}

func (l *Lexer) lexCharacter(start int) Token {
	l.advance() // opening quote
	if l.isEOF() {
		t := l.spanToken(Character, start)
		t.Terminated = false
		l.diags.Add(diag.Diagnostic{Level: diag.Fatal, Span: t.Span, Kind: diag.NewIncompleteCharacter()})
		return t
	}
	value := l.advance()
	terminated := !l.isEOF() && l.peek() == '\''
	if terminated {
		l.advance()
	}
	t := l.spanToken(Character, start)
	t.CharValue = value
	t.Terminated = terminated
	if !terminated {
		l.diags.Add(diag.Diagnostic{Level: diag.Fatal, Span: t.Span, Kind: diag.NewIncompleteCharacter()})
	}
	return t
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isBinDigit(c byte) bool {
	return c == '0' || c == '1'
}

// lexNumeric scans a decimal, 0x-prefixed hex, or 0b-prefixed binary literal,
// with `_` allowed between digits as a grouping separator (spec.md §4.1).
func (l *Lexer) lexNumeric(start int) Token {
	base := Decimal
	prefixLen := 0

	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()
		base = Hex
		prefixLen = 2
		l.consumeDigits(isHexDigit)
	} else if l.peek() == '0' && (l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		l.advance()
		l.advance()
		base = Binary
		prefixLen = 2
		l.consumeDigits(isBinDigit)
	} else {
		l.consumeDigits(isDigit)
	}

	t := l.spanToken(Numeric, start)
	t.Text = l.source[start:l.pos]
	t.NumBase = base
	t.PrefixLen = prefixLen
	return t
}

func (l *Lexer) consumeDigits(pred func(byte) bool) {
	for !l.isEOF() {
		c := l.peek()
		if pred(c) || c == '_' {
			l.advance()
			continue
		}
		break
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// lexWord scans an identifier, then reclassifies it as a Register or Keyword
// token if it matches one of those closed vocabularies.
func (l *Lexer) lexWord(start int) Token {
	for !l.isEOF() && isIdentCont(l.peek()) {
		l.advance()
	}
	text := l.source[start:l.pos]
	upper := strings.ToUpper(text)

	t := l.spanToken(Identifier, start)
	t.Text = text
	switch {
	case Registers[upper]:
		t.Kind = Register
	case Keywords[upper]:
		t.Kind = Keyword
	}
	return t
}

// lexPunct scans exactly one byte of single-character punctuation. Two-token
// operators (`==`, `!=`, `<=`, `>=`, `<<`, `>>`) are not recognized here:
// the parser combines adjacent Less/Greater/Eq/Bang tokens itself
// (parseComparator for comparisons, tryBinOp for `<<` and `>>`).
func (l *Lexer) lexPunct(start int) Token {
	c := l.advance()
	kind := Unknown
	switch c {
	case ':':
		kind = Colon
	case '=':
		kind = Eq
	case '|':
		kind = Or
	case '&':
		kind = Amp
	case '+':
		kind = Plus
	case '-':
		kind = Minus
	case '*':
		kind = Star
	case '/':
		kind = Slash
	case '!':
		kind = Bang
	case '>':
		kind = Greater
	case '<':
		kind = Less
	case '(':
		kind = OpenParen
	case ')':
		kind = CloseParen
	case '[':
		kind = OpenBracket
	case ']':
		kind = CloseBracket
	}

	t := l.spanToken(kind, start)
	if kind == Unknown {
		t.Text = string(c)
		l.diags.Add(diag.Diagnostic{
			Level: diag.Fatal,
			Span:  t.Span,
			Kind:  diag.NewUnexpectedToken(string(c), "a recognized token"),
		})
	}
	return t
}
