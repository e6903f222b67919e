// Package token defines the DCL token model and a byte-level lexer that
// produces a lazy, finite token sequence terminated by EOF.
package token

import (
	"fmt"

	"github.com/diana-lang/dianac/diag"
)

// Kind identifies the lexical category of a Token.
type Kind int

const (
	LineComment Kind = iota
	Identifier
	Keyword
	Numeric
	Character
	Register
	NewLine
	Colon
	Eq
	Or
	Amp
	Plus
	Minus
	Star
	Slash
	Bang
	Greater
	Less
	OpenParen
	CloseParen
	OpenBracket
	CloseBracket
	Unknown
	Eof
)

var kindNames = map[Kind]string{
	LineComment:  "LineComment",
	Identifier:   "Identifier",
	Keyword:      "Keyword",
	Numeric:      "Numeric",
	Character:    "Character",
	Register:     "Register",
	NewLine:      "NewLine",
	Colon:        "Colon",
	Eq:           "Eq",
	Or:           "Or",
	Amp:          "Amp",
	Plus:         "Plus",
	Minus:        "Minus",
	Star:         "Star",
	Slash:        "Slash",
	Bang:         "Bang",
	Greater:      "Greater",
	Less:         "Less",
	OpenParen:    "OpenParen",
	CloseParen:   "CloseParen",
	OpenBracket:  "OpenBracket",
	CloseBracket: "CloseBracket",
	Unknown:      "Unknown",
	Eof:          "Eof",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Base is the radix of a Numeric token.
type Base int

const (
	Decimal Base = iota
	Binary
	Hex
)

// Keywords, matched case-insensitively: lexWord upper-cases a scanned word
// before looking it up here and in Registers.
var Keywords = map[string]bool{
	"NOT": true, "AND": true, "NAND": true, "OR": true, "NOR": true,
	"XOR": true, "NXOR": true, "ROL": true, "ROR": true, "SHL": true, "SHR": true,
	"ADD": true, "SUB": true, "SET": true, "MOV": true, "LOD": true, "STO": true,
	"PC": true, "LAB": true, "LIH": true, "NOP": true, "HLT": true,
}

// Registers names the three general-purpose registers.
var Registers = map[string]bool{"A": true, "B": true, "C": true}

// Token is one lexical unit plus its source span.
type Token struct {
	Kind Kind
	Span diag.Span

	// Text is the exact source lexeme, set for LineComment, Identifier,
	// Keyword, Register, Numeric, and Unknown tokens (for Numeric,
	// includes any base prefix; see PrefixLen).
	Text string

	// NumBase and PrefixLen are populated for Numeric tokens.
	NumBase   Base
	PrefixLen int

	// CharValue and Terminated are populated for Character tokens.
	CharValue  byte
	Terminated bool
}

// Lexeme returns the token's exact source text.
func (t Token) Lexeme(source string) string {
	return t.Span.Text(source)
}
