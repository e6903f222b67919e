package ir

import (
	"errors"
	"fmt"

	"github.com/diana-lang/dianac/diag"
)

// Expr is a node of the immediate-expression tree (spec §3). Evaluation
// is always modulo 64.
type Expr interface {
	isExpr()
}

// Constant is a literal 6-bit value.
type Constant byte

func (Constant) isExpr() {}

// LabelHi is the high 6 bits of a label's 12-bit address.
type LabelHi struct {
	Name string
	Span diag.Span
}

func (LabelHi) isExpr() {}

// LabelLo is the low 6 bits of a label's 12-bit address.
type LabelLo struct {
	Name string
	Span diag.Span
}

func (LabelLo) isExpr() {}

// LabelLoP1 is LabelLo(Name)+1, the offset form used by the lih jump
// construction (spec §4.4 design note on the jump target arithmetic).
type LabelLoP1 struct {
	Name string
	Span diag.Span
}

func (LabelLoP1) isExpr() {}

// Not is bitwise complement in 6 bits.
type Not struct{ X Expr }

func (Not) isExpr() {}

// BinKind names a binary immediate operator.
type BinKind int

const (
	OpAnd BinKind = iota
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRol
	OpRor
)

// Bin is a binary operator node: And, Or, Add, Sub, Mul, Div, Rol, Ror.
type Bin struct {
	Op   BinKind
	X, Y Expr
}

func (Bin) isExpr() {}

// UndefinedLabelError is returned by Flatten when an expression references
// a label absent from the symbol table.
type UndefinedLabelError struct {
	Name string
}

func (e *UndefinedLabelError) Error() string {
	return fmt.Sprintf("undefined label %q", e.Name)
}

var errDivByZero = errors.New("division by zero")

// Flatten evaluates an immediate expression against a resolved symbol
// table, producing a 6-bit result. It is a straightforward post-order
// walk; an undefined label short-circuits with *UndefinedLabelError.
func Flatten(e Expr, symbols *SymbolTable) (byte, error) {
	switch n := e.(type) {
	case Constant:
		return byte(n) & 0x3F, nil

	case LabelHi:
		addr, ok := symbols.Lookup(n.Name)
		if !ok {
			return 0, &UndefinedLabelError{Name: n.Name}
		}
		return byte(addr>>6) & 0x3F, nil

	case LabelLo:
		addr, ok := symbols.Lookup(n.Name)
		if !ok {
			return 0, &UndefinedLabelError{Name: n.Name}
		}
		return byte(addr) & 0x3F, nil

	case LabelLoP1:
		addr, ok := symbols.Lookup(n.Name)
		if !ok {
			return 0, &UndefinedLabelError{Name: n.Name}
		}
		return byte(addr+1) & 0x3F, nil

	case Not:
		x, err := Flatten(n.X, symbols)
		if err != nil {
			return 0, err
		}
		return ^x & 0x3F, nil

	case Bin:
		x, err := Flatten(n.X, symbols)
		if err != nil {
			return 0, err
		}
		y, err := Flatten(n.Y, symbols)
		if err != nil {
			return 0, err
		}
		return evalBin(n.Op, x, y)

	default:
		panic(fmt.Sprintf("ir: unknown Expr type %T", e))
	}
}

func evalBin(op BinKind, x, y byte) (byte, error) {
	switch op {
	case OpAnd:
		return x & y & 0x3F, nil
	case OpOr:
		return (x | y) & 0x3F, nil
	case OpAdd:
		return (x + y) & 0x3F, nil
	case OpSub:
		return (x - y) & 0x3F, nil
	case OpMul:
		return byte((int(x) * int(y)) & 0x3F), nil
	case OpDiv:
		if y == 0 {
			return 0, errDivByZero
		}
		return (x / y) & 0x3F, nil
	case OpRol:
		return rotateLeft6(x, uint(y)%6), nil
	case OpRor:
		return rotateRight6(x, uint(y)%6), nil
	default:
		panic(fmt.Sprintf("ir: unknown BinKind %d", op))
	}
}

// rotateLeft6 rotates the low 6 bits of v left by n positions.
func rotateLeft6(v byte, n uint) byte {
	v &= 0x3F
	n %= 6
	return ((v << n) | (v >> (6 - n))) & 0x3F
}

// rotateRight6 rotates the low 6 bits of v right by n positions.
func rotateRight6(v byte, n uint) byte {
	v &= 0x3F
	n %= 6
	return ((v >> n) | (v << (6 - n))) & 0x3F
}

// ParseNumeric converts a numeric token's digit body (without any base
// prefix) to a 6-bit value, rejecting anything that overflows.
func ParseNumeric(digits string, radix int) (byte, error) {
	value := 0
	for _, c := range digits {
		if c == '_' {
			continue
		}
		d, ok := digitValue(byte(c))
		if !ok || d >= radix {
			return 0, fmt.Errorf("invalid digit %q for base %d", c, radix)
		}
		value = value*radix + d
		if value > 63 {
			return 0, fmt.Errorf("value %d overflows 6 bits", value)
		}
	}
	return byte(value), nil
}

func digitValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}
