package ir

import "github.com/diana-lang/dianac/diag"

// CondKind names a comparison operator usable in `lih`.
type CondKind int

const (
	CondEq CondKind = iota
	CondNotEq
	CondGt
	CondGtEq
	CondLt
	CondLtEq
)

// Conditional is the bracketed comparison in `lih [left cmp right] addr`.
type Conditional struct {
	Left  Operand
	Kind  CondKind
	Right Operand
}

// maxJumpOffset bounds how far the generated jump construction ever needs
// to add to a label's low byte (see the padding loop in Lih).
const maxJumpOffset = 4

// Lih implements the conditional jump `lih cond addr` (spec §4.4), the
// most intricate pseudo-op: the primitive ISA has no conditional branch,
// so the lowering builds one out of a bit-serial zero test and an
// indirect jump whose low byte is either the address of a generated
// unconditional jump (condition true) or the address just past it
// (condition false).
func (g *Generator) Lih(cond Conditional, target Addr) {
	switch cond.Kind {
	case CondEq, CondNotEq:
		g.reduceEquality(cond)
	default:
		g.reduceMagnitude(cond)
	}

	helper := freeRegister(C)
	g.Zero(helper)
	for i := 0; i < 6; i++ {
		g.Or(helper, RegOperand(C))
		g.Ror(C)
	}

	if cond.Kind == CondNotEq || cond.Kind == CondLt || cond.Kind == CondGt {
		g.Not(helper)
	}
	g.And(helper, ImmOperand(Constant(0b000011)))

	label := g.newLabel()
	g.Add(helper, ImmOperand(LabelLoP1{Name: label}))
	g.Pc(Addr{Hi: ImmOperand(LabelHi{Name: label}), Lo: RegOperand(helper)})

	for g.NextAddress%64 > 63-maxJumpOffset {
		g.Nop()
	}
	g.Lab(label, diag.Span{})
	g.Nop()
	g.Pc(target)
}

// reduceEquality implements step 1 for Eq/NotEq: leave left^right in C,
// which is zero exactly when the operands are equal.
func (g *Generator) reduceEquality(cond Conditional) {
	var other Operand
	switch {
	case cond.Left.SameRegister(C):
		other = cond.Right
	case cond.Right.SameRegister(C):
		other = cond.Left
	default:
		g.Mov(C, cond.Left)
		other = cond.Right
	}
	g.Xor(C, other)
}

// reduceMagnitude implements step 1 for Lt/LtEq/Gt/GtEq: normalizes to a
// "helper <= C" comparison (swapping operands for LtEq and Gt) and runs a
// bit-serial comparator that leaves zero in C exactly when it holds.
func (g *Generator) reduceMagnitude(cond Conditional) {
	left, right := cond.Left, cond.Right
	if cond.Kind == CondLtEq || cond.Kind == CondGt {
		left, right = right, left
	}

	helper := freeRegister(C)
	g.Mov(helper, left)
	g.Mov(C, right)

	for i := 0; i < 6; i++ {
		g.Nor(C, RegOperand(helper))
		g.Rol(C)
		g.And(helper, ImmOperand(Constant(^(byte(1)<<uint(i)) & 0x3F)))
	}
}
