package ir

import (
	"strconv"

	"github.com/diana-lang/dianac/diag"
)

// Generator is the stateful builder that lowers pseudo-ops into primitive
// IR nodes, tracking the address at which the next node will land (spec
// §4.4). Every push keeps NextAddress in sync with the IR length
// invariant of §3.
type Generator struct {
	Nodes       []Node
	NextAddress int
	Symbols     *SymbolTable

	diags        *diag.List
	labelCounter int
}

// NewGenerator returns a Generator whose first emitted node lands at
// initialOffset, reporting label errors into diags.
func NewGenerator(initialOffset int, diags *diag.List) *Generator {
	return &Generator{
		NextAddress: initialOffset,
		Symbols:     NewSymbolTable(),
		diags:       diags,
	}
}

// Finalize returns the accumulated IR and symbol table.
func (g *Generator) Finalize() ([]Node, *SymbolTable) {
	return g.Nodes, g.Symbols
}

func (g *Generator) push(n Node) {
	g.Nodes = append(g.Nodes, n)
	g.NextAddress += n.Len()
}

// freeRegister returns the first of {C, B, A} not present in used. The
// ordering is load-bearing: C is the first choice, so expansions that
// reserve C as the carry or memory register pass it in used.
func freeRegister(used ...Reg) Reg {
	inUse := map[Reg]bool{}
	for _, r := range used {
		inUse[r] = true
	}
	for _, r := range [...]Reg{C, B, A} {
		if !inUse[r] {
			return r
		}
	}
	return C
}

func (g *Generator) newLabel() string {
	name := "#" + strconv.Itoa(g.labelCounter)
	g.labelCounter++
	return name
}

// Lab implements `lab name`, recording it at the current address.
func (g *Generator) Lab(name string, span diag.Span) {
	if !g.Symbols.Define(name, g.NextAddress) {
		g.diags.Add(diag.Diagnostic{Level: diag.Fatal, Span: span, Kind: diag.NewDuplicateLabel(name)})
	}
}

func (g *Generator) Nop()         { g.push(NopNode{}) }
func (g *Generator) Hlt()         { g.push(HltNode{}) }
func (g *Generator) Set(e Expr)   { g.push(SetNode{Imm: e}) }
func (g *Generator) Lod(a Addr)   { g.push(LodNode{Addr: a}) }
func (g *Generator) Sto(a Addr)   { g.push(StoNode{Addr: a}) }
func (g *Generator) Pc(a Addr)    { g.push(PcNode{Addr: a}) }
func (g *Generator) Nor(r Reg, x Operand) { g.push(NorNode{Reg: r, Operand: x}) }

// Not implements `not r`.
func (g *Generator) Not(r Reg) {
	g.Nor(r, RegOperand(r))
}

// Zero implements `zero r`.
func (g *Generator) Zero(r Reg) {
	g.Nor(r, ImmOperand(Constant(0b111111)))
}

// Mov implements `mov r, x`: a no-op when x already names r.
func (g *Generator) Mov(r Reg, x Operand) {
	if x.SameRegister(r) {
		return
	}
	g.Nor(r, ImmOperand(Constant(0b111111)))
	g.Nor(r, x)
	g.Not(r)
}

// Or implements `or r, x`.
func (g *Generator) Or(r Reg, x Operand) {
	g.Nor(r, x)
	g.Not(r)
}

// negateOperand returns an operand holding ¬x: for a register it negates
// the register in place (emitting a Not) and returns that register; for
// an immediate it wraps the expression in Not without emitting anything.
func (g *Generator) negateOperand(x Operand) Operand {
	if x.IsImm {
		return ImmOperand(Not{X: x.Imm})
	}
	g.Not(x.Reg)
	return RegOperand(x.Reg)
}

// And implements `and r, x`.
func (g *Generator) And(r Reg, x Operand) {
	xbar := g.negateOperand(x)
	g.Not(r)
	g.Nor(r, xbar)
}

// Nand implements `nand r, x`.
func (g *Generator) Nand(r Reg, x Operand) {
	g.And(r, x)
	g.Not(r)
}

// Nxor implements `nxor r, x`.
func (g *Generator) Nxor(r Reg, x Operand) {
	inUse := []Reg{r}
	if !x.IsImm {
		inUse = append(inUse, x.Reg)
	}
	t := freeRegister(inUse...)
	g.Mov(t, RegOperand(r))
	g.Nor(t, x)
	g.Nor(r, RegOperand(t))
	g.Nor(t, x)
	g.Nor(r, RegOperand(t))
}

// Xor implements `xor r, x`.
func (g *Generator) Xor(r Reg, x Operand) {
	g.Nxor(r, x)
	g.Not(r)
}

// Rol implements `rol r`. The result always lands in C: Lod's destination
// is hardwired there, which is why the ripple-carry expansions only use
// this with C as the rotated register.
func (g *Generator) Rol(r Reg) {
	g.Lod(Addr{Hi: ImmOperand(Constant(0b111110)), Lo: RegOperand(r)})
}

// Ror implements `ror r`.
func (g *Generator) Ror(r Reg) {
	g.Lod(Addr{Hi: ImmOperand(Constant(0b111111)), Lo: RegOperand(r)})
}

// Shl implements `shl r`.
func (g *Generator) Shl(r Reg) {
	g.Rol(r)
	g.And(C, ImmOperand(Constant(0b111110)))
}

// Shr implements `shr r`.
func (g *Generator) Shr(r Reg) {
	g.Ror(r)
	g.And(C, ImmOperand(Constant(0b011111)))
}

// registerDistribution picks the two scratch registers used by both Add
// and Sub: when r is not C, r itself is one operand and the other is a
// free register; when r is C (also the carry), the free-register helper
// must be applied carefully, reusing x's register when possible.
func registerDistribution(r Reg, x Operand) (primary, secondary Reg) {
	if r != C {
		return r, freeRegister(r, C)
	}
	if !x.IsImm && (x.Reg == A || x.Reg == B) {
		secondary = x.Reg
	} else {
		secondary = freeRegister(C)
	}
	primary = freeRegister(secondary, C)
	return primary, secondary
}

// Add implements `add r, x` via the ripple-carry construction of §4.4.
func (g *Generator) Add(r Reg, x Operand) {
	carry := C
	augend, addend := registerDistribution(r, x)

	g.Mov(addend, x)
	g.Mov(augend, RegOperand(r))
	g.Mov(carry, RegOperand(r))

	for i := 0; i < 6; i++ {
		if i > 0 {
			g.Shl(carry) // a carry out of bit 5 is dropped, not rotated into bit 0
			g.Mov(addend, RegOperand(augend))
			g.Mov(augend, RegOperand(carry))
		}
		g.And(carry, RegOperand(addend))
		g.Not(addend)
		g.Nor(augend, RegOperand(addend))
		g.Nor(augend, RegOperand(carry))
	}
	g.Mov(r, RegOperand(augend))
}

// Sub implements `sub r, x` via the same register distribution as Add,
// forming the borrow through a NOR network each round.
func (g *Generator) Sub(r Reg, x Operand) {
	carry := C
	minuend, subtrahend := registerDistribution(r, x)

	g.Mov(subtrahend, x)
	g.Mov(minuend, RegOperand(r))

	for i := 0; i < 6; i++ {
		if i > 0 {
			g.Shl(carry) // a borrow out of bit 5 is dropped, not rotated into bit 0
			g.Mov(subtrahend, RegOperand(carry))
		}
		g.Nor(carry, ImmOperand(Constant(0b111111)))
		g.Nor(carry, RegOperand(subtrahend))
		g.Nor(carry, RegOperand(minuend))
		g.Not(minuend)
		g.Nor(minuend, RegOperand(subtrahend))
		g.Or(minuend, RegOperand(carry))
	}
	g.Mov(r, RegOperand(minuend))
}
