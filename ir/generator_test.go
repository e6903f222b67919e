package ir

import (
	"testing"

	"github.com/diana-lang/dianac/diag"
)

func newGen() (*Generator, *diag.List) {
	var diags diag.List
	return NewGenerator(0, &diags), &diags
}

// addressAccounting checks that initialOffset plus the sum of Len() over
// every emitted node equals NextAddress, the address the next label
// would be recorded at.
func addressAccounting(t *testing.T, g *Generator, initialOffset int) {
	t.Helper()
	addr := initialOffset
	for _, n := range g.Nodes {
		addr += n.Len()
	}
	if addr != g.NextAddress {
		t.Fatalf("accumulated length %d != generator NextAddress %d", addr, g.NextAddress)
	}
}

func TestMovIdempotence(t *testing.T) {
	g, _ := newGen()
	g.Mov(A, RegOperand(A))
	if len(g.Nodes) != 0 {
		t.Fatalf("mov r,r should emit zero nodes, got %d", len(g.Nodes))
	}
	if g.NextAddress != 0 {
		t.Fatalf("NextAddress should stay 0, got %d", g.NextAddress)
	}
}

func TestMovDifferentOperandEmitsThreeNodes(t *testing.T) {
	g, _ := newGen()
	g.Mov(A, RegOperand(B))
	if len(g.Nodes) != 3 {
		t.Fatalf("mov r,x (x != r) should emit 3 nodes, got %d", len(g.Nodes))
	}
}

func TestNotEmitsOneNode(t *testing.T) {
	g, _ := newGen()
	g.Not(A)
	if len(g.Nodes) != 1 {
		t.Fatalf("not r should emit exactly 1 node, got %d", len(g.Nodes))
	}
	n, ok := g.Nodes[0].(NorNode)
	if !ok || n.Reg != A || !n.Operand.SameRegister(A) {
		t.Fatalf("not r should emit Nor(r, Reg r), got %+v", g.Nodes[0])
	}
}

func TestFreeRegisterOrder(t *testing.T) {
	if got := freeRegister(); got != C {
		t.Errorf("freeRegister() = %v, want C", got)
	}
	if got := freeRegister(C); got != B {
		t.Errorf("freeRegister(C) = %v, want B", got)
	}
	if got := freeRegister(C, B); got != A {
		t.Errorf("freeRegister(C, B) = %v, want A", got)
	}
}

func TestLabDuplicateReportsOnSecondDeclaration(t *testing.T) {
	g, diags := newGen()
	g.Nop()
	g.Lab("start", diag.Span{Start: 0, End: 5})
	if diags.HasFatal() {
		t.Fatalf("first declaration should not report, got %v", diags.Diagnostics)
	}
	g.Lab("start", diag.Span{Start: 10, End: 15})
	fatals := diags.Filter(diag.Fatal)
	if len(fatals) != 1 {
		t.Fatalf("expected exactly one diagnostic after the duplicate, got %d", len(fatals))
	}
}

func TestLabAddressMatchesPrecedingLength(t *testing.T) {
	g, _ := newGen()
	g.Nop()                              // 1 word, address 0
	g.Nor(A, ImmOperand(Constant(5)))     // 2 words, address 1
	g.Lab("here", diag.Span{})           // address should be 3
	addr, ok := g.Symbols.Lookup("here")
	if !ok {
		t.Fatal("label was not recorded")
	}
	if addr != 3 {
		t.Fatalf("label address = %d, want 3", addr)
	}
	addressAccounting(t, g, 0)
}

func TestAddEmitsAndAdvancesAddress(t *testing.T) {
	g, _ := newGen()
	g.Add(A, ImmOperand(Constant(5)))
	if len(g.Nodes) == 0 {
		t.Fatal("add should emit nodes")
	}
	addressAccounting(t, g, 0)
}

func TestSubEmitsAndAdvancesAddress(t *testing.T) {
	g, _ := newGen()
	g.Sub(A, RegOperand(B))
	if len(g.Nodes) == 0 {
		t.Fatal("sub should emit nodes")
	}
	addressAccounting(t, g, 0)
}

func TestLihPadsSoJumpOffsetCannotOverflowLowByte(t *testing.T) {
	g, _ := newGen()
	// force the label near the top of a 64-word page before emitting lih
	for g.NextAddress%64 < 60 {
		g.Nop()
	}
	g.Lih(Conditional{Left: RegOperand(A), Kind: CondEq, Right: ImmOperand(Constant(1))},
		Addr{Hi: ImmOperand(Constant(2)), Lo: ImmOperand(Constant(3))})

	addressAccounting(t, g, 0)

	// find the generated unique label and confirm its low byte leaves
	// headroom for the maximum jump offset.
	found := false
	for name, addr := range g.Symbols.addrs {
		if len(name) > 0 && name[0] == '#' {
			found = true
			if addr%64 > 63-maxJumpOffset {
				t.Fatalf("generated label %s at %d leaves no headroom for a %d offset", name, addr, maxJumpOffset)
			}
		}
	}
	if !found {
		t.Fatal("lih should allocate a unique generated label")
	}
}

func TestLihGeneratesUniqueLabelsAcrossCalls(t *testing.T) {
	g, _ := newGen()
	cond := Conditional{Left: RegOperand(A), Kind: CondEq, Right: RegOperand(B)}
	target := Addr{Hi: ImmOperand(Constant(0)), Lo: ImmOperand(Constant(0))}
	g.Lih(cond, target)
	g.Lih(cond, target)

	count := 0
	for name := range g.Symbols.addrs {
		if len(name) > 0 && name[0] == '#' {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 distinct generated labels, got %d", count)
	}
}
