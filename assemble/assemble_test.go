package assemble

import (
	"testing"

	"github.com/diana-lang/dianac/ir"
)

func TestEncodeDecodeRoundTrips(t *testing.T) {
	for op := OpNor; op <= OpStore; op++ {
		for one := SelA; one <= SelImm; one++ {
			for two := SelA; two <= SelImm; two++ {
				w := Encode(op, one, two)
				gotOp, gotOne, gotTwo := Decode(w)
				if gotOp != op || gotOne != one || gotTwo != two {
					t.Fatalf("round trip {%v,%v,%v} -> %06b -> {%v,%v,%v}", op, one, two, w, gotOp, gotOne, gotTwo)
				}
			}
		}
	}
}

func TestNopAndHltAreReservedWords(t *testing.T) {
	out, diags := Assemble([]ir.Node{ir.NopNode{}, ir.HltNode{}}, ir.NewSymbolTable())
	if diags.HasFatal() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics)
	}
	if len(out) != 2 || out[0] != WordNop || out[1] != WordHlt {
		t.Fatalf("got %v, want [NOP, HLT]", out)
	}
}

func TestNorWithRegisterIsOneWord(t *testing.T) {
	nodes := []ir.Node{ir.NorNode{Reg: ir.A, Operand: ir.RegOperand(ir.A)}}
	out, diags := Assemble(nodes, ir.NewSymbolTable())
	if diags.HasFatal() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 word, got %d", len(out))
	}
	op, one, two := Decode(out[0])
	if op != OpNor || one != SelA || two != SelA {
		t.Fatalf("decoded {%v,%v,%v}, want {OpNor,SelA,SelA}", op, one, two)
	}
}

func TestNorWithImmediateIsTwoWords(t *testing.T) {
	nodes := []ir.Node{ir.NorNode{Reg: ir.B, Operand: ir.ImmOperand(ir.Constant(0b101010))}}
	out, diags := Assemble(nodes, ir.NewSymbolTable())
	if diags.HasFatal() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 words, got %d", len(out))
	}
	op, one, two := Decode(out[0])
	if op != OpNor || one != SelB || two != SelImm {
		t.Fatalf("decoded {%v,%v,%v}, want {OpNor,SelB,SelImm}", op, one, two)
	}
	if out[1] != 0b101010 {
		t.Fatalf("payload = %06b, want 101010", out[1])
	}
}

func TestPcWithTwoImmediateHalvesIsThreeWords(t *testing.T) {
	addr := ir.Addr{Hi: ir.ImmOperand(ir.Constant(1)), Lo: ir.ImmOperand(ir.Constant(2))}
	out, diags := Assemble([]ir.Node{ir.PcNode{Addr: addr}}, ir.NewSymbolTable())
	if diags.HasFatal() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 words, got %d", len(out))
	}
	if out[1] != 1 || out[2] != 2 {
		t.Fatalf("payloads = %v, want [1 2]", out[1:])
	}
}

func TestPcWithRegisterHalvesIsOneWord(t *testing.T) {
	addr := ir.Addr{Hi: ir.RegOperand(ir.A), Lo: ir.RegOperand(ir.B)}
	out, diags := Assemble([]ir.Node{ir.PcNode{Addr: addr}}, ir.NewSymbolTable())
	if diags.HasFatal() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 word, got %d", len(out))
	}
}

func TestUndefinedLabelReportsDiagnostic(t *testing.T) {
	nodes := []ir.Node{ir.SetNode{Imm: ir.LabelHi{Name: "missing"}}}
	_, diags := Assemble(nodes, ir.NewSymbolTable())
	if !diags.HasFatal() {
		t.Fatal("expected a fatal diagnostic for an undefined label")
	}
}

func TestSetResolvesDefinedLabel(t *testing.T) {
	symbols := ir.NewSymbolTable()
	symbols.Define("here", 0b000001_000010)
	nodes := []ir.Node{
		ir.SetNode{Imm: ir.LabelHi{Name: "here"}},
		ir.SetNode{Imm: ir.LabelLo{Name: "here"}},
	}
	out, diags := Assemble(nodes, symbols)
	if diags.HasFatal() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics)
	}
	if len(out) != 2 || out[0] != 0b000001 || out[1] != 0b000010 {
		t.Fatalf("got %06b %06b, want 000001 000010", out[0], out[1])
	}
}

func TestStoreOfImmediateAddressEmitsPayloadsInOrder(t *testing.T) {
	addr := ir.Addr{Hi: ir.ImmOperand(ir.Constant(0b111111)), Lo: ir.RegOperand(ir.C)}
	out, diags := Assemble([]ir.Node{ir.StoNode{Addr: addr}}, ir.NewSymbolTable())
	if diags.HasFatal() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 words (op + hi payload), got %d", len(out))
	}
	op, one, two := Decode(out[0])
	if op != OpStore || one != SelImm || two != SelC {
		t.Fatalf("decoded {%v,%v,%v}, want {OpStore,SelImm,SelC}", op, one, two)
	}
	if out[1] != 0b111111 {
		t.Fatalf("payload = %06b, want 111111", out[1])
	}
}
