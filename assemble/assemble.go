// Package assemble lowers a resolved IR sequence into the flat stream of
// 6-bit machine words the emulator executes (spec §3, §4.6).
package assemble

import (
	"github.com/diana-lang/dianac/diag"
	"github.com/diana-lang/dianac/ir"
)

// Op is the 2-bit instruction opcode (bits 5..4 of the word).
type Op byte

const (
	OpNor Op = iota
	OpPc
	OpLoad
	OpStore
)

// Sel is the 2-bit operand selector (bits 3..2 and 1..0).
type Sel byte

const (
	SelA Sel = iota
	SelB
	SelC
	SelImm
)

// Reserved single-word opcodes, stored verbatim with no {op,one,two}
// decode (spec §3).
const (
	WordNop byte = 0b001100
	WordHlt byte = 0b001111
)

func regSel(r ir.Reg) Sel {
	return Sel(r.Encode())
}

func operandSel(o ir.Operand) Sel {
	if o.IsImm {
		return SelImm
	}
	return regSel(o.Reg)
}

// Encode packs an opcode and two operand selectors into one instruction
// word.
func Encode(op Op, one, two Sel) byte {
	return (byte(op) << 4) | (byte(one) << 2) | byte(two)
}

// Decode unpacks an instruction word into its opcode and operand
// selectors. Callers must first check the word against WordNop/WordHlt
// (and the two reserved encodings), since those are stored verbatim and
// are not meaningful {op,one,two} triples.
func Decode(word byte) (op Op, one, two Sel) {
	return Op((word >> 4) & 0b11), Sel((word >> 2) & 0b11), Sel(word & 0b11)
}

// RegFromSel maps a register selector back to an ir.Reg. Callers must not
// pass SelImm.
func RegFromSel(s Sel) ir.Reg {
	switch s {
	case SelA:
		return ir.A
	case SelB:
		return ir.B
	default:
		return ir.C
	}
}

// Assemble lowers nodes against the resolved symbol table into a flat
// word stream, collecting an UndefinedLabel diagnostic (and skipping that
// word) for every immediate that references an unresolved label.
func Assemble(nodes []ir.Node, symbols *ir.SymbolTable) ([]byte, *diag.List) {
	diags := &diag.List{}
	var out []byte

	emit := func(e ir.Expr) {
		v, err := ir.Flatten(e, symbols)
		if err != nil {
			addFlattenError(diags, err)
			return
		}
		out = append(out, v)
	}

	for _, n := range nodes {
		switch node := n.(type) {
		case ir.NopNode:
			out = append(out, WordNop)
		case ir.HltNode:
			out = append(out, WordHlt)
		case ir.SetNode:
			emit(node.Imm)
		case ir.NorNode:
			if node.Operand.IsImm {
				out = append(out, Encode(OpNor, regSel(node.Reg), SelImm))
				emit(node.Operand.Imm)
			} else {
				out = append(out, Encode(OpNor, regSel(node.Reg), regSel(node.Operand.Reg)))
			}
		case ir.PcNode:
			assembleAddr(&out, emit, OpPc, node.Addr)
		case ir.LodNode:
			assembleAddr(&out, emit, OpLoad, node.Addr)
		case ir.StoNode:
			assembleAddr(&out, emit, OpStore, node.Addr)
		}
	}

	return out, diags
}

func assembleAddr(out *[]byte, emit func(ir.Expr), op Op, a ir.Addr) {
	*out = append(*out, Encode(op, operandSel(a.Hi), operandSel(a.Lo)))
	if a.Hi.IsImm {
		emit(a.Hi.Imm)
	}
	if a.Lo.IsImm {
		emit(a.Lo.Imm)
	}
}

func addFlattenError(diags *diag.List, err error) {
	if ue, ok := err.(*ir.UndefinedLabelError); ok {
		diags.Add(diag.Diagnostic{Level: diag.Fatal, Kind: diag.NewUndefinedLabel(ue.Name)})
		return
	}
	diags.Add(diag.Diagnostic{Level: diag.Fatal, Kind: diag.NewParseImmediate(err)})
}
