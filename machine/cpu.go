package machine

import (
	"github.com/diana-lang/dianac/assemble"
	"github.com/diana-lang/dianac/ir"
)

// Reserved single-word opcodes (spec §3): NOP and HLT are defined; the
// other two encodings in that range are reserved and, per spec.md's
// design notes, are treated as halt-equivalents pending a real
// definition.
const (
	wordNop       = assemble.WordNop
	wordHlt       = assemble.WordHlt
	wordReserved1 = 0b001101
	wordReserved2 = 0b001110
)

func isHaltWord(w byte) bool {
	return w == wordHlt || w == wordReserved1 || w == wordReserved2
}

// CPU is the three-register NOR machine. Its program counter lives on
// Memory (see memory.go); CPU only holds the general-purpose registers
// and the cycle count.
type CPU struct {
	A, B, C byte
	Memory  *Memory
	Cycles  uint64
}

// NewCPU returns a CPU with all registers zeroed, driving mem.
func NewCPU(mem *Memory) *CPU {
	return &CPU{Memory: mem}
}

// Reset zeroes the registers and cycle count; it does not touch memory
// or the program counter.
func (c *CPU) Reset() {
	c.A, c.B, c.C = 0, 0, 0
	c.Cycles = 0
}

func (c *CPU) register(s assemble.Sel) byte {
	switch assemble.RegFromSel(s) {
	case ir.A:
		return c.A
	case ir.B:
		return c.B
	default:
		return c.C
	}
}

func (c *CPU) setRegister(s assemble.Sel, v byte) {
	switch assemble.RegFromSel(s) {
	case ir.A:
		c.A = v
	case ir.B:
		c.B = v
	default:
		c.C = v
	}
}

// Halted reports whether the word currently at the program counter is
// HLT or one of the reserved halt-equivalent encodings, i.e. whether a
// run loop should stop before stepping onto it (spec.md's
// run-until-halt leaves pc pointing at the HLT word).
func (c *CPU) Halted() bool {
	return isHaltWord(c.Memory.Read(c.Memory.PCValue()))
}

// Step executes exactly one instruction (spec §4.7). Called directly on
// a halt word it just advances past it, matching the literal step
// algorithm; callers that want run-until-halt semantics should use Run
// or check Halted first.
func (c *CPU) Step() {
	base := c.Memory.PCValue()
	word := c.Memory.Read(base)

	if word == wordNop || isHaltWord(word) {
		c.Memory.SetPC(base + 1)
		c.Cycles++
		return
	}

	op, oneSel, twoSel := assemble.Decode(word)

	cursor := base + 1
	readOperand := func(sel assemble.Sel) byte {
		if sel == assemble.SelImm {
			v := c.Memory.Read(cursor)
			cursor++
			return v
		}
		return c.register(sel)
	}

	one := readOperand(oneSel)
	two := readOperand(twoSel)
	newPC := cursor

	switch op {
	case assemble.OpNor:
		// spec §4.7: "one" must name a register, never Imm.
		if oneSel != assemble.SelImm {
			c.setRegister(oneSel, ^(one | two) & 0x3F)
		}
		c.Memory.SetPC(newPC)
	case assemble.OpPc:
		c.Memory.SetPC(int(one&0x3F)<<6 | int(two&0x3F))
	case assemble.OpLoad:
		addr := int(one&0x3F)<<6 | int(two&0x3F)
		c.C = c.Memory.Read(addr)
		c.Memory.SetPC(newPC)
	case assemble.OpStore:
		addr := int(one&0x3F)<<6 | int(two&0x3F)
		c.Memory.Write(addr, c.C)
		c.Memory.SetPC(newPC)
	}

	c.Cycles++
}

// Run steps until the program counter reaches a halt word, returning the
// number of steps taken. maxSteps bounds runaway programs; 0 means
// unbounded.
func (c *CPU) Run(maxSteps uint64) uint64 {
	var steps uint64
	for !c.Halted() {
		c.Step()
		steps++
		if maxSteps != 0 && steps >= maxSteps {
			break
		}
	}
	return steps
}
