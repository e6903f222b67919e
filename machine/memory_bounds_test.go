package machine_test

import (
	"testing"

	"github.com/diana-lang/dianac/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The RAM segment ends at 0xF3D; above it, writes are dropped and reads
// come from the pc mirrors, the rotation ports, or (0xF40..0xF7F) zero.

func TestMemory_RAMBoundary(t *testing.T) {
	tests := []struct {
		name string
		addr int
	}{
		{"RAM start", 0x000},
		{"RAM middle", 0x800},
		{"last RAM word", 0xF3D},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := machine.NewMemory()
			mem.Write(tt.addr, 0b101010)
			assert.Equal(t, byte(0b101010), mem.Read(tt.addr), "write/read round trip inside RAM")
		})
	}
}

func TestMemory_PCMirrorIsReadOnly(t *testing.T) {
	mem := machine.NewMemory()
	mem.SetPC(0xABC)
	require.Equal(t, 0xABC, mem.PCValue(), "SetPC should be reflected by PCValue")

	mem.Write(0xF3E, 0b111111)
	mem.Write(0xF3F, 0b111111)
	assert.Equal(t, mem.PCHi(), mem.Read(0xF3E), "writes to the pc-hi mirror should not stick")
	assert.Equal(t, mem.PCLo(), mem.Read(0xF3F), "writes to the pc-lo mirror should not stick")
}

func TestMemory_RotationPortsDeriveFromAddress(t *testing.T) {
	mem := machine.NewMemory()

	tests := []struct {
		name string
		addr int
	}{
		{"rotate-left port low end", 0xF80},
		{"rotate-left port high end", 0xFBF},
		{"rotate-right port low end", 0xFC0},
		{"rotate-right port high end", 0xFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem.Write(tt.addr, 0) // writes outside RAM must not change the port's reading
			before := mem.Read(tt.addr)
			mem.Write(tt.addr, 0b111111)
			assert.Equal(t, before, mem.Read(tt.addr), "rotation ports ignore writes, derive purely from the address")
		})
	}
}
