// Package loader moves a compiled machine-word stream between disk and
// machine.Memory (spec §4.6's binary format, spec §4.7's "pre-loaded
// data slice copied into RAM at the configured load offset").
package loader

import (
	"fmt"
	"os"

	"github.com/diana-lang/dianac/machine"
)

// ReadFile reads a compiled binary: a packed stream of 6-bit values, one
// per byte, each with its two high bits zero (spec §4.6).
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied program path
	if err != nil {
		return nil, fmt.Errorf("failed to read binary %q: %w", path, err)
	}
	for i, b := range data {
		if b&0xC0 != 0 {
			return nil, fmt.Errorf("binary %q: byte %d (%#02x) has non-zero high bits, not a valid 6-bit word", path, i, b)
		}
	}
	return data, nil
}

// WriteFile writes a compiled word stream to path in the same format
// ReadFile expects.
func WriteFile(path string, words []byte) error {
	if err := os.WriteFile(path, words, 0644); err != nil {
		return fmt.Errorf("failed to write binary %q: %w", path, err)
	}
	return nil
}

// NewMachine builds a ready-to-run CPU: words are copied into RAM
// starting at offset and the program counter is set to offset.
func NewMachine(words []byte, offset int) *machine.CPU {
	mem := machine.NewMemory()
	mem.Load(words, offset)
	mem.SetPC(offset)
	return machine.NewCPU(mem)
}
