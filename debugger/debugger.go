// Package debugger implements the interactive REPL of spec §6: a
// line-mode interface and an optional tview/tcell full-screen dashboard
// driving a machine.CPU.
package debugger

import (
	"fmt"
	"strings"

	"github.com/diana-lang/dianac/loader"
	"github.com/diana-lang/dianac/machine"
)

// Debugger owns the running machine plus whatever source produced it;
// the source text is what the TUI's source panel displays.
type Debugger struct {
	CPU     *machine.CPU
	Source  string
	Offset  int
	ClockHz int
	History *CommandHistory

	output strings.Builder
}

// New wraps an already-loaded machine. historySize comes from
// config.REPL.HistorySize; callers without a config may pass 0 for the
// default.
func New(cpu *machine.CPU, source string, offset int, clockHz int, historySize int) *Debugger {
	return &Debugger{
		CPU:     cpu,
		Source:  source,
		Offset:  offset,
		ClockHz: clockHz,
		History: NewCommandHistory(historySize),
	}
}

// Printf appends formatted text to the pending output buffer, drained by
// GetOutput after each command (mirroring the teacher's Debugger.Output
// accumulate-then-flush pattern).
func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.output, format, args...)
}

// GetOutput returns and clears the accumulated output.
func (d *Debugger) GetOutput() string {
	s := d.output.String()
	d.output.Reset()
	return s
}

// LoadInterpreted loads already-compiled words at offset, replacing the
// current machine. Used by the `interpret` command after it compiles.
func (d *Debugger) LoadInterpreted(words []byte, offset int) {
	d.CPU = loader.NewMachine(words, offset)
	d.Offset = offset
}
