package debugger

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/diana-lang/dianac/driver"
)

// ErrQuit is returned by ExecuteCommand for `quit`/`q`, the signal for
// RunCLI and the TUI to stop.
var ErrQuit = errors.New("quit")

// ExecuteCommand dispatches one REPL line per spec §6's command set:
// run|r [hz], step|s, interpret|i <path> [offset], help|h, quit|q.
func (d *Debugger) ExecuteCommand(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	d.History.Add(line)

	switch strings.ToLower(fields[0]) {
	case "run", "r":
		return d.cmdRun(fields[1:])
	case "step", "s":
		return d.cmdStep()
	case "interpret", "i":
		return d.cmdInterpret(fields[1:])
	case "help", "h":
		return d.cmdHelp()
	case "quit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
}

func (d *Debugger) cmdRun(args []string) error {
	if d.CPU == nil {
		return errNoProgram
	}
	hz := d.ClockHz
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid clock rate %q: %w", args[0], err)
		}
		hz = v
	}

	var delay time.Duration
	if hz > 0 {
		delay = time.Second / time.Duration(hz)
	}

	for !d.CPU.Halted() {
		d.CPU.Step()
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	d.Printf("halted at pc=%d (A=%06b B=%06b C=%06b)\n", d.CPU.Memory.PCValue(), d.CPU.A, d.CPU.B, d.CPU.C)
	return nil
}

func (d *Debugger) cmdStep() error {
	if d.CPU == nil {
		return errNoProgram
	}
	d.CPU.Step()
	d.Printf("pc=%d A=%06b B=%06b C=%06b\n", d.CPU.Memory.PCValue(), d.CPU.A, d.CPU.B, d.CPU.C)
	return nil
}

func (d *Debugger) cmdInterpret(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: interpret <path> [offset]")
	}
	path := args[0]
	offset := 0
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid offset %q: %w", args[1], err)
		}
		offset = v
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied source path
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}

	result := driver.Compile(string(data), offset)
	d.Printf("%s", result.Render(string(data), false, false))
	if !result.OK() {
		return fmt.Errorf("compilation failed, see diagnostics above")
	}

	d.LoadInterpreted(result.Words, offset)
	d.Source = string(data)
	d.Printf("loaded %q at offset %d\n", path, offset)
	return nil
}

func (d *Debugger) cmdHelp() error {
	d.Printf("commands:\n")
	d.Printf("  run|r [hz]               step until halt, optionally at hz steps/sec\n")
	d.Printf("  step|s                   single step\n")
	d.Printf("  interpret|i <path> [off] compile and load at offset\n")
	d.Printf("  help|h                   this message\n")
	d.Printf("  quit|q                   exit\n")
	return nil
}

var errNoProgram = errors.New("no program loaded (use interpret)")
