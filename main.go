package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/diana-lang/dianac/config"
	"github.com/diana-lang/dianac/debugger"
	"github.com/diana-lang/dianac/driver"
	"github.com/diana-lang/dianac/loader"
	"github.com/diana-lang/dianac/machine"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "compile":
		err = runCompile(os.Args[2:])
	case "interpret":
		err = runInterpret(os.Args[2:])
	case "emulate":
		err = runEmulate(os.Args[2:])
	case "repl":
		err = runRepl(os.Args[2:])
	case "-version", "--version", "version":
		fmt.Printf("dianac %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("built: %s\n", Date)
		}
		return
	case "-help", "--help", "help":
		printHelp()
		return
	default:
		fmt.Fprintf(os.Stderr, "dianac: unknown command %q\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "dianac: %v\n", err)
		os.Exit(1)
	}
}

// runCompile implements `compile [--quiet] [--offset N] <source>
// [destination]`: assemble source to a binary on disk. Flags are only
// recognized before the first positional argument.
func runCompile(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	quiet := fs.Bool("quiet", cfg.Assembler.Quiet, "suppress warning diagnostics")
	offset := fs.Int("offset", cfg.Assembler.LoadOffset, "load offset for forward label resolution")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: dianac compile [--quiet] [--offset N] <source> [destination]")
	}

	sourcePath := fs.Arg(0)
	destPath := sourcePath + ".bin"
	if fs.NArg() >= 2 {
		destPath = fs.Arg(1)
	}

	data, err := os.ReadFile(sourcePath) // #nosec G304 -- user-supplied source path
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", sourcePath, err)
	}

	result := driver.Compile(string(data), *offset)
	fmt.Print(result.Render(string(data), *quiet, cfg.Assembler.ColorOutput))
	if !result.OK() {
		return fmt.Errorf("compilation failed")
	}

	if err := driver.WriteBinary(destPath, result); err != nil {
		return err
	}
	if !*quiet {
		fmt.Printf("wrote %d words to %s\n", len(result.Words), destPath)
	}
	return nil
}

// runInterpret implements `interpret [flags] <source>`: compile then
// run to halt without ever writing a binary to disk (the original
// dianac's `interpret` subcommand; see SPEC_FULL.md).
func runInterpret(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fs := flag.NewFlagSet("interpret", flag.ExitOnError)
	quiet := fs.Bool("quiet", cfg.Assembler.Quiet, "suppress warning diagnostics")
	offset := fs.Int("offset", cfg.Assembler.LoadOffset, "load offset")
	maxSteps := fs.Uint64("max-steps", 0, "stop after this many steps (0 = run to halt)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: dianac interpret [--quiet] [--offset N] [--max-steps N] <source>")
	}

	data, err := os.ReadFile(fs.Arg(0)) // #nosec G304 -- user-supplied source path
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", fs.Arg(0), err)
	}

	cpu, result := driver.Interpret(string(data), *offset)
	fmt.Print(result.Render(string(data), *quiet, cfg.Assembler.ColorOutput))
	if !result.OK() {
		return fmt.Errorf("compilation failed")
	}

	steps := cpu.Run(*maxSteps)
	fmt.Printf("halted after %d steps at pc=%d (A=%06b B=%06b C=%06b)\n",
		steps, cpu.Memory.PCValue(), cpu.A, cpu.B, cpu.C)
	return nil
}

// runEmulate implements `emulate [flags] <binary>`: load raw 6-bit machine
// words and run, skipping compilation entirely.
func runEmulate(args []string) error {
	fs := flag.NewFlagSet("emulate", flag.ExitOnError)
	offset := fs.Int("offset", 0, "load offset")
	maxSteps := fs.Uint64("max-steps", 0, "stop after this many steps (0 = run to halt)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: dianac emulate [--offset N] [--max-steps N] <binary>")
	}

	words, err := loader.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	cpu := loader.NewMachine(words, *offset)
	steps := cpu.Run(*maxSteps)
	fmt.Printf("halted after %d steps at pc=%d (A=%06b B=%06b C=%06b)\n",
		steps, cpu.Memory.PCValue(), cpu.A, cpu.B, cpu.C)
	return nil
}

// runRepl implements `repl [--offset N] [--tui] [source]`: spec.md
// §6's interactive driver, optionally in a tview/tcell dashboard
// instead of the line-mode interface.
func runRepl(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	offset := fs.Int("offset", 0, "load offset for the initial program, if any")
	tui := fs.Bool("tui", false, "use the full-screen dashboard instead of the line REPL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var cpu *machine.CPU
	var source string
	if fs.NArg() >= 1 {
		data, err := os.ReadFile(fs.Arg(0)) // #nosec G304 -- user-supplied source path
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", fs.Arg(0), err)
		}
		result := driver.Compile(string(data), *offset)
		fmt.Print(result.Render(string(data), cfg.Assembler.Quiet, cfg.Assembler.ColorOutput))
		if !result.OK() {
			return fmt.Errorf("compilation failed")
		}
		cpu = loader.NewMachine(result.Words, *offset)
		source = string(data)
	} else {
		cpu = loader.NewMachine(nil, *offset)
	}

	dbg := debugger.New(cpu, source, *offset, cfg.REPL.DefaultClockHz, cfg.REPL.HistorySize)

	if *tui {
		return debugger.RunTUI(dbg)
	}

	fmt.Println("dianac repl - type 'help' for commands")
	return debugger.RunCLI(dbg, os.Stdin, os.Stdout)
}

func printHelp() {
	fmt.Printf(`dianac %s - Diana Compiled Language toolchain

Usage:
  dianac compile [--quiet] [--offset N] <source> [destination]
  dianac interpret [--quiet] [--offset N] [--max-steps N] <source>
  dianac emulate [--offset N] [--max-steps N] <binary>
  dianac repl [--offset N] [--tui] [source]
  dianac version
  dianac help

Flags go before the positional arguments; anything after the first
positional argument is not parsed as a flag.

Commands:
  compile     Assemble a source file to a binary word stream
  interpret   Compile and run to halt without writing a binary
  emulate     Load a precompiled binary and run, no compilation
  repl        Start the interactive driver (line mode, or --tui for a
              full-screen dashboard)

REPL commands (once inside 'dianac repl'):
  run|r [hz]               step until halt, optionally at hz steps/sec
  step|s                   single step
  interpret|i <path> [off] compile and load at offset
  help|h                   this message
  quit|q                   exit

Examples:
  dianac compile prog.dcl prog.bin
  dianac interpret prog.dcl
  dianac emulate --offset 16 prog.bin
  dianac repl --tui prog.dcl
`, Version)
}
