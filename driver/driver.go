// Package driver is the pipeline glue between the compiler and the
// emulator: lex, parse, generate, assemble, and decide whether a binary
// was produced (spec §7).
package driver

import (
	"strings"

	"github.com/diana-lang/dianac/assemble"
	"github.com/diana-lang/dianac/diag"
	"github.com/diana-lang/dianac/ir"
	"github.com/diana-lang/dianac/loader"
	"github.com/diana-lang/dianac/machine"
	"github.com/diana-lang/dianac/parser"
)

// Result is everything one compilation run produces.
type Result struct {
	Words   []byte
	Symbols *ir.SymbolTable
	Diags   *diag.List
}

// OK reports whether the run produced a usable binary (no Fatal
// diagnostics), mirroring spec §7's "a run produces either a binary
// (Fatal count = 0) or no binary plus a non-empty diagnostic list".
func (r Result) OK() bool {
	return !r.Diags.HasFatal()
}

// Compile runs source through the full pipeline, assembling against the
// generator's own symbol table so forward label references resolve.
func Compile(source string, offset int) Result {
	nodes, symbols, diags := parser.New(source, offset).Parse()
	words, asmDiags := assemble.Assemble(nodes, symbols)
	diags.Diagnostics = append(diags.Diagnostics, asmDiags.Diagnostics...)
	return Result{Words: words, Symbols: symbols, Diags: diags}
}

// Render formats every diagnostic at or above quiet's level as a
// caret-underlined block against source. colored gates raw ANSI escapes
// in the header and caret run (config.Assembler.ColorOutput).
func (r Result) Render(source string, quiet bool, colored bool) string {
	level := diag.Warning
	if quiet {
		level = diag.Fatal
	}
	var b strings.Builder
	for _, d := range r.Diags.Filter(level) {
		b.WriteString(d.Render(source, colored))
	}
	return b.String()
}

// WriteBinary persists a successful compile's word stream, refusing a
// Result that still carries Fatal diagnostics.
func WriteBinary(path string, r Result) error {
	if !r.OK() {
		return errFatalDiagnostics
	}
	return loader.WriteFile(path, r.Words)
}

var errFatalDiagnostics = diagError("refusing to write a binary with fatal diagnostics")

type diagError string

func (e diagError) Error() string { return string(e) }

// Interpret compiles source and, if it produced a usable binary, loads
// it straight into a running machine at offset without touching disk
// (the original `dianac interpret` subcommand, dropped from spec.md's
// own CLI surface but cheap to keep; see SPEC_FULL.md).
func Interpret(source string, offset int) (*machine.CPU, Result) {
	result := Compile(source, offset)
	if !result.OK() {
		return nil, result
	}
	return loader.NewMachine(result.Words, offset), result
}
