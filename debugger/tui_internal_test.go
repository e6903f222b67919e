package debugger

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/diana-lang/dianac/machine"
)

func newTestTUI() *TUI {
	mem := machine.NewMemory()
	cpu := machine.NewCPU(mem)
	d := New(cpu, "", 0, 0, 0)
	return NewTUI(d)
}

func TestExecuteCommandUpdatesOutputView(t *testing.T) {
	tui := newTestTUI()
	tui.executeCommand("help")
	if !strings.Contains(tui.OutputView.GetText(true), "commands:") {
		t.Fatalf("expected help output in OutputView, got %q", tui.OutputView.GetText(true))
	}
}

func TestExecuteCommandQuitStopsApp(t *testing.T) {
	tui := newTestTUI()
	// executeCommand must not panic when the quit path calls App.Stop
	// before the event loop is running.
	tui.executeCommand("quit")
}

func TestHandleCommandIgnoresNonEnterKey(t *testing.T) {
	tui := newTestTUI()
	tui.CommandInput.SetText("step")
	tui.handleCommand(tcell.KeyEscape) // not KeyEnter: no-op
	if tui.CommandInput.GetText() != "step" {
		t.Fatal("expected non-Enter key to leave the input untouched")
	}
}

func TestRefreshShowsNoProgramWhenCPUNil(t *testing.T) {
	d := New(nil, "", 0, 0, 0)
	tui := NewTUI(d)
	tui.refresh()
	if !strings.Contains(tui.RegisterView.GetText(true), "no program loaded") {
		t.Fatalf("expected placeholder text, got %q", tui.RegisterView.GetText(true))
	}
}
