package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the full-screen dashboard mode of `repl --tui`: a register
// panel, a memory window, a source/disassembly panel, an output log,
// and a command line, modeled on the teacher's panel layout and
// scaled down to three registers and one flat memory space.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	RegisterView *tview.TextView
	MemoryView   *tview.TextView
	SourceView   *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField

	MemoryAddress int
}

// NewTUI builds the dashboard around an already-loaded debugger.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{Debugger: d, App: tview.NewApplication()}
	t.initializeViews()
	t.buildLayout()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ")
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
	t.CommandInput.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			if cmd := t.Debugger.History.Previous(); cmd != "" {
				t.CommandInput.SetText(cmd)
			}
			return nil
		case tcell.KeyDown:
			t.CommandInput.SetText(t.Debugger.History.Next())
			return nil
		}
		return event
	})
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.SourceView, 0, 2, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(t.RegisterView, 7, 0, false).
			AddItem(t.MemoryView, 0, 1, false), 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.App.SetRoot(layout, true).SetFocus(t.CommandInput)
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			t.App.Stop()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.CommandInput.SetText("")
	t.executeCommand(cmd)
}

func (t *TUI) executeCommand(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	if output := t.Debugger.GetOutput(); output != "" {
		fmt.Fprint(t.OutputView, output)
	}
	if err == ErrQuit {
		t.App.Stop()
		return
	}
	if err != nil {
		fmt.Fprintf(t.OutputView, "[red]error:[white] %v\n", err)
	}
	t.refresh()
}

func (t *TUI) refresh() {
	d := t.Debugger
	if d.CPU == nil {
		t.RegisterView.SetText("no program loaded")
		return
	}
	t.RegisterView.SetText(fmt.Sprintf(
		"A  %06b\nB  %06b\nC  %06b\npc %04d",
		d.CPU.A, d.CPU.B, d.CPU.C, d.CPU.Memory.PCValue(),
	))

	var mem strings.Builder
	base := t.MemoryAddress
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&mem, "%04d: ", base+row*8)
		for col := 0; col < 8; col++ {
			fmt.Fprintf(&mem, "%06b ", d.CPU.Memory.Read(base+row*8+col))
		}
		mem.WriteByte('\n')
	}
	t.MemoryView.SetText(mem.String())

	t.SourceView.SetText(d.Source)
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	t.refresh()
	return t.App.Run()
}

// RunTUI launches the full-screen dashboard over an already-loaded
// debugger.
func RunTUI(d *Debugger) error {
	return NewTUI(d).Run()
}
