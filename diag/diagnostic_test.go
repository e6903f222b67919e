package diag

import (
	"strings"
	"testing"
)

func TestRenderPointsAtSpan(t *testing.T) {
	src := "LAB start\nADD A 5\n"
	d := Diagnostic{
		Level: Fatal,
		Span:  Span{Start: 10, End: 13}, // "ADD"
		Kind:  NewUnexpectedToken("ADD", "identifier"),
	}
	out := d.Render(src, false)
	if !strings.Contains(out, "ADD A 5") {
		t.Fatalf("render should include the offending line, got: %s", out)
	}
	if !strings.Contains(out, "^^^") {
		t.Fatalf("render should underline the 3-byte span, got: %s", out)
	}
}

func TestRenderColoredWrapsInANSI(t *testing.T) {
	src := "ADD A 5\n"
	d := Diagnostic{
		Level: Fatal,
		Span:  Span{Start: 0, End: 3},
		Kind:  NewUnexpectedToken("ADD", "identifier"),
	}
	out := d.Render(src, true)
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("colored render should contain an ANSI escape, got: %s", out)
	}
	plain := d.Render(src, false)
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("uncolored render should not contain an ANSI escape, got: %s", plain)
	}
}

func TestListFilter(t *testing.T) {
	var l List
	l.Add(Diagnostic{Level: Fatal, Kind: NewUndefinedLabel("x")})
	l.Add(Diagnostic{Level: Warning, Kind: NewDuplicateLabel("y")})

	if !l.HasFatal() {
		t.Fatal("expected HasFatal true")
	}
	if got := len(l.Filter(Fatal)); got != 1 {
		t.Fatalf("quiet filter should keep only fatal diagnostics, got %d", got)
	}
	if got := len(l.Filter(Warning)); got != 2 {
		t.Fatalf("verbose filter should keep all diagnostics, got %d", got)
	}
}
