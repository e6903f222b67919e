package diag

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the severity of a Diagnostic. Fatal sorts before Warning so that
// "quiet" (Fatal only) and "verbose" (Fatal and Warning) filters are a
// simple `<=` comparison, mirroring the original compiler's DiagLevel.
type Level int

const (
	Fatal Level = iota
	Warning
)

func (l Level) String() string {
	switch l {
	case Fatal:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// KindTag enumerates the diagnostic kinds of spec.md §3.
type KindTag int

const (
	DuplicateLabel KindTag = iota
	UndefinedLabel
	UnexpectedToken
	ParseImmediate
	IncompleteCharacter
	UnsupportedCharacter
)

// Kind carries a KindTag plus whatever data that kind needs to render a
// useful message. Only the fields relevant to Tag are populated.
type Kind struct {
	Tag      KindTag
	Label    string // DuplicateLabel, UndefinedLabel
	Found    string // UnexpectedToken
	Expected string // UnexpectedToken
	IntErr   error  // ParseImmediate
	Char     byte   // UnsupportedCharacter
}

func NewDuplicateLabel(name string) Kind       { return Kind{Tag: DuplicateLabel, Label: name} }
func NewUndefinedLabel(name string) Kind       { return Kind{Tag: UndefinedLabel, Label: name} }
func NewIncompleteCharacter() Kind             { return Kind{Tag: IncompleteCharacter} }
func NewUnsupportedCharacter(c byte) Kind      { return Kind{Tag: UnsupportedCharacter, Char: c} }
func NewParseImmediate(err error) Kind         { return Kind{Tag: ParseImmediate, IntErr: err} }
func NewUnexpectedToken(found, expected string) Kind {
	return Kind{Tag: UnexpectedToken, Found: found, Expected: expected}
}

func (k Kind) String() string {
	switch k.Tag {
	case DuplicateLabel:
		return "duplicate_label"
	case UndefinedLabel:
		return "undefined_label"
	case UnexpectedToken:
		return "unexpected_token"
	case ParseImmediate:
		return "parse_immediate"
	case IncompleteCharacter:
		return "incomplete_character"
	case UnsupportedCharacter:
		return "unsupported_character"
	default:
		return "unknown_kind"
	}
}

// Help returns a one-line remediation hint, the same job as the original
// compiler's DiagKind::help().
func (k Kind) Help() string {
	switch k.Tag {
	case DuplicateLabel:
		return fmt.Sprintf("label %q is already defined", k.Label)
	case UndefinedLabel:
		return fmt.Sprintf("label %q is never defined", k.Label)
	case UnexpectedToken:
		return fmt.Sprintf("expected %s, found %s", k.Expected, k.Found)
	case ParseImmediate:
		return fmt.Sprintf("error parsing immediate: %v", k.IntErr)
	case IncompleteCharacter:
		return "character literal is missing its closing quote"
	case UnsupportedCharacter:
		return fmt.Sprintf("character %s is not in the codec", strconv.QuoteRune(rune(k.Char)))
	default:
		return ""
	}
}

// Diagnostic is one error or warning anchored to a source span.
type Diagnostic struct {
	Level Level
	Span  Span
	Kind  Kind
}

// ansiForLevel returns the raw escape sequence used to color a
// diagnostic's header and caret run: red for Fatal, yellow for Warning.
func ansiForLevel(level Level) string {
	if level == Fatal {
		return "\x1b[31m"
	}
	return "\x1b[33m"
}

const ansiReset = "\x1b[0m"

// Render produces a caret-underlined diagnostic block, in the spirit of the
// original dianac compiler's rustc-style emit(): a header, a source line,
// a caret run under the offending span, and a help line. When colored is
// true the header and carets carry raw ANSI escapes gated by the driver's
// config (config.Assembler.ColorOutput), never by a color library (see
// DESIGN.md).
func (d Diagnostic) Render(source string, colored bool) string {
	line, col, lineText, lineStart := locate(source, d.Span.Start)

	header := fmt.Sprintf("%s: %s", d.Level, d.Kind)
	width := d.Span.End - d.Span.Start
	if width < 1 {
		width = 1
	}
	carets := strings.Repeat("^", width)
	if colored {
		ansi := ansiForLevel(d.Level)
		header = ansi + header + ansiReset
		carets = ansi + carets + ansiReset
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", header)
	fmt.Fprintf(&b, "  --> line %d, column %d\n", line, col)
	fmt.Fprintf(&b, "   |\n")
	fmt.Fprintf(&b, "%3d| %s\n", line, lineText)
	fmt.Fprintf(&b, "   | %s%s\n", strings.Repeat(" ", d.Span.Start-lineStart), carets)
	fmt.Fprintf(&b, "   = help: %s\n", d.Kind.Help())
	return b.String()
}

// locate finds the 1-based line/column of a byte offset and returns the
// full text of that line along with its starting offset.
func locate(source string, offset int) (line, col int, lineText string, lineStart int) {
	line = 1
	lineStart = 0
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := lineStart
	for lineEnd < len(source) && source[lineEnd] != '\n' {
		lineEnd++
	}
	col = offset - lineStart + 1
	return line, col, source[lineStart:lineEnd], lineStart
}

// List collects diagnostics in source order, matching the teacher's
// ErrorList ("diagnostics are appended in source order", spec.md §5).
type List struct {
	Diagnostics []Diagnostic
}

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	l.Diagnostics = append(l.Diagnostics, d)
}

// HasFatal reports whether any diagnostic at Fatal level is present.
func (l *List) HasFatal() bool {
	for _, d := range l.Diagnostics {
		if d.Level == Fatal {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics at or above the given level's importance
// (Fatal is always included; Warning only when level >= Warning).
func (l *List) Filter(level Level) []Diagnostic {
	out := make([]Diagnostic, 0, len(l.Diagnostics))
	for _, d := range l.Diagnostics {
		if d.Level <= level {
			out = append(out, d)
		}
	}
	return out
}
