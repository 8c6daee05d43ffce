package diag

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/dis-lang/disc/internal/source"
)

// Formatter renders diagnostics as "error: <message>" followed by a
// gutter-barred source snippet, squiggle-underlined at the primary
// location, with secondary spans rendered the same way beneath it.
//
// Multi-line spans use the /-, |, \- gutter convention: the first line
// gets a /-, interior lines get |, and the last line gets \-.
type Formatter struct {
	// NoColor disables ANSI coloring so golden output (tests, the
	// --flip-error-code negative-test path) stays byte-for-byte
	// deterministic.
	NoColor bool
}

// NewFormatter builds a color-enabled formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) colorize(c *color.Color, text string) string {
	if f.NoColor {
		return text
	}
	return c.Sprint(text)
}

// Format renders a single diagnostic.
func (f *Formatter) Format(d Diagnostic) string {
	var headColor *color.Color
	var label string
	if d.Severity == SeverityWarning {
		headColor = color.New(color.FgYellow)
		label = "warning"
	} else {
		headColor = color.New(color.FgRed)
		label = "error"
	}

	var b strings.Builder
	b.WriteString(f.colorize(headColor, fmt.Sprintf("%s: %s", label, d.Message)))
	b.WriteString("\n")
	b.WriteString(f.formatMessage(d.Primary, "", headColor))

	for _, sec := range d.Secondary {
		b.WriteString("\n")
		b.WriteString(f.formatMessage(sec.Location, sec.Label, color.New(color.FgCyan)))
	}

	return b.String()
}

// FormatReport renders every warning, then every error, in source order,
// matching the user-visible ordering the error handling design requires.
func (f *Formatter) FormatReport(r *Report) string {
	var b strings.Builder
	for _, w := range inSourceOrder(r.Warnings) {
		b.WriteString(f.Format(w))
		b.WriteString("\n\n")
	}
	for _, e := range inSourceOrder(r.Errors) {
		b.WriteString(f.Format(e))
		b.WriteString("\n\n")
	}
	return b.String()
}

// inSourceOrder returns a copy of ds stably sorted by primary location.
func inSourceOrder(ds []Diagnostic) []Diagnostic {
	out := append([]Diagnostic(nil), ds...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Primary.Begin < out[j].Primary.Begin })
	return out
}

func (f *Formatter) formatMessage(loc source.Location, comment string, squiggle *color.Color) string {
	header := locationText(loc)
	lines := loc.SplitLines()
	digits := lineDigits(lines)

	var content string
	if len(lines) == 1 {
		content = f.formatSingleLine(loc, comment, squiggle, digits)
	} else {
		content = f.formatMultiLine(lines, comment, squiggle, digits)
	}
	return header + "\n" + content
}

func (f *Formatter) formatSingleLine(loc source.Location, comment string, squiggle *color.Color, digits int) string {
	line := loc.BeginLine()
	_, col := loc.BeginLineAndColumn()
	prefix := fmt.Sprintf("%*d | ", digits, line+1)
	text := loc.Source.Line(line)
	underlinePrefix := strings.Repeat(" ", len(prefix)+col)
	underline := f.colorize(squiggle, strings.Repeat("^", max(1, loc.Len())))
	out := prefix + text + "\n" + underlinePrefix + underline
	if comment != "" {
		out += "\n" + comment
	}
	return out
}

func (f *Formatter) formatMultiLine(lines []source.Location, comment string, squiggle *color.Color, digits int) string {
	srcLines := make([]string, len(lines))
	for i, l := range lines {
		srcLines[i] = l.Source.Line(l.BeginLine())
	}

	_, firstCol := lines[0].BeginLineAndColumn()
	firstUnderline := f.colorize(squiggle, strings.Repeat("-", firstCol)+strings.Repeat("^", lines[0].Len()))
	lastUnderline := f.colorize(squiggle, strings.Repeat("^", lines[len(lines)-1].Len()))

	rendered := append([]string{srcLines[0], firstUnderline}, srcLines[1:]...)
	rendered = append(rendered, lastUnderline)

	for i := range rendered {
		switch {
		case i == 0:
			rendered[i] = "  " + rendered[i]
		case i == 1:
			rendered[i] = f.colorize(squiggle, "/-") + rendered[i]
		case i == len(rendered)-1:
			rendered[i] = f.colorize(squiggle, "\\-") + rendered[i]
		default:
			rendered[i] = f.colorize(squiggle, "| ") + rendered[i]
		}
	}

	prefixes := make([]string, 0, len(rendered))
	prefixes = append(prefixes, fmt.Sprintf("%*d | ", digits, lines[0].BeginLine()+1))
	prefixes = append(prefixes, strings.Repeat(" ", digits)+" | ")
	for _, l := range lines[1:] {
		prefixes = append(prefixes, fmt.Sprintf("%*d | ", digits, l.BeginLine()+1))
	}
	prefixes = append(prefixes, strings.Repeat(" ", digits)+" | ")

	for i := range rendered {
		if i < len(prefixes) {
			rendered[i] = prefixes[i] + rendered[i]
		}
	}

	out := strings.Join(rendered, "\n")
	if comment != "" {
		out += "\n" + comment
	}
	return out
}

func locationText(loc source.Location) string {
	line, col := loc.BeginLineAndColumn()
	name := "<unknown>"
	if loc.Source != nil {
		name = loc.Source.Name
	}
	return fmt.Sprintf("--> file %s, line %d, column %d", name, line+1, col+1)
}

func lineDigits(lines []source.Location) int {
	maxLine := 0
	for _, l := range lines {
		if n := l.BeginLine() + 1; n > maxLine {
			maxLine = n
		}
	}
	return len(strconv.Itoa(maxLine))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
