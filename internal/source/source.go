// Package source carries source text and resolves byte offsets into
// line/column positions and multi-line spans for diagnostics.
package source

import "fmt"

// Source holds a named source file's full text plus precomputed
// line-start offsets so any half-open byte range resolves to
// (line, column) without rescanning the text.
type Source struct {
	Name string
	Text string

	lineStarts []int
}

// New builds a Source and precomputes its line table.
func New(name, text string) *Source {
	s := &Source{Name: name, Text: text, lineStarts: []int{0}}
	for i, c := range text {
		if c == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// LineCount returns the number of lines in the source.
func (s *Source) LineCount() int {
	return len(s.lineStarts)
}

// Line returns the text of the given 0-based line, without its terminator.
func (s *Source) Line(line int) string {
	if line < 0 || line >= len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[line]
	end := len(s.Text)
	if line+1 < len(s.lineStarts) {
		end = s.lineStarts[line+1] - 1
	}
	if end < start {
		end = start
	}
	if end > len(s.Text) {
		end = len(s.Text)
	}
	return s.Text[start:end]
}

// LineAndColumn resolves a byte offset to a 0-based (line, column) pair.
func (s *Source) LineAndColumn(index int) (line, column int) {
	line = 0
	for line+1 < len(s.lineStarts) && s.lineStarts[line+1] <= index {
		line++
	}
	return line, index - s.lineStarts[line]
}

// EOF returns a one-byte location starting just past the end of the source.
func (s *Source) EOF() Location {
	n := len(s.Text)
	return Location{Source: s, Begin: n, End: n + 1}
}

// Location is a half-open byte range [Begin, End) within a Source.
type Location struct {
	Source *Source
	Begin  int
	End    int
}

// Len returns the byte length of the location.
func (l Location) Len() int {
	return l.End - l.Begin
}

// Text returns the source text covered by the location.
func (l Location) Text() string {
	if l.Source == nil {
		return ""
	}
	begin, end := l.Begin, l.End
	if end > len(l.Source.Text) {
		end = len(l.Source.Text)
	}
	if begin > end {
		begin = end
	}
	return l.Source.Text[begin:end]
}

// BeginLineAndColumn resolves the start of the location.
func (l Location) BeginLineAndColumn() (line, column int) {
	return l.Source.LineAndColumn(l.Begin)
}

// BeginLine returns the 0-based line the location starts on.
func (l Location) BeginLine() int {
	line, _ := l.BeginLineAndColumn()
	return line
}

// EndLine returns the 0-based line the location ends on (End is exclusive,
// so a location ending exactly at a line start belongs to the previous line).
func (l Location) EndLine() int {
	end := l.End
	if end > l.Begin {
		end--
	}
	line, _ := l.Source.LineAndColumn(end)
	return line
}

// Wrap builds a location spanning from the start of left to the end of right.
func Wrap(left, right Location) Location {
	return Location{Source: left.Source, Begin: left.Begin, End: right.End}
}

// SplitLines splits a (possibly multi-line) location into one sub-location
// per line it touches.
func (l Location) SplitLines() []Location {
	beginLine := l.BeginLine()
	endLine := l.EndLine()
	if beginLine == endLine {
		return []Location{l}
	}

	src := l.Source
	spans := make([]Location, 0, endLine-beginLine+1)
	spans = append(spans, Location{src, l.Begin, lineEnd(src, beginLine)})
	for line := beginLine + 1; line < endLine; line++ {
		spans = append(spans, Location{src, src.lineStarts[line], lineEnd(src, line)})
	}
	spans = append(spans, Location{src, src.lineStarts[endLine], l.End})
	return spans
}

func lineEnd(src *Source, line int) int {
	if line+1 < len(src.lineStarts) {
		return src.lineStarts[line+1] - 1
	}
	return len(src.Text)
}

// String renders a human-readable "file:line:column" locator.
func (l Location) String() string {
	line, col := l.BeginLineAndColumn()
	name := "<unknown>"
	if l.Source != nil {
		name = l.Source.Name
	}
	return fmt.Sprintf("%s:%d:%d", name, line+1, col+1)
}
