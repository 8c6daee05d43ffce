// Package lexer turns source text into a flat token stream with locations.
//
// The lexer works over a forward text cursor with one-byte lookahead.
// Whitespace and comments are consumed and dropped; everything else is
// promoted to a Token. Unterminated strings and unrecognized symbolic
// characters become KindError tokens and an accompanying diagnostic
// rather than aborting the scan, so the caller always gets a complete
// (if partially erroneous) token stream.
package lexer

import (
	"strings"
	"unicode"

	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/source"
)

const symbolChars = ".,:;?!<=>+-/*%^|&"
const delimChars = "()[]{}"

// cursor walks the source text one byte at a time, tracking the start of
// the current token so Eaten can slice out exactly what was consumed.
type cursor struct {
	src        *source.Source
	index      int
	eatenIndex int
}

func newCursor(src *source.Source) *cursor {
	return &cursor{src: src}
}

func (c *cursor) has(n int) bool {
	return c.index+n <= len(c.src.Text)
}

func (c *cursor) peek() byte {
	if !c.has(1) {
		return 0
	}
	return c.src.Text[c.index]
}

func (c *cursor) peekRune() (rune, int) {
	if !c.has(1) {
		return 0, 0
	}
	for _, r := range c.src.Text[c.index:] {
		return r, len(string(r))
	}
	return 0, 0
}

func (c *cursor) peekAt(n int) byte {
	if !c.has(n + 1) {
		return 0
	}
	return c.src.Text[c.index+n]
}

func (c *cursor) advance(n int) {
	c.index += n
}

func (c *cursor) eaten() (string, source.Location) {
	text := c.src.Text[c.eatenIndex:c.index]
	loc := source.Location{Source: c.src, Begin: c.eatenIndex, End: c.index}
	c.eatenIndex = c.index
	return text, loc
}

// Lex scans the full source into a token stream. It always appends a
// trailing Eof token with a zero-width location just past end-of-file.
// Errors (unterminated strings, unrecognized symbols) are collected into
// report rather than raised, so lexing never aborts early.
func Lex(src *source.Source, report *diag.Report) []Token {
	c := newCursor(src)
	var tokens []Token

	for c.has(1) {
		tokens = append(tokens, lexOne(c, report)...)
	}

	tokens = append(tokens, Token{Text: "<eof>", Kind: KindEof, Location: src.EOF()})
	return tokens
}

func lexOne(c *cursor, report *diag.Report) []Token {
	switch {
	case isSpace(c.peek()):
		lexSpace(c)
		return nil
	case c.peek() == '/' && c.peekAt(1) == '/':
		lexLineComment(c)
		return nil
	case c.peek() == '/' && c.peekAt(1) == '*':
		lexBlockComment(c, report)
		return nil
	case isAlnumStart(c):
		return lexAlnum(c)
	case c.peek() == '"':
		return lexString(c, report)
	case strings.IndexByte(delimChars, c.peek()) >= 0:
		return lexDelim(c)
	case strings.IndexByte(symbolChars, c.peek()) >= 0:
		return lexSymbolic(c, report)
	default:
		r, width := c.peekRune()
		c.advance(width)
		_, loc := c.eaten()
		report.Error(diag.New(diag.CategoryLex, loc, "unrecognized symbol '"+string(r)+"'"))
		return []Token{{Text: string(r), Kind: KindError, Location: loc}}
	}
}

func isSpace(b byte) bool {
	return b != 0 && unicode.IsSpace(rune(b))
}

func isAlnumStart(c *cursor) bool {
	b := c.peek()
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isAlnum(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func lexSpace(c *cursor) {
	for c.has(1) && isSpace(c.peek()) {
		c.advance(1)
	}
	c.eaten()
}

func lexLineComment(c *cursor) {
	for c.has(1) && c.peek() != '\n' {
		c.advance(1)
	}
	if c.has(1) {
		c.advance(1)
	}
	c.eaten()
}

func lexBlockComment(c *cursor, report *diag.Report) {
	depth := 0
	for c.has(1) {
		if c.peek() == '/' && c.peekAt(1) == '*' {
			depth++
			c.advance(2)
		} else if c.peek() == '*' && c.peekAt(1) == '/' {
			c.advance(2)
			depth--
			if depth == 0 {
				break
			}
		} else {
			c.advance(1)
		}
	}
	_, loc := c.eaten()
	if depth > 0 {
		report.Error(diag.New(diag.CategoryLex, loc, "unterminated block comment"))
	}
}

func lexAlnum(c *cursor) []Token {
	for c.has(1) && isAlnum(c.peek()) {
		c.advance(1)
	}
	text, loc := c.eaten()

	// A lone underscore is the catchall pattern symbol, not an identifier;
	// longer runs starting with '_' (e.g. "_foo") are ordinary VarNames.
	if text == "_" {
		return []Token{{Text: text, Kind: KindUnderscore, Location: loc}}
	}
	if kind, ok := keywords[text]; ok {
		return []Token{{Text: text, Kind: kind, Location: loc}}
	}
	if isAllDigits(text) {
		return []Token{{Text: text, Kind: KindInteger, Location: loc}}
	}
	if text[0] >= 'A' && text[0] <= 'Z' {
		return []Token{{Text: text, Kind: KindEnumName, Location: loc}}
	}
	return []Token{{Text: text, Kind: KindVarName, Location: loc}}
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return len(s) > 0
}

func lexDelim(c *cursor) []Token {
	c.advance(1)
	text, loc := c.eaten()
	return []Token{{Text: text, Kind: delimiters[text[0]], Location: loc}}
}

// lexSymbolic greedily eats a maximal run of symbol characters, then
// re-splits it into the overlapping-longest-match multi-char symbols
// (currently exactly "->", "=>", "::") followed by single-char symbols.
func lexSymbolic(c *cursor, report *diag.Report) []Token {
	for c.has(1) && strings.IndexByte(symbolChars, c.peek()) >= 0 {
		c.advance(1)
	}
	text, loc := c.eaten()

	var tokens []Token
	i := 0
	for i < len(text) {
		if i+1 < len(text) {
			pair := text[i : i+2]
			if kind, ok := multiCharSymbols[pair]; ok {
				start := loc.Begin + i
				tokens = append(tokens, Token{
					Text:     pair,
					Kind:     kind,
					Location: source.Location{Source: loc.Source, Begin: start, End: start + 2},
				})
				i += 2
				continue
			}
		}
		start := loc.Begin + i
		single := source.Location{Source: loc.Source, Begin: start, End: start + 1}
		if kind, ok := singleCharSymbols[text[i]]; ok {
			tokens = append(tokens, Token{Text: text[i : i+1], Kind: kind, Location: single})
		} else {
			report.Error(diag.New(diag.CategoryLex, single, "unrecognized symbol '"+text[i:i+1]+"'"))
			tokens = append(tokens, Token{Text: text[i : i+1], Kind: KindError, Location: single})
		}
		i++
	}
	return tokens
}

func lexString(c *cursor, report *diag.Report) []Token {
	c.advance(1)
	for c.has(1) && c.peek() != '"' {
		if c.peek() == '\\' && c.has(2) {
			c.advance(2)
			continue
		}
		c.advance(1)
	}
	terminated := c.has(1)
	if terminated {
		c.advance(1)
	}
	text, loc := c.eaten()

	if !terminated {
		report.Error(diag.New(diag.CategoryLex, loc, "unterminated string literal"))
		return []Token{{Text: text, Kind: KindError, Location: loc}}
	}
	return []Token{{Text: text, Kind: KindString, Location: loc}}
}
