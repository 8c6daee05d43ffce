package lexer

import (
	"strings"
	"testing"

	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/source"
)

func lexAll(t *testing.T, text string) ([]Token, *diag.Report) {
	t.Helper()
	src := source.New("test.dis", text)
	report := &diag.Report{}
	return Lex(src, report), report
}

func TestLex_Basic(t *testing.T) {
	tokens, report := lexAll(t, "let x = 10;")
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}

	tests := []struct {
		kind Kind
		text string
	}{
		{KindKwLet, "let"},
		{KindVarName, "x"},
		{KindEquals, "="},
		{KindInteger, "10"},
		{KindSemicolon, ";"},
		{KindEof, "<eof>"},
	}

	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(tests), len(tokens), tokens)
	}
	for i, tt := range tests {
		if tokens[i].Kind != tt.kind {
			t.Fatalf("tokens[%d] - kind wrong. expected=%s, got=%s", i, tt.kind, tokens[i].Kind)
		}
		if tokens[i].Text != tt.text {
			t.Fatalf("tokens[%d] - text wrong. expected=%q, got=%q", i, tt.text, tokens[i].Text)
		}
	}
}

func TestLex_Keywords(t *testing.T) {
	tokens, report := lexAll(t, "fun fit dis giv mod let ret wrt")
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}

	expected := []Kind{
		KindKwFun, KindKwFit, KindKwDis, KindKwGiv, KindKwMod, KindKwLet, KindKwRet, KindKwWrt, KindEof,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, kind := range expected {
		if tokens[i].Kind != kind {
			t.Fatalf("step %d - expected kind %s, got %s", i, kind, tokens[i].Kind)
		}
	}
}

func TestLex_IdentifierCase(t *testing.T) {
	tokens, _ := lexAll(t, "option Option")
	if tokens[0].Kind != KindVarName {
		t.Fatalf("expected lowercase identifier to be KindVarName, got %s", tokens[0].Kind)
	}
	if tokens[1].Kind != KindEnumName {
		t.Fatalf("expected uppercase identifier to be KindEnumName, got %s", tokens[1].Kind)
	}
}

func TestLex_LoneUnderscoreIsCatchallSymbol(t *testing.T) {
	tokens, report := lexAll(t, "_ _foo foo_bar")
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if tokens[0].Kind != KindUnderscore {
		t.Fatalf("expected lone '_' to be KindUnderscore, got %s", tokens[0].Kind)
	}
	if tokens[1].Kind != KindVarName || tokens[1].Text != "_foo" {
		t.Fatalf("expected '_foo' to be a VarName, got %s %q", tokens[1].Kind, tokens[1].Text)
	}
	if tokens[2].Kind != KindVarName || tokens[2].Text != "foo_bar" {
		t.Fatalf("expected 'foo_bar' to be a VarName, got %s %q", tokens[2].Kind, tokens[2].Text)
	}
}

func TestLex_MultiCharSymbols(t *testing.T) {
	tokens, report := lexAll(t, "-> => :: : -")
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}

	expected := []struct {
		kind Kind
		text string
	}{
		{KindArrow, "->"},
		{KindFatArrow, "=>"},
		{KindDoubleColon, "::"},
		{KindColon, ":"},
		{KindMinus, "-"},
		{KindEof, "<eof>"},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(expected), len(tokens), tokens)
	}
	for i, tt := range expected {
		if tokens[i].Kind != tt.kind || tokens[i].Text != tt.text {
			t.Fatalf("step %d - expected %s %q, got %s %q", i, tt.kind, tt.text, tokens[i].Kind, tokens[i].Text)
		}
	}
}

func TestLex_DelimitersDoNotMergeWithSymbols(t *testing.T) {
	tokens, report := lexAll(t, "(a)->b")
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	expected := []Kind{KindOpenParen, KindVarName, KindCloseParen, KindArrow, KindVarName, KindEof}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(expected), len(tokens), tokens)
	}
	for i, kind := range expected {
		if tokens[i].Kind != kind {
			t.Fatalf("step %d - expected kind %s, got %s", i, kind, tokens[i].Kind)
		}
	}
}

func TestLex_StringLiteral(t *testing.T) {
	tokens, report := lexAll(t, `wrt "hello\n";`)
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if tokens[1].Kind != KindString {
		t.Fatalf("expected KindString, got %s", tokens[1].Kind)
	}
	if tokens[1].Text != `"hello\n"` {
		t.Fatalf("expected raw string text with escapes, got %q", tokens[1].Text)
	}
}

func TestLex_UnterminatedStringReportsError(t *testing.T) {
	tokens, report := lexAll(t, `"unterminated`)
	if !report.HasErrors() {
		t.Fatalf("expected an error for an unterminated string literal")
	}
	if tokens[0].Kind != KindError {
		t.Fatalf("expected KindError token, got %s", tokens[0].Kind)
	}
}

func TestLex_LineCommentIsSkipped(t *testing.T) {
	tokens, report := lexAll(t, "let // comment\nx")
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	expected := []Kind{KindKwLet, KindVarName, KindEof}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(expected), len(tokens), tokens)
	}
	for i, kind := range expected {
		if tokens[i].Kind != kind {
			t.Fatalf("step %d - expected kind %s, got %s", i, kind, tokens[i].Kind)
		}
	}
}

func TestLex_NestedBlockComment(t *testing.T) {
	tokens, report := lexAll(t, "let /* outer /* inner */ still outer */ x")
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	expected := []Kind{KindKwLet, KindVarName, KindEof}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(expected), len(tokens), tokens)
	}
}

func TestLex_UnterminatedBlockCommentReportsError(t *testing.T) {
	_, report := lexAll(t, "let /* never closed")
	if !report.HasErrors() {
		t.Fatalf("expected an error for an unterminated block comment")
	}
}

func TestLex_UnrecognizedSymbolReportsErrorButContinues(t *testing.T) {
	tokens, report := lexAll(t, "let @ x")
	if !report.HasErrors() {
		t.Fatalf("expected an error for an unrecognized symbol")
	}
	expected := []Kind{KindKwLet, KindError, KindVarName, KindEof}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(expected), len(tokens), tokens)
	}
	for i, kind := range expected {
		if tokens[i].Kind != kind {
			t.Fatalf("step %d - expected kind %s, got %s", i, kind, tokens[i].Kind)
		}
	}
}

func TestLex_Locations(t *testing.T) {
	tokens, _ := lexAll(t, "let x")
	if tokens[0].Location.Begin != 0 || tokens[0].Location.End != 3 {
		t.Fatalf("expected 'let' location [0,3), got [%d,%d)", tokens[0].Location.Begin, tokens[0].Location.End)
	}
	if tokens[1].Location.Begin != 4 || tokens[1].Location.End != 5 {
		t.Fatalf("expected 'x' location [4,5), got [%d,%d)", tokens[1].Location.Begin, tokens[1].Location.End)
	}
}

// TestLex_LocationsAreMonotonic walks every token in order and checks
// spec.md §8's general invariant: tok[i].location.end <= tok[i+1].location.begin
// (no overlap, no going backwards), across a variety of sources rather
// than two hardcoded spans.
func TestLex_LocationsAreMonotonic(t *testing.T) {
	sources := []string{
		"let x = 10;",
		"fun add(a: Int, b: Int) -> Int { ret a + b; }",
		"dis Option[T] { Some(value: T), None }",
		"fun f(b: Bool) { fit b { Bool::True => wrt \"yes\", _ => wrt \"no\" }; }",
		"let /* outer /* inner */ still outer */ x = 1; // trailing comment\nret x;",
	}
	for _, src := range sources {
		tokens, report := lexAll(t, src)
		if report.HasErrors() {
			t.Fatalf("unexpected errors lexing %q: %v", src, report.Errors)
		}
		for i := 0; i+1 < len(tokens); i++ {
			if tokens[i].Location.End > tokens[i+1].Location.Begin {
				t.Fatalf("locations not monotonic in %q at index %d: tokens[%d]=%+v tokens[%d]=%+v",
					src, i, i, tokens[i], i+1, tokens[i+1])
			}
		}
	}
}

// TestLex_RoundTripReconstructsSourceModuloWhitespaceAndComments checks
// spec.md §8's round-trip property: concatenating every non-Eof token's
// text reproduces the source with whitespace and comments removed.
func TestLex_RoundTripReconstructsSourceModuloWhitespaceAndComments(t *testing.T) {
	sources := []string{
		"let x = 10;",
		"fun add(a: Int, b: Int) -> Int { ret a + b; }",
		"dis Option[T] { Some(value: T), None }",
		"fun f(b: Bool) { fit b { Bool::True => wrt \"yes\", _ => wrt \"no\" }; }",
		`wrt "hello\n";`,
		"let /* outer /* inner */ still outer */ x = 1; // trailing comment\nret x;",
	}
	for _, src := range sources {
		tokens, report := lexAll(t, src)
		if report.HasErrors() {
			t.Fatalf("unexpected errors lexing %q: %v", src, report.Errors)
		}
		var rebuilt strings.Builder
		for _, tok := range tokens {
			if tok.Kind == KindEof {
				continue
			}
			rebuilt.WriteString(tok.Text)
		}
		want := stripWhitespaceAndComments(src)
		if rebuilt.String() != want {
			t.Fatalf("round-trip mismatch for %q:\n got  %q\n want %q", src, rebuilt.String(), want)
		}
	}
}

// stripWhitespaceAndComments mirrors the lexer's own skipping rules (line
// comments to end of line, nested block comments) so the round-trip test
// can compare against source with only the meaningful bytes left.
func stripWhitespaceAndComments(src string) string {
	var out strings.Builder
	depth := 0
	for i := 0; i < len(src); i++ {
		if depth > 0 {
			switch {
			case strings.HasPrefix(src[i:], "/*"):
				depth++
				i++
			case strings.HasPrefix(src[i:], "*/"):
				depth--
				i++
			}
			continue
		}
		switch {
		case strings.HasPrefix(src[i:], "/*"):
			depth = 1
			i++
		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r':
		default:
			out.WriteByte(src[i])
		}
	}
	return out.String()
}
