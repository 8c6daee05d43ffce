// Package parser turns a token stream into an AST using backtracking
// combinator parsers from internal/parsec, with operator-precedence
// climbing for expressions.
package parser

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/parsec"
	"github.com/dis-lang/disc/internal/source"
)

// parser holds the per-parse state shared by every production: the node ID
// allocator, so every node gets a distinct NodeID (nodes built by an
// alternative that later backtracks still use up IDs). A fresh
// parser is created per compilation unit; it is not safe for concurrent use.
type parser struct {
	ids *ast.IDAllocator
}

// Parse runs the full grammar over tokens, returning the parsed program and
// a diagnostic report. A nil program means a fatal (Err-status) parse
// failure; the report then holds the diagnostics that caused it.
func Parse(tokens []lexer.Token) (*ast.Program, *diag.Report) {
	p := &parser{ids: &ast.IDAllocator{}}
	cursor := parsec.NewCursor(tokens)
	report := &diag.Report{}

	result := p.program()(cursor, false)
	if result.Status != parsec.Ok {
		for _, e := range result.Errors {
			report.Error(e)
		}
		return nil, report
	}
	return result.Value, report
}

func (p *parser) next() ast.NodeID { return p.ids.Next() }

// program := Item* Eof
func (p *parser) program() parsec.Parser[*ast.Program] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.Program] {
		begin := c.Peek().Location
		items := parsec.Repeat(p.item(), 0)(c, backtracking)
		if items.Status != parsec.Ok {
			return parsec.Result[*ast.Program]{Status: items.Status, Errors: items.Errors}
		}
		eof := parsec.ExpectEof()(c, false)
		if eof.Status != parsec.Ok {
			return parsec.Result[*ast.Program]{Status: eof.Status, Errors: eof.Errors}
		}
		end := c.Prev().Location
		return parsec.OkResult(ast.NewProgram(p.next(), items.Value, source.Wrap(begin, end)))
	}
}

// item := Dis | Fun | Expr
func (p *parser) item() parsec.Parser[ast.Decl] {
	dis := parsec.Map(p.dis(), func(d *ast.Dis) ast.Decl { return d })
	fun := parsec.Map(p.fun(), func(f *ast.Fun) ast.Decl { return f })
	expr := parsec.Map(p.expr(), func(e ast.Expr) ast.Decl {
		return ast.NewExprItem(p.next(), e, e.Span())
	})
	return parsec.Any(dis, fun, expr, parsec.Fail[ast.Decl]("a 'dis' or 'fun' declaration, or an expression"))
}
