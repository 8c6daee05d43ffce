package parser

import (
	"strings"

	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/parsec"
	"github.com/dis-lang/disc/internal/source"
)

// statement := Ret | Block | Write | Let | FitStmt | Expr
func (p *parser) statement() parsec.Parser[ast.Stmt] {
	return parsec.Recursive(func() parsec.Parser[ast.Stmt] {
		return parsec.Any(
			parsec.Map(p.ret(), func(r *ast.Ret) ast.Stmt { return r }),
			parsec.Map(p.block(), func(b *ast.Block) ast.Stmt { return b }),
			parsec.Map(p.write(), func(w *ast.Write) ast.Stmt { return w }),
			parsec.Map(p.let(), func(l *ast.Let) ast.Stmt { return l }),
			parsec.Map(p.fitStatement(), func(f *ast.FitStatement) ast.Stmt { return f }),
			parsec.Map(p.expr(), func(e ast.Expr) ast.Stmt {
				return ast.NewExprStmt(p.next(), e, e.Span())
			}),
			parsec.Fail[ast.Stmt]("a statement"),
		)
	})
}

// block := '{' (Stmt ';')* '}'
func (p *parser) block() parsec.Parser[*ast.Block] {
	single := func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.Stmt] {
		stmt := p.statement()(c, backtracking)
		if stmt.Status != parsec.Ok {
			return stmt
		}
		// commit: a statement matched, the trailing ';' is now mandatory
		semi := parsec.ExpectKind(lexer.KindSemicolon)(c, false)
		if semi.Status != parsec.Ok {
			return parsec.Result[ast.Stmt]{Status: semi.Status, Errors: semi.Errors}
		}
		return stmt
	}
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.Block] {
		open := parsec.ExpectKind(lexer.KindOpenBrace)(c, backtracking)
		if open.Status != parsec.Ok {
			return parsec.Result[*ast.Block]{Status: open.Status, Errors: open.Errors}
		}
		stmts := parsec.Repeat(single, 0)(c, false)
		if stmts.Status != parsec.Ok {
			return parsec.Result[*ast.Block]{Status: stmts.Status, Errors: stmts.Errors}
		}
		closeBrace := parsec.ExpectKind(lexer.KindCloseBrace)(c, false)
		if closeBrace.Status != parsec.Ok {
			return parsec.Result[*ast.Block]{Status: closeBrace.Status, Errors: closeBrace.Errors}
		}
		span := source.Wrap(open.Value.Location, closeBrace.Value.Location)
		return parsec.OkResult(ast.NewBlock(p.next(), stmts.Value, span))
	}
}

// let := 'let' lname '=' Expr
func (p *parser) let() parsec.Parser[*ast.Let] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.Let] {
		kw := parsec.ExpectKind(lexer.KindKwLet)(c, backtracking)
		if kw.Status != parsec.Ok {
			return parsec.Result[*ast.Let]{Status: kw.Status, Errors: kw.Errors}
		}
		// commit: 'let' unambiguously selects this production
		name := parsec.ExpectKind(lexer.KindVarName)(c, false)
		if name.Status != parsec.Ok {
			return parsec.Result[*ast.Let]{Status: name.Status, Errors: name.Errors}
		}
		eq := parsec.ExpectKind(lexer.KindEquals)(c, false)
		if eq.Status != parsec.Ok {
			return parsec.Result[*ast.Let]{Status: eq.Status, Errors: eq.Errors}
		}
		value := p.expr()(c, false)
		if value.Status != parsec.Ok {
			return parsec.Result[*ast.Let]{Status: value.Status, Errors: value.Errors}
		}
		span := source.Wrap(kw.Value.Location, value.Value.Span())
		return parsec.OkResult(ast.NewLet(p.next(), name.Value.Text, value.Value, span))
	}
}

// ret := 'ret' Expr?
func (p *parser) ret() parsec.Parser[*ast.Ret] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.Ret] {
		kw := parsec.ExpectKind(lexer.KindKwRet)(c, backtracking)
		if kw.Status != parsec.Ok {
			return parsec.Result[*ast.Ret]{Status: kw.Status, Errors: kw.Errors}
		}
		// commit: 'ret' unambiguously selects this production
		value := parsec.Optional(p.expr(), ast.Expr(nil))(c, true)
		if value.Status == parsec.Err {
			return parsec.Result[*ast.Ret]{Status: value.Status, Errors: value.Errors}
		}
		end := kw.Value.Location
		if value.Value != nil {
			end = value.Value.Span()
		}
		return parsec.OkResult(ast.NewRet(p.next(), value.Value, source.Wrap(kw.Value.Location, end)))
	}
}

// write := 'wrt' String
func (p *parser) write() parsec.Parser[*ast.Write] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.Write] {
		kw := parsec.ExpectKind(lexer.KindKwWrt)(c, backtracking)
		if kw.Status != parsec.Ok {
			return parsec.Result[*ast.Write]{Status: kw.Status, Errors: kw.Errors}
		}
		// commit: 'wrt' unambiguously selects this production
		str := parsec.ExpectKind(lexer.KindString)(c, false)
		if str.Status != parsec.Ok {
			return parsec.Result[*ast.Write]{Status: str.Status, Errors: str.Errors}
		}
		span := source.Wrap(kw.Value.Location, str.Value.Location)
		return parsec.OkResult(ast.NewWrite(p.next(), unquote(str.Value.Text), span))
	}
}

// fitStatement := 'fit' Expr '{' FitStmtBranch,+ '}'
func (p *parser) fitStatement() parsec.Parser[*ast.FitStatement] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.FitStatement] {
		kw := parsec.ExpectKind(lexer.KindKwFit)(c, backtracking)
		if kw.Status != parsec.Ok {
			return parsec.Result[*ast.FitStatement]{Status: kw.Status, Errors: kw.Errors}
		}
		// commit: 'fit' unambiguously selects this production
		value := p.expr()(c, false)
		if value.Status != parsec.Ok {
			return parsec.Result[*ast.FitStatement]{Status: value.Status, Errors: value.Errors}
		}
		open := parsec.ExpectKind(lexer.KindOpenBrace)(c, false)
		if open.Status != parsec.Ok {
			return parsec.Result[*ast.FitStatement]{Status: open.Status, Errors: open.Errors}
		}
		branches := parsec.Interspersed(p.fitStmtBranch(), parsec.ExpectKind(lexer.KindComma), 1)(c, false)
		if branches.Status != parsec.Ok {
			return parsec.Result[*ast.FitStatement]{Status: branches.Status, Errors: branches.Errors}
		}
		closeBrace := parsec.ExpectKind(lexer.KindCloseBrace)(c, false)
		if closeBrace.Status != parsec.Ok {
			return parsec.Result[*ast.FitStatement]{Status: closeBrace.Status, Errors: closeBrace.Errors}
		}
		span := source.Wrap(kw.Value.Location, closeBrace.Value.Location)
		return parsec.OkResult(ast.NewFitStatement(p.next(), value.Value, branches.Value, span))
	}
}

// fitStmtBranch := Pattern '=>' Stmt, only attempted while the closing brace
// has not yet been reached (mirrors the '!CloseBrace' guard in the grammar
// this was translated from, so a trailing comma before '}' is tolerated).
func (p *parser) fitStmtBranch() parsec.Parser[*ast.FitStmtBranch] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.FitStmtBranch] {
		guard := parsec.Not(parsec.ExpectKind(lexer.KindCloseBrace))(c, backtracking)
		if guard.Status != parsec.Ok {
			return parsec.Result[*ast.FitStmtBranch]{Status: guard.Status, Errors: guard.Errors}
		}
		// commit: a branch is now required
		pat := p.pattern()(c, false)
		if pat.Status != parsec.Ok {
			return parsec.Result[*ast.FitStmtBranch]{Status: pat.Status, Errors: pat.Errors}
		}
		arrow := parsec.ExpectKind(lexer.KindFatArrow)(c, false)
		if arrow.Status != parsec.Ok {
			return parsec.Result[*ast.FitStmtBranch]{Status: arrow.Status, Errors: arrow.Errors}
		}
		body := p.statement()(c, false)
		if body.Status != parsec.Ok {
			return parsec.Result[*ast.FitStmtBranch]{Status: body.Status, Errors: body.Errors}
		}
		span := source.Wrap(pat.Value.Span(), body.Value.Span())
		return parsec.OkResult(ast.NewFitStmtBranch(p.next(), pat.Value, body.Value, span))
	}
}

// unquote strips the surrounding quotes and resolves the backslash escapes
// the lexer preserved verbatim in a string token's text.
func unquote(text string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "\""), "\"")
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] != '\\' || i+1 >= len(inner) {
			b.WriteByte(inner[i])
			continue
		}
		i++
		switch inner[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(inner[i])
		}
	}
	return b.String()
}
