package parser

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/parsec"
	"github.com/dis-lang/disc/internal/source"
)

// genericParams := '[' UName,+ ']'
func (p *parser) genericParams() parsec.Parser[*ast.GenericParams] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.GenericParams] {
		open := parsec.ExpectKind(lexer.KindOpenBracket)(c, backtracking)
		if open.Status != parsec.Ok {
			return parsec.Result[*ast.GenericParams]{Status: open.Status, Errors: open.Errors}
		}
		names := parsec.Interspersed(enumNameText(), parsec.ExpectKind(lexer.KindComma), 1)(c, false)
		if names.Status != parsec.Ok {
			return parsec.Result[*ast.GenericParams]{Status: names.Status, Errors: names.Errors}
		}
		closeBrk := parsec.ExpectKind(lexer.KindCloseBracket)(c, false)
		if closeBrk.Status != parsec.Ok {
			return parsec.Result[*ast.GenericParams]{Status: closeBrk.Status, Errors: closeBrk.Errors}
		}
		return parsec.OkResult(ast.NewGenericParams(p.next(), names.Value, source.Wrap(open.Value.Location, closeBrk.Value.Location)))
	}
}

// arg := lname ':' Type
func (p *parser) arg() parsec.Parser[*ast.Arg] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.Arg] {
		name := parsec.ExpectKind(lexer.KindVarName)(c, backtracking)
		if name.Status != parsec.Ok {
			return parsec.Result[*ast.Arg]{Status: name.Status, Errors: name.Errors}
		}
		colon := parsec.ExpectKind(lexer.KindColon)(c, false)
		if colon.Status != parsec.Ok {
			return parsec.Result[*ast.Arg]{Status: colon.Status, Errors: colon.Errors}
		}
		typ := p.typeExpr()(c, false)
		if typ.Status != parsec.Ok {
			return parsec.Result[*ast.Arg]{Status: typ.Status, Errors: typ.Errors}
		}
		return parsec.OkResult(ast.NewArg(p.next(), name.Value.Text, typ.Value, source.Wrap(name.Value.Location, typ.Value.Span())))
	}
}

// args := '(' Arg,* ')'
func (p *parser) args() parsec.Parser[[]*ast.Arg] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[[]*ast.Arg] {
		open := parsec.ExpectKind(lexer.KindOpenParen)(c, backtracking)
		if open.Status != parsec.Ok {
			return parsec.Result[[]*ast.Arg]{Status: open.Status, Errors: open.Errors}
		}
		args := parsec.Interspersed(p.arg(), parsec.ExpectKind(lexer.KindComma), 0)(c, false)
		if args.Status != parsec.Ok {
			return parsec.Result[[]*ast.Arg]{Status: args.Status, Errors: args.Errors}
		}
		closeParen := parsec.ExpectKind(lexer.KindCloseParen)(c, false)
		if closeParen.Status != parsec.Ok {
			return parsec.Result[[]*ast.Arg]{Status: closeParen.Status, Errors: closeParen.Errors}
		}
		return parsec.OkResult(args.Value)
	}
}

// disVariant := UName ('(' Arg,* ')')?
func (p *parser) disVariant() parsec.Parser[*ast.DisVariant] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.DisVariant] {
		name := parsec.ExpectKind(lexer.KindEnumName)(c, backtracking)
		if name.Status != parsec.Ok {
			return parsec.Result[*ast.DisVariant]{Status: name.Status, Errors: name.Errors}
		}
		end := name.Value.Location
		args := parsec.Optional(p.args(), []*ast.Arg(nil))(c, false)
		if args.Status != parsec.Ok {
			return parsec.Result[*ast.DisVariant]{Status: args.Status, Errors: args.Errors}
		}
		if len(args.Value) > 0 {
			end = args.Value[len(args.Value)-1].Span()
		}
		return parsec.OkResult(ast.NewDisVariant(p.next(), name.Value.Text, args.Value, source.Wrap(name.Value.Location, end)))
	}
}

// dis := 'dis' UName Generics? '{' DisVariant,+ '}'
func (p *parser) dis() parsec.Parser[*ast.Dis] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.Dis] {
		kw := parsec.ExpectKind(lexer.KindKwDis)(c, backtracking)
		if kw.Status != parsec.Ok {
			return parsec.Result[*ast.Dis]{Status: kw.Status, Errors: kw.Errors}
		}
		// commit: 'dis' unambiguously selects this production
		name := parsec.ExpectKind(lexer.KindEnumName)(c, false)
		if name.Status != parsec.Ok {
			return parsec.Result[*ast.Dis]{Status: name.Status, Errors: name.Errors}
		}
		generics := parsec.Optional(p.genericParams(), (*ast.GenericParams)(nil))(c, false)
		if generics.Status != parsec.Ok {
			return parsec.Result[*ast.Dis]{Status: generics.Status, Errors: generics.Errors}
		}
		open := parsec.ExpectKind(lexer.KindOpenBrace)(c, false)
		if open.Status != parsec.Ok {
			return parsec.Result[*ast.Dis]{Status: open.Status, Errors: open.Errors}
		}
		variants := parsec.Interspersed(p.disVariant(), parsec.ExpectKind(lexer.KindComma), 1)(c, false)
		if variants.Status != parsec.Ok {
			return parsec.Result[*ast.Dis]{Status: variants.Status, Errors: variants.Errors}
		}
		closeBrace := parsec.ExpectKind(lexer.KindCloseBrace)(c, false)
		if closeBrace.Status != parsec.Ok {
			return parsec.Result[*ast.Dis]{Status: closeBrace.Status, Errors: closeBrace.Errors}
		}
		span := source.Wrap(kw.Value.Location, closeBrace.Value.Location)
		return parsec.OkResult(ast.NewDis(p.next(), name.Value.Text, generics.Value, variants.Value, span))
	}
}

// fun := 'fun' lname Generics? '(' Arg,* ')' ('->' Type)? Block
func (p *parser) fun() parsec.Parser[*ast.Fun] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.Fun] {
		kw := parsec.ExpectKind(lexer.KindKwFun)(c, backtracking)
		if kw.Status != parsec.Ok {
			return parsec.Result[*ast.Fun]{Status: kw.Status, Errors: kw.Errors}
		}
		// commit: 'fun' unambiguously selects this production
		name := parsec.ExpectKind(lexer.KindVarName)(c, false)
		if name.Status != parsec.Ok {
			return parsec.Result[*ast.Fun]{Status: name.Status, Errors: name.Errors}
		}
		generics := parsec.Optional(p.genericParams(), (*ast.GenericParams)(nil))(c, false)
		if generics.Status != parsec.Ok {
			return parsec.Result[*ast.Fun]{Status: generics.Status, Errors: generics.Errors}
		}
		args := p.args()(c, false)
		if args.Status != parsec.Ok {
			return parsec.Result[*ast.Fun]{Status: args.Status, Errors: args.Errors}
		}
		ret := p.returnType()(c, false)
		if ret.Status != parsec.Ok {
			return parsec.Result[*ast.Fun]{Status: ret.Status, Errors: ret.Errors}
		}
		body := p.block()(c, false)
		if body.Status != parsec.Ok {
			return parsec.Result[*ast.Fun]{Status: body.Status, Errors: body.Errors}
		}
		span := source.Wrap(kw.Value.Location, body.Value.Span())
		return parsec.OkResult(ast.NewFun(p.next(), name.Value.Text, generics.Value, args.Value, ret.Value, body.Value, span))
	}
}

// returnType := ('->' Type)?, defaulting to an implicit Void at the call site.
func (p *parser) returnType() parsec.Parser[ast.TypeExpr] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.TypeExpr] {
		arrow := parsec.ExpectKind(lexer.KindArrow)(c, true)
		if arrow.Status == parsec.Backtracked {
			return parsec.OkResult[ast.TypeExpr](ast.NewVoidType(p.next(), c.Peek().Location))
		}
		if arrow.Status == parsec.Err {
			return parsec.Result[ast.TypeExpr]{Status: arrow.Status, Errors: arrow.Errors}
		}
		typ := p.typeExpr()(c, false)
		return typ
	}
}

func enumNameText() parsec.Parser[string] {
	return parsec.Map(parsec.ExpectKind(lexer.KindEnumName), func(t lexer.Token) string { return t.Text })
}
