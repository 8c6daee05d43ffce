package parser

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/parsec"
	"github.com/dis-lang/disc/internal/source"
)

// typeExpected is the last arm of the type-atom alternation.
const typeExpected = "a type"

// typeExpr := (DisConstructorType | DisType | '(' Type,* ')') ('->' Type)*
//
// A function type is a left-to-right chain of arrow-separated atomic types;
// a single atomic type with no arrow is itself the whole type.
func (p *parser) typeExpr() parsec.Parser[ast.TypeExpr] {
	return parsec.Recursive(func() parsec.Parser[ast.TypeExpr] {
		atom := p.typeAtom()
		return func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.TypeExpr] {
			first := atom(c, backtracking)
			if first.Status != parsec.Ok {
				return first
			}
			parts := []ast.TypeExpr{first.Value}
			for {
				arrow := parsec.ExpectKind(lexer.KindArrow)(c, true)
				if arrow.Status != parsec.Ok {
					break
				}
				next := atom(c, false)
				if next.Status != parsec.Ok {
					return next
				}
				parts = append(parts, next.Value)
			}
			if len(parts) == 1 {
				return parsec.OkResult(parts[0])
			}
			ret := parts[len(parts)-1]
			span := source.Wrap(parts[0].Span(), ret.Span())
			return parsec.OkResult[ast.TypeExpr](ast.NewFunctionType(p.next(), parts[:len(parts)-1], ret, span))
		}
	})
}

// typeAtom := DisConstructorType | DisType | '(' Type,* ')'
func (p *parser) typeAtom() parsec.Parser[ast.TypeExpr] {
	return parsec.Any(
		p.disConstructorType(),
		p.disType(),
		p.parenType(),
		parsec.Fail[ast.TypeExpr](typeExpected),
	)
}

// disType := UName genericArgs?
func (p *parser) disType() parsec.Parser[ast.TypeExpr] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.TypeExpr] {
		name := parsec.ExpectKind(lexer.KindEnumName)(c, backtracking)
		if name.Status != parsec.Ok {
			return parsec.Result[ast.TypeExpr]{Status: name.Status, Errors: name.Errors}
		}
		end := name.Value.Location
		generics := parsec.Optional(p.genericArgs(), []ast.TypeExpr(nil))(c, true)
		if generics.Status == parsec.Err {
			return parsec.Result[ast.TypeExpr]{Status: generics.Status, Errors: generics.Errors}
		}
		if len(generics.Value) > 0 {
			end = generics.Value[len(generics.Value)-1].Span()
		}
		return parsec.OkResult[ast.TypeExpr](ast.NewDisType(p.next(), name.Value.Text, generics.Value, source.Wrap(name.Value.Location, end)))
	}
}

// disConstructorType := UName genericArgs? '::' UName
func (p *parser) disConstructorType() parsec.Parser[ast.TypeExpr] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.TypeExpr] {
		mark := c.Save()
		name := parsec.ExpectKind(lexer.KindEnumName)(c, backtracking)
		if name.Status != parsec.Ok {
			return parsec.Result[ast.TypeExpr]{Status: name.Status, Errors: name.Errors}
		}
		generics := parsec.Optional(p.genericArgs(), []ast.TypeExpr(nil))(c, true)
		if generics.Status == parsec.Err {
			return parsec.Result[ast.TypeExpr]{Status: generics.Status, Errors: generics.Errors}
		}
		dcolon := parsec.ExpectKind(lexer.KindDoubleColon)(c, true)
		if dcolon.Status != parsec.Ok {
			c.Restore(mark)
			return parsec.BacktrackResult[ast.TypeExpr]()
		}
		variant := parsec.ExpectKind(lexer.KindEnumName)(c, false)
		if variant.Status != parsec.Ok {
			return parsec.Result[ast.TypeExpr]{Status: variant.Status, Errors: variant.Errors}
		}
		span := source.Wrap(name.Value.Location, variant.Value.Location)
		return parsec.OkResult[ast.TypeExpr](ast.NewDisConstructorType(p.next(), name.Value.Text, generics.Value, variant.Value.Text, span))
	}
}

// parenType := '(' Type,* ')'; a single element unwraps. Any other count is
// a function type's argument list when '->' and a result type follow, and a
// diagnostic otherwise (tuple-as-type is never valid).
func (p *parser) parenType() parsec.Parser[ast.TypeExpr] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.TypeExpr] {
		open := parsec.ExpectKind(lexer.KindOpenParen)(c, backtracking)
		if open.Status != parsec.Ok {
			return parsec.Result[ast.TypeExpr]{Status: open.Status, Errors: open.Errors}
		}
		items := parsec.Interspersed(p.typeExpr(), parsec.ExpectKind(lexer.KindComma), 0)(c, false)
		if items.Status != parsec.Ok {
			return parsec.Result[ast.TypeExpr]{Status: items.Status, Errors: items.Errors}
		}
		closeParen := parsec.ExpectKind(lexer.KindCloseParen)(c, false)
		if closeParen.Status != parsec.Ok {
			return parsec.Result[ast.TypeExpr]{Status: closeParen.Status, Errors: closeParen.Errors}
		}
		switch len(items.Value) {
		case 1:
			return parsec.OkResult(items.Value[0])
		default:
			arrow := parsec.ExpectKind(lexer.KindArrow)(c, true)
			if arrow.Status != parsec.Ok {
				span := source.Wrap(open.Value.Location, closeParen.Value.Location)
				return parsec.ErrResult[ast.TypeExpr](diag.New(diag.CategoryParse, span, "a tuple is not valid as a type"))
			}
			ret := p.typeExpr()(c, false)
			if ret.Status != parsec.Ok {
				return ret
			}
			span := source.Wrap(open.Value.Location, ret.Value.Span())
			return parsec.OkResult[ast.TypeExpr](ast.NewFunctionType(p.next(), items.Value, ret.Value, span))
		}
	}
}

// genericArgs := '[' (Wildcard | Type),+ ']'
func (p *parser) genericArgs() parsec.Parser[[]ast.TypeExpr] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[[]ast.TypeExpr] {
		open := parsec.ExpectKind(lexer.KindOpenBracket)(c, backtracking)
		if open.Status != parsec.Ok {
			return parsec.Result[[]ast.TypeExpr]{Status: open.Status, Errors: open.Errors}
		}
		elem := parsec.Any(
			parsec.Map(parsec.ExpectKind(lexer.KindQuestionMark), func(t lexer.Token) ast.TypeExpr {
				return ast.NewWildcardType(p.next(), t.Location)
			}),
			p.typeExpr(),
		)
		items := parsec.Interspersed(elem, parsec.ExpectKind(lexer.KindComma), 1)(c, false)
		if items.Status != parsec.Ok {
			return parsec.Result[[]ast.TypeExpr]{Status: items.Status, Errors: items.Errors}
		}
		closeBrk := parsec.ExpectKind(lexer.KindCloseBracket)(c, false)
		if closeBrk.Status != parsec.Ok {
			return parsec.Result[[]ast.TypeExpr]{Status: closeBrk.Status, Errors: closeBrk.Errors}
		}
		return parsec.OkResult(items.Value)
	}
}
