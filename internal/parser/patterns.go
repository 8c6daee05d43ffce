package parser

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/parsec"
	"github.com/dis-lang/disc/internal/source"
)

// pattern := UName PatternArg* | '_' | Value | '(' Pattern ')'
func (p *parser) pattern() parsec.Parser[ast.Pattern] {
	return parsec.Recursive(func() parsec.Parser[ast.Pattern] {
		return parsec.Any(
			p.variantPattern(),
			p.catchallPattern(),
			p.valuePattern(),
			p.parenPattern(),
			parsec.Fail[ast.Pattern]("a pattern"),
		)
	})
}

// variantPattern := UName PatternArg*
func (p *parser) variantPattern() parsec.Parser[ast.Pattern] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.Pattern] {
		name := parsec.ExpectKind(lexer.KindEnumName)(c, backtracking)
		if name.Status != parsec.Ok {
			return parsec.Result[ast.Pattern]{Status: name.Status, Errors: name.Errors}
		}
		// commit: an uppercase name unambiguously selects a variant pattern
		args := parsec.Repeat(p.patternArg(), 0)(c, false)
		if args.Status != parsec.Ok {
			return parsec.Result[ast.Pattern]{Status: args.Status, Errors: args.Errors}
		}
		end := name.Value.Location
		if len(args.Value) > 0 {
			end = args.Value[len(args.Value)-1].Span()
		}
		return parsec.OkResult[ast.Pattern](ast.NewVariantPattern(p.next(), name.Value.Text, args.Value, source.Wrap(name.Value.Location, end)))
	}
}

// patternArg := UName (a bare, argless nested variant) | Catchall | Value | '(' Pattern ')'
func (p *parser) patternArg() parsec.Parser[ast.Pattern] {
	bareVariant := parsec.Map(parsec.ExpectKind(lexer.KindEnumName), func(t lexer.Token) ast.Pattern {
		return ast.NewVariantPattern(p.next(), t.Text, nil, t.Location)
	})
	return parsec.Any(
		bareVariant,
		p.catchallPattern(),
		p.valuePattern(),
		p.parenPattern(),
		parsec.Fail[ast.Pattern]("a pattern"),
	)
}

// catchallPattern := '_'
func (p *parser) catchallPattern() parsec.Parser[ast.Pattern] {
	return parsec.Map(parsec.ExpectKind(lexer.KindUnderscore), func(t lexer.Token) ast.Pattern {
		return ast.NewCatchallPattern(p.next(), t.Location)
	})
}

// valuePattern := Value
func (p *parser) valuePattern() parsec.Parser[ast.Pattern] {
	return parsec.Map(p.value(), func(v *ast.Value) ast.Pattern {
		return ast.NewValuePattern(p.next(), v, v.Span())
	})
}

// parenPattern := '(' Pattern ')'
func (p *parser) parenPattern() parsec.Parser[ast.Pattern] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.Pattern] {
		open := parsec.ExpectKind(lexer.KindOpenParen)(c, backtracking)
		if open.Status != parsec.Ok {
			return parsec.Result[ast.Pattern]{Status: open.Status, Errors: open.Errors}
		}
		// commit: '(' unambiguously selects this production
		inner := p.pattern()(c, false)
		if inner.Status != parsec.Ok {
			return parsec.Result[ast.Pattern]{Status: inner.Status, Errors: inner.Errors}
		}
		closeParen := parsec.ExpectKind(lexer.KindCloseParen)(c, false)
		if closeParen.Status != parsec.Ok {
			return parsec.Result[ast.Pattern]{Status: closeParen.Status, Errors: closeParen.Errors}
		}
		return parsec.OkResult(inner.Value)
	}
}
