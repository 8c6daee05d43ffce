package parser

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/parsec"
	"github.com/dis-lang/disc/internal/source"
)

// operator is a binary operator token lifted out of the flat token stream
// into the shape precedence climbing needs: a kind to dispatch on, the
// source text (reused as a Var name for user-defined operators), and a
// precedence where a *lower* number binds tighter.
type operator struct {
	kind       lexer.Kind
	text       string
	precedence int
	location   source.Location
}

var operatorTable = []struct {
	kind       lexer.Kind
	text       string
	precedence int
}{
	{lexer.KindDot, ".", 0},
	{lexer.KindAsterisk, "*", 2},
	{lexer.KindSlash, "/", 2},
	{lexer.KindPercent, "%", 2},
	{lexer.KindPlus, "+", 3},
	{lexer.KindMinus, "-", 3},
	{lexer.KindEquals, "=", 4},
}

func (p *parser) operator() parsec.Parser[operator] {
	parsers := make([]parsec.Parser[operator], len(operatorTable))
	for i, entry := range operatorTable {
		entry := entry
		parsers[i] = parsec.Map(parsec.ExpectKind(entry.kind), func(t lexer.Token) operator {
			return operator{kind: entry.kind, text: entry.text, precedence: entry.precedence, location: t.Location}
		})
	}
	return parsec.Any(parsers...)
}

// exprPart is one raw element of the flat operator/term stream the combinator
// layer produces before precedence climbing reassembles it into a tree.
type exprPart struct {
	op   *operator
	term ast.Expr
}

func (pt exprPart) span() source.Location {
	if pt.op != nil {
		return pt.op.location
	}
	return pt.term.Span()
}

func (p *parser) exprPart() parsec.Parser[exprPart] {
	op := parsec.Map(p.operator(), func(o operator) exprPart { return exprPart{op: &o} })
	term := parsec.Map(p.exprTerm(), func(e ast.Expr) exprPart { return exprPart{term: e} })
	return parsec.Any(op, term, parsec.Fail[exprPart]("expression or operator"))
}

// expr := ExprTerm (Op ExprTerm)* -- precedence climbing
func (p *parser) expr() parsec.Parser[ast.Expr] {
	return parsec.Recursive(func() parsec.Parser[ast.Expr] {
		part := p.exprPart()
		return func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.Expr] {
			first := part(c, backtracking)
			if first.Status != parsec.Ok {
				return parsec.Result[ast.Expr]{Status: first.Status, Errors: first.Errors}
			}
			parts := []exprPart{first.Value}
			for {
				next := part(c, true)
				if next.Status == parsec.Err {
					return parsec.Result[ast.Expr]{Status: parsec.Err, Errors: next.Errors}
				}
				if next.Status == parsec.Backtracked {
					break
				}
				parts = append(parts, next.Value)
			}
			expr, err := p.makeExpr(parts)
			if err != nil {
				return parsec.ErrResult[ast.Expr](*err)
			}
			return parsec.OkResult(expr)
		}
	})
}

// makeExpr runs the two-pass shunting/climbing algorithm: first it inserts
// the implicit function-call operator between adjacent terms and checks that
// operators and terms strictly alternate, then it folds the resulting list
// by precedence climbing, left-associatively.
func (p *parser) makeExpr(parts []exprPart) (ast.Expr, *diag.Diagnostic) {
	if parts[0].op != nil {
		d := diag.New(diag.CategoryParse, parts[0].op.location, "expression cannot begin with an operator")
		return nil, &d
	}

	firstTerm, err := unwrapTupleLike(parts[0].term)
	if err != nil {
		return nil, err
	}
	normalized := []exprPart{{term: firstTerm}}
	for i := 1; i < len(parts); i++ {
		prev := normalized[len(normalized)-1]
		cur := parts[i]
		switch {
		case prev.op == nil && cur.op == nil:
			if _, ok := cur.term.(*ast.TupleLike); ok {
				normalized = append(normalized, exprPart{op: &operator{kind: callOperatorKind, text: "", precedence: 1, location: cur.term.Span()}})
			} else {
				d := diag.New(diag.CategoryParse, cur.term.Span(), "expected an operator or a function call")
				return nil, &d
			}
		case prev.op != nil && cur.op != nil:
			d := diag.New(diag.CategoryParse, cur.op.location, "expected an expression")
			return nil, &d
		}
		normalized = append(normalized, cur)
	}

	expr, _, err := p.buildExpr(normalized, nil)
	return expr, err
}

// callOperatorKind is a synthetic operator kind, not produced by the lexer,
// standing for the implicit juxtaposition-is-a-call operator.
const callOperatorKind lexer.Kind = -1

// rightOpFirst reports whether, given "x `left` y `right` z", the right
// operator binds tighter and so should be climbed into before folding left.
func rightOpFirst(left, right *operator) bool {
	if left == nil {
		return true
	}
	if left.kind == right.kind {
		return false // every operator here is left-associative
	}
	return left.precedence > right.precedence
}

// buildExpr folds a flat, already-normalized part list by precedence
// climbing, consuming operators that bind tighter than lastOp and returning
// the built expression and the unconsumed remainder.
func (p *parser) buildExpr(nodes []exprPart, lastOp *operator) (ast.Expr, []exprPart, *diag.Diagnostic) {
	left := nodes[0].term
	nodes = nodes[1:]
	for len(nodes) > 0 && rightOpFirst(lastOp, nodes[0].op) {
		op := nodes[0].op
		nodes = nodes[1:]
		right, rest, err := p.buildExpr(nodes, op)
		if err != nil {
			return nil, nil, err
		}
		nodes = rest
		built, err := p.buildNode(left, op, right)
		if err != nil {
			return nil, nil, err
		}
		left = built
	}
	return left, nodes, nil
}

func (p *parser) buildNode(left ast.Expr, op *operator, right ast.Expr) (ast.Expr, *diag.Diagnostic) {
	left, err := unwrapTupleLike(left)
	if err != nil {
		return nil, err
	}
	if op.kind != callOperatorKind {
		right, err = unwrapTupleLike(right)
		if err != nil {
			return nil, err
		}
	}

	span := source.Wrap(left.Span(), right.Span())
	switch {
	case op.kind == callOperatorKind:
		tl, ok := right.(*ast.TupleLike)
		if !ok {
			d := diag.New(diag.CategoryParse, right.Span(), "expected a parenthesized argument list")
			return nil, &d
		}
		return ast.NewCall(p.next(), left, tl.Parts, span), nil
	case op.kind == lexer.KindDot:
		v, ok := right.(*ast.Var)
		if !ok {
			d := diag.New(diag.CategoryParse, right.Span(), "expected a member name")
			return nil, &d
		}
		return ast.NewMember(p.next(), left, v.Name, span), nil
	case op.kind == lexer.KindEquals:
		switch left.(type) {
		case *ast.Var, *ast.Member:
			return ast.NewAssign(p.next(), left, right, span), nil
		default:
			d := diag.New(diag.CategoryParse, left.Span(), "can only assign to a variable or a member")
			return nil, &d
		}
	default:
		fn := ast.NewVar(p.next(), op.text, op.location)
		return ast.NewCall(p.next(), fn, []ast.Expr{left, right}, span), nil
	}
}

// unwrapTupleLike collapses a single-element parenthesized form into its
// element; a TupleLike with any other arity surviving to this point (outside
// of being a call's argument list) is a parse error.
func unwrapTupleLike(e ast.Expr) (ast.Expr, *diag.Diagnostic) {
	tl, ok := e.(*ast.TupleLike)
	if !ok {
		return e, nil
	}
	if len(tl.Parts) == 1 {
		return tl.Parts[0], nil
	}
	d := diag.New(diag.CategoryParse, tl.Span(), "unexpected function-call syntax")
	return nil, &d
}

// exprTerm := Value | FitExpr | '(' Expr,* ')' | FunInst | Var | DisCtor
func (p *parser) exprTerm() parsec.Parser[ast.Expr] {
	return parsec.Any(
		parsec.Map(p.value(), func(v *ast.Value) ast.Expr { return v }),
		parsec.Map(p.fitExpr(), func(f *ast.FitExpr) ast.Expr { return f }),
		p.tupleLike(),
		parsec.Map(p.funInst(), func(f *ast.FunInst) ast.Expr { return f }),
		parsec.Map(p.varExpr(), func(v *ast.Var) ast.Expr { return v }),
		parsec.Map(p.disConstructor(), func(d *ast.DisConstructor) ast.Expr { return d }),
		parsec.Fail[ast.Expr]("an expression"),
	)
}

// value := Integer | String
func (p *parser) value() parsec.Parser[*ast.Value] {
	integer := parsec.Map(parsec.ExpectKind(lexer.KindInteger), func(t lexer.Token) *ast.Value {
		return ast.NewValue(p.next(), ast.ValueInt, t.Text, t.Location)
	})
	str := parsec.Map(parsec.ExpectKind(lexer.KindString), func(t lexer.Token) *ast.Value {
		return ast.NewValue(p.next(), ast.ValueString, unquote(t.Text), t.Location)
	})
	return parsec.Any(integer, str, parsec.Fail[*ast.Value]("a value"))
}

// tupleLike := '(' Expr,* ')'
func (p *parser) tupleLike() parsec.Parser[ast.Expr] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[ast.Expr] {
		open := parsec.ExpectKind(lexer.KindOpenParen)(c, backtracking)
		if open.Status != parsec.Ok {
			return parsec.Result[ast.Expr]{Status: open.Status, Errors: open.Errors}
		}
		// commit: '(' unambiguously selects this production
		items := parsec.Interspersed(p.expr(), parsec.ExpectKind(lexer.KindComma), 0)(c, false)
		if items.Status != parsec.Ok {
			return parsec.Result[ast.Expr]{Status: items.Status, Errors: items.Errors}
		}
		closeParen := parsec.ExpectKind(lexer.KindCloseParen)(c, false)
		if closeParen.Status != parsec.Ok {
			return parsec.Result[ast.Expr]{Status: closeParen.Status, Errors: closeParen.Errors}
		}
		span := source.Wrap(open.Value.Location, closeParen.Value.Location)
		return parsec.OkResult[ast.Expr](ast.NewTupleLike(p.next(), items.Value, span))
	}
}

// funInst := lname Generics (generics mandatory -- a bare lname is a Var)
func (p *parser) funInst() parsec.Parser[*ast.FunInst] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.FunInst] {
		name := parsec.ExpectKind(lexer.KindVarName)(c, backtracking)
		if name.Status != parsec.Ok {
			return parsec.Result[*ast.FunInst]{Status: name.Status, Errors: name.Errors}
		}
		generics := p.genericArgs()(c, true)
		if generics.Status != parsec.Ok {
			return parsec.Result[*ast.FunInst]{Status: generics.Status, Errors: generics.Errors}
		}
		span := source.Wrap(name.Value.Location, generics.Value[len(generics.Value)-1].Span())
		return parsec.OkResult(ast.NewFunInst(p.next(), name.Value.Text, generics.Value, span))
	}
}

// varExpr := lname
func (p *parser) varExpr() parsec.Parser[*ast.Var] {
	return parsec.Map(parsec.ExpectKind(lexer.KindVarName), func(t lexer.Token) *ast.Var {
		return ast.NewVar(p.next(), t.Text, t.Location)
	})
}

// disConstructor := UName Generics? '::' UName
func (p *parser) disConstructor() parsec.Parser[*ast.DisConstructor] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.DisConstructor] {
		name := parsec.ExpectKind(lexer.KindEnumName)(c, backtracking)
		if name.Status != parsec.Ok {
			return parsec.Result[*ast.DisConstructor]{Status: name.Status, Errors: name.Errors}
		}
		generics := parsec.Optional(p.genericArgs(), []ast.TypeExpr(nil))(c, true)
		if generics.Status == parsec.Err {
			return parsec.Result[*ast.DisConstructor]{Status: generics.Status, Errors: generics.Errors}
		}
		dcolon := parsec.ExpectKind(lexer.KindDoubleColon)(c, true)
		if dcolon.Status != parsec.Ok {
			return parsec.Result[*ast.DisConstructor]{Status: dcolon.Status, Errors: dcolon.Errors}
		}
		// commit: '::' unambiguously selects this production
		variant := parsec.ExpectKind(lexer.KindEnumName)(c, false)
		if variant.Status != parsec.Ok {
			return parsec.Result[*ast.DisConstructor]{Status: variant.Status, Errors: variant.Errors}
		}
		span := source.Wrap(name.Value.Location, variant.Value.Location)
		return parsec.OkResult(ast.NewDisConstructor(p.next(), name.Value.Text, generics.Value, variant.Value.Text, span))
	}
}

// fitExpr := 'fit' Expr '{' FitExprBranch,+ '}'
func (p *parser) fitExpr() parsec.Parser[*ast.FitExpr] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.FitExpr] {
		kw := parsec.ExpectKind(lexer.KindKwFit)(c, backtracking)
		if kw.Status != parsec.Ok {
			return parsec.Result[*ast.FitExpr]{Status: kw.Status, Errors: kw.Errors}
		}
		// commit: 'fit' unambiguously selects this production
		value := p.expr()(c, false)
		if value.Status != parsec.Ok {
			return parsec.Result[*ast.FitExpr]{Status: value.Status, Errors: value.Errors}
		}
		open := parsec.ExpectKind(lexer.KindOpenBrace)(c, false)
		if open.Status != parsec.Ok {
			return parsec.Result[*ast.FitExpr]{Status: open.Status, Errors: open.Errors}
		}
		branches := parsec.Interspersed(p.fitExprBranch(), parsec.ExpectKind(lexer.KindComma), 1)(c, false)
		if branches.Status != parsec.Ok {
			return parsec.Result[*ast.FitExpr]{Status: branches.Status, Errors: branches.Errors}
		}
		closeBrace := parsec.ExpectKind(lexer.KindCloseBrace)(c, false)
		if closeBrace.Status != parsec.Ok {
			return parsec.Result[*ast.FitExpr]{Status: closeBrace.Status, Errors: closeBrace.Errors}
		}
		span := source.Wrap(kw.Value.Location, closeBrace.Value.Location)
		return parsec.OkResult(ast.NewFitExpr(p.next(), value.Value, branches.Value, span))
	}
}

// fitExprBranch := Pattern '=>' Expr, guarded the same way fitStmtBranch is.
func (p *parser) fitExprBranch() parsec.Parser[*ast.FitExprBranch] {
	return func(c *parsec.Cursor, backtracking bool) parsec.Result[*ast.FitExprBranch] {
		guard := parsec.Not(parsec.ExpectKind(lexer.KindCloseBrace))(c, backtracking)
		if guard.Status != parsec.Ok {
			return parsec.Result[*ast.FitExprBranch]{Status: guard.Status, Errors: guard.Errors}
		}
		// commit: a branch is now required
		pat := p.pattern()(c, false)
		if pat.Status != parsec.Ok {
			return parsec.Result[*ast.FitExprBranch]{Status: pat.Status, Errors: pat.Errors}
		}
		arrow := parsec.ExpectKind(lexer.KindFatArrow)(c, false)
		if arrow.Status != parsec.Ok {
			return parsec.Result[*ast.FitExprBranch]{Status: arrow.Status, Errors: arrow.Errors}
		}
		body := p.expr()(c, false)
		if body.Status != parsec.Ok {
			return parsec.Result[*ast.FitExprBranch]{Status: body.Status, Errors: body.Errors}
		}
		span := source.Wrap(pat.Value.Span(), body.Value.Span())
		return parsec.OkResult(ast.NewFitExprBranch(p.next(), pat.Value, body.Value, span))
	}
}
