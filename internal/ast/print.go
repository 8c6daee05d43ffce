package ast

import (
	"fmt"
	"strings"
)

// Print renders program back to dis/fit surface syntax: parsing Print's
// output reproduces a tree equivalent to program. Unlike Dump, which emits
// an indented debug tree for --parse diagnostics, Print's output is meant
// to be fed back through the lexer and parser.
func Print(program *Program) string {
	var b strings.Builder
	for i, item := range program.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		printDecl(&b, item, 0)
	}
	return b.String()
}

func printDecl(b *strings.Builder, d Decl, depth int) {
	switch n := d.(type) {
	case *Dis:
		printIndent(b, depth)
		fmt.Fprintf(b, "dis %s%s {\n", n.Name, genericsString(n.Generics))
		for i, v := range n.Variants {
			printIndent(b, depth+1)
			b.WriteString(printDisVariant(v))
			if i < len(n.Variants)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		printIndent(b, depth)
		b.WriteString("}\n")
	case *Fun:
		printIndent(b, depth)
		fmt.Fprintf(b, "fun %s%s(%s)%s ", n.Name, genericsString(n.Generics), printArgsString(n.Args), retArrowString(n.Ret))
		printBlock(b, n.Body, depth)
		b.WriteString("\n")
	case *ExprItem:
		printIndent(b, depth)
		b.WriteString(printExpr(n.Value))
		b.WriteString("\n")
	default:
		printIndent(b, depth)
		fmt.Fprintf(b, "<unknown decl %T>\n", d)
	}
}

func printDisVariant(v *DisVariant) string {
	if len(v.Args) == 0 {
		return v.Name
	}
	return fmt.Sprintf("%s(%s)", v.Name, printArgsString(v.Args))
}

// retArrowString renders a fun's return-type clause, omitting it entirely
// when Ret is the implicit VoidType a bare 'fun f() { ... }' produces.
func retArrowString(ret TypeExpr) string {
	if _, ok := ret.(*VoidType); ok {
		return ""
	}
	return " -> " + printType(ret)
}

func printType(t TypeExpr) string {
	switch n := t.(type) {
	case nil:
		return ""
	case *WildcardType:
		return "?"
	case *VoidType:
		return ""
	case *DisType:
		return n.Name + genericArgsString(n.Generics)
	case *FunctionType:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = printType(a)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), printType(n.Ret))
	case *DisConstructorType:
		return n.Name + genericArgsString(n.Generics) + "::" + n.Variant
	default:
		return fmt.Sprintf("<unknown type %T>", t)
	}
}

func genericArgsString(types []TypeExpr) string {
	if len(types) == 0 {
		return ""
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = printType(t)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// printArgsString renders a declaration's argument list using printType
// (not pretty.go's dumpType) for each argument's type annotation.
func printArgsString(args []*Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s: %s", a.Name, printType(a.Type))
	}
	return strings.Join(parts, ", ")
}

func printIndent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func printBlock(b *strings.Builder, block *Block, depth int) {
	b.WriteString("{\n")
	for _, s := range block.Stmts {
		printIndent(b, depth+1)
		b.WriteString(printStmt(s, depth+1))
		b.WriteString(";\n")
	}
	printIndent(b, depth)
	b.WriteString("}")
}

// printStmt renders a single statement with no trailing ';' or newline --
// the caller (printBlock, or a fit branch) adds whatever terminator its own
// grammar position requires.
func printStmt(s Stmt, depth int) string {
	switch n := s.(type) {
	case *Block:
		var b strings.Builder
		printBlock(&b, n, depth)
		return b.String()
	case *Let:
		return fmt.Sprintf("let %s = %s", n.Name, printExpr(n.Value))
	case *Ret:
		if n.Value == nil {
			return "ret"
		}
		return "ret " + printExpr(n.Value)
	case *Write:
		return "wrt " + quoteString(n.Text)
	case *FitStatement:
		branches := make([]string, len(n.Branches))
		for i, br := range n.Branches {
			branches[i] = fmt.Sprintf("%s => %s", printPattern(br.Pattern), printStmt(br.Body, depth))
		}
		return fmt.Sprintf("fit %s { %s }", printExpr(n.Value), strings.Join(branches, ", "))
	case *ExprStmt:
		return printExpr(n.Value)
	default:
		return fmt.Sprintf("<unknown stmt %T>", s)
	}
}

// operatorNames are the Var names the expression builder desugars infix
// arithmetic into (Call(Var(op), [l, r])); printExpr reverses that
// desugaring back to infix form.
var operatorNames = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
}

func printExpr(e Expr) string {
	switch n := e.(type) {
	case *Value:
		return printValue(n)
	case *Var:
		return n.Name
	case *FunInst:
		return n.Name + genericArgsString(n.Generics)
	case *Call:
		if fn, ok := n.Fun.(*Var); ok && operatorNames[fn.Name] && len(n.Args) == 2 {
			return fmt.Sprintf("(%s %s %s)", printExpr(n.Args[0]), fn.Name, printExpr(n.Args[1]))
		}
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = printExpr(a)
		}
		return fmt.Sprintf("%s(%s)", printExpr(n.Fun), strings.Join(args, ", "))
	case *Member:
		return printExpr(n.Value) + "." + n.Field
	case *Assign:
		return printExpr(n.Target) + " = " + printExpr(n.Value)
	case *DisConstructor:
		return n.Name + genericArgsString(n.Generics) + "::" + n.Variant
	case *FitExpr:
		branches := make([]string, len(n.Branches))
		for i, br := range n.Branches {
			branches[i] = fmt.Sprintf("%s => %s", printPattern(br.Pattern), printExpr(br.Body))
		}
		return fmt.Sprintf("fit %s { %s }", printExpr(n.Value), strings.Join(branches, ", "))
	case *TupleLike:
		parts := make([]string, len(n.Parts))
		for i, p := range n.Parts {
			parts[i] = printExpr(p)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func printValue(v *Value) string {
	if v.Kind == ValueString {
		return quoteString(v.Text)
	}
	return v.Text
}

// quoteString re-escapes a decoded string literal's contents, the inverse
// of the parser's unquote.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

// printPattern renders a fit-branch pattern, including any of its own
// patternArg children directly (no parens -- the grammar accepts a bare
// UName followed by patternArg* with no separator or delimiter).
func printPattern(p Pattern) string {
	switch n := p.(type) {
	case *VariantPattern:
		if len(n.Args) == 0 {
			return n.Name
		}
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = printPatternArg(a)
		}
		return n.Name + " " + strings.Join(parts, " ")
	case *CatchallPattern:
		return "_"
	case *ValuePattern:
		return printValue(n.Value)
	default:
		return fmt.Sprintf("<unknown pattern %T>", p)
	}
}

// printPatternArg renders one element of a variant pattern's argument list.
// A nested variant pattern that itself carries args must be parenthesized
// (patternArg's bare-UName alternative never takes args of its own); every
// other pattern is already an atom and needs no wrapping.
func printPatternArg(p Pattern) string {
	if vp, ok := p.(*VariantPattern); ok && len(vp.Args) > 0 {
		return "(" + printPattern(vp) + ")"
	}
	return printPattern(p)
}
