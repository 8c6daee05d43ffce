package ast

import (
	"fmt"
	"strings"
)

// Dump renders program as an indented tree, the way --parse prints the
// parsed-but-not-yet-checked AST.
func Dump(program *Program) string {
	var b strings.Builder
	for i, item := range program.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		dumpDecl(&b, item, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpDecl(b *strings.Builder, d Decl, depth int) {
	switch n := d.(type) {
	case *Dis:
		indent(b, depth)
		fmt.Fprintf(b, "dis %s%s\n", n.Name, genericsString(n.Generics))
		for _, v := range n.Variants {
			indent(b, depth+1)
			fmt.Fprintf(b, "variant %s(%s)\n", v.Name, argsString(v.Args))
		}
	case *Fun:
		indent(b, depth)
		fmt.Fprintf(b, "fun %s%s(%s) -> %s\n", n.Name, genericsString(n.Generics), argsString(n.Args), dumpType(n.Ret))
		dumpBlock(b, n.Body, depth+1)
	case *ExprItem:
		indent(b, depth)
		b.WriteString("expr-item\n")
		dumpExpr(b, n.Value, depth+1)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "<unknown decl %T>\n", d)
	}
}

func genericsString(g *GenericParams) string {
	if g == nil || len(g.Names) == 0 {
		return ""
	}
	return "[" + strings.Join(g.Names, ", ") + "]"
}

func argsString(args []*Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s: %s", a.Name, dumpType(a.Type))
	}
	return strings.Join(parts, ", ")
}

func dumpType(t TypeExpr) string {
	switch n := t.(type) {
	case nil:
		return "Void"
	case *WildcardType:
		return "?"
	case *VoidType:
		return "Void"
	case *DisType:
		return n.Name + typeListString(n.Generics)
	case *FunctionType:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = dumpType(a)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), dumpType(n.Ret))
	case *DisConstructorType:
		return n.Name + typeListString(n.Generics) + "::" + n.Variant
	default:
		return fmt.Sprintf("<unknown type %T>", t)
	}
}

func typeListString(types []TypeExpr) string {
	if len(types) == 0 {
		return ""
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = dumpType(t)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func dumpBlock(b *strings.Builder, block *Block, depth int) {
	for _, s := range block.Stmts {
		dumpStmt(b, s, depth)
	}
}

func dumpStmt(b *strings.Builder, s Stmt, depth int) {
	switch n := s.(type) {
	case *Block:
		indent(b, depth)
		b.WriteString("block\n")
		dumpBlock(b, n, depth+1)
	case *Let:
		indent(b, depth)
		fmt.Fprintf(b, "let %s =\n", n.Name)
		dumpExpr(b, n.Value, depth+1)
	case *Ret:
		indent(b, depth)
		b.WriteString("ret\n")
		if n.Value != nil {
			dumpExpr(b, n.Value, depth+1)
		}
	case *Write:
		indent(b, depth)
		fmt.Fprintf(b, "write %q\n", n.Text)
	case *FitStatement:
		indent(b, depth)
		b.WriteString("fit-stmt\n")
		dumpExpr(b, n.Value, depth+1)
		for _, branch := range n.Branches {
			indent(b, depth+1)
			fmt.Fprintf(b, "case %s =>\n", dumpPattern(branch.Pattern))
			dumpStmt(b, branch.Body, depth+2)
		}
	case *ExprStmt:
		dumpExpr(b, n.Value, depth)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "<unknown stmt %T>\n", s)
	}
}

func dumpExpr(b *strings.Builder, e Expr, depth int) {
	indent(b, depth)
	switch n := e.(type) {
	case *Value:
		if n.Kind == ValueString {
			fmt.Fprintf(b, "%q\n", n.Text)
		} else {
			fmt.Fprintf(b, "%s\n", n.Text)
		}
	case *Var:
		fmt.Fprintf(b, "var %s\n", n.Name)
	case *FunInst:
		fmt.Fprintf(b, "fun-inst %s%s\n", n.Name, typeListString(n.Generics))
	case *Call:
		b.WriteString("call\n")
		dumpExpr(b, n.Fun, depth+1)
		for _, a := range n.Args {
			dumpExpr(b, a, depth+1)
		}
	case *Member:
		fmt.Fprintf(b, "member .%s\n", n.Field)
		dumpExpr(b, n.Value, depth+1)
	case *Assign:
		b.WriteString("assign\n")
		dumpExpr(b, n.Target, depth+1)
		dumpExpr(b, n.Value, depth+1)
	case *DisConstructor:
		fmt.Fprintf(b, "dis-constructor %s%s::%s\n", n.Name, typeListString(n.Generics), n.Variant)
	case *FitExpr:
		b.WriteString("fit-expr\n")
		dumpExpr(b, n.Value, depth+1)
		for _, branch := range n.Branches {
			indent(b, depth+1)
			fmt.Fprintf(b, "case %s =>\n", dumpPattern(branch.Pattern))
			dumpExpr(b, branch.Body, depth+2)
		}
	case *TupleLike:
		b.WriteString("tuple-like\n")
		for _, p := range n.Parts {
			dumpExpr(b, p, depth+1)
		}
	default:
		fmt.Fprintf(b, "<unknown expr %T>\n", e)
	}
}

func dumpPattern(p Pattern) string {
	switch n := p.(type) {
	case *VariantPattern:
		if len(n.Args) == 0 {
			return n.Name
		}
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = dumpPattern(a)
		}
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(parts, ", "))
	case *CatchallPattern:
		return "_"
	case *ValuePattern:
		return dumpExprInline(n.Value)
	default:
		return fmt.Sprintf("<unknown pattern %T>", p)
	}
}

func dumpExprInline(v *Value) string {
	if v.Kind == ValueString {
		return fmt.Sprintf("%q", v.Text)
	}
	return v.Text
}
