package mir

import (
	"fmt"
	"strings"
)

// PrettyPrint returns a human-readable text form of the whole program, the
// text printed by --ll and, by default, in place of the (out-of-scope)
// emitted assembly.
func (p *Program) PrettyPrint() string {
	var b strings.Builder
	for i, fn := range p.Funs {
		if i > 0 {
			b.WriteString("\n")
		}
		fn.prettyPrint(&b)
	}
	return b.String()
}

func (f *Fun) prettyPrint(b *strings.Builder) {
	fmt.Fprintf(b, "fun %s(args=%d, locals=%d) {\n", f.Name, f.ArgCount, f.LocalCount)
	for _, s := range f.Body {
		prettyStmt(b, s, 1)
	}
	b.WriteString("}\n")
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func prettyStmt(b *strings.Builder, s Stmt, depth int) {
	indent(b, depth)
	switch n := s.(type) {
	case *Let:
		fmt.Fprintf(b, "let v%d = %s\n", n.Slot, prettyExpr(n.Value))
	case *Ret:
		if n.Value == nil {
			b.WriteString("ret\n")
		} else {
			fmt.Fprintf(b, "ret %s\n", prettyExpr(n.Value))
		}
	case *Print:
		fmt.Fprintf(b, "print %q\n", n.Text)
	case *AssignStmt:
		fmt.Fprintf(b, "%s = %s\n", prettyAddress(n.Address), prettyExpr(n.Value))
	case *ExprStmt:
		fmt.Fprintf(b, "%s\n", prettyExpr(n.Value))
	case *BlockStmt:
		b.WriteString("block {\n")
		for _, s := range n.Stmts {
			prettyStmt(b, s, depth+1)
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *FitStmt:
		fmt.Fprintf(b, "fit %s {\n", prettyExpr(n.Scrutinee))
		for _, branch := range n.Branches {
			indent(b, depth+1)
			fmt.Fprintf(b, "%s =>\n", prettyPattern(branch.Pattern))
			prettyStmt(b, branch.Body, depth+2)
		}
		indent(b, depth)
		b.WriteString("}\n")
	default:
		fmt.Fprintf(b, "<unknown stmt %T>\n", s)
	}
}

func prettyAddress(a Address) string {
	switch n := a.(type) {
	case *VarAddress:
		return fmt.Sprintf("v%d", n.Slot)
	case *ArgAddress:
		return fmt.Sprintf("a%d", n.Slot)
	case *MemberAddress:
		return fmt.Sprintf("%s.%d", prettyExpr(n.Value), n.FieldIndex)
	default:
		return fmt.Sprintf("<unknown address %T>", a)
	}
}

func prettyExpr(e Expr) string {
	switch n := e.(type) {
	case *IntLit:
		return n.Value
	case *StringLit:
		return fmt.Sprintf("%q", n.Value)
	case *VarRef:
		return fmt.Sprintf("v%d", n.Slot)
	case *ArgRef:
		return fmt.Sprintf("a%d", n.Slot)
	case *FunNameRef:
		return n.Name
	case *Create:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = prettyExpr(a)
		}
		return fmt.Sprintf("create(%d, %s)", n.VariantID, strings.Join(parts, ", "))
	case *Call:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = prettyExpr(a)
		}
		return fmt.Sprintf("%s(%s)", prettyExpr(n.Fun), strings.Join(parts, ", "))
	case *Member:
		return fmt.Sprintf("%s.%d", prettyExpr(n.Value), n.FieldIndex)
	case *FitExprIR:
		var b strings.Builder
		fmt.Fprintf(&b, "fit %s { ", prettyExpr(n.Scrutinee))
		for i, branch := range n.Branches {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s => %s", prettyPattern(branch.Pattern), prettyExpr(branch.Body))
		}
		b.WriteString(" }")
		return b.String()
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func prettyPattern(p *Pattern) string {
	if p == nil {
		return "_"
	}
	if len(p.Children) == 0 {
		return fmt.Sprintf("#%d", p.VariantID)
	}
	parts := make([]string, len(p.Children))
	for i, c := range p.Children {
		parts[i] = prettyPattern(c)
	}
	return fmt.Sprintf("#%d(%s)", p.VariantID, strings.Join(parts, ", "))
}
