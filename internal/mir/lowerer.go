package mir

import (
	"fmt"

	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/types"
)

// Lowerer walks a type-checked program and produces its IR. It never
// mutates the AST; type information is read out of the checker's
// TypeTable and declaration context.
type Lowerer struct {
	ctx   *types.Context
	types *types.TypeTable

	// varSlots/argSlots are rebuilt per function by prescan.
	varSlots map[string]int
	argSlots map[string]int
}

// NewLowerer builds a Lowerer from a successful types.Check result.
func NewLowerer(result *types.Result) *Lowerer {
	return &Lowerer{ctx: result.Ctx, types: result.Types}
}

// Lower lowers every Fun in program, plus one generated constructor
// function per dis variant (0-based, in declaration order), nullary
// variants included.
func (l *Lowerer) Lower(program *ast.Program) *Program {
	out := &Program{}
	for _, item := range program.Items {
		if dis, ok := item.(*ast.Dis); ok {
			out.Funs = append(out.Funs, l.constructorFuns(dis)...)
		}
	}
	for _, item := range program.Items {
		if fun, ok := item.(*ast.Fun); ok {
			out.Funs = append(out.Funs, l.lowerFun(fun))
		}
	}
	return out
}

// constructorFuns generates __Dis__N(args...) = ret Create(N, args) for
// every variant of dis, nullary ones included (variant_id is 0-based, the
// declaration order of the variant within its dis): a bare
// `Dis::Variant` use still lowers directly to Create at its use site
// without going through the generated function, but the function itself
// is always emitted as a named value any reference to the constructor
// can resolve to.
func (l *Lowerer) constructorFuns(dis *ast.Dis) []*Fun {
	out := make([]*Fun, 0, len(dis.Variants))
	for i, variant := range dis.Variants {
		variantID := i
		args := make([]Expr, len(variant.Args))
		for j := range variant.Args {
			args[j] = &ArgRef{Slot: j}
		}
		out = append(out, &Fun{
			Name:     constructorName(dis.Name, variantID),
			ArgCount: len(variant.Args),
			Body:     []Stmt{&Ret{Value: &Create{VariantID: variantID, Args: args}}},
		})
	}
	return out
}

func constructorName(disName string, variantID int) string {
	return fmt.Sprintf("__%s__%d", disName, variantID)
}

func (l *Lowerer) lowerFun(fun *ast.Fun) *Fun {
	l.argSlots = map[string]int{}
	for i, a := range fun.Args {
		l.argSlots[a.Name] = i
	}
	l.varSlots = map[string]int{}
	prescanLets(fun.Body, l.varSlots)

	return &Fun{
		Name:       fun.Name,
		ArgCount:   len(fun.Args),
		LocalCount: len(l.varSlots),
		Body:       l.lowerBlock(fun.Body),
	}
}

// prescanLets assigns a frame slot to every distinct Let name in body, in
// first-occurrence order, the way spec's local_count pre-scan does.
func prescanLets(block *ast.Block, slots map[string]int) {
	for _, s := range block.Stmts {
		prescanStmt(s, slots)
	}
}

func prescanStmt(s ast.Stmt, slots map[string]int) {
	switch n := s.(type) {
	case *ast.Let:
		if _, ok := slots[n.Name]; !ok {
			slots[n.Name] = len(slots)
		}
	case *ast.Block:
		prescanLets(n, slots)
	case *ast.FitStatement:
		for _, b := range n.Branches {
			prescanStmt(b.Body, slots)
		}
	}
}

func (l *Lowerer) lowerBlock(block *ast.Block) []Stmt {
	out := make([]Stmt, 0, len(block.Stmts))
	for _, s := range block.Stmts {
		out = append(out, l.lowerStmt(s))
	}
	return out
}

func (l *Lowerer) lowerStmt(s ast.Stmt) Stmt {
	switch n := s.(type) {
	case *ast.Block:
		return &BlockStmt{Stmts: l.lowerBlock(n)}
	case *ast.Let:
		return &Let{Slot: l.varSlots[n.Name], Value: l.lowerExpr(n.Value)}
	case *ast.Ret:
		if n.Value == nil {
			return &Ret{}
		}
		return &Ret{Value: l.lowerExpr(n.Value)}
	case *ast.Write:
		return &Print{Text: n.Text}
	case *ast.FitStatement:
		branches := make([]FitStmtBranch, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = FitStmtBranch{Pattern: l.lowerTopPattern(b.Pattern), Body: l.lowerStmt(b.Body)}
		}
		return &FitStmt{Scrutinee: l.lowerExpr(n.Value), Branches: branches}
	case *ast.ExprStmt:
		if assign, ok := n.Value.(*ast.Assign); ok {
			return &AssignStmt{Address: l.lowerAddress(assign.Target), Value: l.lowerExpr(assign.Value)}
		}
		return &ExprStmt{Value: l.lowerExpr(n.Value)}
	default:
		panic(fmt.Sprintf("mir: unhandled statement %T", s))
	}
}

func (l *Lowerer) lowerExpr(e ast.Expr) Expr {
	switch n := e.(type) {
	case *ast.Value:
		if n.Kind == ast.ValueString {
			return &StringLit{Value: n.Text}
		}
		return &IntLit{Value: n.Text}
	case *ast.Var:
		if slot, ok := l.argSlots[n.Name]; ok {
			return &ArgRef{Slot: slot}
		}
		if slot, ok := l.varSlots[n.Name]; ok {
			return &VarRef{Slot: slot}
		}
		return &FunNameRef{Name: n.Name}
	case *ast.FunInst:
		return &FunNameRef{Name: n.Name}
	case *ast.Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = l.lowerExpr(a)
		}
		return &Call{Fun: l.lowerExpr(n.Fun), Args: args}
	case *ast.Member:
		fieldIndex := l.memberFieldIndex(n)
		return &Member{Value: l.lowerExpr(n.Value), FieldIndex: fieldIndex}
	case *ast.Assign:
		// The validator restricts Assign to statement position, where
		// lowerStmt's *ast.ExprStmt case unwraps it into an AssignStmt
		// before ever calling lowerExpr on it.
		panic("mir: Assign reached lowerExpr outside statement position")
	case *ast.DisConstructor:
		decl := l.ctx.GetDis(n.Name)
		variant := decl.GetVariant(n.Variant)
		variantID := decl.GetVariantID(n.Variant)
		if variant.ArgCount() == 0 {
			return &Create{VariantID: variantID}
		}
		return &FunNameRef{Name: constructorName(n.Name, variantID)}
	case *ast.FitExpr:
		branches := make([]FitExprBranch, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = FitExprBranch{Pattern: l.lowerTopPattern(b.Pattern), Body: l.lowerExpr(b.Body)}
		}
		return &FitExprIR{Scrutinee: l.lowerExpr(n.Value), Branches: branches}
	default:
		panic(fmt.Sprintf("mir: unhandled expression %T", e))
	}
}

func (l *Lowerer) lowerAddress(e ast.Expr) Address {
	switch n := e.(type) {
	case *ast.Var:
		if slot, ok := l.argSlots[n.Name]; ok {
			return &ArgAddress{Slot: slot}
		}
		return &VarAddress{Slot: l.varSlots[n.Name]}
	case *ast.Member:
		return &MemberAddress{Value: l.lowerExpr(n.Value), FieldIndex: l.memberFieldIndex(n)}
	default:
		panic(fmt.Sprintf("mir: unhandled assignment target %T", e))
	}
}

func (l *Lowerer) memberFieldIndex(m *ast.Member) int {
	exprTy, _ := l.types.Get(m.Value)
	disTy, ok := exprTy.(types.DisTy)
	if !ok {
		return -1
	}
	pat, ok := disTy.Pattern.(types.TyPattern)
	if !ok {
		return -1
	}
	decl := l.ctx.GetDis(disTy.Name)
	return decl.GetVariant(pat.Name).ArgIndex(m.Field)
}

// lowerTopPattern compiles a fit branch's top-level pattern: nil marks the
// catchall/else branch.
func (l *Lowerer) lowerTopPattern(p ast.Pattern) *Pattern {
	vp, ok := p.(*ast.VariantPattern)
	if !ok {
		return nil
	}
	return l.lowerVariantPattern(vp)
}

func (l *Lowerer) lowerVariantPattern(vp *ast.VariantPattern) *Pattern {
	return l.lowerVariantPatternForDis(vp, l.disDeclForVariant(vp.Name))
}

// lowerVariantPatternForDis compiles a variant pattern once its owning dis
// declaration is known, recursing into each declared field: a field left
// unwritten by a bare mention, one matched by a catchall, or one that
// isn't itself a dis all carry a nil child, since none of them is
// inspected at runtime.
func (l *Lowerer) lowerVariantPatternForDis(vp *ast.VariantPattern, decl *types.DisDeclaration) *Pattern {
	variantID := decl.GetVariantID(vp.Name)
	variant := decl.GetVariant(vp.Name)
	children := make([]*Pattern, len(variant.Args))
	for i := range children {
		if i >= len(vp.Args) {
			continue
		}
		fieldDis, isDis := variant.Args[i].Ty.(types.DisTy)
		childVP, isVariant := vp.Args[i].(*ast.VariantPattern)
		if !isDis || !isVariant {
			continue
		}
		children[i] = l.lowerVariantPatternForDis(childVP, l.ctx.GetDis(fieldDis.Name))
	}
	return &Pattern{VariantID: variantID, Children: children}
}

func (l *Lowerer) disDeclForVariant(variantName string) *types.DisDeclaration {
	for _, decl := range l.ctx.Dises {
		if decl.HasVariant(variantName) {
			return decl
		}
	}
	return nil
}
