// Package ast defines the tagged-union tree produced by the parser: types,
// declarations, statements, expressions, and patterns. Every node carries a
// source location and a stable NodeID; semantic types are attached
// out-of-band by the type checker rather than mutated into the nodes
// themselves (see internal/types.TypeTable).
package ast

import "github.com/dis-lang/disc/internal/source"

// NodeID uniquely identifies a node for the out-of-band Ty attachment the
// type checker produces. IDs are assigned once, at parse time, and never
// reused.
type NodeID int

// Node is implemented by every AST node.
type Node interface {
	Span() source.Location
	ID() NodeID
}

// TypeExpr is a parsed type annotation, prior to semantic conversion.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Decl is a top-level item: a dis declaration or a function declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a fit-branch pattern: either a variant pattern or the catchall.
type Pattern interface {
	Node
	patternNode()
}

type base struct {
	id   NodeID
	span source.Location
}

func (b base) ID() NodeID            { return b.id }
func (b base) Span() source.Location { return b.span }

// Program is the root node: every top-level item in a compilation unit.
type Program struct {
	base
	Items []Decl
}

func NewProgram(id NodeID, items []Decl, span source.Location) *Program {
	return &Program{base: base{id, span}, Items: items}
}

// --- Types ---------------------------------------------------------------

// WildcardType is the explicit '?' in a generic position.
type WildcardType struct{ base }

func NewWildcardType(id NodeID, span source.Location) *WildcardType {
	return &WildcardType{base{id, span}}
}
func (*WildcardType) typeExprNode() {}

// VoidType is the implicit return type when a fun omits '-> Type'.
type VoidType struct{ base }

func NewVoidType(id NodeID, span source.Location) *VoidType {
	return &VoidType{base{id, span}}
}
func (*VoidType) typeExprNode() {}

// DisType names a dis with its generic argument types, e.g. "Pair[Int, T]".
type DisType struct {
	base
	Name     string
	Generics []TypeExpr
}

func NewDisType(id NodeID, name string, generics []TypeExpr, span source.Location) *DisType {
	return &DisType{base: base{id, span}, Name: name, Generics: generics}
}
func (*DisType) typeExprNode() {}

// FunctionType is a chain of '->'-separated argument types ending in a result.
type FunctionType struct {
	base
	Args []TypeExpr
	Ret  TypeExpr
}

func NewFunctionType(id NodeID, args []TypeExpr, ret TypeExpr, span source.Location) *FunctionType {
	return &FunctionType{base: base{id, span}, Args: args, Ret: ret}
}
func (*FunctionType) typeExprNode() {}

// DisConstructorType names one refined variant of a dis in type position,
// e.g. the return type of a zero-arg constructor: "Name[Generics]::Variant".
type DisConstructorType struct {
	base
	Name     string
	Generics []TypeExpr
	Variant  string
}

func NewDisConstructorType(id NodeID, name string, generics []TypeExpr, variant string, span source.Location) *DisConstructorType {
	return &DisConstructorType{base: base{id, span}, Name: name, Generics: generics, Variant: variant}
}
func (*DisConstructorType) typeExprNode() {}

// --- Declarations ----------------------------------------------------------

// GenericParams is the '[T,U,...]' binder list on a dis or fun declaration.
type GenericParams struct {
	base
	Names []string
}

func NewGenericParams(id NodeID, names []string, span source.Location) *GenericParams {
	return &GenericParams{base: base{id, span}, Names: names}
}

// Arg is a named, typed declaration argument: 'name: Type'.
type Arg struct {
	base
	Name string
	Type TypeExpr
}

func NewArg(id NodeID, name string, typ TypeExpr, span source.Location) *Arg {
	return &Arg{base: base{id, span}, Name: name, Type: typ}
}

// DisVariant is one alternative of a dis: a name plus optional fields.
type DisVariant struct {
	base
	Name string
	Args []*Arg
}

func NewDisVariant(id NodeID, name string, args []*Arg, span source.Location) *DisVariant {
	return &DisVariant{base: base{id, span}, Name: name, Args: args}
}

// Dis is a discriminated-sum declaration.
type Dis struct {
	base
	Name     string
	Generics *GenericParams
	Variants []*DisVariant
}

func NewDis(id NodeID, name string, generics *GenericParams, variants []*DisVariant, span source.Location) *Dis {
	return &Dis{base: base{id, span}, Name: name, Generics: generics, Variants: variants}
}
func (*Dis) declNode() {}

// Fun is a function declaration.
type Fun struct {
	base
	Name     string
	Generics *GenericParams
	Args     []*Arg
	Ret      TypeExpr
	Body     *Block
}

func NewFun(id NodeID, name string, generics *GenericParams, args []*Arg, ret TypeExpr, body *Block, span source.Location) *Fun {
	return &Fun{base: base{id, span}, Name: name, Generics: generics, Args: args, Ret: ret, Body: body}
}
func (*Fun) declNode() {}

// ExprItem is a bare expression used directly as a top-level program item.
type ExprItem struct {
	base
	Value Expr
}

func NewExprItem(id NodeID, value Expr, span source.Location) *ExprItem {
	return &ExprItem{base: base{id, span}, Value: value}
}
func (*ExprItem) declNode() {}

// --- Statements ------------------------------------------------------------

// Block is a brace-delimited statement sequence.
type Block struct {
	base
	Stmts []Stmt
}

func NewBlock(id NodeID, stmts []Stmt, span source.Location) *Block {
	return &Block{base: base{id, span}, Stmts: stmts}
}
func (*Block) stmtNode() {}

// Let binds a new local to the value of an expression.
type Let struct {
	base
	Name  string
	Value Expr
}

func NewLet(id NodeID, name string, value Expr, span source.Location) *Let {
	return &Let{base: base{id, span}, Name: name, Value: value}
}
func (*Let) stmtNode() {}

// Ret returns from the enclosing function, optionally with a value.
type Ret struct {
	base
	Value Expr // nil for a bare 'ret;'
}

func NewRet(id NodeID, value Expr, span source.Location) *Ret {
	return &Ret{base: base{id, span}, Value: value}
}
func (*Ret) stmtNode() {}

// Write prints a decoded string literal.
type Write struct {
	base
	Text string // already unescaped
}

func NewWrite(id NodeID, text string, span source.Location) *Write {
	return &Write{base: base{id, span}, Text: text}
}
func (*Write) stmtNode() {}

// FitBranch is embedded by both fit-expression and fit-statement arms to
// share the pattern field and location handling.
type FitBranch struct {
	base
	Pattern Pattern
}

// FitExprBranch is a fit-expression arm: 'Pattern => Expr'.
type FitExprBranch struct {
	FitBranch
	Body Expr
}

func NewFitExprBranch(id NodeID, pattern Pattern, body Expr, span source.Location) *FitExprBranch {
	return &FitExprBranch{FitBranch: FitBranch{base{id, span}, pattern}, Body: body}
}

// FitStmtBranch is a fit-statement arm: 'Pattern => Stmt'.
type FitStmtBranch struct {
	FitBranch
	Body Stmt
}

func NewFitStmtBranch(id NodeID, pattern Pattern, body Stmt, span source.Location) *FitStmtBranch {
	return &FitStmtBranch{FitBranch: FitBranch{base{id, span}, pattern}, Body: body}
}

// FitStatement is the statement-position form of fit: its branches have no
// combined value type.
type FitStatement struct {
	base
	Value    Expr
	Branches []*FitStmtBranch
}

func NewFitStatement(id NodeID, value Expr, branches []*FitStmtBranch, span source.Location) *FitStatement {
	return &FitStatement{base: base{id, span}, Value: value, Branches: branches}
}
func (*FitStatement) stmtNode() {}

// ExprStmt wraps a bare expression used in statement position (includes a
// top-level Assign, which the validator restricts to exactly this spot).
type ExprStmt struct {
	base
	Value Expr
}

func NewExprStmt(id NodeID, value Expr, span source.Location) *ExprStmt {
	return &ExprStmt{base: base{id, span}, Value: value}
}
func (*ExprStmt) stmtNode() {}

// --- Expressions -------------------------------------------------------------

// ValueKind distinguishes the literal kinds a Value token may carry.
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueString
)

// Value is an integer or string literal.
type Value struct {
	base
	Kind ValueKind
	Text string // raw token text (digits, or the decoded string contents)
}

func NewValue(id NodeID, kind ValueKind, text string, span source.Location) *Value {
	return &Value{base: base{id, span}, Kind: kind, Text: text}
}
func (*Value) exprNode() {}

// Var is a bare lowercase-identifier reference to a local, argument, or
// zero-generic function.
type Var struct {
	base
	Name string
}

func NewVar(id NodeID, name string, span source.Location) *Var {
	return &Var{base: base{id, span}, Name: name}
}
func (*Var) exprNode() {}

// FunInst instantiates a generic function with explicit type arguments:
// 'name[G1, G2]'.
type FunInst struct {
	base
	Name     string
	Generics []TypeExpr
}

func NewFunInst(id NodeID, name string, generics []TypeExpr, span source.Location) *FunInst {
	return &FunInst{base: base{id, span}, Name: name, Generics: generics}
}
func (*FunInst) exprNode() {}

// Call applies a callee to a flattened list of arguments.
type Call struct {
	base
	Fun  Expr
	Args []Expr
}

func NewCall(id NodeID, fun Expr, args []Expr, span source.Location) *Call {
	return &Call{base: base{id, span}, Fun: fun, Args: args}
}
func (*Call) exprNode() {}

// Member projects a field off a dis value: 'expr.field'.
type Member struct {
	base
	Value Expr
	Field string
}

func NewMember(id NodeID, value Expr, field string, span source.Location) *Member {
	return &Member{base: base{id, span}, Value: value, Field: field}
}
func (*Member) exprNode() {}

// Assign writes a new value through an lvalue ('Var' or 'Member'). The
// grammar produces this as an ordinary expression; the validator restricts
// it to statement position (see Open Questions).
type Assign struct {
	base
	Target Expr
	Value  Expr
}

func NewAssign(id NodeID, target, value Expr, span source.Location) *Assign {
	return &Assign{base: base{id, span}, Target: target, Value: value}
}
func (*Assign) exprNode() {}

// DisConstructor references a dis variant as a value or as a constructor
// function: 'Name[Generics]::Variant'.
type DisConstructor struct {
	base
	Name     string
	Generics []TypeExpr
	Variant  string
}

func NewDisConstructor(id NodeID, name string, generics []TypeExpr, variant string, span source.Location) *DisConstructor {
	return &DisConstructor{base: base{id, span}, Name: name, Generics: generics, Variant: variant}
}
func (*DisConstructor) exprNode() {}

// FitExpr is the expression-position form of fit: its value is the LUB of
// every branch body's type.
type FitExpr struct {
	base
	Value    Expr
	Branches []*FitExprBranch
}

func NewFitExpr(id NodeID, value Expr, branches []*FitExprBranch, span source.Location) *FitExpr {
	return &FitExpr{base: base{id, span}, Value: value, Branches: branches}
}
func (*FitExpr) exprNode() {}

// TupleLike is the transient parse of a parenthesized, comma-separated
// expression list: '(' Expr,* ')'. It never survives into a checked tree —
// the expression builder unwraps a single-element TupleLike into its lone
// part and flattens a TupleLike that immediately follows a term into that
// term's call arguments; any TupleLike left over elsewhere is a parse error.
type TupleLike struct {
	base
	Parts []Expr
}

func NewTupleLike(id NodeID, parts []Expr, span source.Location) *TupleLike {
	return &TupleLike{base: base{id, span}, Parts: parts}
}
func (*TupleLike) exprNode() {}

// --- Patterns ----------------------------------------------------------------

// VariantPattern fixes one variant of a dis, optionally recursing into its
// fields via nested sub-patterns.
type VariantPattern struct {
	base
	Name string
	Args []Pattern // nil when the variant pattern names no sub-patterns
}

func NewVariantPattern(id NodeID, name string, args []Pattern, span source.Location) *VariantPattern {
	return &VariantPattern{base: base{id, span}, Name: name, Args: args}
}
func (*VariantPattern) patternNode() {}

// CatchallPattern is the wildcard '_'.
type CatchallPattern struct{ base }

func NewCatchallPattern(id NodeID, span source.Location) *CatchallPattern {
	return &CatchallPattern{base{id, span}}
}
func (*CatchallPattern) patternNode() {}

// ValuePattern matches a literal value, e.g. a fit arm on an Int or String.
type ValuePattern struct {
	base
	Value *Value
}

func NewValuePattern(id NodeID, value *Value, span source.Location) *ValuePattern {
	return &ValuePattern{base: base{id, span}, Value: value}
}
func (*ValuePattern) patternNode() {}
