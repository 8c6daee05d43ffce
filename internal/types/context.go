package types

import "github.com/dis-lang/disc/internal/ast"

// frame is one lexical scope: the locals introduced by 'let'/arguments in
// this scope, and the generic parameters bound here, each given the index
// position it occupies in that declaration's substitution list.
type frame struct {
	locals      map[string]Ty
	genericNums map[string]int
}

func newFrame() *frame {
	return &frame{locals: map[string]Ty{}, genericNums: map[string]int{}}
}

func (f *frame) hasGeneric(name string) bool {
	_, ok := f.genericNums[name]
	return ok
}

// Context is the typing context threaded through the whole checker: the
// resolved dis/function tables, the declaring AST nodes (needed to anchor
// diagnostics), the built-in scalar types, and the lexical-scope stack.
type Context struct {
	DisNodes    map[string]*ast.Dis
	Dises       map[string]*DisDeclaration
	Functions   map[string]*FunctionDeclaration
	FunNodes    map[string]*ast.Fun
	SimpleTypes map[string]Ty

	CurrentFunctionNode *ast.Fun
	CurrentFunctionTy   *FunTy

	stack []*frame
}

// builtinOperators are the arithmetic operator symbols the expression
// builder desugars into Call(Var(op), [left, right]) — mirroring
// validator.builtinOperators, they need a function table entry of their
// own since no ast.Fun declares them.
var builtinOperators = []string{"+", "-", "*", "/", "%"}

// NewContext builds an empty context seeded with the built-in scalar types
// and operator functions. DisNodes/FunNodes/Dises/Functions are otherwise
// populated by Checker from a validator.Result, which has already
// discarded duplicated/errored declarations.
func NewContext() *Context {
	c := &Context{
		DisNodes:  map[string]*ast.Dis{},
		Dises:     map[string]*DisDeclaration{},
		Functions: map[string]*FunctionDeclaration{},
		FunNodes:  map[string]*ast.Fun{},
		SimpleTypes: map[string]Ty{
			"Int":    SimpleType{Name: "Int"},
			"String": SimpleType{Name: "String"},
			"Void":   SimpleType{Name: "Void"},
		},
		stack: []*frame{newFrame()},
	}
	intTy := c.SimpleTypes["Int"]
	for _, op := range builtinOperators {
		c.Functions[op] = &FunctionDeclaration{
			GenericArgCount: 0,
			Ty:              FunTy{ArgTypes: []Ty{intTy, intTy}, ResultType: intTy},
		}
	}
	return c
}

func (c *Context) Push() { c.stack = append(c.stack, newFrame()) }

func (c *Context) Pop() { c.stack = c.stack[:len(c.stack)-1] }

// HasGeneric searches the frame stack innermost-first, matching how a
// nested function's own generics shadow an enclosing dis's.
func (c *Context) HasGeneric(name string) bool {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].hasGeneric(name) {
			return true
		}
	}
	return false
}

func (c *Context) GetGeneric(name string) int {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].hasGeneric(name) {
			return c.stack[i].genericNums[name]
		}
	}
	return -1
}

func (c *Context) HasDis(name string) bool {
	_, ok := c.Dises[name]
	return ok
}

func (c *Context) GetDis(name string) *DisDeclaration { return c.Dises[name] }

func (c *Context) HasFunction(name string) bool {
	_, ok := c.Functions[name]
	return ok
}

func (c *Context) GetFunction(name string) *FunctionDeclaration { return c.Functions[name] }

func (c *Context) AddLocalVar(name string, ty Ty) {
	c.stack[len(c.stack)-1].locals[name] = ty
}

func (c *Context) HasLocalVar(name string) bool {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if _, ok := c.stack[i].locals[name]; ok {
			return true
		}
	}
	return false
}

func (c *Context) GetLocalVarType(name string) Ty {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if ty, ok := c.stack[i].locals[name]; ok {
			return ty
		}
	}
	return nil
}

// AddGenerics binds each name in generics to its position in the list,
// in the current (innermost) frame.
func (c *Context) AddGenerics(generics *ast.GenericParams) {
	if generics == nil {
		return
	}
	top := c.stack[len(c.stack)-1]
	for i, name := range generics.Names {
		top.genericNums[name] = i
	}
}
