package types

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/validator"
)

// findDisDeclarations converts every validated dis into its DisDeclaration
// (variant names and field types), each converted in a frame that binds
// the dis's own generics so field types referencing them become TyVars.
func (c *Checker) findDisDeclarations(valResult *validator.Result) {
	for name, decl := range valResult.Dises {
		disNode := c.ctx.DisNodes[name]
		c.ctx.Push()
		c.ctx.AddGenerics(disNode.Generics)
		variants := make([]VariantDeclaration, len(disNode.Variants))
		for i, v := range disNode.Variants {
			args := make([]Arg, len(v.Args))
			for j, a := range v.Args {
				args[j] = Arg{Name: a.Name, Ty: c.conv.convertType(a.Type)}
			}
			variants[i] = VariantDeclaration{Name: v.Name, Args: args}
		}
		c.ctx.Pop()
		c.ctx.Dises[name] = &DisDeclaration{GenericArgCount: decl.GenericCount, Variants: variants}
	}
}

// findFunDeclarations converts every validated function's argument and
// return types into a FunctionDeclaration, in a frame binding its generics.
func (c *Checker) findFunDeclarations(valResult *validator.Result) {
	for name, decl := range valResult.Funs {
		funNode := c.ctx.FunNodes[name]
		c.ctx.Functions[name] = &FunctionDeclaration{
			GenericArgCount: decl.GenericCount,
			Ty:              c.getFunType(funNode),
		}
	}
}

func (c *Checker) getFunType(fun *ast.Fun) FunTy {
	c.ctx.Push()
	c.ctx.AddGenerics(fun.Generics)
	argTypes := make([]Ty, len(fun.Args))
	for i, a := range fun.Args {
		argTypes[i] = c.conv.convertType(a.Type)
	}
	retType := c.conv.convertType(fun.Ret)
	c.ctx.Pop()
	return FunTy{ArgTypes: argTypes, ResultType: retType}
}

// checkFun types a function's body in a frame binding its generics and
// its arguments (typed per its own declared signature), checking every
// ret statement in the body against the declared result type.
func (c *Checker) checkFun(fun *ast.Fun) {
	decl := c.ctx.Functions[fun.Name]
	if decl == nil {
		return
	}
	c.ctx.Push()
	c.ctx.AddGenerics(fun.Generics)
	for i, a := range fun.Args {
		if i < len(decl.Ty.ArgTypes) {
			c.ctx.AddLocalVar(a.Name, decl.Ty.ArgTypes[i])
		}
	}
	prevNode, prevTy := c.ctx.CurrentFunctionNode, c.ctx.CurrentFunctionTy
	c.ctx.CurrentFunctionNode = fun
	funTy := decl.Ty
	c.ctx.CurrentFunctionTy = &funTy
	c.checkBlock(fun.Body)
	c.ctx.CurrentFunctionNode, c.ctx.CurrentFunctionTy = prevNode, prevTy
	c.ctx.Pop()
}
