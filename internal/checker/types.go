package checker

import (
	"fmt"

	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/prelude"
	"github.com/tylua/tylua/internal/typesystem"
)

// resolveTypeExpr reconstructs a typesystem.Type from surface type
// syntax. A nil TypeExpr (annotation absent) resolves to Nil only at
// call sites that pass nil deliberately; callers check for a nil
// annotation themselves before calling this.
func (c *Checker) resolveTypeExpr(e ast.TypeExpr) typesystem.Type {
	switch t := e.(type) {
	case nil:
		return typesystem.Nil{}
	case *ast.TypeNil:
		return typesystem.Nil{}
	case *ast.TypeName:
		switch t.Name {
		case "number":
			return typesystem.Number{}
		case "string":
			return typesystem.String{}
		case "boolean":
			return typesystem.Boolean{}
		}
		if ty, ok := c.scope.LookupType(t.Name); ok {
			return ty
		}
		c.sink.Error(diagnostics.UndeclaredType, t.Rng, t.Name)
		return typesystem.Unknown{}
	case *ast.TypeGeneric:
		return c.resolveTypeGeneric(t)
	case *ast.TypeFunction:
		params := make([]typesystem.Type, len(t.Params))
		for i, p := range t.Params {
			pt := c.resolveTypeExpr(p)
			if t.Variadic && i == len(t.Params)-1 {
				pt = typesystem.Variadic{Inner: pt}
			}
			params[i] = pt
		}
		var ret typesystem.Type = typesystem.Nil{}
		if t.Return != nil {
			ret = c.resolveTypeExpr(t.Return)
		}
		return typesystem.Function{Params: params, Return: ret}
	case *ast.TypeTable:
		if t.Array != nil {
			return typesystem.Table{Array: []typesystem.Type{c.resolveTypeExpr(t.Array)}}
		}
		m := make(map[string]typesystem.Type, len(t.Fields))
		for _, f := range t.Fields {
			m[f.Name] = c.resolveTypeExpr(f.Type)
		}
		return typesystem.Table{Map: m}
	case *ast.TypeGroup:
		types := make([]typesystem.Type, len(t.Types))
		for i, tt := range t.Types {
			types[i] = c.resolveTypeExpr(tt)
		}
		return typesystem.Group{Types: types}
	default:
		return typesystem.Unknown{}
	}
}

// resolveTypeGeneric handles `name<args...>`: either one of the two
// stdlib constructors (option/union) handled directly, or a named
// Generic resolved via the type environment and instantiated.
func (c *Checker) resolveTypeGeneric(t *ast.TypeGeneric) typesystem.Type {
	args := make([]typesystem.Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = c.resolveTypeExpr(a)
	}

	if prelude.IsGenericConstructor(t.Name) {
		if t.Name == "option" {
			if len(args) != 1 {
				c.sink.Error(diagnostics.OptionCallArityMismatch, t.Rng, fmt.Sprintf("%d", len(args)))
				return typesystem.Unknown{}
			}
			return typesystem.Option{Inner: args[0]}
		}
		return typesystem.Union{Types: args}
	}

	ty, ok := c.scope.LookupType(t.Name)
	if !ok {
		c.sink.Error(diagnostics.UndeclaredType, t.Rng, t.Name)
		return typesystem.Unknown{}
	}
	generic, ok := ty.(typesystem.Generic)
	if !ok {
		// A non-generic alias referenced with type arguments: there is
		// nothing to substitute, so the alias stands for itself.
		return ty
	}
	if len(args) != len(generic.Variables) {
		c.sink.Error(diagnostics.GenericCallArityMismatch, t.Rng, t.Name,
			fmt.Sprintf("%d", len(generic.Variables)), fmt.Sprintf("%d", len(args)))
		return typesystem.Unknown{}
	}
	return typesystem.Instantiate(generic, args, c.resolveGenericCallee)
}

func (c *Checker) resolveGenericCallee(name string) (typesystem.Generic, bool) {
	ty, ok := c.scope.LookupType(name)
	if !ok {
		return typesystem.Generic{}, false
	}
	g, ok := ty.(typesystem.Generic)
	return g, ok
}
