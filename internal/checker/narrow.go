package checker

import (
	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/typesystem"
)

// applyNarrowing is a shallow syntactic check on the controlling
// condition of an `if`/`elseif`/`while`, introducing a refined binding
// in the frame the caller already entered for the consequent. It never
// persists past that frame (LeaveFrame discards it like any other
// local).
func (c *Checker) applyNarrowing(cond ast.Expression) {
	bin, ok := cond.(*ast.Binary)
	if !ok || bin.Op != "==" {
		return
	}
	name, ok := narrowingTarget(bin.Left)
	if !ok {
		return
	}

	var rhsType typesystem.Type
	switch r := bin.Right.(type) {
	case *ast.Literal:
		rhsType = literalType(r)
	case *ast.Identifier:
		t, _, ok := c.scope.Lookup(r.Name)
		if !ok {
			return
		}
		rhsType = t
	default:
		return
	}

	xType, _, ok := c.scope.Lookup(name)
	if !ok {
		return
	}

	var narrowed typesystem.Type
	switch xt := xType.(type) {
	case typesystem.Union:
		narrowed = rhsType
		for _, m := range xt.Types {
			if typesystem.Match(m, rhsType) {
				narrowed = m
				break
			}
		}
	case typesystem.Option:
		if typesystem.IsNil(rhsType) {
			narrowed = typesystem.Nil{}
		} else {
			narrowed = xt.Inner
		}
	default:
		narrowed = rhsType
	}

	c.scope.Declare(c.scope.Current(), name, narrowed, bin.Rng, true)
}

// applyNegatedNarrowing mirrors applyNarrowing but for the false branch
// of the same equality condition: an option<T> narrows to its non-nil
// inner type when the condition tested for nil, and a Union narrows to
// its remaining members when one was just ruled out.
func (c *Checker) applyNegatedNarrowing(cond ast.Expression) {
	bin, ok := cond.(*ast.Binary)
	if !ok || bin.Op != "==" {
		return
	}
	name, ok := narrowingTarget(bin.Left)
	if !ok {
		return
	}

	var rhsType typesystem.Type
	switch r := bin.Right.(type) {
	case *ast.Literal:
		rhsType = literalType(r)
	case *ast.Identifier:
		t, _, ok := c.scope.Lookup(r.Name)
		if !ok {
			return
		}
		rhsType = t
	default:
		return
	}

	xType, _, ok := c.scope.Lookup(name)
	if !ok {
		return
	}

	var narrowed typesystem.Type
	switch xt := xType.(type) {
	case typesystem.Option:
		if !typesystem.IsNil(rhsType) {
			return
		}
		narrowed = xt.Inner
	case typesystem.Union:
		var remaining []typesystem.Type
		removed := false
		for _, m := range xt.Types {
			if !removed && typesystem.Match(m, rhsType) {
				removed = true
				continue
			}
			remaining = append(remaining, m)
		}
		if !removed || len(remaining) == 0 {
			return
		}
		if len(remaining) == 1 {
			narrowed = remaining[0]
		} else {
			narrowed = typesystem.NewUnion(remaining...)
		}
	default:
		return
	}

	c.scope.Declare(c.scope.Current(), name, narrowed, bin.Rng, true)
}

// narrowingTarget recognizes the two shapes allowed on the left of a
// narrowing `==`: a bare identifier, or a `type(x)` call.
func narrowingTarget(e ast.Expression) (string, bool) {
	switch v := e.(type) {
	case *ast.Identifier:
		return v.Name, true
	case *ast.Call:
		callee, ok := v.Callee.(*ast.Identifier)
		if !ok || callee.Name != "type" || len(v.Args.Exprs) != 1 {
			return "", false
		}
		if id, ok := v.Args.Exprs[0].(*ast.Identifier); ok {
			return id.Name, true
		}
	}
	return "", false
}

func literalType(l *ast.Literal) typesystem.Type {
	switch l.Kind {
	case ast.LiteralNumber:
		return typesystem.Number{}
	case ast.LiteralString:
		return typesystem.String{}
	case ast.LiteralBool:
		return typesystem.Boolean{}
	default:
		return typesystem.Nil{}
	}
}
