package checker

import (
	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/span"
	"github.com/tylua/tylua/internal/typesystem"
)

// declare applies shadowing, redundancy, and consistency checks, then
// writes a (name, annotation, assigned_type) triple into the current
// frame.
func (c *Checker) declare(name string, annotationExpr ast.TypeExpr, assigned typesystem.Type, rng span.Range, local bool) {
	frame := c.scope.Current()
	prevType, hadPrev := frame.Variables[name]

	if local {
		if _, ok := frame.Variables[name]; ok && frame.Locals[name] {
			c.sink.Error(diagnostics.RedeclaredInSameScope, rng, name)
		} else if c.scope.LookupOuter(name) {
			c.sink.Warning(diagnostics.ShadowedVariable, rng, name)
		}
	}

	var annotation typesystem.Type
	if annotationExpr != nil {
		annotation = c.resolveTypeExpr(annotationExpr)
	}

	if annotation != nil {
		matches := typesystem.Match(annotation, assigned)
		if matches && hadPrev && typesystem.Equal(prevType, annotation) {
			c.sink.Warning(diagnostics.RedundantType, rng, name)
		}
		if !matches {
			c.sink.Error(diagnostics.MismatchedTypes, rng, annotation.String(), assigned.String())
		}
	}

	finalType := assigned
	if annotation != nil {
		if _, isUnknown := annotation.(typesystem.Unknown); !isUnknown {
			finalType = annotation
		}
	}

	c.scope.Declare(frame, name, finalType, rng, local)
}

// flattenValues checks each expression left-to-right and flattens the
// last one if it yields a Group, so `local a, b = f()` destructures a
// two-element Group returned by f positionally.
func (c *Checker) flattenValues(exprs []ast.Expression) []typesystem.Type {
	var out []typesystem.Type
	for i, e := range exprs {
		t := c.checkExpr(e)
		if i == len(exprs)-1 {
			if g, ok := t.(typesystem.Group); ok {
				out = append(out, g.Types...)
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
