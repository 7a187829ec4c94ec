package checker

import (
	"fmt"

	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/typesystem"
)

// checkExpr checks e and returns its type. Every diagnostic is
// recoverable: on any mismatch the checker appends to the sink and
// substitutes the best available fallback, then keeps walking.
func (c *Checker) checkExpr(e ast.Expression) typesystem.Type {
	switch expr := e.(type) {
	case *ast.Literal:
		return literalType(expr)
	case *ast.Identifier:
		t, _, ok := c.scope.Lookup(expr.Name)
		if !ok {
			c.sink.Error(diagnostics.UndeclaredVariable, expr.Rng, expr.Name)
			return typesystem.Unknown{}
		}
		return t
	case *ast.Call:
		return c.checkCall(expr)
	case *ast.Member:
		return c.checkMember(expr)
	case *ast.Index:
		return c.checkIndex(expr)
	case *ast.Binary:
		return c.checkBinary(expr)
	case *ast.Unary:
		return c.checkUnary(expr)
	case *ast.Grouped:
		return c.checkGrouped(expr)
	case *ast.Table:
		return c.checkTableLiteral(expr)
	case *ast.FunctionLit:
		return c.checkFunctionLit(expr)
	case *ast.Require:
		if c.loader == nil {
			return typesystem.Unknown{}
		}
		return c.loader.Require(expr.Name, expr.Rng, c.sink)
	case *ast.Assign:
		c.checkAssign(expr)
		return typesystem.Nil{}
	default:
		return typesystem.Unknown{}
	}
}

func (c *Checker) checkGrouped(e *ast.Grouped) typesystem.Type {
	if len(e.Exprs) == 0 {
		return typesystem.Nil{}
	}
	var last typesystem.Type
	for _, sub := range e.Exprs {
		last = c.checkExpr(sub)
	}
	return last
}

func (c *Checker) checkCall(e *ast.Call) typesystem.Type {
	calleeType := c.checkExpr(e.Callee)

	var argTypes []typesystem.Type
	if e.Args != nil {
		argTypes = make([]typesystem.Type, len(e.Args.Exprs))
		for i, a := range e.Args.Exprs {
			argTypes[i] = c.checkExpr(a)
		}
	}

	if _, ok := calleeType.(typesystem.Unknown); ok {
		return typesystem.Unknown{}
	}

	fn, ok := calleeType.(typesystem.Function)
	if !ok {
		c.sink.Error(diagnostics.ExpectedFunction, e.Rng, calleeType.String())
		return typesystem.Unknown{}
	}

	variadicIdx := -1
	for i, p := range fn.Params {
		if _, ok := p.(typesystem.Variadic); ok {
			variadicIdx = i
		}
	}
	required := len(fn.Params)
	if variadicIdx >= 0 {
		required = variadicIdx
	}

	if variadicIdx >= 0 {
		if len(argTypes) < required {
			c.sink.Error(diagnostics.FunctionArityMismatch, e.Rng, fmt.Sprintf("%d", required), fmt.Sprintf("%d", len(argTypes)))
		}
	} else if len(argTypes) != required {
		c.sink.Error(diagnostics.FunctionArityMismatch, e.Rng, fmt.Sprintf("%d", required), fmt.Sprintf("%d", len(argTypes)))
	}

	for i := 0; i < required && i < len(argTypes); i++ {
		if !typesystem.Match(fn.Params[i], argTypes[i]) {
			c.sink.Error(diagnostics.MismatchedTypes, e.Rng, fn.Params[i].String(), argTypes[i].String())
		}
	}
	if variadicIdx >= 0 {
		inner := fn.Params[variadicIdx].(typesystem.Variadic).Inner
		for i := required; i < len(argTypes); i++ {
			if !typesystem.Match(inner, argTypes[i]) {
				c.sink.Error(diagnostics.MismatchedTypes, e.Rng, inner.String(), argTypes[i].String())
			}
		}
	}

	if fn.Return == nil {
		return typesystem.Nil{}
	}
	return fn.Return
}

func (c *Checker) checkMember(e *ast.Member) typesystem.Type {
	baseType := c.checkExpr(e.Base)
	if _, ok := baseType.(typesystem.Unknown); ok {
		return typesystem.Unknown{}
	}
	tbl, ok := baseType.(typesystem.Table)
	if !ok {
		c.sink.Error(diagnostics.ExpectedTable, e.Rng, baseType.String())
		return typesystem.Unknown{}
	}
	field, ok := tbl.Map[e.Name]
	if !ok {
		c.sink.Error(diagnostics.KeyNotFoundInTable, e.Rng, e.Name)
		return typesystem.Unknown{}
	}
	return field
}

func (c *Checker) checkIndex(e *ast.Index) typesystem.Type {
	baseType := c.checkExpr(e.Base)
	keyType := c.checkExpr(e.Key)

	if _, ok := baseType.(typesystem.Unknown); ok {
		return typesystem.Unknown{}
	}
	tbl, ok := baseType.(typesystem.Table)
	if !ok {
		c.sink.Error(diagnostics.ExpectedTable, e.Rng, baseType.String())
		return typesystem.Unknown{}
	}

	if lit, ok := e.Key.(*ast.Literal); ok {
		switch lit.Kind {
		case ast.LiteralString:
			field, ok := tbl.Map[lit.Text]
			if !ok {
				c.sink.Error(diagnostics.KeyNotFoundInTable, e.Rng, lit.Text)
				return typesystem.Unknown{}
			}
			return field
		case ast.LiteralNumber:
			switch len(tbl.Array) {
			case 0:
				return typesystem.Nil{}
			case 1:
				return tbl.Array[0]
			default:
				return typesystem.NewUnion(tbl.Array...)
			}
		}
	}

	if !isNumberOrUnknown(keyType) && !isStringOrUnknown(keyType) {
		c.sink.Error(diagnostics.MismatchedAccessorType, e.BracketRng, keyType.String())
	}
	return typesystem.Unknown{}
}

func (c *Checker) checkBinary(e *ast.Binary) typesystem.Type {
	left := c.checkExpr(e.Left)
	right := c.checkExpr(e.Right)

	switch e.Op {
	case "+", "-", "*", "/", "%", "//":
		if !isNumberOrUnknown(left) || !isNumberOrUnknown(right) {
			c.sink.Error(diagnostics.UnsupportedOperator, e.Rng, e.Op, left.String(), right.String())
		}
		return typesystem.Number{}
	case "..":
		if !isConcatable(left) || !isConcatable(right) {
			c.sink.Error(diagnostics.UnsupportedOperator, e.Rng, e.Op, left.String(), right.String())
		}
		return typesystem.String{}
	case "==", "~=":
		return typesystem.Boolean{}
	case "<", ">", "<=", ">=":
		if !sameFamily(left, right) {
			c.sink.Error(diagnostics.UnsupportedOperator, e.Rng, e.Op, left.String(), right.String())
		}
		return typesystem.Boolean{}
	case "and", "or":
		if !isBooleanOrUnknown(left) || !isBooleanOrUnknown(right) {
			c.sink.Error(diagnostics.UnsupportedOperator, e.Rng, e.Op, left.String(), right.String())
		}
		return typesystem.Boolean{}
	default:
		return typesystem.Unknown{}
	}
}

func (c *Checker) checkUnary(e *ast.Unary) typesystem.Type {
	operand := c.checkExpr(e.Operand)
	switch e.Op {
	case "-":
		if !isNumberOrUnknown(operand) {
			c.sink.Error(diagnostics.UnsupportedOperator, e.Rng, e.Op, operand.String(), "")
		}
		return typesystem.Number{}
	case "#":
		switch operand.(type) {
		case typesystem.Table, typesystem.String, typesystem.Unknown:
		default:
			c.sink.Error(diagnostics.UnsupportedOperator, e.Rng, e.Op, operand.String(), "")
		}
		return typesystem.Number{}
	case "not":
		return typesystem.Boolean{}
	default:
		return typesystem.Unknown{}
	}
}

func (c *Checker) checkTableLiteral(e *ast.Table) typesystem.Type {
	var array []typesystem.Type
	var m map[string]typesystem.Type

	for _, entry := range e.Entries {
		if entry.Key == nil {
			array = append(array, c.checkExpr(entry.Value))
			continue
		}

		var keyName string
		switch k := entry.Key.(type) {
		case *ast.Identifier:
			keyName = k.Name
		case *ast.Literal:
			if k.Kind == ast.LiteralString {
				keyName = k.Text
			} else {
				c.sink.Error(diagnostics.MismatchedKeyType, entry.Value.Range())
			}
		default:
			c.sink.Error(diagnostics.MismatchedKeyType, entry.Value.Range())
		}

		valType := c.checkExpr(entry.Value)
		if keyName != "" {
			if m == nil {
				m = make(map[string]typesystem.Type)
			}
			m[keyName] = valType
		}
	}

	return typesystem.Table{Array: array, Map: m}
}

func (c *Checker) checkFunctionLit(e *ast.FunctionLit) typesystem.Type {
	return c.checkFunctionLike(e.Params, e.Return, e.Body)
}
