package checker

import (
	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/typesystem"
)

// checkStatement checks one statement and reports whether it "yields"
// a value for module/function return-type inference: a Return yields,
// an If yields when at least one of its branches yields, and a Block
// yields its last statement's yield; every other statement returns
// (nil, false).
func (c *Checker) checkStatement(s ast.Statement) (typesystem.Type, bool) {
	switch stmt := s.(type) {
	case *ast.Local:
		c.checkLocal(stmt)
	case *ast.Assign:
		c.checkAssign(stmt)
	case *ast.If:
		return c.checkIf(stmt)
	case *ast.While:
		c.checkWhile(stmt)
	case *ast.Repeat:
		c.checkRepeat(stmt)
	case *ast.For:
		c.checkFor(stmt)
	case *ast.FunctionStmt:
		c.checkFunctionStmt(stmt)
	case *ast.Return:
		return c.checkReturn(stmt)
	case *ast.TypeDecl:
		c.checkTypeDecl(stmt)
	case *ast.Break, *ast.Continue, *ast.Empty:
		// no-ops for typing.
	case *ast.ExpressionStmt:
		c.checkExpr(stmt.Expr)
	case *ast.Block:
		c.scope.EnterFrame()
		t, y := c.checkBlockStatements(stmt)
		c.leaveFrameWarn()
		return t, y
	}
	return nil, false
}

// checkBlockStatements checks each statement in b in the CURRENT
// frame (the caller is responsible for entering/leaving a fresh one)
// and returns the last statement's yield, matching CheckProgram's
// aggregation rule.
func (c *Checker) checkBlockStatements(b *ast.Block) (typesystem.Type, bool) {
	var lastType typesystem.Type
	var lastYield bool
	for _, stmt := range b.Statements {
		lastType, lastYield = c.checkStatement(stmt)
	}
	return lastType, lastYield
}

func (c *Checker) checkLocal(s *ast.Local) {
	values := c.flattenValues(s.Inits)
	for i, v := range s.Vars {
		var val typesystem.Type = typesystem.Nil{}
		if i < len(values) {
			val = values[i]
		}
		c.declare(v.Name, v.Annotation, val, v.Rng, true)
	}
}

func (c *Checker) checkAssign(s *ast.Assign) {
	values := c.flattenValues(s.Rhs)
	for i, lhs := range s.Lhs {
		var val typesystem.Type = typesystem.Nil{}
		if i < len(values) {
			val = values[i]
		}
		c.assignTarget(lhs, val)
	}
}

func (c *Checker) assignTarget(target ast.Expression, val typesystem.Type) {
	switch t := target.(type) {
	case *ast.Identifier:
		if t.Annotation != nil {
			annType := c.resolveTypeExpr(t.Annotation)
			if !typesystem.Match(annType, val) {
				c.sink.Error(diagnostics.MismatchedTypes, t.Rng, annType.String(), val.String())
			}
			if _, _, ok := c.scope.Lookup(t.Name); ok {
				c.scope.Update(t.Name, annType)
				return
			}
			c.scope.Declare(c.scope.Global(), t.Name, annType, t.Rng, false)
			return
		}
		if _, _, ok := c.scope.Lookup(t.Name); ok {
			c.scope.Update(t.Name, val)
			return
		}
		c.scope.Declare(c.scope.Global(), t.Name, val, t.Rng, false)

	case *ast.Member:
		baseType := c.checkExpr(t.Base)
		if _, ok := baseType.(typesystem.Unknown); ok {
			return
		}
		tbl, ok := baseType.(typesystem.Table)
		if !ok {
			c.sink.Error(diagnostics.ExpectedTable, t.Rng, baseType.String())
			return
		}
		existing, ok := tbl.Map[t.Name]
		if !ok {
			c.sink.Error(diagnostics.KeyNotFoundInTable, t.Rng, t.Name)
			return
		}
		if !typesystem.Match(existing, val) {
			c.sink.Error(diagnostics.MismatchedTypes, t.Rng, existing.String(), val.String())
		}

	case *ast.Index:
		baseType := c.checkExpr(t.Base)
		keyType := c.checkExpr(t.Key)
		if _, ok := baseType.(typesystem.Unknown); ok {
			return
		}
		tbl, ok := baseType.(typesystem.Table)
		if !ok {
			c.sink.Error(diagnostics.ExpectedTable, t.Rng, baseType.String())
			return
		}
		if lit, ok := t.Key.(*ast.Literal); ok && lit.Kind == ast.LiteralString {
			existing, ok := tbl.Map[lit.Text]
			if !ok {
				c.sink.Error(diagnostics.KeyNotFoundInTable, t.Rng, lit.Text)
				return
			}
			if !typesystem.Match(existing, val) {
				c.sink.Error(diagnostics.MismatchedTypes, t.Rng, existing.String(), val.String())
			}
			return
		}
		if !isNumberOrUnknown(keyType) && !isStringOrUnknown(keyType) {
			c.sink.Error(diagnostics.MismatchedAccessorType, t.BracketRng, keyType.String())
		}

	default:
		c.checkExpr(target)
	}
}

func (c *Checker) checkCondition(cond ast.Expression) typesystem.Type {
	t := c.checkExpr(cond)
	if !isBooleanOrUnknown(t) {
		c.sink.Error(diagnostics.MismatchedTypes, cond.Range(), "boolean", t.String())
	}
	return t
}

func (c *Checker) checkIf(s *ast.If) (typesystem.Type, bool) {
	c.checkCondition(s.Cond)

	var results []typesystem.Type

	c.scope.EnterFrame()
	c.applyNarrowing(s.Cond)
	if t, y := c.checkBlockStatements(s.Then); y {
		results = append(results, t)
	}
	c.leaveFrameWarn()

	for _, ei := range s.ElseIfs {
		c.checkCondition(ei.Cond)
		c.scope.EnterFrame()
		c.applyNarrowing(ei.Cond)
		if t, y := c.checkBlockStatements(ei.Then); y {
			results = append(results, t)
		}
		c.leaveFrameWarn()
	}

	if s.Else != nil {
		c.scope.EnterFrame()
		c.applyNegatedNarrowing(s.Cond)
		if t, y := c.checkBlockStatements(s.Else); y {
			results = append(results, t)
		}
		c.leaveFrameWarn()
	}

	switch len(results) {
	case 0:
		return nil, false
	case 1:
		return results[0], true
	default:
		return typesystem.NewUnion(results...), true
	}
}

func (c *Checker) checkWhile(s *ast.While) {
	c.checkCondition(s.Cond)
	c.scope.EnterFrame()
	c.applyNarrowing(s.Cond)
	c.checkBlockStatements(s.Body)
	c.leaveFrameWarn()
}

// checkRepeat evaluates the body before the condition: the "until"
// expression can see the body's locals, per original_source's
// repeat/until evaluation order (the surface grammar has no other way
// to express a loop whose exit test depends on loop-local state).
func (c *Checker) checkRepeat(s *ast.Repeat) {
	c.scope.EnterFrame()
	c.checkBlockStatements(s.Body)
	c.checkCondition(s.Cond)
	c.leaveFrameWarn()
}

func (c *Checker) checkFor(s *ast.For) {
	var name string
	var initType typesystem.Type = typesystem.Unknown{}
	if s.Init != nil {
		if len(s.Init.Lhs) > 0 {
			if id, ok := s.Init.Lhs[0].(*ast.Identifier); ok {
				name = id.Name
			}
		}
		if len(s.Init.Rhs) > 0 {
			initType = c.checkExpr(s.Init.Rhs[0])
		}
	}
	if !isNumberOrUnknown(initType) {
		c.sink.Error(diagnostics.MismatchedTypes, s.Init.Range(), "number", initType.String())
	}

	limitType := c.checkExpr(s.Limit)
	if !isNumberOrUnknown(limitType) {
		c.sink.Error(diagnostics.MismatchedTypes, s.Limit.Range(), "number", limitType.String())
	}
	if s.Step != nil {
		stepType := c.checkExpr(s.Step)
		if !isNumberOrUnknown(stepType) {
			c.sink.Error(diagnostics.MismatchedTypes, s.Step.Range(), "number", stepType.String())
		}
	}

	c.scope.EnterFrame()
	if name != "" {
		c.scope.Declare(c.scope.Current(), name, typesystem.Number{}, s.Init.Range(), true)
	}
	c.checkBlockStatements(s.Body)
	c.leaveFrameWarn()
}

func (c *Checker) checkReturn(s *ast.Return) (typesystem.Type, bool) {
	types := make([]typesystem.Type, len(s.Values))
	for i, v := range s.Values {
		types[i] = c.checkExpr(v)
	}
	group := typesystem.Group{Types: types}

	if expected, ok := c.scope.ExpectedReturn(); ok {
		if !typesystem.Match(expected, group) {
			c.sink.Error(diagnostics.MismatchedTypes, s.Rng, expected.String(), group.String())
		}
	}
	return group, true
}

func (c *Checker) checkTypeDecl(s *ast.TypeDecl) {
	if len(s.Generics) > 0 {
		c.scope.EnterFrame()
		for _, v := range s.Generics {
			c.scope.DeclareType(v, typesystem.Alias{Name: v})
		}
		body := c.resolveTypeExpr(s.Body)
		c.scope.LeaveFrame()
		c.scope.DeclareType(s.Name, typesystem.Generic{Name: s.Name, Variables: s.Generics, Body: body, Rng: s.Rng})
		return
	}
	c.scope.DeclareType(s.Name, c.resolveTypeExpr(s.Body))
}

// checkFunctionStmt pre-declares the function's name bound to a
// placeholder so the body can call itself recursively, checks the
// body in a fresh frame, then rebinds the name to the final computed
// function type.
func (c *Checker) checkFunctionStmt(s *ast.FunctionStmt) {
	placeholder := typesystem.Function{
		Params: make([]typesystem.Type, len(s.Params)),
		Return: typesystem.Unknown{},
	}
	for i := range placeholder.Params {
		placeholder.Params[i] = typesystem.Unknown{}
	}
	c.scope.Declare(c.scope.Current(), s.Name, placeholder, s.Rng, s.Local)

	fnType := c.checkFunctionBody(s.Generics, s.Params, s.Return, s.Body)

	if !c.scope.Update(s.Name, fnType) {
		c.scope.Declare(c.scope.Current(), s.Name, fnType, s.Rng, s.Local)
	}
}

func (c *Checker) checkFunctionLike(params []*ast.Param, ret ast.TypeExpr, body *ast.Block) typesystem.Type {
	return c.checkFunctionBody(nil, params, ret, body)
}

func (c *Checker) checkFunctionBody(generics []string, params []*ast.Param, ret ast.TypeExpr, body *ast.Block) typesystem.Type {
	c.scope.EnterFrame()
	for _, g := range generics {
		c.scope.DeclareType(g, typesystem.Alias{Name: g})
	}

	paramTypes := make([]typesystem.Type, len(params))
	for i, p := range params {
		var pt typesystem.Type = typesystem.Unknown{}
		if p.Annotation != nil {
			pt = c.resolveTypeExpr(p.Annotation)
		}
		if p.Variadic {
			pt = typesystem.Variadic{Inner: pt}
		}
		paramTypes[i] = pt
		c.declare(p.Name, p.Annotation, pt, p.Rng, true)
	}

	var declaredReturn typesystem.Type = typesystem.Unknown{}
	if ret != nil {
		declaredReturn = c.resolveTypeExpr(ret)
	}
	c.scope.SetExpectedReturn(declaredReturn)

	observed, sawReturn := c.checkBlockStatements(body)
	c.leaveFrameWarn()

	finalReturn := declaredReturn
	if sawReturn {
		if _, declaredUnknown := declaredReturn.(typesystem.Unknown); declaredUnknown {
			finalReturn = typesystem.Promote(declaredReturn, observed)
		}
	} else {
		finalReturn = typesystem.Promote(declaredReturn, typesystem.Nil{})
	}

	return typesystem.Function{Params: paramTypes, Return: finalReturn}
}
