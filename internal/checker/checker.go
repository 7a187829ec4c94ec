// Package checker is the statement/expression walker that implements
// the semantic analyzer. It walks the AST once with a type switch
// over each node kind, tracking scope and accumulating diagnostics as
// it goes; there's no visitor/Accept indirection since ast.Node
// carries no such method.
package checker

import (
	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/modules"
	"github.com/tylua/tylua/internal/prelude"
	"github.com/tylua/tylua/internal/symbols"
	"github.com/tylua/tylua/internal/typesystem"
)

// Checker holds the state of one module's check: its own scope stack
// and diagnostic sink, plus the loader used to resolve `require`.
type Checker struct {
	scope  *symbols.Scope
	sink   *diagnostics.Sink
	loader *modules.Loader
}

// New creates a Checker with a fresh scope stack, its global frame
// pre-populated with the standard prelude.
func New(loader *modules.Loader, sink *diagnostics.Sink) *Checker {
	scope := symbols.New()
	prelude.Register(scope)
	return &Checker{scope: scope, sink: sink, loader: loader}
}

// CheckProgram walks every top-level statement and returns the
// program's inferred return type: the type yielded by the final
// statement (a Return, or an If with at least one yielding branch), or
// Nil if the final statement does not yield. Every EnterFrame this package performs is paired
// with a LeaveFrame before CheckProgram returns, so the scope stack is
// back to its starting depth once checking finishes.
func (c *Checker) CheckProgram(prog *ast.Program) typesystem.Type {
	t, _ := c.CheckProgramResult(prog)
	return t
}

// CheckProgramResult is CheckProgram plus whether the module's final
// top-level statement yields (a return, or an If with a returning
// branch). A nested `require` check needs this second
// value to decide whether to emit ModuleNotExported; the root/CLI
// check does not, which is why CheckProgram drops it.
func (c *Checker) CheckProgramResult(prog *ast.Program) (typesystem.Type, bool) {
	var lastType typesystem.Type
	var lastYield bool
	for _, stmt := range prog.Statements {
		lastType, lastYield = c.checkStatement(stmt)
	}
	if !lastYield {
		return typesystem.Nil{}, false
	}
	return lastType, true
}

// Sink exposes the checker's accumulated diagnostics.
func (c *Checker) Sink() *diagnostics.Sink { return c.sink }

func (c *Checker) leaveFrameWarn() {
	for _, u := range c.scope.LeaveFrame() {
		c.sink.Warning(diagnostics.UnusedVariable, u.Rng, u.Name)
	}
}

func isNumberOrUnknown(t typesystem.Type) bool {
	switch t.(type) {
	case typesystem.Number, typesystem.Unknown:
		return true
	}
	return false
}

func isStringOrUnknown(t typesystem.Type) bool {
	switch t.(type) {
	case typesystem.String, typesystem.Unknown:
		return true
	}
	return false
}

func isBooleanOrUnknown(t typesystem.Type) bool {
	switch t.(type) {
	case typesystem.Boolean, typesystem.Unknown:
		return true
	}
	return false
}

// isConcatable reports whether t is acceptable on either side of `..`:
// Number, String, Unknown, Table, Option, and Union all concatenate to
// String.
func isConcatable(t typesystem.Type) bool {
	switch t.(type) {
	case typesystem.Number, typesystem.String, typesystem.Unknown,
		typesystem.Table, typesystem.Option, typesystem.Union:
		return true
	}
	return false
}

// sameFamily reports whether l and r are ordering-comparable: the
// same primitive family, or either side Unknown.
func sameFamily(l, r typesystem.Type) bool {
	if _, ok := l.(typesystem.Unknown); ok {
		return true
	}
	if _, ok := r.(typesystem.Unknown); ok {
		return true
	}
	switch l.(type) {
	case typesystem.Number:
		_, ok := r.(typesystem.Number)
		return ok
	case typesystem.String:
		_, ok := r.(typesystem.String)
		return ok
	case typesystem.Boolean:
		_, ok := r.(typesystem.Boolean)
		return ok
	}
	return false
}
