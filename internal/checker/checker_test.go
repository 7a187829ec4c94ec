package checker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/lexer"
	"github.com/tylua/tylua/internal/modules"
	"github.com/tylua/tylua/internal/parser"
	"github.com/tylua/tylua/internal/typesystem"
)

func writeModuleFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+modules.SourceSuffix), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func parseProgram(t *testing.T, source string) (*ast.Program, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink()
	l := lexer.New(source)
	stream := lexer.NewTokenStream(l)
	p := parser.New(stream, sink)
	program := p.ParseProgram()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", source, sink.All())
	}
	return program, sink
}

func check(t *testing.T, source string) (typesystem.Type, *diagnostics.Sink) {
	t.Helper()
	program, sink := parseProgram(t, source)
	c := New(modules.NewLoader(t.TempDir()), sink)
	return c.CheckProgram(program), sink
}

func TestLocalWithMatchingAnnotationHasNoDiagnostics(t *testing.T) {
	ret, sink := check(t, `
local x: number = 1
return x
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	want := typesystem.Group{Types: []typesystem.Type{typesystem.Number{}}}
	if ret.String() != want.String() {
		t.Fatalf("unexpected return type: %s", ret.String())
	}
}

func TestProgramWithNoReturnYieldsNilAndNoModuleNotExported(t *testing.T) {
	ret, sink := check(t, `local x: number = 1`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	if _, ok := ret.(typesystem.Nil); !ok {
		t.Fatalf("expected Nil, got %s", ret.String())
	}
	for _, d := range sink.All() {
		if d.Kind == diagnostics.ModuleNotExported {
			t.Fatal("root check must not emit ModuleNotExported")
		}
	}
}

func TestLocalWithMismatchedAnnotationReportsMismatchedTypes(t *testing.T) {
	_, sink := check(t, `local x: number = "a"`)
	found := false
	for _, d := range sink.All() {
		if d.Kind == diagnostics.MismatchedTypes {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MismatchedTypes, got %v", sink.All())
	}
}

func TestAssignThenReturnInfersGroupOfAssignedType(t *testing.T) {
	ret, sink := check(t, `
local x
x = 1
return x
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	want := typesystem.Group{Types: []typesystem.Type{typesystem.Number{}}}
	if ret.String() != want.String() {
		t.Fatalf("got %s want %s", ret.String(), want.String())
	}
}

func TestLocalFunctionCallTypechecks(t *testing.T) {
	ret, sink := check(t, `
local function f(n: number): number
	return n
end
return f(1)
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	want := typesystem.Group{Types: []typesystem.Type{typesystem.Number{}}}
	if ret.String() != want.String() {
		t.Fatalf("got %s want %s", ret.String(), want.String())
	}
}

func TestGenericTableAliasInstantiatesAndChecksFieldAccess(t *testing.T) {
	ret, sink := check(t, `
type Box<T> = { v: T }
local b: Box<number> = { v = 1 }
return b.v
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	want := typesystem.Group{Types: []typesystem.Type{typesystem.Number{}}}
	if ret.String() != want.String() {
		t.Fatalf("got %s want %s", ret.String(), want.String())
	}
}

func TestGenericTableAliasUnknownFieldReportsKeyNotFound(t *testing.T) {
	_, sink := check(t, `
type Box<T> = { v: T }
local b: Box<number> = { v = 1 }
return b.w
`)
	found := false
	for _, d := range sink.All() {
		if d.Kind == diagnostics.KeyNotFoundInTable {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected KeyNotFoundInTable, got %v", sink.All())
	}
}

func TestNarrowingOptionOnNilEqualityUnionsBranchReturns(t *testing.T) {
	ret, sink := check(t, `
local x: option<number> = nil
if x == nil then
	return 0
else
	return x + 1
end
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	want := typesystem.Group{Types: []typesystem.Type{
		typesystem.NewUnion(typesystem.Number{}, typesystem.Number{}),
	}}
	if ret.String() != want.String() {
		t.Fatalf("got %s want %s", ret.String(), want.String())
	}
}

func TestRequireMissingModuleReportsModuleNotFoundAndContinues(t *testing.T) {
	ret, sink := check(t, `
local m = require("missing")
return m
`)
	found := false
	for _, d := range sink.All() {
		if d.Kind == diagnostics.ModuleNotFound {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ModuleNotFound, got %v", sink.All())
	}
	want := typesystem.Group{Types: []typesystem.Type{typesystem.Nil{}}}
	if ret.String() != want.String() {
		t.Fatalf("got %s want %s", ret.String(), want.String())
	}
}

func TestRequireResolvesNestedModuleReturnType(t *testing.T) {
	dir := t.TempDir()
	writeModuleFile(t, dir, "greet", "return 1")

	source := `
local g = require("greet")
return g
`
	program, sink := parseProgram(t, source)
	loader := modules.NewLoader(dir)
	loader.Check = CheckSource
	c := New(loader, sink)
	ret := c.CheckProgram(program)

	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	want := typesystem.Group{Types: []typesystem.Type{typesystem.Number{}}}
	if ret.String() != want.String() {
		t.Fatalf("got %s want %s", ret.String(), want.String())
	}
}

func TestRequireModuleWithoutReturnEmitsModuleNotExported(t *testing.T) {
	dir := t.TempDir()
	writeModuleFile(t, dir, "silent", "local x = 1")

	source := `
local s = require("silent")
return s
`
	program, sink := parseProgram(t, source)
	loader := modules.NewLoader(dir)
	loader.Check = CheckSource
	c := New(loader, sink)
	c.CheckProgram(program)

	found := false
	for _, d := range sink.All() {
		if d.Kind == diagnostics.ModuleNotExported {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ModuleNotExported, got %v", sink.All())
	}
}

func TestUnusedLocalEmitsWarning(t *testing.T) {
	_, sink := check(t, `
local function f()
	local unused: number = 1
	return 0
end
return f()
`)
	found := false
	for _, d := range sink.All() {
		if d.Kind == diagnostics.UnusedVariable {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnusedVariable warning, got %v", sink.All())
	}
}

func TestNarrowingAppliesToElseBranchToo(t *testing.T) {
	_, sink := check(t, `
local x: option<number> = nil
if x == nil then
	return 0
else
	return x + 1
end
`)
	for _, d := range sink.All() {
		if d.Kind == diagnostics.UnsupportedOperator {
			t.Fatalf("else branch should narrow x to number, got %v", sink.All())
		}
	}
}

func TestAnnotatedAssignmentTargetChecksDeclaredType(t *testing.T) {
	_, sink := check(t, `x: number = "a"`)
	found := false
	for _, d := range sink.All() {
		if d.Kind == diagnostics.MismatchedTypes {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MismatchedTypes, got %v", sink.All())
	}
}

func TestAnnotatedAssignmentTargetMatchingHasNoDiagnostics(t *testing.T) {
	_, sink := check(t, `x: number = 1`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
}

func TestDuplicateParameterNameReportsRedeclared(t *testing.T) {
	_, sink := check(t, `
local function f(a, a)
	return a
end
return f(1, 2)
`)
	found := false
	for _, d := range sink.All() {
		if d.Kind == diagnostics.RedeclaredInSameScope {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected RedeclaredInSameScope, got %v", sink.All())
	}
}

func TestParameterShadowingOuterLocalEmitsWarning(t *testing.T) {
	_, sink := check(t, `
local x: number = 1
local function f(x: number): number
	return x
end
return f(2)
`)
	found := false
	for _, d := range sink.All() {
		if d.Kind == diagnostics.ShadowedVariable {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ShadowedVariable, got %v", sink.All())
	}
}

func TestScopeDepthIsOneAfterCheck(t *testing.T) {
	program, sink := parseProgram(t, `
local function f(n: number): number
	if n == 0 then
		return 0
	else
		return n
	end
end
return f(1)
`)
	loader := modules.NewLoader(t.TempDir())
	c := New(loader, sink)
	c.CheckProgram(program)
	if depth := c.scope.Depth(); depth != 1 {
		t.Fatalf("expected scope depth 1 after check, got %d", depth)
	}
}
