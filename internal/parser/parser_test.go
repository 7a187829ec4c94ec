package parser

import (
	"testing"

	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/lexer"
)

func parseProgram(t *testing.T, src string) (*ast.Program, *diagnostics.Sink) {
	t.Helper()
	l := lexer.New(src)
	stream := lexer.NewTokenStream(l)
	sink := diagnostics.NewSink()
	p := New(stream, sink)
	prog := p.ParseProgram()
	return prog, sink
}

func TestParseLocalWithAnnotationAndInit(t *testing.T) {
	prog, sink := parseProgram(t, `local x: number = 1`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	local, ok := prog.Statements[0].(*ast.Local)
	if !ok {
		t.Fatalf("expected *ast.Local, got %T", prog.Statements[0])
	}
	if len(local.Vars) != 1 || local.Vars[0].Name != "x" {
		t.Fatalf("unexpected vars: %+v", local.Vars)
	}
	if _, ok := local.Vars[0].Annotation.(*ast.TypeName); !ok {
		t.Fatalf("expected TypeName annotation, got %T", local.Vars[0].Annotation)
	}
	if len(local.Inits) != 1 {
		t.Fatalf("expected 1 init expression, got %d", len(local.Inits))
	}
}

func TestParseMultipleAssignment(t *testing.T) {
	prog, sink := parseProgram(t, `x, y = 1, 2`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	assign, ok := prog.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", prog.Statements[0])
	}
	if len(assign.Lhs) != 2 || len(assign.Rhs) != 2 {
		t.Fatalf("unexpected assign shape: %+v", assign)
	}
}

func TestParseIfElseIfElse(t *testing.T) {
	src := `
if x then
	return 1
elseif y then
	return 2
else
	return 3
end`
	prog, sink := parseProgram(t, src)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	stmt, ok := prog.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Statements[0])
	}
	if len(stmt.ElseIfs) != 1 {
		t.Fatalf("expected 1 elseif, got %d", len(stmt.ElseIfs))
	}
	if stmt.Else == nil {
		t.Fatal("expected else block")
	}
}

func TestParseNumericForLoop(t *testing.T) {
	prog, sink := parseProgram(t, `for i = 1, 10, 2 do end`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	forStmt, ok := prog.Statements[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", prog.Statements[0])
	}
	if forStmt.Step == nil {
		t.Fatal("expected step expression")
	}
}

func TestParseFunctionStatementWithGenericsAndReturn(t *testing.T) {
	prog, sink := parseProgram(t, `function identity<T>(x: T): T
	return x
end`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	fn, ok := prog.Statements[0].(*ast.FunctionStmt)
	if !ok {
		t.Fatalf("expected *ast.FunctionStmt, got %T", prog.Statements[0])
	}
	if len(fn.Generics) != 1 || fn.Generics[0] != "T" {
		t.Fatalf("unexpected generics: %+v", fn.Generics)
	}
	if fn.Return == nil {
		t.Fatal("expected return type annotation")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog, sink := parseProgram(t, `return 1 + 2 * 3`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	ret := prog.Statements[0].(*ast.Return)
	bin, ok := ret.Values[0].(*ast.Binary)
	if !ok {
		t.Fatalf("expected *ast.Binary, got %T", ret.Values[0])
	}
	if bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %q", bin.Op)
	}
	right, ok := bin.Right.(*ast.Binary)
	if !ok || right.Op != "*" {
		t.Fatalf("expected right-hand '*' subtree, got %+v", bin.Right)
	}
}

func TestParseConcatIsRightAssociative(t *testing.T) {
	prog, sink := parseProgram(t, `return a .. b .. c`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	ret := prog.Statements[0].(*ast.Return)
	top, ok := ret.Values[0].(*ast.Binary)
	if !ok {
		t.Fatalf("expected *ast.Binary, got %T", ret.Values[0])
	}
	if _, ok := top.Left.(*ast.Identifier); !ok {
		t.Fatalf("expected identifier on the left of right-assoc concat, got %T", top.Left)
	}
	if _, ok := top.Right.(*ast.Binary); !ok {
		t.Fatalf("expected nested concat on the right, got %T", top.Right)
	}
}

func TestParseTableLiteralMixedEntries(t *testing.T) {
	prog, sink := parseProgram(t, `local t = { 1, 2, x = 3, [4] = "four" }`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	local := prog.Statements[0].(*ast.Local)
	table, ok := local.Inits[0].(*ast.Table)
	if !ok {
		t.Fatalf("expected *ast.Table, got %T", local.Inits[0])
	}
	if len(table.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(table.Entries))
	}
}

func TestParseCallAndMemberChain(t *testing.T) {
	prog, sink := parseProgram(t, `a.b.c(1, 2)`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	stmt, ok := prog.Statements[0].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("expected *ast.ExpressionStmt, got %T", prog.Statements[0])
	}
	call, ok := stmt.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", stmt.Expr)
	}
	if len(call.Args.Exprs) != 2 {
		t.Fatalf("expected 2 call args, got %d", len(call.Args.Exprs))
	}
	if _, ok := call.Callee.(*ast.Member); !ok {
		t.Fatalf("expected *ast.Member callee, got %T", call.Callee)
	}
}

func TestParseTypeDeclWithGenericAndTableBody(t *testing.T) {
	prog, sink := parseProgram(t, `type Box<T> = { value: T }`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	decl, ok := prog.Statements[0].(*ast.TypeDecl)
	if !ok {
		t.Fatalf("expected *ast.TypeDecl, got %T", prog.Statements[0])
	}
	if len(decl.Generics) != 1 || decl.Generics[0] != "T" {
		t.Fatalf("unexpected generics: %+v", decl.Generics)
	}
	if _, ok := decl.Body.(*ast.TypeTable); !ok {
		t.Fatalf("expected TypeTable body, got %T", decl.Body)
	}
}

func TestParseRequireExpression(t *testing.T) {
	prog, sink := parseProgram(t, `local m = require("mymodule")`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	local := prog.Statements[0].(*ast.Local)
	req, ok := local.Inits[0].(*ast.Require)
	if !ok {
		t.Fatalf("expected *ast.Require, got %T", local.Inits[0])
	}
	if req.Name != "mymodule" {
		t.Fatalf("expected module name 'mymodule', got %q", req.Name)
	}
}

func TestParseRepeatUntil(t *testing.T) {
	prog, sink := parseProgram(t, `
repeat
	x = x + 1
until x > 10`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	stmt, ok := prog.Statements[0].(*ast.Repeat)
	if !ok {
		t.Fatalf("expected *ast.Repeat, got %T", prog.Statements[0])
	}
	if len(stmt.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(stmt.Body.Statements))
	}
	if stmt.Cond == nil {
		t.Fatal("expected until condition")
	}
}

func TestParseAnnotatedAssignmentTarget(t *testing.T) {
	prog, sink := parseProgram(t, `x: number = 1`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	assign, ok := prog.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", prog.Statements[0])
	}
	id, ok := assign.Lhs[0].(*ast.Identifier)
	if !ok {
		t.Fatalf("expected *ast.Identifier, got %T", assign.Lhs[0])
	}
	if _, ok := id.Annotation.(*ast.TypeName); !ok {
		t.Fatalf("expected TypeName annotation, got %T", id.Annotation)
	}
}

func TestParseVariadicNotLastReportsExpectedVariadic(t *testing.T) {
	_, sink := parseProgram(t, `function f(..., x) end`)
	found := false
	for _, d := range sink.All() {
		if d.Kind == diagnostics.ExpectedVariadic {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ExpectedVariadic, got %v", sink.All())
	}
}

func TestParseVariadicLastHasNoDiagnostics(t *testing.T) {
	_, sink := parseProgram(t, `function f(x, ...) end`)
	for _, d := range sink.All() {
		if d.Kind == diagnostics.ExpectedVariadic {
			t.Fatalf("unexpected ExpectedVariadic: %v", sink.All())
		}
	}
}
