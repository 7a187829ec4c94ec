package prelude

import (
	"testing"

	"github.com/tylua/tylua/internal/symbols"
	"github.com/tylua/tylua/internal/typesystem"
)

func TestRegisterPopulatesGlobalFrame(t *testing.T) {
	scope := symbols.New()
	Register(scope)

	for _, name := range []string{"print", "math", "io", "table", "string"} {
		if _, ok := scope.LookupLocal(name); !ok {
			t.Fatalf("expected %q to be declared in the global frame", name)
		}
	}
}

func TestPreludeMathResolvesToTableWithSqrt(t *testing.T) {
	scope := symbols.New()
	Register(scope)

	mathType, _, ok := scope.Lookup("math")
	if !ok {
		t.Fatal("expected math to resolve")
	}
	table, ok := mathType.(typesystem.Table)
	if !ok {
		t.Fatalf("expected math to be a Table, got %T", mathType)
	}
	if _, ok := table.Map["sqrt"]; !ok {
		t.Fatal("expected math.sqrt to be declared")
	}
}

func TestIsGenericConstructor(t *testing.T) {
	if !IsGenericConstructor("option") || !IsGenericConstructor("union") {
		t.Fatal("expected option and union to be recognized generic constructors")
	}
	if IsGenericConstructor("Box") {
		t.Fatal("did not expect an ordinary type name to be recognized")
	}
}
