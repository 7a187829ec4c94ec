// Package prelude populates the checker's global frame with the
// standard bindings: print, math, io, table, string. Each namespace is
// declared as a Table-typed binding via Scope.Declare under a shared
// zero-range origin. The stdlib generic constructors option<T>/
// union<T...> are not bound in the frame; IsGenericConstructor
// recognizes them by name.
package prelude

import (
	"github.com/tylua/tylua/internal/span"
	"github.com/tylua/tylua/internal/symbols"
	"github.com/tylua/tylua/internal/typesystem"
)

// originRange is the zero range used for prelude bindings: they are
// not declared at any source position, so RedeclaredInSameScope /
// ShadowedVariable never fire against them via a real range.
var originRange = span.Zero

// Register writes the standard prelude into scope's global frame. It
// must run once, before the first statement of a top-level check.
func Register(scope *symbols.Scope) {
	global := scope.Global()

	scope.Declare(global, "print", variadicFunc(typesystem.Unknown{}, typesystem.Nil{}), originRange, false)

	scope.Declare(global, "math", mathTable(), originRange, false)
	scope.Declare(global, "io", ioTable(), originRange, false)
	scope.Declare(global, "table", tableTable(), originRange, false)
	scope.Declare(global, "string", stringTable(), originRange, false)
}

// IsGenericConstructor reports whether name is one of the two
// standard-library generic constructors handled directly by the
// checker rather than through the type environment.
func IsGenericConstructor(name string) bool {
	return name == "option" || name == "union"
}

func fn(params []typesystem.Type, ret typesystem.Type) typesystem.Type {
	return typesystem.Function{Params: params, Return: ret}
}

func variadicFunc(elem, ret typesystem.Type) typesystem.Type {
	return typesystem.Function{Params: []typesystem.Type{typesystem.Variadic{Inner: elem}}, Return: ret}
}

func num() typesystem.Type { return typesystem.Number{} }
func str() typesystem.Type { return typesystem.String{} }
func unk() typesystem.Type { return typesystem.Unknown{} }

func anyTable() typesystem.Type {
	return typesystem.Table{}
}

func mathTable() typesystem.Type {
	return typesystem.Table{Map: map[string]typesystem.Type{
		"pi":     num(),
		"huge":   num(),
		"abs":    fn([]typesystem.Type{num()}, num()),
		"floor":  fn([]typesystem.Type{num()}, num()),
		"ceil":   fn([]typesystem.Type{num()}, num()),
		"sqrt":   fn([]typesystem.Type{num()}, num()),
		"max":    variadicFunc(num(), num()),
		"min":    variadicFunc(num(), num()),
		"random": variadicFunc(num(), num()),
	}}
}

func ioTable() typesystem.Type {
	return typesystem.Table{Map: map[string]typesystem.Type{
		"write": variadicFunc(unk(), typesystem.Nil{}),
		"read":  fn([]typesystem.Type{typesystem.Variadic{Inner: str()}}, str()),
	}}
}

func tableTable() typesystem.Type {
	return typesystem.Table{Map: map[string]typesystem.Type{
		"insert": fn([]typesystem.Type{anyTable(), unk()}, typesystem.Nil{}),
		"remove": fn([]typesystem.Type{anyTable()}, unk()),
		"concat": fn([]typesystem.Type{anyTable(), typesystem.Variadic{Inner: str()}}, str()),
		"sort":   fn([]typesystem.Type{anyTable(), typesystem.Variadic{Inner: unk()}}, typesystem.Nil{}),
	}}
}

func stringTable() typesystem.Type {
	return typesystem.Table{Map: map[string]typesystem.Type{
		"format": variadicFunc(unk(), str()),
		"sub":    fn([]typesystem.Type{str(), num(), typesystem.Variadic{Inner: num()}}, str()),
		"len":    fn([]typesystem.Type{str()}, num()),
		"upper":  fn([]typesystem.Type{str()}, str()),
		"lower":  fn([]typesystem.Type{str()}, str()),
		"find":   fn([]typesystem.Type{str(), str()}, unk()),
	}}
}
