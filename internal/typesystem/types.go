// Package typesystem implements the tagged-variant Type IR and the
// match/subsumption relation described by the checker.
package typesystem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tylua/tylua/internal/span"
)

// Type is the tagged-variant interface implemented by every IR case.
// Every variant is structurally comparable and hashable via String().
type Type interface {
	String() string
	typeNode()
}

// Hash returns a stable structural hash for t, used for canonicalizing
// Union members and as a map key when deduplicating types.
func Hash(t Type) string { return t.String() }

// Equal reports whether a and b are the exact same Type (structural
// equality, not the match relation).
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

type Number struct{}

func (Number) String() string { return "number" }
func (Number) typeNode()      {}

type String struct{}

func (String) String() string { return "string" }
func (String) typeNode()      {}

type Boolean struct{}

func (Boolean) String() string { return "boolean" }
func (Boolean) typeNode()      {}

type Nil struct{}

func (Nil) String() string { return "nil" }
func (Nil) typeNode()      {}

// Unknown is both "not yet inferred" and "too dynamic to constrain". It
// matches, and is matched by, everything.
type Unknown struct{}

func (Unknown) String() string { return "unknown" }
func (Unknown) typeNode()      {}

// Alias is an unresolved named reference, resolved on use via the type
// environment.
type Alias struct {
	Name string
	Rng  span.Range
}

func (a Alias) String() string { return a.Name }
func (Alias) typeNode()        {}

// Table has an optional array part (element types observed positionally)
// and an optional map part (keyword -> type). An empty table has
// neither and matches any table.
type Table struct {
	Array []Type          // nil/empty if absent
	Map   map[string]Type // nil/empty if absent
}

func (t Table) String() string {
	if len(t.Array) == 0 && len(t.Map) == 0 {
		return "{}"
	}
	var parts []string
	for _, e := range t.Array {
		parts = append(parts, e.String())
	}
	keys := make([]string, 0, len(t.Map))
	for k := range t.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, t.Map[k].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (Table) typeNode() {}

// Function is `params -> return`. At most one of Params may be a
// Variadic, and only as the last element.
type Function struct {
	Params []Type
	Return Type
}

func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "nil"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return fmt.Sprintf("function(%s): %s", strings.Join(parts, ", "), ret)
}
func (Function) typeNode() {}

// Generic is a type-level abstraction: `name<vars...> = body`.
type Generic struct {
	Name      string
	Variables []string
	Body      Type
	Rng       span.Range
}

func (g Generic) String() string {
	return fmt.Sprintf("%s<%s>", g.Name, strings.Join(g.Variables, ", "))
}
func (Generic) typeNode() {}

// GenericCall is a type-level application: `name<types...>`.
type GenericCall struct {
	Name  string
	Types []Type
	Rng   span.Range
}

func (g GenericCall) String() string {
	parts := make([]string, len(g.Types))
	for i, t := range g.Types {
		parts[i] = t.String()
	}
	return fmt.Sprintf("%s<%s>", g.Name, strings.Join(parts, ", "))
}
func (GenericCall) typeNode() {}

// Union is order-significant for equality (sequence equality) even
// though match() treats it set-wise for membership.
type Union struct {
	Types []Type
}

func (u Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}
func (Union) typeNode() {}

// Option is equivalent to Union{inner, Nil} but kept distinct so
// narrowing can recognize it.
type Option struct {
	Inner Type
}

func (o Option) String() string { return "option<" + o.Inner.String() + ">" }
func (Option) typeNode()        {}

// Group is a tuple of return/assignment values.
type Group struct {
	Types []Type
}

func (g Group) String() string {
	parts := make([]string, len(g.Types))
	for i, t := range g.Types {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (Group) typeNode() {}

// Variadic is only valid as the trailing parameter of a Function.
type Variadic struct {
	Inner Type
}

func (v Variadic) String() string { return v.Inner.String() + "..." }
func (Variadic) typeNode()        {}

// IsNil reports whether t is the Nil primitive.
func IsNil(t Type) bool {
	_, ok := t.(Nil)
	return ok
}

// NewUnion builds a Union, flattening any nested Unions and dropping
// exact duplicates while preserving first-seen order.
func NewUnion(types ...Type) Type {
	var flat []Type
	seen := map[string]bool{}
	var walk func(Type)
	walk = func(t Type) {
		if u, ok := t.(Union); ok {
			for _, m := range u.Types {
				walk(m)
			}
			return
		}
		key := Hash(t)
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, t)
	}
	for _, t := range types {
		walk(t)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Union{Types: flat}
}
