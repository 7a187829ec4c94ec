package typesystem

// Instantiate substitutes a Generic's type variables with concrete
// types, descending into Function, Table, Union, Option, Group, and
// nested GenericCalls. resolve is called to look up the body of a
// named GenericCall that isn't itself one of the bound variables (it
// typically closes over the checker's type environment).
//
// len(args) must equal len(g.Variables); callers enforce the
// GenericCallArityMismatch diagnostic before calling Instantiate.
func Instantiate(g Generic, args []Type, resolve func(name string) (Generic, bool)) Type {
	mapping := make(map[string]Type, len(g.Variables))
	for i, v := range g.Variables {
		if i < len(args) {
			mapping[v] = args[i]
		}
	}
	return substitute(g.Body, mapping, resolve)
}

func substitute(t Type, mapping map[string]Type, resolve func(string) (Generic, bool)) Type {
	switch v := t.(type) {
	case Alias:
		if bound, ok := mapping[v.Name]; ok {
			return bound
		}
		return v
	case Function:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = substitute(p, mapping, resolve)
		}
		return Function{Params: params, Return: substitute(v.Return, mapping, resolve)}
	case Table:
		var array []Type
		for _, a := range v.Array {
			array = append(array, substitute(a, mapping, resolve))
		}
		var m map[string]Type
		if v.Map != nil {
			m = make(map[string]Type, len(v.Map))
			for k, val := range v.Map {
				m[k] = substitute(val, mapping, resolve)
			}
		}
		return Table{Array: array, Map: m}
	case Union:
		types := make([]Type, len(v.Types))
		for i, u := range v.Types {
			types[i] = substitute(u, mapping, resolve)
		}
		return Union{Types: types}
	case Option:
		return Option{Inner: substitute(v.Inner, mapping, resolve)}
	case Group:
		types := make([]Type, len(v.Types))
		for i, g := range v.Types {
			types[i] = substitute(g, mapping, resolve)
		}
		return Group{Types: types}
	case Variadic:
		return Variadic{Inner: substitute(v.Inner, mapping, resolve)}
	case GenericCall:
		args := make([]Type, len(v.Types))
		for i, a := range v.Types {
			args[i] = substitute(a, mapping, resolve)
		}
		if resolve != nil {
			if callee, ok := resolve(v.Name); ok {
				return Instantiate(callee, args, resolve)
			}
		}
		return GenericCall{Name: v.Name, Types: args, Rng: v.Rng}
	default:
		// Number, String, Boolean, Nil, Unknown, Generic itself: no
		// free variables to substitute through.
		return t
	}
}
