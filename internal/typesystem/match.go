package typesystem

// Match implements the match(expected, found) subsumption relation
// used throughout the checker. It is not unification: it never
// produces a substitution, only a yes/no subsumption answer.
func Match(expected, found Type) bool {
	if _, ok := expected.(Unknown); ok {
		return true
	}
	if _, ok := found.(Unknown); ok {
		return true
	}

	switch e := expected.(type) {
	case Table:
		f, ok := found.(Table)
		if !ok {
			return false
		}
		return matchTable(e, f)
	case Function:
		f, ok := found.(Function)
		if !ok {
			return false
		}
		return matchFunction(e, f)
	case Generic:
		f, ok := found.(Generic)
		if !ok {
			return false
		}
		return matchGeneric(e, f)
	case Group:
		return matchGroup(e, found)
	case Option:
		return matchOption(e, found)
	case Union:
		return matchUnion(e, found)
	case Variadic:
		return matchVariadic(e, found)
	default:
		// Primitives (Number/String/Boolean/Nil) and Alias: reflexive
		// structural equality. A bare (non-Group) expected type also
		// needs to accept a length-1 Group found type.
		if g, ok := found.(Group); ok {
			if len(g.Types) == 1 {
				return Match(expected, g.Types[0])
			}
			return false
		}
		if u, ok := found.(Union); ok {
			return matchUnionWithSingle(u, expected)
		}
		if o, ok := found.(Option); ok {
			return matchOptionRight(o, expected)
		}
		return Equal(expected, found)
	}
}

func matchTable(e, f Table) bool {
	eEmpty := len(e.Array) == 0 && len(e.Map) == 0
	fEmpty := len(f.Array) == 0 && len(f.Map) == 0
	if eEmpty || fEmpty {
		return true
	}
	for i := 0; i < len(e.Array) && i < len(f.Array); i++ {
		if !Match(e.Array[i], f.Array[i]) {
			return false
		}
	}
	for k, ev := range e.Map {
		fv, ok := f.Map[k]
		if !ok {
			return false
		}
		if !Match(ev, fv) {
			return false
		}
	}
	return true
}

func matchFunction(e, f Function) bool {
	if len(e.Params) != len(f.Params) {
		return false
	}
	for i := range e.Params {
		if !Match(e.Params[i], f.Params[i]) {
			return false
		}
	}
	return Match(e.Return, f.Return)
}

func matchGeneric(e, f Generic) bool {
	if e.Name != f.Name {
		return false
	}
	if len(e.Variables) != len(f.Variables) {
		return false
	}
	for i := range e.Variables {
		if e.Variables[i] != f.Variables[i] {
			return false
		}
	}
	return Match(e.Body, f.Body)
}

func matchGroup(e Group, found Type) bool {
	if f, ok := found.(Group); ok {
		if len(e.Types) != len(f.Types) {
			return false
		}
		for i := range e.Types {
			if !Match(e.Types[i], f.Types[i]) {
				return false
			}
		}
		return true
	}
	if len(e.Types) == 1 {
		return Match(e.Types[0], found)
	}
	return false
}

func matchOption(e Option, found Type) bool {
	if f, ok := found.(Option); ok {
		return Match(e.Inner, f.Inner)
	}
	if IsNil(found) {
		return true
	}
	return Match(e.Inner, found)
}

// matchOptionRight handles expected being a non-Option primitive/etc.
// and found being an Option: that direction never matches.
func matchOptionRight(Option, Type) bool { return false }

func matchUnion(e Union, found Type) bool {
	if f, ok := found.(Union); ok {
		if len(e.Types) != len(f.Types) {
			return false
		}
		for i := range e.Types {
			if !Match(e.Types[i], f.Types[i]) {
				return false
			}
		}
		return true
	}
	return matchUnionWithSingle(e, found)
}

func matchUnionWithSingle(u Union, found Type) bool {
	for _, m := range u.Types {
		if Match(m, found) {
			return true
		}
	}
	return false
}

func matchVariadic(e Variadic, found Type) bool {
	if f, ok := found.(Variadic); ok {
		return Match(e.Inner, f.Inner)
	}
	if IsNil(found) {
		return true
	}
	return Match(e.Inner, found)
}

// CanReplace implements can_replace(a, b): whether a may be promoted by
// b. It holds iff a is Unknown, or b is not Unknown.
func CanReplace(a, b Type) bool {
	if _, ok := a.(Unknown); ok {
		return true
	}
	_, bUnknown := b.(Unknown)
	return !bUnknown
}

// Promote returns b if CanReplace(a, b) holds, else a. This is the
// "inference promotion" rule: a declared Unknown placeholder is
// refined by an observed concrete type, but a concrete type is never
// overwritten by Unknown.
func Promote(a, b Type) Type {
	if CanReplace(a, b) {
		return b
	}
	return a
}
