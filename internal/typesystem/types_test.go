package typesystem

import "testing"

func TestMatchReflexiveModuloUnknown(t *testing.T) {
	cases := []Type{
		Number{}, String{}, Boolean{}, Nil{},
		Table{Map: map[string]Type{"x": Number{}}},
		Function{Params: []Type{Number{}}, Return: Boolean{}},
		Group{Types: []Type{Number{}, String{}}},
		Option{Inner: Number{}},
		Union{Types: []Type{Number{}, String{}}},
		Variadic{Inner: Number{}},
	}
	for _, ty := range cases {
		if !Match(ty, ty) {
			t.Errorf("Match(%s, %s) = false, want true", ty, ty)
		}
	}
}

func TestUnknownAbsorption(t *testing.T) {
	ty := Table{Map: map[string]Type{"x": Number{}}}
	if !Match(Unknown{}, ty) {
		t.Errorf("Match(Unknown, T) = false, want true")
	}
	if !Match(ty, Unknown{}) {
		t.Errorf("Match(T, Unknown) = false, want true")
	}
}

func TestOptionNilLaw(t *testing.T) {
	opt := Option{Inner: Number{}}
	if !Match(opt, Nil{}) {
		t.Errorf("Match(Option(T), Nil) = false, want true")
	}
	if !Match(opt, Number{}) {
		t.Errorf("Match(Option(T), Number) = false, want true")
	}
	if Match(opt, String{}) {
		t.Errorf("Match(Option(number), string) = true, want false")
	}
}

func TestGenericRoundTrip(t *testing.T) {
	g := Generic{
		Name:      "Box",
		Variables: []string{"T"},
		Body:      Table{Map: map[string]Type{"v": Alias{Name: "T"}}},
	}
	args := []Type{Alias{Name: "T"}}
	got := Instantiate(g, args, nil)
	if got.String() != g.Body.String() {
		t.Errorf("Instantiate(Generic, vars) = %s, want %s", got, g.Body)
	}
}

func TestInstantiateSubstitutesThroughNestedShapes(t *testing.T) {
	g := Generic{
		Name:      "Box",
		Variables: []string{"T"},
		Body: Function{
			Params: []Type{Alias{Name: "T"}},
			Return: Option{Inner: Alias{Name: "T"}},
		},
	}
	got := Instantiate(g, []Type{Number{}}, nil)
	want := "function(number): option<number>"
	if got.String() != want {
		t.Errorf("Instantiate = %s, want %s", got, want)
	}
}

func TestMatchTableEmptyMatchesAny(t *testing.T) {
	empty := Table{}
	full := Table{Map: map[string]Type{"x": Number{}}}
	if !Match(empty, full) || !Match(full, empty) {
		t.Errorf("empty table should match any table on either side")
	}
}

func TestMatchGroupOfOneMatchesBare(t *testing.T) {
	g := Group{Types: []Type{Number{}}}
	if !Match(g, Number{}) {
		t.Errorf("Group{T} should match bare T")
	}
	longer := Group{Types: []Type{Number{}, Number{}}}
	if Match(longer, Number{}) {
		t.Errorf("Group of length > 1 must not match a bare type")
	}
}

func TestCanReplace(t *testing.T) {
	if !CanReplace(Unknown{}, Number{}) {
		t.Errorf("CanReplace(Unknown, T) should hold")
	}
	if CanReplace(Number{}, Unknown{}) {
		t.Errorf("CanReplace(T, Unknown) should not hold")
	}
	if !CanReplace(Unknown{}, Unknown{}) {
		t.Errorf("CanReplace(Unknown, Unknown) should hold")
	}
}
