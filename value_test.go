package minischeme

import (
	"testing"
)

func TestRepr(t *testing.T) {
	closure := &Closure{Params: []*Symbol{Intern("x"), Intern("y")}, Body: Intern("x")}
	m := NewMap()
	m.Entries["b"] = String("two")
	m.Entries["a"] = Integer(1)
	tests := []struct {
		value    Value
		expected string
	}{
		{Integer(-42), "-42"},
		{TrueValue, "#t"},
		{FalseValue, "#f"},
		{Intern("foo"), "foo"},
		{String("hi there"), `"hi there"`},
		{nil, "()"},
		{List{}, "()"},
		{List{Integer(1), List{String("a"), nil}}, `(1 ("a" ()))`},
		{NewArray(), "[]"},
		{NewArray(Integer(1), Intern("b")), "[1, b]"},
		{NewMap(), "{}"},
		{m, `{a: 1, b: "two"}`},
		{closure, "#<procedure:x y>"},
		{&Builtin{Name: "car"}, "#<builtin:car>"},
	}
	for _, tt := range tests {
		if got := Repr(tt.value); got != tt.expected {
			t.Errorf("Repr(%#v) = %s, want %s", tt.value, got, tt.expected)
		}
	}
}

func TestStrLeavesStringsUnquoted(t *testing.T) {
	if got := Str(String("abc")); got != "abc" {
		t.Errorf("Str = %q", got)
	}
	if got := Str(List{String("abc")}); got != `("abc")` {
		t.Errorf("Str = %q", got)
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{Integer(1), "integer"},
		{FalseValue, "boolean"},
		{Intern("s"), "symbol"},
		{String("s"), "string"},
		{nil, "nil"},
		{List{}, "list"},
		{NewArray(), "array"},
		{NewMap(), "map"},
		{&Closure{}, "procedure"},
		{&Builtin{}, "procedure"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.value); got != tt.expected {
			t.Errorf("TypeName(%s) = %s, want %s", Repr(tt.value), got, tt.expected)
		}
	}
}

func TestEqual(t *testing.T) {
	m1 := NewMap()
	m2 := NewMap()
	closure := &Closure{Params: []*Symbol{Intern("x")}, Body: Intern("x")}
	twin := &Closure{Params: []*Symbol{Intern("x")}, Body: Intern("x")}
	builtin := &Builtin{Name: "f"}
	tests := []struct {
		lhs, rhs Value
		expected bool
	}{
		{Integer(1), Integer(1), true},
		{Integer(1), Integer(2), false},
		{Integer(1), String("1"), false},
		{String("a"), String("a"), true},
		{Intern("a"), Intern("a"), true},
		{Intern("a"), String("a"), false},
		{nil, nil, true},
		{nil, List{}, false},
		{List{}, nil, false},
		{List{Integer(1), List{Integer(2)}}, List{Integer(1), List{Integer(2)}}, true},
		{List{Integer(1)}, List{Integer(1), Integer(2)}, false},
		{NewArray(), NewArray(), true},
		{NewArray(Integer(1)), NewArray(Integer(1)), true},
		{NewArray(Integer(1)), NewArray(Integer(2)), false},
		{NewArray(Integer(1)), List{Integer(1)}, false},
		{m1, m2, true},
		{m1, m1, true},
		{closure, closure, true},
		{closure, twin, false},
		{builtin, builtin, true},
		{builtin, &Builtin{Name: "f"}, false},
	}
	for _, tt := range tests {
		if got := Equal(tt.lhs, tt.rhs); got != tt.expected {
			t.Errorf("Equal(%s, %s) = %v, want %v", Repr(tt.lhs), Repr(tt.rhs), got, tt.expected)
		}
	}
}

func TestEqualMapContents(t *testing.T) {
	m1 := NewMap()
	m2 := NewMap()
	m1.Entries["k"] = NewArray(Integer(1))
	if Equal(m1, m2) {
		t.Fatal("maps with different sizes compared equal")
	}
	m2.Entries["k"] = NewArray(Integer(1))
	if !Equal(m1, m2) {
		t.Fatal("maps with equal contents compared unequal")
	}
	m2.Entries["k"] = NewArray(Integer(2))
	if Equal(m1, m2) {
		t.Fatal("maps with different values compared equal")
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []Value{TrueValue, Integer(0), String(""), nil, List{}, NewArray()} {
		if !IsTruthy(v) {
			t.Errorf("%s should be truthy", Repr(v))
		}
	}
	if IsTruthy(FalseValue) {
		t.Error("#f should be falsy")
	}
}

func TestIntern(t *testing.T) {
	if Intern("abc") != Intern("abc") {
		t.Error("Intern returned different symbols for the same name")
	}
	if Intern("abc") == Intern("abd") {
		t.Error("Intern returned the same symbol for different names")
	}
}
