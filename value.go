package minischeme

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// value types

// Value is any runtime datum. The Go nil value is the Nil datum.
type Value any

type Boolean bool
type Integer int64
type String string

type Symbol struct {
	Name string
}

// List is an immutable proper list.
type List []Value

// Array is a growable sequence shared by every holder of the pointer.
type Array struct {
	Items []Value
}

// Map is a mutable text-keyed mapping shared by every holder of the pointer.
type Map struct {
	Entries map[string]Value
}

type Closure struct {
	Params []*Symbol
	Body   Value
	Env    *Env
}

type NativeFn func(vm *VM, env *Env, args []Value) (Value, error)

type Builtin struct {
	Name string
	Fn   NativeFn
}

// value interfaces

type IType interface {
	TypeName() string
}

type IEq interface {
	Eq(rhs Value) bool
}

type IRepr interface {
	Repr() string
}

// Value

func TypeName(v Value) string {
	if v == nil {
		return "nil"
	}
	if i, ok := v.(IType); ok {
		return i.TypeName()
	}
	return fmt.Sprintf("%T", v)
}

// Repr renders v the way the REPL prints results. An array or map met
// again while it is being printed shows as [...] or {...}.
func Repr(v Value) string {
	p := printer{visiting: make(map[any]bool)}
	p.repr(v)
	return p.sb.String()
}

type printer struct {
	sb       strings.Builder
	visiting map[any]bool
}

func (p *printer) repr(v Value) {
	switch v := v.(type) {
	case nil:
		p.sb.WriteString("()")
	case List:
		p.join("(", v, " ", ")")
	case *Array:
		if p.visiting[v] {
			p.sb.WriteString("[...]")
			return
		}
		p.visiting[v] = true
		p.join("[", v.Items, ", ", "]")
		delete(p.visiting, v)
	case *Map:
		if p.visiting[v] {
			p.sb.WriteString("{...}")
			return
		}
		p.visiting[v] = true
		p.sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(k)
			p.sb.WriteString(": ")
			p.repr(v.Entries[k])
		}
		p.sb.WriteByte('}')
		delete(p.visiting, v)
	case IRepr:
		p.sb.WriteString(v.Repr())
	default:
		fmt.Fprintf(&p.sb, "%v", v)
	}
}

func (p *printer) join(open string, items []Value, sep string, close string) {
	p.sb.WriteString(open)
	for i, item := range items {
		if i > 0 {
			p.sb.WriteString(sep)
		}
		p.repr(item)
	}
	p.sb.WriteString(close)
}

// Str is Repr without quotes around strings.
func Str(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return Repr(v)
}

// Equal implements equal?: structural for lists, arrays and maps, identity
// for procedures.
func Equal(v1 Value, v2 Value) bool {
	return equal(v1, v2, make(map[[2]any]bool))
}

// equal tracks the array and map pairs under comparison in seen; a pair
// met again is taken as equal, so self-containing containers terminate.
func equal(v1 Value, v2 Value, seen map[[2]any]bool) bool {
	if v1 == nil {
		return v2 == nil
	}
	if v2 == nil {
		return false
	}
	switch lhs := v1.(type) {
	case List:
		rhs, ok := v2.(List)
		return ok && equalSlices(lhs, rhs, seen)
	case *Array:
		rhs, ok := v2.(*Array)
		if !ok {
			return false
		}
		if lhs == rhs || seen[[2]any{lhs, rhs}] {
			return true
		}
		seen[[2]any{lhs, rhs}] = true
		return equalSlices(lhs.Items, rhs.Items, seen)
	case *Map:
		rhs, ok := v2.(*Map)
		if !ok {
			return false
		}
		if lhs == rhs || seen[[2]any{lhs, rhs}] {
			return true
		}
		if len(lhs.Entries) != len(rhs.Entries) {
			return false
		}
		seen[[2]any{lhs, rhs}] = true
		for k, x := range lhs.Entries {
			y, found := rhs.Entries[k]
			if !found || !equal(x, y, seen) {
				return false
			}
		}
		return true
	case IEq:
		return lhs.Eq(v2)
	}
	return false
}

func IsTruthy(v Value) bool {
	if b, ok := v.(Boolean); ok {
		return bool(b)
	}
	return true
}

// Boolean

var TrueValue = Boolean(true)
var FalseValue = Boolean(false)

func (b Boolean) TypeName() string {
	return "boolean"
}

func (b1 Boolean) Eq(v2 Value) bool {
	b2, ok := v2.(Boolean)
	return ok && b1 == b2
}

func (b Boolean) Repr() string {
	if b {
		return "#t"
	}
	return "#f"
}

// Integer

func (i Integer) TypeName() string {
	return "integer"
}

func (i1 Integer) Eq(v2 Value) bool {
	i2, ok := v2.(Integer)
	return ok && i1 == i2
}

func (i Integer) Repr() string {
	return fmt.Sprintf("%d", int64(i))
}

// String

func (s String) TypeName() string {
	return "string"
}

func (s1 String) Eq(v2 Value) bool {
	s2, ok := v2.(String)
	return ok && s1 == s2
}

func (s String) Repr() string {
	return `"` + string(s) + `"`
}

// Symbol

var symtab = struct {
	sync.Mutex
	m map[string]*Symbol
}{m: make(map[string]*Symbol)}

// Intern returns the unique symbol with the given name.
func Intern(name string) *Symbol {
	symtab.Lock()
	defer symtab.Unlock()
	sym, ok := symtab.m[name]
	if !ok {
		sym = &Symbol{name}
		symtab.m[name] = sym
	}
	return sym
}

func (sym *Symbol) TypeName() string {
	return "symbol"
}

func (sym1 *Symbol) Eq(v2 Value) bool {
	sym2, ok := v2.(*Symbol)
	return ok && sym1.Name == sym2.Name
}

func (sym *Symbol) Repr() string {
	return sym.Name
}

// List

func (l List) TypeName() string {
	return "list"
}

func (l1 List) Eq(v2 Value) bool {
	return Equal(l1, v2)
}

func (l List) Repr() string {
	return Repr(l)
}

// Array

func NewArray(items ...Value) *Array {
	return &Array{Items: items}
}

func (a *Array) TypeName() string {
	return "array"
}

func (a1 *Array) Eq(v2 Value) bool {
	return Equal(a1, v2)
}

func (a *Array) Len() int {
	return len(a.Items)
}

func (a *Array) Repr() string {
	return Repr(a)
}

// Map

func NewMap() *Map {
	return &Map{Entries: make(map[string]Value)}
}

func (m *Map) TypeName() string {
	return "map"
}

func (m1 *Map) Eq(v2 Value) bool {
	return Equal(m1, v2)
}

// Keys returns the keys in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (m *Map) Repr() string {
	return Repr(m)
}

// Closure

func (c *Closure) TypeName() string {
	return "procedure"
}

func (c1 *Closure) Eq(v2 Value) bool {
	c2, ok := v2.(*Closure)
	return ok && c1 == c2
}

func (c *Closure) Repr() string {
	names := make([]string, len(c.Params))
	for i, p := range c.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("#<procedure:%s>", strings.Join(names, " "))
}

// Builtin

func (b *Builtin) TypeName() string {
	return "procedure"
}

func (b1 *Builtin) Eq(v2 Value) bool {
	b2, ok := v2.(*Builtin)
	return ok && b1 == b2
}

func (b *Builtin) Repr() string {
	return fmt.Sprintf("#<builtin:%s>", b.Name)
}

// helpers

func equalSlices(xs []Value, ys []Value, seen map[[2]any]bool) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !equal(xs[i], ys[i], seen) {
			return false
		}
	}
	return true
}
