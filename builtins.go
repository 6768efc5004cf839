package minischeme

import (
	_ "embed"
	"fmt"
	"strconv"
)

//go:embed prelude.scm
var preludeScm string

// maxArraySize bounds make-array so a large size is a fault instead of a
// runtime panic.
const maxArraySize = 1 << 24

func exactArgs(args []Value, n int) error {
	if len(args) != n {
		return arityError(strconv.Itoa(n), len(args))
	}
	return nil
}

func minArgs(args []Value, n int) error {
	if len(args) < n {
		return arityError(fmt.Sprintf("at least %d", n), len(args))
	}
	return nil
}

func rangeArgs(args []Value, lo int, hi int) error {
	if len(args) < lo || len(args) > hi {
		return arityError(fmt.Sprintf("between %d and %d", lo, hi), len(args))
	}
	return nil
}

func asInteger(v Value) (int64, error) {
	if i, ok := v.(Integer); ok {
		return int64(i), nil
	}
	return 0, typeError("integer", v)
}

func asArray(v Value) (*Array, error) {
	if a, ok := v.(*Array); ok {
		return a, nil
	}
	return nil, typeError("array", v)
}

func asMap(v Value) (*Map, error) {
	if m, ok := v.(*Map); ok {
		return m, nil
	}
	return nil, typeError("map", v)
}

func asKey(v Value) (string, error) {
	switch k := v.(type) {
	case *Symbol:
		return k.Name, nil
	case String:
		return string(k), nil
	default:
		return "", typeError("symbol or string", v)
	}
}

// arithmetic

func evalAdd(vm *VM, env *Env, args []Value) (Value, error) {
	var sum int64
	for _, arg := range args {
		i, err := asInteger(arg)
		if err != nil {
			return nil, err
		}
		sum += i
	}
	return Integer(sum), nil
}

func evalSub(vm *VM, env *Env, args []Value) (Value, error) {
	if err := minArgs(args, 1); err != nil {
		return nil, err
	}
	result, err := asInteger(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return Integer(-result), nil
	}
	for _, arg := range args[1:] {
		i, err := asInteger(arg)
		if err != nil {
			return nil, err
		}
		result -= i
	}
	return Integer(result), nil
}

func evalMul(vm *VM, env *Env, args []Value) (Value, error) {
	var product int64 = 1
	for _, arg := range args {
		i, err := asInteger(arg)
		if err != nil {
			return nil, err
		}
		product *= i
	}
	return Integer(product), nil
}

func evalDiv(vm *VM, env *Env, args []Value) (Value, error) {
	if err := minArgs(args, 1); err != nil {
		return nil, err
	}
	result, err := asInteger(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if result == 0 {
			return nil, RuntimeErrorf("Division by zero")
		}
		// no reciprocal without rationals
		return nil, arityError("at least 2 for integer division", 1)
	}
	for _, arg := range args[1:] {
		divisor, err := asInteger(arg)
		if err != nil {
			return nil, err
		}
		if divisor == 0 {
			return nil, RuntimeErrorf("Division by zero")
		}
		result /= divisor
	}
	return Integer(result), nil
}

// comparison

func comparison(cmp func(a, b int64) bool) NativeFn {
	return func(vm *VM, env *Env, args []Value) (Value, error) {
		if err := minArgs(args, 2); err != nil {
			return nil, err
		}
		prev, err := asInteger(args[0])
		if err != nil {
			return nil, err
		}
		for _, arg := range args[1:] {
			cur, err := asInteger(arg)
			if err != nil {
				return nil, err
			}
			if !cmp(prev, cur) {
				return FalseValue, nil
			}
			prev = cur
		}
		return TrueValue, nil
	}
}

// lists

func evalCons(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 2); err != nil {
		return nil, err
	}
	switch tail := args[1].(type) {
	case List:
		result := make(List, 0, len(tail)+1)
		result = append(result, args[0])
		return append(result, tail...), nil
	case nil:
		return List{args[0]}, nil
	default:
		return nil, typeError("list or nil", args[1])
	}
}

func nonEmptyList(v Value) (List, error) {
	if l, ok := v.(List); ok && len(l) > 0 {
		return l, nil
	}
	return nil, typeError("non-empty list", v)
}

func evalCar(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 1); err != nil {
		return nil, err
	}
	l, err := nonEmptyList(args[0])
	if err != nil {
		return nil, err
	}
	return l[0], nil
}

func evalCdr(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 1); err != nil {
		return nil, err
	}
	l, err := nonEmptyList(args[0])
	if err != nil {
		return nil, err
	}
	if len(l) == 1 {
		return nil, nil
	}
	return l[1:], nil
}

func evalList(vm *VM, env *Env, args []Value) (Value, error) {
	return append(List{}, args...), nil
}

// predicates

func predicate(test func(v Value) bool) NativeFn {
	return func(vm *VM, env *Env, args []Value) (Value, error) {
		if err := exactArgs(args, 1); err != nil {
			return nil, err
		}
		return Boolean(test(args[0])), nil
	}
}

func isNull(v Value) bool {
	if l, ok := v.(List); ok {
		return len(l) == 0
	}
	return v == nil
}

func isType[T any](v Value) bool {
	_, ok := v.(T)
	return ok
}

func isProcedure(v Value) bool {
	switch v.(type) {
	case *Closure, *Builtin:
		return true
	}
	return false
}

func evalEqual(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 2); err != nil {
		return nil, err
	}
	return Boolean(Equal(args[0], args[1])), nil
}

// arrays

func evalMakeArray(vm *VM, env *Env, args []Value) (Value, error) {
	if err := rangeArgs(args, 1, 2); err != nil {
		return nil, err
	}
	k, err := asInteger(args[0])
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, RuntimeErrorf("Negative array size: %d", k)
	}
	if k > maxArraySize {
		return nil, RuntimeErrorf("Array size too large: %d", k)
	}
	var fill Value
	if len(args) == 2 {
		fill = args[1]
	}
	items := make([]Value, k)
	for i := range items {
		items[i] = fill
	}
	return NewArray(items...), nil
}

func arrayIndex(a *Array, v Value) (int, error) {
	i, err := asInteger(v)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= int64(a.Len()) {
		return 0, RuntimeErrorf("Array index out of bounds: %d", i)
	}
	return int(i), nil
}

func evalArrayRef(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 2); err != nil {
		return nil, err
	}
	a, err := asArray(args[0])
	if err != nil {
		return nil, err
	}
	i, err := arrayIndex(a, args[1])
	if err != nil {
		return nil, err
	}
	return a.Items[i], nil
}

func evalArraySet(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 3); err != nil {
		return nil, err
	}
	a, err := asArray(args[0])
	if err != nil {
		return nil, err
	}
	i, err := arrayIndex(a, args[1])
	if err != nil {
		return nil, err
	}
	a.Items[i] = args[2]
	return nil, nil
}

func evalArrayLength(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 1); err != nil {
		return nil, err
	}
	a, err := asArray(args[0])
	if err != nil {
		return nil, err
	}
	return Integer(a.Len()), nil
}

// maps

func evalMakeMap(vm *VM, env *Env, args []Value) (Value, error) {
	return NewMap(), nil
}

func evalMapRef(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 2); err != nil {
		return nil, err
	}
	key, err := asKey(args[1])
	if err != nil {
		return nil, err
	}
	m, err := asMap(args[0])
	if err != nil {
		return nil, err
	}
	return m.Entries[key], nil
}

func evalMapSet(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 3); err != nil {
		return nil, err
	}
	key, err := asKey(args[1])
	if err != nil {
		return nil, err
	}
	m, err := asMap(args[0])
	if err != nil {
		return nil, err
	}
	m.Entries[key] = args[2]
	return nil, nil
}

func evalMapKeys(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 1); err != nil {
		return nil, err
	}
	m, err := asMap(args[0])
	if err != nil {
		return nil, err
	}
	keys := List{}
	for _, k := range m.Keys() {
		keys = append(keys, Intern(k))
	}
	return keys, nil
}

// other

func evalDisplay(vm *VM, env *Env, args []Value) (Value, error) {
	vm.display(args)
	return nil, nil
}

func evalNewline(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 0); err != nil {
		return nil, err
	}
	vm.display(nil)
	return nil, nil
}

func evalEval(vm *VM, env *Env, args []Value) (Value, error) {
	if err := exactArgs(args, 1); err != nil {
		return nil, err
	}
	return vm.Eval(args[0], env)
}

func init() {
	RegisterModule("core", func(vm *VM, env *Env) error {
		vm.defineBuiltin(env, "+", evalAdd)
		vm.defineBuiltin(env, "-", evalSub)
		vm.defineBuiltin(env, "*", evalMul)
		vm.defineBuiltin(env, "/", evalDiv)
		vm.defineBuiltin(env, "=", comparison(func(a, b int64) bool { return a == b }))
		vm.defineBuiltin(env, "<", comparison(func(a, b int64) bool { return a < b }))
		vm.defineBuiltin(env, ">", comparison(func(a, b int64) bool { return a > b }))
		vm.defineBuiltin(env, "<=", comparison(func(a, b int64) bool { return a <= b }))
		vm.defineBuiltin(env, ">=", comparison(func(a, b int64) bool { return a >= b }))
		vm.defineBuiltin(env, "cons", evalCons)
		vm.defineBuiltin(env, "car", evalCar)
		vm.defineBuiltin(env, "cdr", evalCdr)
		vm.defineBuiltin(env, "list", evalList)
		vm.defineBuiltin(env, "null?", predicate(isNull))
		vm.defineBuiltin(env, "boolean?", predicate(isType[Boolean]))
		vm.defineBuiltin(env, "symbol?", predicate(isType[*Symbol]))
		vm.defineBuiltin(env, "integer?", predicate(isType[Integer]))
		vm.defineBuiltin(env, "string?", predicate(isType[String]))
		vm.defineBuiltin(env, "list?", predicate(isType[List]))
		vm.defineBuiltin(env, "procedure?", predicate(isProcedure))
		vm.defineBuiltin(env, "array?", predicate(isType[*Array]))
		vm.defineBuiltin(env, "map?", predicate(isType[*Map]))
		vm.defineBuiltin(env, "equal?", evalEqual)
		vm.defineBuiltin(env, "make-array", evalMakeArray)
		vm.defineBuiltin(env, "array-ref", evalArrayRef)
		vm.defineBuiltin(env, "array-set!", evalArraySet)
		vm.defineBuiltin(env, "array-length", evalArrayLength)
		vm.defineBuiltin(env, "make-map", evalMakeMap)
		vm.defineBuiltin(env, "map-ref", evalMapRef)
		vm.defineBuiltin(env, "map-set!", evalMapSet)
		vm.defineBuiltin(env, "map-keys", evalMapKeys)
		vm.defineBuiltin(env, "display", evalDisplay)
		vm.defineBuiltin(env, "newline", evalNewline)
		vm.defineBuiltin(env, "eval", evalEval)
		return nil
	})
	RegisterModule("prelude", func(vm *VM, env *Env) error {
		forms, err := ReadAll(preludeScm)
		if err != nil {
			return err
		}
		for _, form := range forms {
			if _, err := vm.Eval(form, env); err != nil {
				return fmt.Errorf("%s: %w", Repr(form), err)
			}
		}
		return nil
	})
}
