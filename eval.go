package minischeme

import (
	"strconv"
)

type stepKind int

const (
	// the step produced the final value
	stepValue stepKind = iota
	// evaluate expr in env next, without growing the Go stack
	stepTail
	// apply proc to the already evaluated args
	stepCall
)

type step struct {
	kind  stepKind
	value Value
	expr  Value
	env   *Env
	proc  Value
	args  []Value
}

func done(v Value) (step, error) {
	return step{kind: stepValue, value: v}, nil
}

func tail(expr Value, env *Env) (step, error) {
	return step{kind: stepTail, expr: expr, env: env}, nil
}

var symBegin = Intern("begin")

// Eval evaluates expr in env. Calls in tail position (the chosen branch of
// if, the last form of begin, and every procedure application) are run by
// the loop below instead of recursing, so tail-recursive procedures execute
// in constant Go stack space.
func (vm *VM) Eval(expr Value, env *Env) (Value, error) {
	for {
		s, err := vm.step(expr, env)
		if err != nil {
			return nil, err
		}
		switch s.kind {
		case stepValue:
			return s.value, nil
		case stepTail:
			expr, env = s.expr, s.env
		case stepCall:
			switch f := s.proc.(type) {
			case *Closure:
				callEnv, err := bindParams(f, s.args)
				if err != nil {
					return nil, err
				}
				if vm.trace {
					vm.log.Debug("tail call", "procedure", f.Repr(), "args", len(s.args))
				}
				expr, env = f.Body, callEnv
			case *Builtin:
				return f.Fn(vm, env, s.args)
			default:
				return nil, notProcedure(s.proc)
			}
		}
	}
}

// bindParams creates the call scope of f. Either every parameter is bound or
// an error is returned and no scope is created.
func bindParams(f *Closure, args []Value) (*Env, error) {
	if len(args) != len(f.Params) {
		return nil, arityError(strconv.Itoa(len(f.Params)), len(args))
	}
	callEnv := NewEnv(f.Env)
	for i, param := range f.Params {
		callEnv.Define(param.Name, args[i])
	}
	return callEnv, nil
}

func (vm *VM) step(expr Value, env *Env) (step, error) {
	switch v := expr.(type) {
	case *Symbol:
		if v.Name == "" {
			return done(nil)
		}
		if val, found := env.Lookup(v.Name); found {
			return done(val)
		}
		return step{}, undefinedVariable(v.Name)
	case List:
		if len(v) == 0 {
			return done(nil)
		}
		if sym, ok := v[0].(*Symbol); ok {
			args := v[1:]
			switch sym.Name {
			case "quote":
				return evalQuote(args)
			case "if":
				return vm.evalIf(args, env)
			case "define":
				return vm.evalDefine(args, env)
			case "set!":
				return vm.evalSet(args, env)
			case "lambda":
				return evalLambda(args, env)
			case "begin":
				return vm.evalBegin(args, env)
			}
		}
		return vm.evalApplication(v, env)
	default:
		return done(expr)
	}
}

// IsSpecialForm reports whether name is dispatched syntactically by the
// evaluator rather than looked up.
func IsSpecialForm(name string) bool {
	switch name {
	case "quote", "if", "define", "set!", "lambda", "begin":
		return true
	}
	return false
}

func evalQuote(args List) (step, error) {
	if len(args) != 1 {
		return step{}, arityError("1", len(args))
	}
	return done(args[0])
}

func (vm *VM) evalIf(args List, env *Env) (step, error) {
	if len(args) != 2 && len(args) != 3 {
		return step{}, arityError("2 or 3", len(args))
	}
	test, err := vm.Eval(args[0], env)
	if err != nil {
		return step{}, err
	}
	if IsTruthy(test) {
		return tail(args[1], env)
	}
	if len(args) == 3 {
		return tail(args[2], env)
	}
	return done(nil)
}

func bindingName(args List) (string, error) {
	if len(args) != 2 {
		return "", arityError("2", len(args))
	}
	sym, ok := args[0].(*Symbol)
	if !ok {
		return "", typeError("symbol", args[0])
	}
	return sym.Name, nil
}

func (vm *VM) evalDefine(args List, env *Env) (step, error) {
	name, err := bindingName(args)
	if err != nil {
		return step{}, err
	}
	value, err := vm.Eval(args[1], env)
	if err != nil {
		return step{}, err
	}
	env.Define(name, value)
	return done(nil)
}

func (vm *VM) evalSet(args List, env *Env) (step, error) {
	name, err := bindingName(args)
	if err != nil {
		return step{}, err
	}
	value, err := vm.Eval(args[1], env)
	if err != nil {
		return step{}, err
	}
	if err := env.Set(name, value); err != nil {
		return step{}, err
	}
	return done(nil)
}

func evalLambda(args List, env *Env) (step, error) {
	if len(args) < 1 {
		return step{}, evalErrorf("Invalid lambda syntax: requires parameters and body")
	}
	var paramForms List
	switch v := args[0].(type) {
	case List:
		paramForms = v
	case nil:
	default:
		return step{}, evalErrorf("Lambda parameters must be a list of symbols")
	}
	params := make([]*Symbol, len(paramForms))
	for i, form := range paramForms {
		sym, ok := form.(*Symbol)
		if !ok {
			return step{}, evalErrorf("Lambda parameters must be symbols")
		}
		params[i] = sym
	}
	var body Value
	if forms := args[1:]; len(forms) == 1 {
		body = forms[0]
	} else {
		body = append(List{symBegin}, forms...)
	}
	return done(&Closure{
		Params: params,
		Body:   body,
		Env:    env,
	})
}

func (vm *VM) evalBegin(args List, env *Env) (step, error) {
	if len(args) == 0 {
		return done(nil)
	}
	last := len(args) - 1
	for _, form := range args[:last] {
		if _, err := vm.Eval(form, env); err != nil {
			return step{}, err
		}
	}
	return tail(args[last], env)
}

func (vm *VM) evalApplication(l List, env *Env) (step, error) {
	proc, err := vm.Eval(l[0], env)
	if err != nil {
		return step{}, err
	}
	switch proc.(type) {
	case *Closure, *Builtin:
	default:
		return step{}, notProcedure(proc)
	}
	args := make([]Value, len(l)-1)
	for i, form := range l[1:] {
		if args[i], err = vm.Eval(form, env); err != nil {
			return step{}, err
		}
	}
	return step{kind: stepCall, proc: proc, args: args}, nil
}
