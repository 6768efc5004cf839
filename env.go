package minischeme

// Env is one lexical scope. Scopes are shared by pointer between the
// evaluator and every closure created in them, so a binding changed through
// one holder is seen by all of them.
type Env struct {
	vars   map[string]Value
	parent *Env
}

func NewEnv(parent *Env) *Env {
	return &Env{
		vars:   make(map[string]Value),
		parent: parent,
	}
}

func (e *Env) Parent() *Env {
	return e.parent
}

// Define binds name in this scope only, shadowing any outer binding.
func (e *Env) Define(name string, value Value) {
	e.vars[name] = value
}

// Lookup returns the innermost binding of name.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, found := env.vars[name]; found {
			return v, true
		}
	}
	return nil, false
}

// Set rebinds name in the innermost scope that already defines it.
func (e *Env) Set(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, found := env.vars[name]; found {
			env.vars[name] = value
			return nil
		}
	}
	return undefinedVariable(name)
}
