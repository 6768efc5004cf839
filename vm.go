package minischeme

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type VM struct {
	Global *Env

	out   io.Writer
	log   *slog.Logger
	trace bool
}

type Option func(vm *VM)

// WithOutput sets the writer used by display and newline.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) {
		vm.out = w
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(vm *VM) {
		vm.log = logger
	}
}

type ImportFn func(vm *VM, env *Env) error

type module struct {
	name     string
	importFn ImportFn
}

var registeredModules []module

// RegisterModule adds a module that NewVM imports into every global
// environment. Modules are imported in registration order.
func RegisterModule(name string, importFn ImportFn) {
	registeredModules = append(registeredModules, module{name, importFn})
}

func NewVM(opts ...Option) (*VM, error) {
	vm := &VM{
		Global: NewEnv(nil),
		out:    os.Stdout,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.trace = vm.log.Enabled(context.Background(), slog.LevelDebug)
	for _, m := range registeredModules {
		if err := m.importFn(vm, vm.Global); err != nil {
			return nil, fmt.Errorf("import failed for module %s: %w", m.name, err)
		}
		vm.log.Debug("imported module", "module", m.name)
	}
	return vm, nil
}

func (vm *VM) EvalGlobal(expr Value) (Value, error) {
	return vm.Eval(expr, vm.Global)
}

// EvalString reads a single expression from src and evaluates it in the
// global environment.
func (vm *VM) EvalString(src string) (Value, error) {
	form, err := Read(src)
	if err != nil {
		return nil, err
	}
	return vm.EvalGlobal(form)
}

// Load evaluates every form read from rdr in the global environment and
// returns the value of the last one.
func (vm *VM) Load(rdr io.Reader) (Value, error) {
	src, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	return vm.LoadString(string(src))
}

func (vm *VM) LoadString(src string) (result Value, err error) {
	forms, err := ReadAll(src)
	if err != nil {
		return nil, err
	}
	for _, form := range forms {
		result, err = vm.EvalGlobal(form)
		if err != nil {
			return nil, fmt.Errorf("%s\nevaluation failed: %w", Repr(form), err)
		}
	}
	return result, nil
}

func (vm *VM) LoadFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	vm.log.Debug("loading file", "path", path)
	return vm.Load(f)
}

func (vm *VM) defineBuiltin(env *Env, name string, fn NativeFn) {
	env.Define(name, &Builtin{Name: name, Fn: fn})
}

func (vm *VM) display(args []Value) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Str(arg)
	}
	fmt.Fprintln(vm.out, strings.Join(parts, " "))
}
