package minischeme

import (
	"bytes"
	"errors"
	"testing"
)

func newTestVM(t *testing.T) (*VM, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	vm, err := NewVM(WithOutput(&out))
	if err != nil {
		t.Fatalf("NewVM: %v", err)
	}
	return vm, &out
}

// run evaluates every form in src and returns the value of the last one.
func run(t *testing.T, vm *VM, src string) Value {
	t.Helper()
	forms, err := ReadAll(src)
	if err != nil {
		t.Fatalf("read %q: %v", src, err)
	}
	var result Value
	for _, form := range forms {
		result, err = vm.EvalGlobal(form)
		if err != nil {
			t.Fatalf("eval %s: %v", Repr(form), err)
		}
	}
	return result
}

// runErr evaluates src and expects the last form to fail.
func runErr(t *testing.T, vm *VM, src string) *Error {
	t.Helper()
	forms, err := ReadAll(src)
	if err != nil {
		t.Fatalf("read %q: %v", src, err)
	}
	for i, form := range forms {
		_, err = vm.EvalGlobal(form)
		if i < len(forms)-1 && err != nil {
			t.Fatalf("eval %s: %v", Repr(form), err)
		}
	}
	if err == nil {
		t.Fatalf("%q: expected an error", src)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("%q: expected *Error, got %T: %v", src, err, err)
	}
	return e
}

type evalCase struct {
	src      string
	expected string
}

func checkEval(t *testing.T, cases []evalCase) {
	t.Helper()
	for _, tc := range cases {
		vm, _ := newTestVM(t)
		if got := Repr(run(t, vm, tc.src)); got != tc.expected {
			t.Errorf("%s: got %s, want %s", tc.src, got, tc.expected)
		}
	}
}

type errCase struct {
	src     string
	kind    ErrorKind
	message string
}

func checkErrors(t *testing.T, cases []errCase) {
	t.Helper()
	for _, tc := range cases {
		vm, _ := newTestVM(t)
		e := runErr(t, vm, tc.src)
		if e.Kind != tc.kind {
			t.Errorf("%s: got %v error, want %v", tc.src, e.Kind, tc.kind)
		}
		if tc.message != "" && e.Error() != tc.message {
			t.Errorf("%s: got message %q, want %q", tc.src, e.Error(), tc.message)
		}
	}
}
