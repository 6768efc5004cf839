package minischeme

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	ParserError ErrorKind = iota
	EvalError
	RuntimeError
	TypeError
	UndefinedVariableError
	NotProcedureError
	ArityError
)

func (k ErrorKind) String() string {
	switch k {
	case ParserError:
		return "parser"
	case EvalError:
		return "eval"
	case RuntimeError:
		return "runtime"
	case TypeError:
		return "type"
	case UndefinedVariableError:
		return "undefined-variable"
	case NotProcedureError:
		return "not-a-procedure"
	case ArityError:
		return "arity"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a fault raised while reading or evaluating. Which payload fields
// are set depends on Kind.
type Error struct {
	Kind     ErrorKind
	Msg      string
	Expected string
	Found    string
	Got      int

	// Incomplete marks parser faults caused by input that ended inside an
	// open list, array, map or string.
	Incomplete bool
}

// Kind sentinels for errors.Is.
var (
	ErrParser            = &Error{Kind: ParserError}
	ErrEval              = &Error{Kind: EvalError}
	ErrRuntime           = &Error{Kind: RuntimeError}
	ErrType              = &Error{Kind: TypeError}
	ErrUndefinedVariable = &Error{Kind: UndefinedVariableError}
	ErrNotProcedure      = &Error{Kind: NotProcedureError}
	ErrArity             = &Error{Kind: ArityError}
)

func (e *Error) Error() string {
	switch e.Kind {
	case ParserError:
		return "Parser Error: " + e.Msg
	case EvalError:
		return "Evaluation Error: " + e.Msg
	case RuntimeError:
		return "Runtime Error: " + e.Msg
	case TypeError:
		return fmt.Sprintf("Type Error: Expected %s, found %s", e.Expected, e.Found)
	case UndefinedVariableError:
		return "Undefined variable: " + e.Msg
	case NotProcedureError:
		return "Not a procedure: " + e.Msg
	case ArityError:
		return fmt.Sprintf("Arity Mismatch: Expected %s, got %d", e.Expected, e.Got)
	default:
		return e.Msg
	}
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// IsIncomplete reports whether err is a parser fault caused by truncated input.
func IsIncomplete(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == ParserError && e.Incomplete
}

func parserErrorf(format string, args ...any) *Error {
	return &Error{Kind: ParserError, Msg: fmt.Sprintf(format, args...)}
}

func incompletef(format string, args ...any) *Error {
	e := parserErrorf(format, args...)
	e.Incomplete = true
	return e
}

func evalErrorf(format string, args ...any) *Error {
	return &Error{Kind: EvalError, Msg: fmt.Sprintf(format, args...)}
}

func RuntimeErrorf(format string, args ...any) *Error {
	return &Error{Kind: RuntimeError, Msg: fmt.Sprintf(format, args...)}
}

func typeError(expected string, found Value) *Error {
	return &Error{Kind: TypeError, Expected: expected, Found: TypeName(found)}
}

func undefinedVariable(name string) *Error {
	return &Error{Kind: UndefinedVariableError, Msg: name}
}

func notProcedure(v Value) *Error {
	return &Error{Kind: NotProcedureError, Msg: Repr(v)}
}

func arityError(expected string, got int) *Error {
	return &Error{Kind: ArityError, Expected: expected, Got: got}
}
