package evaluator

import (
	"errors"
	"fmt"
)

// Error kinds. Every evaluation error wraps exactly one of these, so callers
// can classify with errors.Is while the message stays readable.
var (
	ErrUndefinedSymbol = errors.New("undefined symbol")
	ErrArity           = errors.New("wrong number of arguments")
	ErrType            = errors.New("wrong argument type")
	ErrNotCallable     = errors.New("not callable")
	ErrArithmetic      = errors.New("arithmetic error")
	ErrDepth           = errors.New("recursion too deep")
)

// EvalError is an evaluation failure. Error returns only Msg; the kind is
// reachable through Unwrap.
type EvalError struct {
	Kind error
	Msg  string
}

func (e *EvalError) Error() string { return e.Msg }
func (e *EvalError) Unwrap() error { return e.Kind }

func newError(kind error, format string, a ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// NewError builds an error of the given kind. Natives use it for failures
// that are not covered by NewArityError or NewTypeError.
func NewError(kind error, format string, a ...interface{}) error {
	return newError(kind, format, a...)
}

// NewArityError is the error natives return for a bad argument count.
func NewArityError(name string, want string, got int) error {
	return newError(ErrArity, "'%s' expects %s, got %d", name, want, got)
}

// NewTypeError is the error natives return for an argument of the wrong kind.
func NewTypeError(name string, want string, got Value) error {
	return newError(ErrType, "'%s' expects %s, got %s", name, want, got.Inspect())
}
