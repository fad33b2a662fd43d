// Package evaluator walks edn trees against an Environment.
package evaluator

import (
	"io"
	"log/slog"
	"os"

	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/reader"
)

// DefaultMaxDepth is the default nesting limit for Eval calls.
const DefaultMaxDepth = 10000

type Evaluator struct {
	Out    io.Writer
	Logger *slog.Logger

	// MaxDepth bounds nested Eval calls so that runaway recursion becomes an
	// ErrDepth error rather than a Go stack overflow. Zero disables the check.
	MaxDepth int

	// evalDepth tracks the current nesting depth of Eval calls
	evalDepth int
}

func New() *Evaluator {
	return &Evaluator{
		Out:      os.Stdout,
		Logger:   slog.Default(),
		MaxDepth: DefaultMaxDepth,
	}
}

// Eval evaluates node in env. Only def writes to env; every other form leaves
// it untouched, including on error.
func (e *Evaluator) Eval(node edn.Node, env *Environment) (Value, error) {
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.MaxDepth > 0 && e.evalDepth > e.MaxDepth {
		return nil, newError(ErrDepth, "maximum recursion depth exceeded (%d)", e.MaxDepth)
	}

	switch n := node.(type) {
	case *edn.Symbol:
		if v, ok := env.Get(n.Name); ok {
			return v, nil
		}
		return nil, newError(ErrUndefinedSymbol, "Undefined symbol: %s", n.Name)
	case *edn.List:
		return e.evalList(n, env)
	default:
		// nil, booleans, numbers, strings, keywords, vectors, maps and sets
		// evaluate to themselves; collection elements are not evaluated.
		return FromNode(node), nil
	}
}

// EvalString reads every form in src and evaluates them in order, returning
// the last value, or nil for empty input.
func (e *Evaluator) EvalString(src string, env *Environment) (Value, error) {
	forms, err := reader.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return e.EvalForms(forms, env)
}

func (e *Evaluator) EvalForms(forms []edn.Node, env *Environment) (Value, error) {
	var result Value = NilValue
	for _, form := range forms {
		v, err := e.Eval(form, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalList(list *edn.List, env *Environment) (Value, error) {
	head, ok := list.Items().Head()
	if !ok {
		return nil, newError(ErrNotCallable, "Empty list")
	}
	sym, ok := head.(*edn.Symbol)
	if !ok {
		return nil, newError(ErrNotCallable, "Expected a function symbol")
	}
	args := list.Rest().Slice()

	if form, ok := LookupSpecialForm(sym.Name); ok {
		switch form {
		case SpecialQuote:
			return e.evalQuote(args)
		case SpecialDo:
			return e.EvalForms(args, env)
		case SpecialIf:
			return e.evalIf(args, env)
		case SpecialDef:
			return e.evalDef(args, env)
		case SpecialLet:
			return e.evalLet(args, env)
		case SpecialFn:
			return e.evalFn(args, env)
		}
	}

	fn, err := e.Eval(sym, env)
	if err != nil {
		return nil, err
	}
	callable, ok := fn.(Callable)
	if !ok {
		return nil, newError(ErrNotCallable, "First element is not a function")
	}

	vals := make([]Value, len(args))
	for i, arg := range args {
		v, err := e.Eval(arg, env)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return e.Apply(callable, vals)
}

// Apply calls fn with already evaluated arguments.
func (e *Evaluator) Apply(fn Callable, args []Value) (Value, error) {
	switch f := fn.(type) {
	case *Native:
		if e.Logger != nil {
			e.Logger.Debug("call native", "name", f.Name, "args", len(args))
		}
		return f.Fn(args)
	case *Lambda:
		if len(args) != len(f.Params) {
			return nil, newError(ErrArity, "Expected %d args, got %d", len(f.Params), len(args))
		}
		scope := f.Closure.Snapshot()
		for i, p := range f.Params {
			scope.Set(p.Name, args[i])
		}
		return e.Eval(f.Body, scope)
	}
	return nil, newError(ErrNotCallable, "First element is not a function")
}

func (e *Evaluator) evalQuote(args []edn.Node) (Value, error) {
	if len(args) != 1 {
		return nil, newError(ErrArity, "Incorrect number of arguments for 'quote'")
	}
	return FromNode(args[0]), nil
}

func (e *Evaluator) evalIf(args []edn.Node, env *Environment) (Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, newError(ErrArity, "'if' requires 2 or 3 arguments")
	}
	cond, err := e.Eval(args[0], env)
	if err != nil {
		return nil, err
	}
	if IsTruthy(cond) {
		return e.Eval(args[1], env)
	}
	if len(args) == 3 {
		return e.Eval(args[2], env)
	}
	return NilValue, nil
}

func (e *Evaluator) evalDef(args []edn.Node, env *Environment) (Value, error) {
	if len(args) != 2 {
		return nil, newError(ErrArity, "'def' requires exactly 2 arguments")
	}
	sym, ok := args[0].(*edn.Symbol)
	if !ok {
		return nil, newError(ErrType, "First argument to 'def' must be a symbol")
	}
	val, err := e.Eval(args[1], env)
	if err != nil {
		return nil, err
	}
	env.Set(sym.Name, val)
	if e.Logger != nil {
		e.Logger.Debug("def", "name", sym.Name, "value", val.Inspect())
	}
	return &Var{Namespace: DefaultNamespace, Name: sym.Name, Value: val}, nil
}

func (e *Evaluator) evalLet(args []edn.Node, env *Environment) (Value, error) {
	if len(args) != 2 {
		return nil, newError(ErrArity, "'let' requires exactly 2 arguments")
	}
	bindings, ok := args[0].(*edn.Vector)
	if !ok {
		return nil, newError(ErrType, "First argument to 'let' must be a vector")
	}
	if bindings.Len()%2 != 0 {
		return nil, newError(ErrArity, "Binding vector requires an even number of forms")
	}

	scope := env.Snapshot()
	forms := bindings.Slice()
	for i := 0; i < len(forms); i += 2 {
		sym, ok := forms[i].(*edn.Symbol)
		if !ok {
			return nil, newError(ErrType, "Binding target must be a symbol")
		}
		val, err := e.Eval(forms[i+1], scope)
		if err != nil {
			return nil, err
		}
		scope.Set(sym.Name, val)
	}
	return e.Eval(args[1], scope)
}

func (e *Evaluator) evalFn(args []edn.Node, env *Environment) (Value, error) {
	if len(args) != 2 {
		return nil, newError(ErrArity, "'fn' requires exactly 2 arguments")
	}
	paramVec, ok := args[0].(*edn.Vector)
	if !ok {
		return nil, newError(ErrType, "First argument to 'fn' must be a vector")
	}
	params := make([]*edn.Symbol, 0, paramVec.Len())
	for p := range paramVec.All() {
		sym, ok := p.(*edn.Symbol)
		if !ok {
			return nil, newError(ErrType, "Parameters must be symbols")
		}
		params = append(params, sym)
	}
	return &Lambda{Params: params, Body: args[1], Closure: env.Snapshot()}, nil
}
