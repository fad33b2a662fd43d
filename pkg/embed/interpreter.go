// Package yinyang embeds the evaluator in Go programs: Go functions can be
// bound as natives, Go data crosses over as EDN, and results come back as
// plain Go values.
package yinyang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strconv"

	"github.com/funvibe/yinyang/internal/builtins"
	"github.com/funvibe/yinyang/internal/evaluator"
	"github.com/funvibe/yinyang/internal/pipeline"
	"github.com/funvibe/yinyang/internal/reader"
)

// Interpreter wraps an evaluator and its top-level environment. Calls into one
// Interpreter must not overlap.
type Interpreter struct {
	evaluator  *evaluator.Evaluator
	env        *evaluator.Environment
	marshaller *Marshaller
	logger     *slog.Logger
}

// New creates an interpreter with every native installed.
func New() *Interpreter {
	ev := evaluator.New()
	return &Interpreter{
		evaluator:  ev,
		env:        builtins.NewEnvironment(ev),
		marshaller: NewMarshaller(),
	}
}

// SetOutput redirects prn, print and friends.
func (in *Interpreter) SetOutput(w io.Writer) {
	in.evaluator.Out = w
}

func (in *Interpreter) SetLogger(logger *slog.Logger) {
	in.evaluator.Logger = logger
	in.logger = logger
}

// Bind registers a Go function as a native called name. Arguments are
// converted to the function's parameter types; a trailing error result is
// returned to the caller as an evaluation error.
func (in *Interpreter) Bind(name string, fn any) error {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("bind %s: %T is not a function", name, fn)
	}
	ft := rv.Type()
	switch {
	case ft.NumOut() > 2:
		return fmt.Errorf("bind %s: at most a value and an error may be returned", name)
	case ft.NumOut() == 2 && ft.Out(1) != errorType:
		return fmt.Errorf("bind %s: second result must be an error", name)
	}

	evaluator.RegisterNative(in.env, name, func(args []evaluator.Value) (evaluator.Value, error) {
		return in.hostCall(name, rv, args)
	})
	return nil
}

func (in *Interpreter) hostCall(name string, fn reflect.Value, args []evaluator.Value) (evaluator.Value, error) {
	fnType := fn.Type()
	numIn := fnType.NumIn()
	isVariadic := fnType.IsVariadic()

	// Check arg count
	if isVariadic {
		if len(args) < numIn-1 {
			return nil, evaluator.NewArityError(name, "at least "+strconv.Itoa(numIn-1)+" arguments", len(args))
		}
	} else if len(args) != numIn {
		return nil, evaluator.NewArityError(name, strconv.Itoa(numIn)+" arguments", len(args))
	}

	goArgs := make([]reflect.Value, len(args))
	for i, arg := range args {
		var targetType reflect.Type
		if isVariadic && i >= numIn-1 {
			targetType = fnType.In(numIn - 1).Elem()
		} else {
			targetType = fnType.In(i)
		}

		val, err := in.marshaller.FromValue(arg, targetType)
		if err == nil {
			goArgs[i], err = convertTo(val, targetType)
		}
		if err != nil {
			return nil, evaluator.NewError(evaluator.ErrType, "'%s' argument %d: %v", name, i+1, err)
		}
	}

	results := fn.Call(goArgs)

	if n := len(results); n > 0 && fnType.Out(n-1) == errorType {
		if err, _ := results[n-1].Interface().(error); err != nil {
			return nil, err
		}
		results = results[:n-1]
	}
	if len(results) == 0 {
		return evaluator.NilValue, nil
	}
	return in.marshaller.ToValue(results[0].Interface())
}

// Set binds a Go value under name.
func (in *Interpreter) Set(name string, val any) error {
	v, err := in.marshaller.ToValue(val)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	in.env.Set(name, v)
	return nil
}

// Get returns the Go form of a top-level binding.
func (in *Interpreter) Get(name string) (any, error) {
	v, ok := in.env.Get(name)
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found", name)
	}
	return in.marshaller.FromValue(v, nil)
}

// Call applies a top-level function, native or defined in code, to Go
// arguments.
func (in *Interpreter) Call(funcName string, args ...any) (any, error) {
	fnValue, ok := in.env.Get(funcName)
	if !ok {
		return nil, fmt.Errorf("function '%s' not found", funcName)
	}
	callable, ok := fnValue.(evaluator.Callable)
	if !ok {
		return nil, fmt.Errorf("'%s' is not a function", funcName)
	}

	values := make([]evaluator.Value, len(args))
	for i, arg := range args {
		v, err := in.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		values[i] = v
	}

	result, err := in.evaluator.Apply(callable, values)
	if err != nil {
		return nil, err
	}
	return in.marshaller.FromValue(result, nil)
}

// Eval runs code and returns the value of its last form.
func (in *Interpreter) Eval(code string) (any, error) {
	result, err := in.run(code, "<eval>")
	if err != nil {
		return nil, err
	}
	return in.marshaller.FromValue(result, nil)
}

// LoadFile runs a source file for its definitions.
func (in *Interpreter) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = in.run(string(content), path)
	return err
}

func (in *Interpreter) run(code, filePath string) (evaluator.Value, error) {
	ctx := &pipeline.PipelineContext{
		SourceCode: code,
		FilePath:   filePath,
		Env:        in.env,
	}
	p := pipeline.New(
		&reader.ReaderProcessor{Logger: in.logger},
		&evaluator.EvaluatorProcessor{Evaluator: in.evaluator},
	)
	ctx = p.Run(ctx)
	if ctx.Failed() {
		return nil, errors.Join(ctx.Errors...)
	}
	result, _ := ctx.Result.(evaluator.Value)
	if result == nil {
		result = evaluator.NilValue
	}
	return result, nil
}
