package builtins

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/funvibe/yinyang/internal/config"
	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/evaluator"
	"github.com/funvibe/yinyang/internal/prettyprinter"
	"github.com/funvibe/yinyang/internal/reader"
)

// IOBuiltins returns the printing, reading and evaluation natives. Output
// goes to ev.Out at call time; eval runs against env.
func IOBuiltins(ev *evaluator.Evaluator, env *evaluator.Environment) map[string]evaluator.NativeFunc {
	out := func() io.Writer {
		if ev.Out == nil {
			return os.Stdout
		}
		return ev.Out
	}

	return map[string]evaluator.NativeFunc{
		// prn prints readably: strings keep their quotes.
		config.PrnFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			return printValues(out(), args, readable, "\n")
		},
		config.PrintFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			return printValues(out(), args, human, "")
		},
		config.PrintlnFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			return printValues(out(), args, human, "\n")
		},
		config.PprintFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			if err := checkArity(config.PprintFuncName, args, 1, 1); err != nil {
				return nil, err
			}
			return printValues(out(), args, pretty, "\n")
		},

		config.ReadStringFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			s, err := stringArg(config.ReadStringFuncName, args)
			if err != nil {
				return nil, err
			}
			node, err := reader.Read(s)
			if err != nil {
				return nil, err
			}
			return wrap(node), nil
		},

		config.EvalFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			if err := checkArity(config.EvalFuncName, args, 1, 1); err != nil {
				return nil, err
			}
			node, err := toNode(config.EvalFuncName, args[0])
			if err != nil {
				return nil, err
			}
			return ev.Eval(node, env)
		},

		config.SlurpFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			path, err := stringArg(config.SlurpFuncName, args)
			if err != nil {
				return nil, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("slurp: %w", err)
			}
			return wrap(edn.NewString(string(data))), nil
		},
	}
}

func stringArg(name string, args []evaluator.Value) (string, error) {
	if err := checkArity(name, args, 1, 1); err != nil {
		return "", err
	}
	if d, ok := args[0].(*evaluator.EDN); ok {
		if s, ok := d.Node.(*edn.String); ok {
			return s.Value, nil
		}
	}
	return "", evaluator.NewTypeError(name, "a string", args[0])
}

func readable(v evaluator.Value) string {
	return v.Inspect()
}

// human renders strings without quotes or escapes.
func human(v evaluator.Value) string {
	if d, ok := v.(*evaluator.EDN); ok {
		if s, ok := d.Node.(*edn.String); ok {
			return s.Value
		}
	}
	return v.Inspect()
}

// pretty lays data out across lines; functions and vars print as usual.
func pretty(v evaluator.Value) string {
	if d, ok := v.(*evaluator.EDN); ok {
		return prettyprinter.Print(d.Node)
	}
	return v.Inspect()
}

func printValues(w io.Writer, args []evaluator.Value, render func(evaluator.Value) string, end string) (evaluator.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = render(a)
	}
	if _, err := io.WriteString(w, strings.Join(parts, " ")+end); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return evaluator.NilValue, nil
}
