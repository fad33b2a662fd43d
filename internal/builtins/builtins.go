// Package builtins provides the native functions installed in a top-level
// environment: arithmetic, comparison, printing, reading and evaluation, and
// the collection helpers.
package builtins

import (
	"slices"
	"strconv"

	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/evaluator"
	"github.com/funvibe/yinyang/pkg/ext"
)

// Register installs every native into env, then any registered through
// pkg/ext. Natives that evaluate code or print use ev and env.
func Register(ev *evaluator.Evaluator, env *evaluator.Environment) {
	groups := []map[string]evaluator.NativeFunc{
		NumericBuiltins(),
		IOBuiltins(ev, env),
		CollectionBuiltins(),
		ext.Builtins(),
	}
	for _, group := range groups {
		names := make([]string, 0, len(group))
		for name := range group {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			evaluator.RegisterNative(env, name, group[name])
		}
	}
}

// NewEnvironment returns a top-level environment with every native
// registered.
func NewEnvironment(ev *evaluator.Evaluator) *evaluator.Environment {
	env := evaluator.NewEnvironment()
	Register(ev, env)
	return env
}

func checkArity(name string, args []evaluator.Value, min, max int) error {
	if len(args) >= min && (max < 0 || len(args) <= max) {
		return nil
	}
	var want string
	switch {
	case max < 0:
		want = pluralArgs(min, "at least ")
	case min == max:
		want = pluralArgs(min, "")
	default:
		want = pluralArgs(min, "") + " to " + pluralArgs(max, "")
	}
	return evaluator.NewArityError(name, want, len(args))
}

func pluralArgs(n int, prefix string) string {
	if n == 1 {
		return prefix + "1 argument"
	}
	return prefix + strconv.Itoa(n) + " arguments"
}

// toNode unwraps a data value. Functions and vars cannot be stored in
// collections.
func toNode(name string, v evaluator.Value) (edn.Node, error) {
	if d, ok := v.(*evaluator.EDN); ok {
		return d.Node, nil
	}
	return nil, evaluator.NewTypeError(name, "a data value", v)
}

func toNodes(name string, args []evaluator.Value) ([]edn.Node, error) {
	nodes := make([]edn.Node, len(args))
	for i, a := range args {
		n, err := toNode(name, a)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

func wrap(n edn.Node) evaluator.Value {
	return evaluator.FromNode(n)
}
