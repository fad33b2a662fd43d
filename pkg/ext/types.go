// Package ext is the public surface for natives written outside this module.
// Natives registered here are installed in every environment built by the
// builtins package afterwards.
package ext

import (
	"maps"
	"slices"
	"sync"

	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/evaluator"
)

// Runtime type aliases
type Value = evaluator.Value
type NativeFunc = evaluator.NativeFunc
type Node = edn.Node
type EDN = evaluator.EDN

// Error kinds natives may report, for errors.Is.
var (
	ErrArity      = evaluator.ErrArity
	ErrType       = evaluator.ErrType
	ErrArithmetic = evaluator.ErrArithmetic
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]map[string]NativeFunc)
)

// RegisterExtBuiltins registers a map of natives for a given extension group.
// Registering the same group again replaces it; an empty map removes it.
func RegisterExtBuiltins(group string, natives map[string]NativeFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if len(natives) == 0 {
		delete(registry, group)
		return
	}
	registry[group] = maps.Clone(natives)
}

// Builtins merges every registered group. Groups are applied in name order,
// so a later group wins a name clash.
func Builtins() map[string]NativeFunc {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make(map[string]NativeFunc)
	for _, group := range slices.Sorted(maps.Keys(registry)) {
		maps.Copy(out, registry[group])
	}
	return out
}

// Helpers for writing natives

func NewError(kind error, format string, args ...any) error {
	return evaluator.NewError(kind, format, args...)
}

func NewArityError(name, want string, got int) error {
	return evaluator.NewArityError(name, want, got)
}

func NewTypeError(name, want string, got Value) error {
	return evaluator.NewTypeError(name, want, got)
}

// Data wraps an EDN node as a runtime value.
func Data(n Node) Value {
	return evaluator.FromNode(n)
}

// StringArg returns args[i] when it is an EDN string.
func StringArg(args []Value, i int) (string, bool) {
	if i < 0 || i >= len(args) {
		return "", false
	}
	if d, ok := args[i].(*EDN); ok {
		if s, ok := d.Node.(*edn.String); ok {
			return s.Value, true
		}
	}
	return "", false
}
