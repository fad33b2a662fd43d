package evaluator

import (
	"slices"
	"sync"

	"github.com/funvibe/yinyang/internal/immutant"
)

func NewEnvironment() *Environment {
	return &Environment{store: immutant.NewMap[string, Value](immutant.StringHasher{})}
}

// Environment maps names to values. The bindings live in a persistent map, so
// a Snapshot costs O(1) and later Sets on either side are invisible to the
// other. The lock only guards swapping the map pointer.
type Environment struct {
	mu    sync.RWMutex
	store *immutant.Map[string, Value]
}

func (e *Environment) Get(name string) (Value, bool) {
	e.mu.RLock()
	store := e.store
	e.mu.RUnlock()
	return store.Get(name)
}

func (e *Environment) Set(name string, val Value) Value {
	e.mu.Lock()
	e.store = e.store.Put(name, val)
	e.mu.Unlock()
	return val
}

// Snapshot returns an independent environment with the current bindings.
func (e *Environment) Snapshot() *Environment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return &Environment{store: e.store}
}

func (e *Environment) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Len()
}

// Names returns every bound name, sorted.
func (e *Environment) Names() []string {
	e.mu.RLock()
	store := e.store
	e.mu.RUnlock()
	names := store.Keys()
	slices.Sort(names)
	return names
}
