package evaluator

// RegisterNative binds fn under name in env and returns the registered value.
// Each registration gets a fresh ID, so registering the same Go function twice
// yields two unequal natives.
func RegisterNative(env *Environment, name string, fn NativeFunc) *Native {
	n := NewNative(name, fn)
	env.Set(name, n)
	return n
}
