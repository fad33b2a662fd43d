package ext_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/yinyang/internal/builtins"
	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/evaluator"
	"github.com/funvibe/yinyang/pkg/ext"
)

func shout(args []ext.Value) (ext.Value, error) {
	if len(args) != 1 {
		return nil, ext.NewArityError("shout", "1 argument", len(args))
	}
	s, ok := ext.StringArg(args, 0)
	if !ok {
		return nil, ext.NewTypeError("shout", "a string", args[0])
	}
	return ext.Data(edn.NewString(strings.ToUpper(s) + "!")), nil
}

func TestRegisterExtBuiltins(t *testing.T) {
	ext.RegisterExtBuiltins("text", map[string]ext.NativeFunc{"shout": shout})
	defer ext.RegisterExtBuiltins("text", nil)

	ev := evaluator.New()
	env := builtins.NewEnvironment(ev)

	v, err := ev.EvalString(`(shout "hi")`, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Inspect() != `"HI!"` {
		t.Errorf("got %s", v.Inspect())
	}

	if _, err := ev.EvalString(`(shout 1)`, env); !errors.Is(err, ext.ErrType) {
		t.Errorf("err = %v, want ErrType", err)
	}
	if _, err := ev.EvalString(`(shout)`, env); !errors.Is(err, ext.ErrArity) {
		t.Errorf("err = %v, want ErrArity", err)
	}
}

func TestBuiltins_GroupOrder(t *testing.T) {
	constant := func(s string) ext.NativeFunc {
		return func([]ext.Value) (ext.Value, error) { return ext.Data(edn.NewString(s)), nil }
	}
	ext.RegisterExtBuiltins("b-group", map[string]ext.NativeFunc{"which": constant("b")})
	ext.RegisterExtBuiltins("a-group", map[string]ext.NativeFunc{"which": constant("a"), "only-a": constant("a")})
	defer ext.RegisterExtBuiltins("a-group", nil)
	defer ext.RegisterExtBuiltins("b-group", nil)

	all := ext.Builtins()
	if _, ok := all["only-a"]; !ok {
		t.Error("only-a missing")
	}
	v, _ := all["which"](nil)
	if v.Inspect() != `"b"` {
		t.Errorf("which = %s, want the later group to win", v.Inspect())
	}
}

func TestRegisterExtBuiltins_Copies(t *testing.T) {
	natives := map[string]ext.NativeFunc{"shout": shout}
	ext.RegisterExtBuiltins("copy", natives)
	defer ext.RegisterExtBuiltins("copy", nil)

	delete(natives, "shout")
	if _, ok := ext.Builtins()["shout"]; !ok {
		t.Error("registry should not alias the caller's map")
	}
}

func TestStringArg(t *testing.T) {
	args := []ext.Value{ext.Data(edn.NewString("a")), ext.Data(edn.IntegerFromInt64(1))}
	tests := []struct {
		i      int
		want   string
		wantOK bool
	}{
		{0, "a", true},
		{1, "", false},
		{2, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		got, ok := ext.StringArg(args, tt.i)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("StringArg(args, %d) = %q, %v; want %q, %v", tt.i, got, ok, tt.want, tt.wantOK)
		}
	}
}
