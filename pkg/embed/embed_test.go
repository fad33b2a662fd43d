package yinyang_test

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/funvibe/yinyang/internal/evaluator"
	yinyang "github.com/funvibe/yinyang/pkg/embed"
	"github.com/shopspring/decimal"
)

// Player is a Go struct that crosses over as a keyword map.
type Player struct {
	Name   string `edn:"name"`
	Score  int    `edn:"score"`
	Secret string `edn:"-"`
}

func TestEmbedAPI(t *testing.T) {
	vm := yinyang.New()

	// 1. Bind simple functions
	if err := vm.Bind("double", func(x int) int { return x * 2 }); err != nil {
		t.Fatal(err)
	}
	if err := vm.Bind("greet", func(p Player) string {
		return fmt.Sprintf("%s has %d points", p.Name, p.Score)
	}); err != nil {
		t.Fatal(err)
	}

	// 2. Bind data
	if err := vm.Set("player", Player{Name: "Alice", Score: 10, Secret: "hidden"}); err != nil {
		t.Fatal(err)
	}

	// 3. Eval code using bound values
	res, err := vm.Eval(`
		(def doubled (double 21))
		[doubled (get player :name) (greet player) (get player :Secret)]`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	list, ok := res.([]any)
	if !ok {
		t.Fatalf("Expected []any result, got %T", res)
	}
	want := []any{42, "Alice", "Alice has 10 points", nil}
	if !reflect.DeepEqual(list, want) {
		t.Errorf("got %#v, want %#v", list, want)
	}
}

func TestBind_Errors(t *testing.T) {
	vm := yinyang.New()
	if err := vm.Bind("notfn", 3); err == nil {
		t.Error("binding a non-function should fail")
	}
	if err := vm.Bind("bad", func() (int, int) { return 1, 2 }); err == nil {
		t.Error("a second non-error result should be rejected")
	}

	boom := errors.New("boom")
	if err := vm.Bind("fail", func(n int) (int, error) {
		if n < 0 {
			return 0, boom
		}
		return n, nil
	}); err != nil {
		t.Fatal(err)
	}

	if v, err := vm.Eval("(fail 3)"); err != nil || v != 3 {
		t.Errorf("(fail 3) = %v, %v", v, err)
	}
	if _, err := vm.Eval("(fail -1)"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if _, err := vm.Eval("(fail)"); !errors.Is(err, evaluator.ErrArity) {
		t.Errorf("err = %v, want ErrArity", err)
	}
	if _, err := vm.Eval(`(fail "x")`); !errors.Is(err, evaluator.ErrType) {
		t.Errorf("err = %v, want ErrType", err)
	}
	if _, err := vm.Eval("(fail 99999999999999999999)"); !errors.Is(err, evaluator.ErrType) {
		t.Errorf("err = %v, want ErrType for overflow", err)
	}
}

func TestBind_Variadic(t *testing.T) {
	vm := yinyang.New()
	if err := vm.Bind("sum", func(base float64, xs ...int) float64 {
		for _, x := range xs {
			base += float64(x)
		}
		return base
	}); err != nil {
		t.Fatal(err)
	}
	v, err := vm.Eval("(sum 0.5 1 2 3)")
	if err != nil {
		t.Fatal(err)
	}
	if v != 6.5 {
		t.Errorf("sum = %v", v)
	}
	if _, err := vm.Eval("(sum)"); !errors.Is(err, evaluator.ErrArity) {
		t.Errorf("err = %v, want ErrArity", err)
	}
}

func TestCall(t *testing.T) {
	vm := yinyang.New()
	if _, err := vm.Eval("(def add3 (fn [a b c] (+ a b c)))"); err != nil {
		t.Fatal(err)
	}

	v, err := vm.Call("add3", 1, 2, 3)
	if err != nil || v != 6 {
		t.Errorf("add3 = %v, %v", v, err)
	}
	v, err = vm.Call("+", 1, 2.5)
	if err != nil || v != 3.5 {
		t.Errorf("+ = %v, %v", v, err)
	}
	if _, err := vm.Call("missing"); err == nil {
		t.Error("calling an unknown name should fail")
	}
	if err := vm.Set("data", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := vm.Call("data"); err == nil {
		t.Error("calling data should fail")
	}
}

func TestGetAndConversions(t *testing.T) {
	vm := yinyang.New()
	if _, err := vm.Eval(`
		(def big 123456789012345678901234567890)
		(def ratio 2.75)
		(def kw :status/ok)
		(def sym 'hello)
		(def m {:a 1 "b" [true nil]})
		(def s #{1})
		(def f (fn [x] x))`); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want any
	}{
		{"big", func() any { b, _ := new(big.Int).SetString("123456789012345678901234567890", 10); return b }()},
		{"ratio", 2.75},
		{"kw", yinyang.Keyword("status/ok")},
		{"sym", yinyang.Symbol("hello")},
		{"m", map[any]any{yinyang.Keyword("a"): 1, "b": []any{true, nil}}},
		{"s", []any{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := vm.Get(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if b, ok := tt.want.(*big.Int); ok {
				if gb, ok := got.(*big.Int); !ok || gb.Cmp(b) != 0 {
					t.Errorf("got %#v, want %s", got, b)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}

	f, err := vm.Get("f")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.(evaluator.Value); !ok {
		t.Errorf("functions should come back as runtime values, got %T", f)
	}
	if _, err := vm.Get("nope"); err == nil {
		t.Error("missing variable should fail")
	}
}

func TestSet_GoData(t *testing.T) {
	vm := yinyang.New()
	if err := vm.Set("xs", []uint8{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := vm.Set("cfg", map[string]any{"depth": int64(3), "ratio": decimal.RequireFromString("0.125")}); err != nil {
		t.Fatal(err)
	}
	if err := vm.Set("k", yinyang.Keyword("mode")); err != nil {
		t.Fatal(err)
	}
	if err := vm.Set("bad", make(chan int)); err == nil {
		t.Error("channels have no EDN form")
	}

	v, err := vm.Eval(`[(count xs) (get cfg "depth") (get cfg "ratio") k]`)
	if err != nil {
		t.Fatal(err)
	}
	want := []any{3, 3, 0.125, yinyang.Keyword("mode")}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("got %#v, want %#v", v, want)
	}
}

func TestBind_TypedCollections(t *testing.T) {
	vm := yinyang.New()
	if err := vm.Bind("total", func(scores map[string][]int) int {
		n := 0
		for _, xs := range scores {
			for _, x := range xs {
				n += x
			}
		}
		return n
	}); err != nil {
		t.Fatal(err)
	}
	v, err := vm.Eval(`(total {"a" [1 2] "b" '(3 4)})`)
	if err != nil || v != 10 {
		t.Errorf("total = %v, %v", v, err)
	}
}

func TestOutputAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.clj")
	if err := os.WriteFile(lib, []byte(`(def greeting "Hello from a file") (prn greeting)`), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	vm := yinyang.New()
	vm.SetOutput(&out)
	if err := vm.LoadFile(lib); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if out.String() != "\"Hello from a file\"\n" {
		t.Errorf("output = %q", out.String())
	}

	res, err := vm.Get("greeting")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res != "Hello from a file" {
		t.Errorf("greeting = %v", res)
	}

	if err := vm.LoadFile(filepath.Join(dir, "missing.clj")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}
