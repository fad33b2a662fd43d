package reader

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/funvibe/yinyang/internal/edn"
	"github.com/shopspring/decimal"
)

func mustRead(t *testing.T, src string) edn.Node {
	t.Helper()
	n, err := Read(src)
	if err != nil {
		t.Fatalf("Read(%q): unexpected error: %v", src, err)
	}
	return n
}

func TestRead_Atoms(t *testing.T) {
	huge, _ := new(big.Int).SetString("99999999999999999999999999", 10)
	tests := []struct {
		input string
		want  edn.Node
	}{
		{"nil", edn.NIL},
		{"true", edn.TRUE},
		{"false", edn.FALSE},
		{"42", edn.IntegerFromInt64(42)},
		{"-7", edn.IntegerFromInt64(-7)},
		{"+7", edn.IntegerFromInt64(7)},
		{"42N", edn.IntegerFromInt64(42)},
		{"99999999999999999999999999", edn.NewInteger(huge)},
		{"3.14", edn.NewFloat(decimal.RequireFromString("3.14"))},
		{"-0.5", edn.NewFloat(decimal.RequireFromString("-0.5"))},
		{"1.5M", edn.NewFloat(decimal.RequireFromString("1.5"))},
		{"2e3", edn.NewFloat(decimal.RequireFromString("2000"))},
		{"1.", edn.NewFloat(decimal.RequireFromString("1"))},
		{`"hello"`, edn.NewString("hello")},
		{`"a\"b"`, edn.NewString(`a"b`)},
		{`"tab\there"`, edn.NewString("tab\there")},
		{`"(not [a) list"`, edn.NewString("(not [a) list")},
		{`"it's"`, edn.NewString("it's")},
		{":kw", edn.NewKeyword("kw")},
		{":ns/kw", edn.NewKeyword("ns/kw")},
		{":nil", edn.NewKeyword("nil")},
		{"foo", edn.NewSymbol("foo")},
		{"+", edn.NewSymbol("+")},
		{"-", edn.NewSymbol("-")},
		{"<=", edn.NewSymbol("<=")},
		{"clojure.core/map", edn.NewSymbol("clojure.core/map")},
		{"a'b", edn.NewSymbol("a'b")},
		{"   padded   ", edn.NewSymbol("padded")},
		{"", edn.NIL},
		{"  \n ", edn.NIL},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustRead(t, tt.input)
			if !edn.Equal(got, tt.want) {
				t.Errorf("Read(%q) = %s (%s), want %s (%s)", tt.input, got.Inspect(), got.Type(), tt.want.Inspect(), tt.want.Type())
			}
		})
	}
}

func TestRead_HugeExponentFloat(t *testing.T) {
	start := time.Now()
	got := mustRead(t, "#{1e100000000 -2.5e-100000000}")
	text := got.Inspect()
	if len(text) > 64 {
		t.Errorf("Inspect() = %q", text)
	}
	back := mustRead(t, text)
	if !edn.Equal(got, back) || got.Hash() != back.Hash() {
		t.Errorf("round trip: %s read back as %s", text, back.Inspect())
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("took %s", elapsed)
	}
}

func TestRead_Collections(t *testing.T) {
	one := edn.IntegerFromInt64(1)
	two := edn.IntegerFromInt64(2)
	m, _ := edn.NewMap(edn.NewKeyword("a"), one, edn.NewKeyword("b"), edn.NewVector(two))

	tests := []struct {
		input string
		want  edn.Node
	}{
		{"()", edn.NewList()},
		{"[]", edn.NewVector()},
		{"{}", edn.EmptyMap()},
		{"#{}", edn.NewSet()},
		{"(1 2)", edn.NewList(one, two)},
		{"[1, 2]", edn.NewVector(one, two)},
		{"#{1 2 1}", edn.NewSet(one, two)},
		{"{:a 1 :b [2]}", m},
		{"(a (b [c {:d #{e}}]))", edn.NewList(
			edn.NewSymbol("a"),
			edn.NewList(edn.NewSymbol("b"), edn.NewVector(
				edn.NewSymbol("c"),
				mapOf(t, edn.NewKeyword("d"), edn.NewSet(edn.NewSymbol("e"))),
			)),
		)},
		{`["]" "(" "}"]`, edn.NewVector(edn.NewString("]"), edn.NewString("("), edn.NewString("}"))},
		{"(1 ; comment\n 2)", edn.NewList(one, two)},
		{"[1[2]]", edn.NewVector(one, edn.NewVector(two))},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustRead(t, tt.input)
			if !edn.Equal(got, tt.want) {
				t.Errorf("Read(%q) = %s, want %s", tt.input, got.Inspect(), tt.want.Inspect())
			}
		})
	}
}

func mapOf(t *testing.T, kvs ...edn.Node) *edn.Map {
	t.Helper()
	m, err := edn.NewMap(kvs...)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestRead_QuoteSugar(t *testing.T) {
	quote := edn.NewSymbol("quote")
	tests := []struct {
		input string
		want  edn.Node
	}{
		{"'a", edn.NewList(quote, edn.NewSymbol("a"))},
		{"'(1 2)", edn.NewList(quote, edn.NewList(edn.IntegerFromInt64(1), edn.IntegerFromInt64(2)))},
		{"''a", edn.NewList(quote, edn.NewList(quote, edn.NewSymbol("a")))},
		{"['a 'b]", edn.NewVector(
			edn.NewList(quote, edn.NewSymbol("a")),
			edn.NewList(quote, edn.NewSymbol("b")),
		)},
		{"'[x (y)]", edn.NewList(quote, edn.NewVector(edn.NewSymbol("x"), edn.NewList(edn.NewSymbol("y"))))},
		{`(str "don't" 'x)`, edn.NewList(
			edn.NewSymbol("str"),
			edn.NewString("don't"),
			edn.NewList(quote, edn.NewSymbol("x")),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustRead(t, tt.input)
			if !edn.Equal(got, tt.want) {
				t.Errorf("Read(%q) = %s, want %s", tt.input, got.Inspect(), tt.want.Inspect())
			}
		})
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		input      string
		kind       ErrorKind
		incomplete bool
	}{
		{"(1 2", NestingError, true},
		{"[1 (2]", NestingError, false},
		{"(1 2))", NestingError, false},
		{")", NestingError, false},
		{"#{1 2", NestingError, true},
		{`"abc`, NestingError, true},
		{`("abc)`, NestingError, true},
		{"'", NestingError, true},
		{"{:a}", RegularError, false},
		{"(')", RegularError, false},
		{"a/b/c", RegularError, false},
		{"foo:", RegularError, false},
		{":", RegularError, false},
		{`"\q"`, RegularError, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Read(tt.input)
			if err == nil {
				t.Fatalf("Read(%q): expected error", tt.input)
			}
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("Read(%q): error is %T, want *ParseError", tt.input, err)
			}
			if pe.Kind != tt.kind {
				t.Errorf("Read(%q): kind = %s, want %s (%v)", tt.input, pe.Kind, tt.kind, err)
			}
			if IsNesting(err) != (tt.kind == NestingError) {
				t.Errorf("IsNesting disagrees with kind for %q", tt.input)
			}
			if IsIncomplete(err) != tt.incomplete {
				t.Errorf("IsIncomplete(%q) = %v, want %v", tt.input, IsIncomplete(err), tt.incomplete)
			}
		})
	}
}

func TestReadAll(t *testing.T) {
	forms, err := ReadAll("(def x 1)\n; trailing comment\n[x] :done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, f := range forms {
		got = append(got, f.Inspect())
	}
	if strings.Join(got, " | ") != "(def x 1) | [x] | :done" {
		t.Errorf("forms = %v", got)
	}

	empty, err := ReadAll("  ; nothing here")
	if err != nil || len(empty) != 0 {
		t.Errorf("ReadAll of a comment = %v, %v", empty, err)
	}
}

func TestRead_FirstForm(t *testing.T) {
	got := mustRead(t, "1 2 3")
	if !edn.Equal(got, edn.IntegerFromInt64(1)) {
		t.Errorf("Read returned %s, want the first form", got.Inspect())
	}
}

// Every atomic literal reads back from its own rendering.
func TestRoundTrip_Atoms(t *testing.T) {
	huge, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	atoms := []edn.Node{
		edn.NIL,
		edn.TRUE,
		edn.FALSE,
		edn.IntegerFromInt64(0),
		edn.IntegerFromInt64(-17),
		edn.NewInteger(huge),
		edn.NewFloat(decimal.RequireFromString("3.14")),
		edn.NewFloat(decimal.RequireFromString("2")),
		edn.NewFloat(decimal.RequireFromString("-0.001")),
		edn.NewFloat(decimal.RequireFromString("12345678901234567890.123456789")),
		edn.NewString(""),
		edn.NewString("plain"),
		edn.NewString("quote\" backslash\\ newline\n tab\t cr\r"),
		edn.NewString("brackets ([{}]) and 'quotes'"),
		edn.NewString("ünïcödé"),
		edn.NewKeyword("k"),
		edn.NewKeyword("ns/name"),
		edn.NewSymbol("sym"),
		edn.NewSymbol("+"),
		edn.NewSymbol("a.b/c-d?"),
	}
	for _, n := range atoms {
		t.Run(n.Inspect(), func(t *testing.T) {
			back := mustRead(t, n.Inspect())
			if !edn.Equal(back, n) {
				t.Errorf("round trip of %s gave %s (%s)", n.Inspect(), back.Inspect(), back.Type())
			}
		})
	}
}

func TestRoundTrip_Collections(t *testing.T) {
	for _, src := range []string{
		"(1 [2 3] #{:a} {\"k\" nil})",
		"[[] () {} #{}]",
		"(quote (a b))",
	} {
		first := mustRead(t, src)
		second := mustRead(t, first.Inspect())
		if !edn.Equal(first, second) {
			t.Errorf("%q: %s re-read as %s", src, first.Inspect(), second.Inspect())
		}
	}
}

func FuzzRead(f *testing.F) {
	for _, seed := range []string{
		"nil", "(1 2)", "[a 'b]", `{"k" #{1}}`, `"str\n"`, "3.14", ":kw", "(((", "'", "#{",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, src string) {
		n, err := Read(src)
		if err != nil {
			if _, ok := err.(*ParseError); !ok {
				t.Fatalf("Read(%q) returned %T", src, err)
			}
			return
		}
		back, err := Read(n.Inspect())
		if err != nil {
			t.Fatalf("re-reading %q (from %q) failed: %v", n.Inspect(), src, err)
		}
		if !edn.Equal(n, back) {
			t.Fatalf("%q: %s re-read as %s", src, n.Inspect(), back.Inspect())
		}
	})
}
