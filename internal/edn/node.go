// Package edn defines the immutable EDN data model: the scalar literals, the
// four collection kinds, structural equality, structural hashing and the
// canonical textual rendering used by the printer.
package edn

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/funvibe/yinyang/internal/immutant"
	"github.com/shopspring/decimal"
)

type NodeType string

const (
	NIL_NODE     = "NIL"
	BOOL_NODE    = "BOOL"
	INTEGER_NODE = "INTEGER"
	FLOAT_NODE   = "FLOAT"
	STRING_NODE  = "STRING"
	SYMBOL_NODE  = "SYMBOL"
	KEYWORD_NODE = "KEYWORD"
	LIST_NODE    = "LIST"
	VECTOR_NODE  = "VECTOR"
	MAP_NODE     = "MAP"
	SET_NODE     = "SET"
)

// Node is one EDN value. Nodes are never mutated after construction.
type Node interface {
	Type() NodeType
	Inspect() string // canonical reader syntax
	Hash() uint32    // structural; equal nodes hash equally
}

// Per-variant seeds keep e.g. the symbol foo and the string "foo" apart.
const (
	seedNil uint32 = iota + 1
	seedBool
	seedInteger
	seedFloat
	seedString
	seedSymbol
	seedKeyword
	seedList
	seedVector
	seedMap
	seedSet
)

func mix(seed, h uint32) uint32 {
	return seed*0x9e3779b1 ^ h
}

var (
	NIL   = &Nil{}
	TRUE  = &Bool{Value: true}
	FALSE = &Bool{Value: false}
)

type Nil struct{}

func (n *Nil) Type() NodeType  { return NIL_NODE }
func (n *Nil) Inspect() string { return "nil" }
func (n *Nil) Hash() uint32    { return mix(seedNil, 0) }

type Bool struct {
	Value bool
}

// NativeBool maps a Go bool onto the shared TRUE/FALSE nodes.
func NativeBool(b bool) *Bool {
	if b {
		return TRUE
	}
	return FALSE
}

func (b *Bool) Type() NodeType { return BOOL_NODE }
func (b *Bool) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *Bool) Hash() uint32 {
	if b.Value {
		return mix(seedBool, 1)
	}
	return mix(seedBool, 0)
}

// Integer is an arbitrary-precision signed integer.
type Integer struct {
	Value *big.Int
}

func NewInteger(v *big.Int) *Integer {
	return &Integer{Value: new(big.Int).Set(v)}
}

func IntegerFromInt64(v int64) *Integer {
	return &Integer{Value: big.NewInt(v)}
}

func (i *Integer) Type() NodeType  { return INTEGER_NODE }
func (i *Integer) Inspect() string { return i.Value.String() }
func (i *Integer) Hash() uint32 {
	return mix(seedInteger, immutant.HashString(i.Value.String()))
}

// Float is an exact decimal. Binary floating point is never used, so the
// literal 3.14 reads and prints as exactly 3.14.
type Float struct {
	Value decimal.Decimal
}

func NewFloat(v decimal.Decimal) *Float {
	return &Float{Value: v}
}

func (f *Float) Type() NodeType { return FLOAT_NODE }

// maxPlainZeros bounds the zeros Inspect writes out in positional notation.
// Past it the value is printed with an exponent, so 1e80000000 stays short.
const maxPlainZeros = 32

// Inspect always keeps a decimal point so the text reads back as a Float.
func (f *Float) Inspect() string {
	coef, exp := normalizeDecimal(f.Value)
	digits := new(big.Int).Abs(coef).String()
	if exp > maxPlainZeros || exp < -int64(len(digits))-maxPlainZeros {
		var b strings.Builder
		if coef.Sign() < 0 {
			b.WriteByte('-')
		}
		b.WriteString(digits[:1])
		b.WriteByte('.')
		if len(digits) == 1 {
			b.WriteByte('0')
		} else {
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		b.WriteString(strconv.FormatInt(exp+int64(len(digits))-1, 10))
		return b.String()
	}

	s := f.Value.String()
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Hash covers the normalized coefficient and exponent, so 1.50 and 1.5
// (which are Equal) hash alike.
func (f *Float) Hash() uint32 {
	coef, exp := normalizeDecimal(f.Value)
	return mix(seedFloat, immutant.HashString(coef.String()+"e"+strconv.FormatInt(exp, 10)))
}

// normalizeDecimal returns d as coefficient * 10^exponent with the trailing
// zeros stripped from the coefficient. Zero normalizes to (0, 0). The result
// is unique per value, and its cost depends on the digits written, never on
// the size of the exponent.
func normalizeDecimal(d decimal.Decimal) (*big.Int, int64) {
	coef := d.Coefficient()
	exp := int64(d.Exponent())
	if coef.Sign() == 0 {
		return coef, 0
	}
	ten := big.NewInt(10)
	q, r := new(big.Int), new(big.Int)
	for {
		q.QuoRem(coef, ten, r)
		if r.Sign() != 0 {
			return coef, exp
		}
		coef.Set(q)
		exp++
	}
}

// decimalsEqual compares by normalized form. decimal.Equal rescales one side
// to the other's exponent, which is unbounded work for 1e80000000 vs 1.5.
func decimalsEqual(a, b decimal.Decimal) bool {
	ca, ea := normalizeDecimal(a)
	cb, eb := normalizeDecimal(b)
	return ea == eb && ca.Cmp(cb) == 0
}

type String struct {
	Value string
}

func NewString(s string) *String {
	return &String{Value: s}
}

func (s *String) Type() NodeType  { return STRING_NODE }
func (s *String) Inspect() string { return Quote(s.Value) }
func (s *String) Hash() uint32    { return mix(seedString, immutant.HashString(s.Value)) }

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Quote renders s as a string literal the reader accepts.
func Quote(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// Symbol is an identifier resolved against the environment.
type Symbol struct {
	Name string
}

func NewSymbol(name string) *Symbol {
	return &Symbol{Name: name}
}

func (s *Symbol) Type() NodeType  { return SYMBOL_NODE }
func (s *Symbol) Inspect() string { return s.Name }
func (s *Symbol) Hash() uint32    { return mix(seedSymbol, immutant.HashString(s.Name)) }

// Keyword is a self-evaluating identifier. Name excludes the leading colon.
type Keyword struct {
	Name string
}

func NewKeyword(name string) *Keyword {
	return &Keyword{Name: strings.TrimPrefix(name, ":")}
}

func (k *Keyword) Type() NodeType  { return KEYWORD_NODE }
func (k *Keyword) Inspect() string { return ":" + k.Name }
func (k *Keyword) Hash() uint32    { return mix(seedKeyword, immutant.HashString(k.Name)) }

// IsTruthy reports whether n counts as true in a conditional: everything but
// nil and false does.
func IsTruthy(n Node) bool {
	switch v := n.(type) {
	case *Nil:
		return false
	case *Bool:
		return v.Value
	}
	return true
}
