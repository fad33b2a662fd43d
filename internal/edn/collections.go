package edn

import (
	"fmt"
	"iter"
	"strings"

	"github.com/funvibe/yinyang/internal/immutant"
)

// List is a parenthesised sequence. It evaluates as a call.
type List struct {
	items *immutant.List[Node]
}

func NewList(items ...Node) *List {
	return &List{items: immutant.ListFrom(items)}
}

// ListOf wraps an existing persistent list without copying it.
func ListOf(items *immutant.List[Node]) *List {
	return &List{items: items}
}

func (l *List) Type() NodeType              { return LIST_NODE }
func (l *List) Items() *immutant.List[Node] { return l.items }
func (l *List) Len() int                    { return l.items.Len() }
func (l *List) IsEmpty() bool               { return l.items.IsEmpty() }
func (l *List) All() iter.Seq[Node]         { return l.items.All() }
func (l *List) Slice() []Node               { return l.items.ToSlice() }
func (l *List) Cons(n Node) *List           { return &List{items: l.items.Cons(n)} }
func (l *List) Rest() *List                 { return &List{items: l.items.Tail()} }
func (l *List) Nth(i int) (Node, bool)      { return l.items.Nth(i) }
func (l *List) Inspect() string             { return inspectSeq("(", ")", l.items.All()) }
func (l *List) Hash() uint32                { return mix(seedList, hashSeq(l.items.All())) }

// First returns the head, or NIL for the empty list.
func (l *List) First() Node {
	if n, ok := l.items.Head(); ok {
		return n
	}
	return NIL
}

// Vector is a bracketed sequence with O(log32 n) indexed access.
type Vector struct {
	items *immutant.Vector[Node]
}

func NewVector(items ...Node) *Vector {
	return &Vector{items: immutant.VectorFrom(items)}
}

func VectorOf(items *immutant.Vector[Node]) *Vector {
	return &Vector{items: items}
}

func (v *Vector) Type() NodeType                { return VECTOR_NODE }
func (v *Vector) Items() *immutant.Vector[Node] { return v.items }
func (v *Vector) Len() int                      { return v.items.Len() }
func (v *Vector) All() iter.Seq[Node]           { return v.items.All() }
func (v *Vector) Slice() []Node                 { return v.items.ToSlice() }
func (v *Vector) Nth(i int) (Node, bool)        { return v.items.Get(i) }
func (v *Vector) Conj(n Node) *Vector           { return &Vector{items: v.items.Conj(n)} }
func (v *Vector) Inspect() string               { return inspectSeq("[", "]", v.items.All()) }
func (v *Vector) Hash() uint32                  { return mix(seedVector, hashSeq(v.items.All())) }

// Pop drops the last element. Popping the empty vector reports false.
func (v *Vector) Pop() (*Vector, bool) {
	items, ok := v.items.Pop()
	if !ok {
		return v, false
	}
	return &Vector{items: items}, true
}

// Assoc replaces index i; i == Len() appends.
func (v *Vector) Assoc(i int, n Node) (*Vector, bool) {
	items, ok := v.items.Assoc(i, n)
	if !ok {
		return v, false
	}
	return &Vector{items: items}, true
}

// nodeHasher lets Nodes key the persistent hash trie.
type nodeHasher struct{}

func (nodeHasher) Hash(n Node) uint32   { return n.Hash() }
func (nodeHasher) Equal(a, b Node) bool { return Equal(a, b) }

// Map is an unordered association. Keys are compared structurally.
type Map struct {
	entries *immutant.Map[Node, Node]
}

func EmptyMap() *Map {
	return &Map{entries: immutant.NewMap[Node, Node](nodeHasher{})}
}

// NewMap builds a map from alternating keys and values. Later duplicates win.
func NewMap(kvs ...Node) (*Map, error) {
	if len(kvs)%2 != 0 {
		return nil, fmt.Errorf("map literal must contain an even number of forms, got %d", len(kvs))
	}
	m := EmptyMap()
	for i := 0; i < len(kvs); i += 2 {
		m = m.Assoc(kvs[i], kvs[i+1])
	}
	return m, nil
}

func (m *Map) Type() NodeType             { return MAP_NODE }
func (m *Map) Len() int                   { return m.entries.Len() }
func (m *Map) Get(k Node) (Node, bool)    { return m.entries.Get(k) }
func (m *Map) Contains(k Node) bool       { return m.entries.Contains(k) }
func (m *Map) Assoc(k, v Node) *Map       { return &Map{entries: m.entries.Put(k, v)} }
func (m *Map) Dissoc(k Node) *Map         { return &Map{entries: m.entries.Remove(k)} }
func (m *Map) All() iter.Seq2[Node, Node] { return m.entries.All() }

func (m *Map) Inspect() string {
	var out strings.Builder
	out.WriteString("{")
	first := true
	for k, v := range m.entries.All() {
		if !first {
			out.WriteString(", ")
		}
		first = false
		out.WriteString(k.Inspect())
		out.WriteString(" ")
		out.WriteString(v.Inspect())
	}
	out.WriteString("}")
	return out.String()
}

// Hash is a sum over entries so that iteration order does not matter.
func (m *Map) Hash() uint32 {
	var h uint32
	for k, v := range m.entries.All() {
		h += k.Hash()*31 ^ v.Hash()
	}
	return mix(seedMap, h)
}

// Set is an unordered collection of distinct nodes.
type Set struct {
	members *immutant.Map[Node, struct{}]
}

func NewSet(items ...Node) *Set {
	s := &Set{members: immutant.NewMap[Node, struct{}](nodeHasher{})}
	for _, item := range items {
		s = s.Conj(item)
	}
	return s
}

func (s *Set) Type() NodeType       { return SET_NODE }
func (s *Set) Len() int             { return s.members.Len() }
func (s *Set) Contains(n Node) bool { return s.members.Contains(n) }
func (s *Set) Conj(n Node) *Set     { return &Set{members: s.members.Put(n, struct{}{})} }
func (s *Set) Disj(n Node) *Set     { return &Set{members: s.members.Remove(n)} }

func (s *Set) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for n := range s.members.All() {
			if !yield(n) {
				return
			}
		}
	}
}

func (s *Set) Inspect() string { return inspectSeq("#{", "}", s.All()) }

func (s *Set) Hash() uint32 {
	var h uint32
	for n := range s.members.All() {
		h += n.Hash()
	}
	return mix(seedSet, h)
}

func inspectSeq(open, close string, items iter.Seq[Node]) string {
	var out strings.Builder
	out.WriteString(open)
	first := true
	for n := range items {
		if !first {
			out.WriteString(" ")
		}
		first = false
		out.WriteString(n.Inspect())
	}
	out.WriteString(close)
	return out.String()
}

func hashSeq(items iter.Seq[Node]) uint32 {
	var h uint32 = 1
	for n := range items {
		h = 31*h + n.Hash()
	}
	return h
}
