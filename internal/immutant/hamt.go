package immutant

import (
	"hash/fnv"
	"iter"
	"math/bits"
)

// Persistent Hash Array Mapped Trie (HAMT)
// Every update copies the path from the root to the touched node; untouched
// subtrees are shared between versions.

const (
	hamtBits = 5
	hamtSize = 1 << hamtBits // 32
	hamtMask = hamtSize - 1
)

// Hasher supplies hashing and equality for map keys.
type Hasher[K any] interface {
	Hash(key K) uint32
	Equal(a, b K) bool
}

// StringHasher hashes string keys with FNV-1a.
type StringHasher struct{}

func (StringHasher) Hash(key string) uint32 { return HashString(key) }
func (StringHasher) Equal(a, b string) bool { return a == b }

// HashString is the FNV-1a hash shared by every string-keyed structure.
func HashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Map is an immutable hash map.
type Map[K, V any] struct {
	hasher Hasher[K]
	root   *hamtNode[K, V]
	count  int
}

// hamtNode is a node in the HAMT. Entries past the last hash bit live in a
// collision bucket: a node whose nodes are all entries, searched linearly.
type hamtNode[K, V any] struct {
	bitmap uint32 // which indices are populated
	nodes  []any  // hamtEntry or *hamtNode
}

type hamtEntry[K, V any] struct {
	hash  uint32
	key   K
	value V
}

// NewMap returns an empty map using h for its keys.
func NewMap[K, V any](h Hasher[K]) *Map[K, V] {
	return &Map[K, V]{hasher: h}
}

func (m *Map[K, V]) Len() int {
	return m.count
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m.root == nil {
		var zero V
		return zero, false
	}
	return m.root.get(m.hasher, m.hasher.Hash(key), key, 0)
}

func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Put returns a new map with key bound to value.
func (m *Map[K, V]) Put(key K, value V) *Map[K, V] {
	hash := m.hasher.Hash(key)
	root := m.root
	if root == nil {
		root = &hamtNode[K, V]{}
	}
	newRoot, added := root.put(m.hasher, hash, key, value, 0)

	newCount := m.count
	if added {
		newCount++
	}
	return &Map[K, V]{hasher: m.hasher, root: newRoot, count: newCount}
}

// Remove returns a new map without key. The receiver is returned unchanged when
// key is absent.
func (m *Map[K, V]) Remove(key K) *Map[K, V] {
	if m.root == nil {
		return m
	}
	newRoot, removed := m.root.remove(m.hasher, m.hasher.Hash(key), key, 0)
	if !removed {
		return m
	}
	return &Map[K, V]{hasher: m.hasher, root: newRoot, count: m.count - 1}
}

// All yields every entry. Order depends on key hashes, not insertion.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m.root != nil {
			m.root.each(yield)
		}
	}
}

func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.count)
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// --- hamtNode methods ---

func (n *hamtNode[K, V]) get(h Hasher[K], hash uint32, key K, shift uint) (V, bool) {
	if shift >= 32 {
		for _, node := range n.nodes {
			if entry, ok := node.(hamtEntry[K, V]); ok && h.Equal(entry.key, key) {
				return entry.value, true
			}
		}
		var zero V
		return zero, false
	}

	bit := uint32(1) << ((hash >> shift) & hamtMask)
	if n.bitmap&bit == 0 {
		var zero V
		return zero, false
	}

	switch v := n.nodes[index(n.bitmap, bit)].(type) {
	case hamtEntry[K, V]:
		if v.hash == hash && h.Equal(v.key, key) {
			return v.value, true
		}
	case *hamtNode[K, V]:
		return v.get(h, hash, key, shift+hamtBits)
	}
	var zero V
	return zero, false
}

func (n *hamtNode[K, V]) clone() *hamtNode[K, V] {
	nodes := make([]any, len(n.nodes))
	copy(nodes, n.nodes)
	return &hamtNode[K, V]{bitmap: n.bitmap, nodes: nodes}
}

func (n *hamtNode[K, V]) put(h Hasher[K], hash uint32, key K, value V, shift uint) (*hamtNode[K, V], bool) {
	entry := hamtEntry[K, V]{hash: hash, key: key, value: value}

	// Hash bits exhausted: n is a collision bucket.
	if shift >= 32 {
		newNode := n.clone()
		for i, node := range newNode.nodes {
			if existing, ok := node.(hamtEntry[K, V]); ok && h.Equal(existing.key, key) {
				newNode.nodes[i] = entry
				return newNode, false
			}
		}
		newNode.nodes = append(newNode.nodes, entry)
		return newNode, true
	}

	bit := uint32(1) << ((hash >> shift) & hamtMask)
	pos := index(n.bitmap, bit)
	newNode := n.clone()

	if n.bitmap&bit == 0 {
		newNode.bitmap |= bit
		newNode.nodes = append(newNode.nodes, nil)
		copy(newNode.nodes[pos+1:], newNode.nodes[pos:])
		newNode.nodes[pos] = entry
		return newNode, true
	}

	switch v := newNode.nodes[pos].(type) {
	case hamtEntry[K, V]:
		if v.hash == hash && h.Equal(v.key, key) {
			newNode.nodes[pos] = entry
			return newNode, false
		}
		// Two keys share this slot: push both one level down.
		child := &hamtNode[K, V]{}
		child, _ = child.put(h, v.hash, v.key, v.value, shift+hamtBits)
		child, _ = child.put(h, hash, key, value, shift+hamtBits)
		newNode.nodes[pos] = child
		return newNode, true
	case *hamtNode[K, V]:
		newChild, added := v.put(h, hash, key, value, shift+hamtBits)
		newNode.nodes[pos] = newChild
		return newNode, added
	}
	return newNode, false
}

func (n *hamtNode[K, V]) remove(h Hasher[K], hash uint32, key K, shift uint) (*hamtNode[K, V], bool) {
	if shift >= 32 {
		for i, node := range n.nodes {
			if entry, ok := node.(hamtEntry[K, V]); ok && h.Equal(entry.key, key) {
				return &hamtNode[K, V]{bitmap: n.bitmap, nodes: without(n.nodes, i)}, true
			}
		}
		return n, false
	}

	bit := uint32(1) << ((hash >> shift) & hamtMask)
	if n.bitmap&bit == 0 {
		return n, false
	}
	pos := index(n.bitmap, bit)

	switch v := n.nodes[pos].(type) {
	case hamtEntry[K, V]:
		if v.hash != hash || !h.Equal(v.key, key) {
			return n, false
		}
		return &hamtNode[K, V]{bitmap: n.bitmap &^ bit, nodes: without(n.nodes, pos)}, true

	case *hamtNode[K, V]:
		newChild, removed := v.remove(h, hash, key, shift+hamtBits)
		if !removed {
			return n, false
		}
		if len(newChild.nodes) == 0 {
			return &hamtNode[K, V]{bitmap: n.bitmap &^ bit, nodes: without(n.nodes, pos)}, true
		}
		newNode := n.clone()
		// A child left with a single entry is pulled up into this slot.
		if entry, ok := newChild.nodes[0].(hamtEntry[K, V]); ok && len(newChild.nodes) == 1 {
			newNode.nodes[pos] = entry
		} else {
			newNode.nodes[pos] = newChild
		}
		return newNode, true
	}
	return n, false
}

func (n *hamtNode[K, V]) each(yield func(K, V) bool) bool {
	for _, node := range n.nodes {
		switch v := node.(type) {
		case hamtEntry[K, V]:
			if !yield(v.key, v.value) {
				return false
			}
		case *hamtNode[K, V]:
			if !v.each(yield) {
				return false
			}
		}
	}
	return true
}

// --- Helper functions ---

// index is the position of bit's slot among the populated slots.
func index(bitmap, bit uint32) int {
	return bits.OnesCount32(bitmap & (bit - 1))
}

func without(nodes []any, i int) []any {
	out := make([]any, len(nodes)-1)
	copy(out[:i], nodes[:i])
	copy(out[i:], nodes[i+1:])
	return out
}
