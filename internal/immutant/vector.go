package immutant

import "iter"

const (
	vecBits  = 5
	vecWidth = 1 << vecBits // 32
	vecMask  = vecWidth - 1
)

// vecNode is a trie node. Internal nodes use children, leaves use values; which
// one applies is implied by the node's level, never stored.
type vecNode[T any] struct {
	children []*vecNode[T]
	values   []T
}

// Vector is a persistent vector: a 32-way bitmapped trie plus a tail buffer
// holding the rightmost (up to 32) elements.
//
// Invariants:
//   - len(tail) <= 32, and count == elements in trie + len(tail)
//   - shift is a multiple of 5 and equals 5 * (trie height - 1)
//   - every trie node except those on the rightmost path is full
type Vector[T any] struct {
	count int
	shift uint
	root  *vecNode[T]
	tail  []T
}

// NewVector returns the empty vector.
func NewVector[T any]() *Vector[T] {
	return &Vector[T]{shift: vecBits, root: &vecNode[T]{}}
}

// VectorFrom builds a vector holding items in order.
func VectorFrom[T any](items []T) *Vector[T] {
	v := NewVector[T]()
	for _, item := range items {
		v = v.Conj(item)
	}
	return v
}

func (v *Vector[T]) Len() int {
	return v.count
}

func (v *Vector[T]) IsEmpty() bool {
	return v.count == 0
}

// tailOffset is the index of the first element held in the tail.
func (v *Vector[T]) tailOffset() int {
	if v.count < vecWidth {
		return 0
	}
	return ((v.count - 1) >> vecBits) << vecBits
}

// Conj returns a new vector with item appended.
func (v *Vector[T]) Conj(item T) *Vector[T] {
	if v.count-v.tailOffset() < vecWidth {
		newTail := make([]T, len(v.tail)+1)
		copy(newTail, v.tail)
		newTail[len(v.tail)] = item
		return &Vector[T]{count: v.count + 1, shift: v.shift, root: v.root, tail: newTail}
	}

	// Tail is full: fold it into the trie as a new leaf.
	tailNode := &vecNode[T]{values: v.tail}
	newShift := v.shift
	var newRoot *vecNode[T]
	if (v.count >> vecBits) > (1 << v.shift) {
		// The root cannot address another leaf at this height.
		newRoot = &vecNode[T]{children: []*vecNode[T]{v.root, newPath(v.shift, tailNode)}}
		newShift += vecBits
	} else {
		newRoot = v.pushTail(v.shift, v.root, tailNode)
	}
	return &Vector[T]{count: v.count + 1, shift: newShift, root: newRoot, tail: []T{item}}
}

// pushTail copies the path from parent down to the slot for the next leaf and
// attaches tailNode there. Siblings off the path are shared.
func (v *Vector[T]) pushTail(level uint, parent, tailNode *vecNode[T]) *vecNode[T] {
	subidx := ((v.count - 1) >> level) & vecMask
	children := make([]*vecNode[T], len(parent.children), len(parent.children)+1)
	copy(children, parent.children)

	var insert *vecNode[T]
	switch {
	case level == vecBits:
		insert = tailNode
	case subidx < len(parent.children):
		insert = v.pushTail(level-vecBits, parent.children[subidx], tailNode)
	default:
		insert = newPath(level-vecBits, tailNode)
	}

	if subidx < len(children) {
		children[subidx] = insert
	} else {
		children = append(children, insert)
	}
	return &vecNode[T]{children: children}
}

// newPath wraps node in single-child internal nodes until it sits level bits
// below the returned node.
func newPath[T any](level uint, node *vecNode[T]) *vecNode[T] {
	if level == 0 {
		return node
	}
	return &vecNode[T]{children: []*vecNode[T]{newPath(level-vecBits, node)}}
}

// leafFor returns the backing array holding index i, which must be in range.
func (v *Vector[T]) leafFor(i int) []T {
	if i >= v.tailOffset() {
		return v.tail
	}
	node := v.root
	for level := v.shift; level > 0; level -= vecBits {
		node = node.children[(i>>level)&vecMask]
	}
	return node.values
}

// Get returns the element at index i, or false when i is out of range.
func (v *Vector[T]) Get(i int) (T, bool) {
	if i < 0 || i >= v.count {
		var zero T
		return zero, false
	}
	return v.leafFor(i)[i&vecMask], true
}

// Last returns the final element, or false on the empty vector.
func (v *Vector[T]) Last() (T, bool) {
	return v.Get(v.count - 1)
}

// Assoc returns a new vector with index i set to item. i == Len() appends.
func (v *Vector[T]) Assoc(i int, item T) (*Vector[T], bool) {
	if i == v.count {
		return v.Conj(item), true
	}
	if i < 0 || i > v.count {
		return v, false
	}
	if i >= v.tailOffset() {
		newTail := make([]T, len(v.tail))
		copy(newTail, v.tail)
		newTail[i&vecMask] = item
		return &Vector[T]{count: v.count, shift: v.shift, root: v.root, tail: newTail}, true
	}
	return &Vector[T]{count: v.count, shift: v.shift, root: doAssoc(v.shift, v.root, i, item), tail: v.tail}, true
}

func doAssoc[T any](level uint, node *vecNode[T], i int, item T) *vecNode[T] {
	if level == 0 {
		values := make([]T, len(node.values))
		copy(values, node.values)
		values[i&vecMask] = item
		return &vecNode[T]{values: values}
	}
	children := make([]*vecNode[T], len(node.children))
	copy(children, node.children)
	subidx := (i >> level) & vecMask
	children[subidx] = doAssoc(level-vecBits, node.children[subidx], i, item)
	return &vecNode[T]{children: children}
}

// Pop returns a new vector without the last element, or false on the empty
// vector.
func (v *Vector[T]) Pop() (*Vector[T], bool) {
	switch {
	case v.count == 0:
		return v, false
	case v.count == 1:
		return NewVector[T](), true
	case v.count-v.tailOffset() > 1:
		newTail := make([]T, len(v.tail)-1)
		copy(newTail, v.tail)
		return &Vector[T]{count: v.count - 1, shift: v.shift, root: v.root, tail: newTail}, true
	}

	// The tail holds a single element: the rightmost leaf becomes the new tail.
	newTail := v.leafFor(v.count - 2)
	newRoot := v.popTail(v.shift, v.root)
	newShift := v.shift
	if newRoot == nil {
		newRoot = &vecNode[T]{}
	}
	if newShift > vecBits && len(newRoot.children) == 1 {
		newRoot = newRoot.children[0]
		newShift -= vecBits
	}
	return &Vector[T]{count: v.count - 1, shift: newShift, root: newRoot, tail: newTail}, true
}

// popTail removes the rightmost leaf below node. A nil result means the node
// has no content left and the caller drops it.
func (v *Vector[T]) popTail(level uint, node *vecNode[T]) *vecNode[T] {
	subidx := ((v.count - 2) >> level) & vecMask
	if level > vecBits {
		newChild := v.popTail(level-vecBits, node.children[subidx])
		if newChild == nil && subidx == 0 {
			return nil
		}
		if newChild == nil {
			children := make([]*vecNode[T], subidx)
			copy(children, node.children[:subidx])
			return &vecNode[T]{children: children}
		}
		children := make([]*vecNode[T], len(node.children))
		copy(children, node.children)
		children[subidx] = newChild
		return &vecNode[T]{children: children}
	}
	if subidx == 0 {
		return nil
	}
	children := make([]*vecNode[T], subidx)
	copy(children, node.children[:subidx])
	return &vecNode[T]{children: children}
}

// All yields the elements in index order, one leaf array at a time.
func (v *Vector[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.count; i += vecWidth {
			for _, item := range v.leafFor(i) {
				if !yield(item) {
					return
				}
			}
		}
	}
}

func (v *Vector[T]) ToSlice() []T {
	out := make([]T, 0, v.count)
	for item := range v.All() {
		out = append(out, item)
	}
	return out
}
