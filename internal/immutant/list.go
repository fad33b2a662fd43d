// Package immutant implements the persistent collections the runtime is built on:
// a cons list, a 32-way bitmapped vector trie and a hash array mapped trie.
//
// Every value in this package is immutable once constructed. Operations that
// "modify" a collection return a new version which shares as much structure as
// possible with the receiver, so older versions stay valid and may be read from
// any number of goroutines without synchronization.
package immutant

import "iter"

// List is a singly-linked persistent list. The nil *List is the empty list, so
// the zero value is ready to use.
type List[T any] struct {
	head T
	tail *List[T]
}

// NewList returns the empty list.
func NewList[T any]() *List[T] {
	return nil
}

// Singleton returns a list holding exactly one element.
func Singleton[T any](item T) *List[T] {
	return &List[T]{head: item}
}

// ListFrom builds a list whose iteration order matches items.
func ListFrom[T any](items []T) *List[T] {
	var l *List[T]
	for i := len(items) - 1; i >= 0; i-- {
		l = l.Cons(items[i])
	}
	return l
}

// Cons returns a new list with item in front. The receiver becomes the tail of
// the result and is shared, not copied.
func (l *List[T]) Cons(item T) *List[T] {
	return &List[T]{head: item, tail: l}
}

// Prepend is an alias for Cons.
func (l *List[T]) Prepend(item T) *List[T] {
	return l.Cons(item)
}

// Append returns a new list with item at the end. This is O(n): every node of
// the receiver is rebuilt because a cons cell cannot be pointed at a new tail.
func (l *List[T]) Append(item T) *List[T] {
	if l == nil {
		return Singleton(item)
	}
	return &List[T]{head: l.head, tail: l.tail.Append(item)}
}

// Head returns the first element, or false when the list is empty.
func (l *List[T]) Head() (T, bool) {
	if l == nil {
		var zero T
		return zero, false
	}
	return l.head, true
}

// First is an alias for Head.
func (l *List[T]) First() (T, bool) {
	return l.Head()
}

// Tail returns everything after the first element. The empty list's tail is
// the empty list.
func (l *List[T]) Tail() *List[T] {
	if l == nil {
		return nil
	}
	return l.tail
}

// Rest is an alias for Tail.
func (l *List[T]) Rest() *List[T] {
	return l.Tail()
}

func (l *List[T]) IsEmpty() bool {
	return l == nil
}

// Len counts the nodes. Lists do not cache their length, so this is O(n).
func (l *List[T]) Len() int {
	n := 0
	for curr := l; curr != nil; curr = curr.tail {
		n++
	}
	return n
}

// Reverse returns a new list with the elements in opposite order. No node is
// shared with the receiver.
func (l *List[T]) Reverse() *List[T] {
	var out *List[T]
	for curr := l; curr != nil; curr = curr.tail {
		out = out.Cons(curr.head)
	}
	return out
}

// Nth returns the element at index i by walking i nodes.
func (l *List[T]) Nth(i int) (T, bool) {
	if i >= 0 {
		for curr := l; curr != nil; curr = curr.tail {
			if i == 0 {
				return curr.head, true
			}
			i--
		}
	}
	var zero T
	return zero, false
}

// All yields the elements front to back. The sequence can be ranged over any
// number of times.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for curr := l; curr != nil; curr = curr.tail {
			if !yield(curr.head) {
				return
			}
		}
	}
}

func (l *List[T]) ToSlice() []T {
	out := make([]T, 0, 8)
	for curr := l; curr != nil; curr = curr.tail {
		out = append(out, curr.head)
	}
	return out
}
