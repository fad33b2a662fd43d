package edn

// Equal reports structural equality. Nodes of different variants are never
// equal, so (1 2) and [1 2] differ, as do 1 and 1.0. Floats compare by value,
// which makes 1.50 equal 1.5.
func Equal(a, b Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Type() != b.Type() {
		return false
	}

	switch x := a.(type) {
	case *Nil:
		return true
	case *Bool:
		return x.Value == b.(*Bool).Value
	case *Integer:
		return x.Value.Cmp(b.(*Integer).Value) == 0
	case *Float:
		return decimalsEqual(x.Value, b.(*Float).Value)
	case *String:
		return x.Value == b.(*String).Value
	case *Symbol:
		return x.Name == b.(*Symbol).Name
	case *Keyword:
		return x.Name == b.(*Keyword).Name
	case *List:
		y := b.(*List)
		l, r := x.items, y.items
		for ; l != nil && r != nil; l, r = l.Tail(), r.Tail() {
			lh, _ := l.Head()
			rh, _ := r.Head()
			if !Equal(lh, rh) {
				return false
			}
		}
		return l == nil && r == nil
	case *Vector:
		y := b.(*Vector)
		if x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			l, _ := x.Nth(i)
			r, _ := y.Nth(i)
			if !Equal(l, r) {
				return false
			}
		}
		return true
	case *Map:
		y := b.(*Map)
		if x.Len() != y.Len() {
			return false
		}
		for k, v := range x.All() {
			other, ok := y.Get(k)
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	case *Set:
		y := b.(*Set)
		if x.Len() != y.Len() {
			return false
		}
		for n := range x.All() {
			if !y.Contains(n) {
				return false
			}
		}
		return true
	}
	return false
}
