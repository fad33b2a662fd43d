package builtins

import (
	"math"
	"unicode/utf8"

	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/evaluator"
	"github.com/funvibe/yinyang/internal/immutant"
)

func CollectionBuiltins() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		"list": func(args []evaluator.Value) (evaluator.Value, error) {
			nodes, err := toNodes("list", args)
			if err != nil {
				return nil, err
			}
			return wrap(edn.NewList(nodes...)), nil
		},
		"vector": func(args []evaluator.Value) (evaluator.Value, error) {
			nodes, err := toNodes("vector", args)
			if err != nil {
				return nil, err
			}
			return wrap(edn.NewVector(nodes...)), nil
		},
		"hash-map": func(args []evaluator.Value) (evaluator.Value, error) {
			nodes, err := toNodes("hash-map", args)
			if err != nil {
				return nil, err
			}
			m, err := edn.NewMap(nodes...)
			if err != nil {
				return nil, evaluator.NewError(evaluator.ErrArity, "'hash-map' %v", err)
			}
			return wrap(m), nil
		},
		"hash-set": func(args []evaluator.Value) (evaluator.Value, error) {
			nodes, err := toNodes("hash-set", args)
			if err != nil {
				return nil, err
			}
			return wrap(edn.NewSet(nodes...)), nil
		},
		"first": first,
		"rest":  rest,
		"cons":  cons,
		"conj":  conj,
		"count": count,
		"nth":   nth,
		"pop":   pop,
		"get":   get,
		"assoc": assoc,
	}
}

func first(args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArity("first", args, 1, 1); err != nil {
		return nil, err
	}
	node, err := toNode("first", args[0])
	if err != nil {
		return nil, err
	}
	switch c := node.(type) {
	case *edn.Nil:
		return evaluator.NilValue, nil
	case *edn.List:
		return wrap(c.First()), nil
	case *edn.Vector:
		if n, ok := c.Nth(0); ok {
			return wrap(n), nil
		}
		return evaluator.NilValue, nil
	}
	return nil, evaluator.NewTypeError("first", "a list or vector", args[0])
}

// rest always returns a list; the rest of a vector shares no structure with it.
func rest(args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArity("rest", args, 1, 1); err != nil {
		return nil, err
	}
	node, err := toNode("rest", args[0])
	if err != nil {
		return nil, err
	}
	switch c := node.(type) {
	case *edn.Nil:
		return wrap(edn.NewList()), nil
	case *edn.List:
		return wrap(c.Rest()), nil
	case *edn.Vector:
		items := c.Slice()
		if len(items) == 0 {
			return wrap(edn.NewList()), nil
		}
		return wrap(edn.NewList(items[1:]...)), nil
	}
	return nil, evaluator.NewTypeError("rest", "a list or vector", args[0])
}

func cons(args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArity("cons", args, 2, 2); err != nil {
		return nil, err
	}
	nodes, err := toNodes("cons", args)
	if err != nil {
		return nil, err
	}
	x := nodes[0]
	switch c := nodes[1].(type) {
	case *edn.Nil:
		return wrap(edn.NewList(x)), nil
	case *edn.List:
		return wrap(c.Cons(x)), nil
	case *edn.Vector:
		return wrap(edn.ListOf(immutant.ListFrom(c.Slice()).Cons(x))), nil
	}
	return nil, evaluator.NewTypeError("cons", "a list or vector", args[1])
}

// conj adds where the collection grows cheaply: lists at the front, vectors
// at the end.
func conj(args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArity("conj", args, 1, -1); err != nil {
		return nil, err
	}
	nodes, err := toNodes("conj", args)
	if err != nil {
		return nil, err
	}
	coll, items := nodes[0], nodes[1:]
	switch c := coll.(type) {
	case *edn.Nil:
		l := edn.NewList()
		for _, x := range items {
			l = l.Cons(x)
		}
		return wrap(l), nil
	case *edn.List:
		for _, x := range items {
			c = c.Cons(x)
		}
		return wrap(c), nil
	case *edn.Vector:
		for _, x := range items {
			c = c.Conj(x)
		}
		return wrap(c), nil
	case *edn.Set:
		for _, x := range items {
			c = c.Conj(x)
		}
		return wrap(c), nil
	case *edn.Map:
		for i, x := range items {
			pair, ok := x.(*edn.Vector)
			if !ok || pair.Len() != 2 {
				return nil, evaluator.NewTypeError("conj", "[key value] vectors for a map", args[i+1])
			}
			k, _ := pair.Nth(0)
			v, _ := pair.Nth(1)
			c = c.Assoc(k, v)
		}
		return wrap(c), nil
	}
	return nil, evaluator.NewTypeError("conj", "a collection", args[0])
}

func count(args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArity("count", args, 1, 1); err != nil {
		return nil, err
	}
	node, err := toNode("count", args[0])
	if err != nil {
		return nil, err
	}
	var n int
	switch c := node.(type) {
	case *edn.Nil:
		n = 0
	case *edn.List:
		n = c.Len()
	case *edn.Vector:
		n = c.Len()
	case *edn.Map:
		n = c.Len()
	case *edn.Set:
		n = c.Len()
	case *edn.String:
		n = utf8.RuneCountInString(c.Value)
	default:
		return nil, evaluator.NewTypeError("count", "a collection or string", args[0])
	}
	return wrap(edn.IntegerFromInt64(int64(n))), nil
}

// indexArg converts an Integer node to an int. ok is false when it does not
// fit; such an index is always out of range.
func indexArg(name string, v evaluator.Value) (idx int, ok bool, err error) {
	if d, isData := v.(*evaluator.EDN); isData {
		if i, isInt := d.Node.(*edn.Integer); isInt {
			if !i.Value.IsInt64() || i.Value.Int64() > math.MaxInt {
				return 0, false, nil
			}
			return int(i.Value.Int64()), true, nil
		}
	}
	return 0, false, evaluator.NewTypeError(name, "an integer index", v)
}

func nth(args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArity("nth", args, 2, 3); err != nil {
		return nil, err
	}
	node, err := toNode("nth", args[0])
	if err != nil {
		return nil, err
	}
	i, fits, err := indexArg("nth", args[1])
	if err != nil {
		return nil, err
	}

	var item edn.Node
	found := false
	switch c := node.(type) {
	case *edn.List:
		if fits {
			item, found = c.Nth(i)
		}
	case *edn.Vector:
		if fits {
			item, found = c.Nth(i)
		}
	default:
		return nil, evaluator.NewTypeError("nth", "a list or vector", args[0])
	}
	if found {
		return wrap(item), nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return nil, evaluator.NewError(evaluator.ErrType, "'nth' index %s out of range", args[1].Inspect())
}

func pop(args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArity("pop", args, 1, 1); err != nil {
		return nil, err
	}
	node, err := toNode("pop", args[0])
	if err != nil {
		return nil, err
	}
	switch c := node.(type) {
	case *edn.List:
		if c.IsEmpty() {
			return nil, evaluator.NewError(evaluator.ErrType, "Can't pop empty list")
		}
		return wrap(c.Rest()), nil
	case *edn.Vector:
		v, ok := c.Pop()
		if !ok {
			return nil, evaluator.NewError(evaluator.ErrType, "Can't pop empty vector")
		}
		return wrap(v), nil
	}
	return nil, evaluator.NewTypeError("pop", "a list or vector", args[0])
}

// get looks up a key in a map, an index in a vector or a member of a set.
// Anything missing yields the default, or nil.
func get(args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArity("get", args, 2, 3); err != nil {
		return nil, err
	}
	nodes, err := toNodes("get", args[:2])
	if err != nil {
		return nil, err
	}
	notFound := evaluator.Value(evaluator.NilValue)
	if len(args) == 3 {
		notFound = args[2]
	}

	switch c := nodes[0].(type) {
	case *edn.Map:
		if v, ok := c.Get(nodes[1]); ok {
			return wrap(v), nil
		}
	case *edn.Set:
		if c.Contains(nodes[1]) {
			return wrap(nodes[1]), nil
		}
	case *edn.Vector:
		if i, fits, err := indexArg("get", args[1]); err == nil && fits {
			if v, ok := c.Nth(i); ok {
				return wrap(v), nil
			}
		}
	}
	return notFound, nil
}

func assoc(args []evaluator.Value) (evaluator.Value, error) {
	if len(args) < 3 || len(args)%2 != 1 {
		return nil, evaluator.NewArityError("assoc", "a collection followed by key/value pairs", len(args))
	}
	nodes, err := toNodes("assoc", args)
	if err != nil {
		return nil, err
	}
	switch c := nodes[0].(type) {
	case *edn.Nil:
		m := edn.EmptyMap()
		for i := 1; i < len(nodes); i += 2 {
			m = m.Assoc(nodes[i], nodes[i+1])
		}
		return wrap(m), nil
	case *edn.Map:
		for i := 1; i < len(nodes); i += 2 {
			c = c.Assoc(nodes[i], nodes[i+1])
		}
		return wrap(c), nil
	case *edn.Vector:
		for i := 1; i < len(nodes); i += 2 {
			idx, fits, err := indexArg("assoc", args[i])
			if err != nil {
				return nil, err
			}
			var ok bool
			if fits {
				c, ok = c.Assoc(idx, nodes[i+1])
			}
			if !ok {
				return nil, evaluator.NewError(evaluator.ErrType, "'assoc' index %s out of range", args[i].Inspect())
			}
		}
		return wrap(c), nil
	}
	return nil, evaluator.NewTypeError("assoc", "a map or vector", args[0])
}
