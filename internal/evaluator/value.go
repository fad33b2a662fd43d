package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/immutant"
	"github.com/google/uuid"
)

type ValueType string

const (
	EDN_VAL    = "EDN"
	VAR_VAL    = "VAR"
	LAMBDA_VAL = "LAMBDA"
	NATIVE_VAL = "NATIVE"
)

// DefaultNamespace is the namespace every def lands in.
const DefaultNamespace = "user"

// Value is anything evaluation can produce.
type Value interface {
	Type() ValueType
	Inspect() string
	Hash() uint32
}

// Callable is a Value that can sit at the head of an application.
type Callable interface {
	Value
	callable()
}

// EDN wraps a data node.
type EDN struct {
	Node edn.Node
}

func FromNode(n edn.Node) *EDN {
	return &EDN{Node: n}
}

var NilValue = &EDN{Node: edn.NIL}

func (v *EDN) Type() ValueType { return EDN_VAL }
func (v *EDN) Inspect() string { return v.Node.Inspect() }
func (v *EDN) Hash() uint32    { return v.Node.Hash() }

// Var is the result of def. It records what was bound, for display.
type Var struct {
	Namespace string
	Name      string
	Value     Value
}

func (v *Var) Type() ValueType { return VAR_VAL }
func (v *Var) Inspect() string { return "#'" + v.Namespace + "/" + v.Name }
func (v *Var) Hash() uint32 {
	return immutant.HashString(v.Namespace+"/"+v.Name)*31 ^ v.Value.Hash()
}

// Lambda is a user function. Closure is a snapshot taken when the fn form
// was evaluated and is never written to afterwards.
type Lambda struct {
	Params  []*edn.Symbol
	Body    edn.Node
	Closure *Environment
}

func (l *Lambda) callable()       {}
func (l *Lambda) Type() ValueType { return LAMBDA_VAL }
func (l *Lambda) Inspect() string { return "#<function>" }

// Hash is derived from the source so that identity-equal lambdas agree.
func (l *Lambda) Hash() uint32 {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name
	}
	return immutant.HashString("fn [" + strings.Join(names, " ") + "] " + l.Body.Inspect())
}

// NativeFunc is the calling convention for host functions. Implementations
// validate their own arity and argument types.
type NativeFunc func(args []Value) (Value, error)

// Native is a host function. ID is assigned at registration and is the only
// thing equality looks at.
type Native struct {
	ID   uuid.UUID
	Name string
	Fn   NativeFunc
}

func NewNative(name string, fn NativeFunc) *Native {
	return &Native{ID: uuid.New(), Name: name, Fn: fn}
}

func (n *Native) callable()       {}
func (n *Native) Type() ValueType { return NATIVE_VAL }
func (n *Native) Inspect() string { return fmt.Sprintf("#<native %s>", n.Name) }
func (n *Native) Hash() uint32    { return immutant.HashString(n.ID.String()) }

// ValuesEqual compares values: data structurally, vars by namespace, name and
// bound value, natives by registration ID and lambdas by identity.
func ValuesEqual(a, b Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case *EDN:
		return edn.Equal(x.Node, b.(*EDN).Node)
	case *Var:
		y := b.(*Var)
		return x.Namespace == y.Namespace && x.Name == y.Name && ValuesEqual(x.Value, y.Value)
	case *Native:
		return x.ID == b.(*Native).ID
	}
	return false
}

// IsTruthy applies the conditional rule: only nil and false are false.
func IsTruthy(v Value) bool {
	if d, ok := v.(*EDN); ok {
		return edn.IsTruthy(d.Node)
	}
	return true
}
