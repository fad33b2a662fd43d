package yinyang

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/evaluator"
	"github.com/shopspring/decimal"
)

// Keyword and Symbol mark Go strings that should cross over as EDN keywords
// and symbols. A plain string is always an EDN string.
type (
	Keyword string
	Symbol  string
)

var (
	anyType     = reflect.TypeOf((*any)(nil)).Elem()
	valueType   = reflect.TypeOf((*evaluator.Value)(nil)).Elem()
	nodeType    = reflect.TypeOf((*edn.Node)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// Marshaller handles conversion between Go values and runtime values.
//
// Go to EDN: integers of every width and *big.Int become Integer; floats and
// decimal.Decimal become Float; strings, bools and nil map directly; slices
// and arrays become vectors; maps become maps; structs become maps keyed by
// keywords, named by an `edn` tag or the field name.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to a runtime value. Runtime values pass through.
func (m *Marshaller) ToValue(val any) (evaluator.Value, error) {
	if v, ok := val.(evaluator.Value); ok {
		return v, nil
	}
	node, err := m.ToNode(val)
	if err != nil {
		return nil, err
	}
	return evaluator.FromNode(node), nil
}

// ToNode converts a Go value to EDN data.
func (m *Marshaller) ToNode(val any) (edn.Node, error) {
	switch x := val.(type) {
	case nil:
		return edn.NIL, nil
	case edn.Node:
		return x, nil
	case *evaluator.EDN:
		return x.Node, nil
	case evaluator.Value:
		return nil, fmt.Errorf("%s is not data", x.Inspect())
	case Keyword:
		return edn.NewKeyword(string(x)), nil
	case Symbol:
		return edn.NewSymbol(string(x)), nil
	case *big.Int:
		if x == nil {
			return edn.NIL, nil
		}
		return edn.NewInteger(x), nil
	case decimal.Decimal:
		return edn.NewFloat(x), nil
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil, fmt.Errorf("%v has no EDN form", x)
		}
		return edn.NewFloat(decimal.NewFromFloat32(x)), nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return edn.IntegerFromInt64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &edn.Integer{Value: new(big.Int).SetUint64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v has no EDN form", f)
		}
		return edn.NewFloat(decimal.NewFromFloat(f)), nil
	case reflect.Bool:
		return edn.NativeBool(v.Bool()), nil
	case reflect.String:
		return edn.NewString(v.String()), nil
	case reflect.Slice, reflect.Array:
		return m.sliceToVector(v)
	case reflect.Map:
		return m.goMapToMap(v)
	case reflect.Struct:
		return m.structToMap(v)
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return edn.NIL, nil
		}
		return m.ToNode(v.Elem().Interface())
	}
	return nil, fmt.Errorf("unsupported Go type %s", v.Type())
}

func (m *Marshaller) sliceToVector(v reflect.Value) (*edn.Vector, error) {
	nodes := make([]edn.Node, v.Len())
	for i := range nodes {
		n, err := m.ToNode(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		nodes[i] = n
	}
	return edn.NewVector(nodes...), nil
}

func (m *Marshaller) goMapToMap(v reflect.Value) (*edn.Map, error) {
	result := edn.EmptyMap()
	iter := v.MapRange()
	for iter.Next() {
		key, err := m.ToNode(iter.Key().Interface())
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		val, err := m.ToNode(iter.Value().Interface())
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		result = result.Assoc(key, val)
	}
	return result, nil
}

// fieldKey returns the keyword name for a struct field, or "" when the field
// is skipped.
func fieldKey(field reflect.StructField) string {
	if field.PkgPath != "" { // unexported
		return ""
	}
	tag := field.Tag.Get("edn")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return field.Name
}

func (m *Marshaller) structToMap(v reflect.Value) (*edn.Map, error) {
	result := edn.EmptyMap()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		key := fieldKey(t.Field(i))
		if key == "" {
			continue
		}
		val, err := m.ToNode(v.Field(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", t.Field(i).Name, err)
		}
		result = result.Assoc(edn.NewKeyword(key), val)
	}
	return result, nil
}

// FromValue converts a runtime value to a Go value. targetType is optional;
// when it is nil or an interface, the default mapping is used: nil, bool,
// int (or *big.Int when it does not fit), float64, string, Keyword, Symbol,
// []any for lists, vectors and sets, and map[any]any for maps. Functions
// come back as the runtime value itself.
func (m *Marshaller) FromValue(v evaluator.Value, targetType reflect.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	if targetType == valueType {
		return v, nil
	}
	d, ok := v.(*evaluator.EDN)
	if !ok {
		if isDefault(targetType) {
			return v, nil
		}
		return nil, fmt.Errorf("cannot convert %s to %s", v.Inspect(), targetType)
	}
	return m.FromNode(d.Node, targetType)
}

func isDefault(t reflect.Type) bool {
	return t == nil || t == anyType
}

// FromNode converts EDN data to a Go value; see FromValue.
func (m *Marshaller) FromNode(n edn.Node, targetType reflect.Type) (any, error) {
	if targetType == nodeType {
		return n, nil
	}
	if targetType == valueType {
		return evaluator.FromNode(n), nil
	}

	switch x := n.(type) {
	case *edn.Nil:
		return nil, nil
	case *edn.Bool:
		return x.Value, nil
	case *edn.Integer:
		return fromInteger(x.Value, targetType)
	case *edn.Float:
		return fromFloat(x.Value, targetType)
	case *edn.String:
		return x.Value, nil
	case *edn.Keyword:
		return Keyword(x.Name), nil
	case *edn.Symbol:
		return Symbol(x.Name), nil
	case *edn.List:
		return m.seqToSlice(x.Slice(), targetType)
	case *edn.Vector:
		return m.seqToSlice(x.Slice(), targetType)
	case *edn.Set:
		var members []edn.Node
		for member := range x.All() {
			members = append(members, member)
		}
		return m.seqToSlice(members, targetType)
	case *edn.Map:
		if targetType != nil && targetType.Kind() == reflect.Struct {
			return m.mapToStruct(x, targetType)
		}
		return m.mapToGoMap(x, targetType)
	}
	return nil, fmt.Errorf("unsupported node type %s", n.Type())
}

func fromInteger(i *big.Int, targetType reflect.Type) (any, error) {
	if targetType == bigIntType {
		return new(big.Int).Set(i), nil
	}
	if targetType == decimalType {
		return decimal.NewFromBigInt(i, 0), nil
	}
	if !isDefault(targetType) {
		out := reflect.New(targetType).Elem()
		switch targetType.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if !i.IsInt64() || out.OverflowInt(i.Int64()) {
				return nil, fmt.Errorf("%s overflows %s", i, targetType)
			}
			out.SetInt(i.Int64())
			return out.Interface(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if !i.IsUint64() || out.OverflowUint(i.Uint64()) {
				return nil, fmt.Errorf("%s overflows %s", i, targetType)
			}
			out.SetUint(i.Uint64())
			return out.Interface(), nil
		case reflect.Float32, reflect.Float64:
			f, _ := new(big.Float).SetInt(i).Float64()
			out.SetFloat(f)
			return out.Interface(), nil
		}
	}
	if i.IsInt64() {
		if n := i.Int64(); n == int64(int(n)) {
			return int(n), nil
		}
	}
	return new(big.Int).Set(i), nil
}

func fromFloat(d decimal.Decimal, targetType reflect.Type) (any, error) {
	if targetType == decimalType {
		return d, nil
	}
	if !isDefault(targetType) && targetType.Kind() == reflect.Float32 {
		f, _ := d.Float64()
		return float32(f), nil
	}
	return d.InexactFloat64(), nil
}

func (m *Marshaller) seqToSlice(nodes []edn.Node, targetType reflect.Type) (any, error) {
	elemType := anyType
	if !isDefault(targetType) {
		if targetType.Kind() != reflect.Slice {
			return nil, fmt.Errorf("cannot convert a sequence to %s", targetType)
		}
		elemType = targetType.Elem()
	}

	slice := reflect.MakeSlice(reflect.SliceOf(elemType), 0, len(nodes))
	for i, n := range nodes {
		val, err := m.FromNode(n, elemType)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		rv, err := convertTo(val, elemType)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		slice = reflect.Append(slice, rv)
	}
	return slice.Interface(), nil
}

func (m *Marshaller) mapToGoMap(em *edn.Map, targetType reflect.Type) (any, error) {
	mapType := reflect.TypeOf(map[any]any{})
	if !isDefault(targetType) {
		if targetType.Kind() != reflect.Map {
			return nil, fmt.Errorf("cannot convert a map to %s", targetType)
		}
		mapType = targetType
	}
	keyType, valType := mapType.Key(), mapType.Elem()

	result := reflect.MakeMapWithSize(mapType, em.Len())
	for k, v := range em.All() {
		key, err := m.FromNode(k, keyType)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		if key != nil && !reflect.TypeOf(key).Comparable() {
			return nil, fmt.Errorf("map key %s cannot be a Go map key", k.Inspect())
		}
		val, err := m.FromNode(v, valType)
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		kv, err := convertTo(key, keyType)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		vv, err := convertTo(val, valType)
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		result.SetMapIndex(kv, vv)
	}
	return result.Interface(), nil
}

// mapToStruct fills exported fields from keyword keys. Missing keys leave
// the zero value; unknown keys are ignored.
func (m *Marshaller) mapToStruct(em *edn.Map, targetType reflect.Type) (any, error) {
	out := reflect.New(targetType).Elem()
	for i := 0; i < targetType.NumField(); i++ {
		field := targetType.Field(i)
		key := fieldKey(field)
		if key == "" {
			continue
		}
		n, ok := em.Get(edn.NewKeyword(key))
		if !ok {
			continue
		}
		val, err := m.FromNode(n, field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		rv, err := convertTo(val, field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		out.Field(i).Set(rv)
	}
	return out.Interface(), nil
}

// convertTo makes val assignable to target. Conversions are limited to
// same-kind types and numeric widening so that, say, an int never turns into
// a one-rune string.
func convertTo(val any, target reflect.Type) (reflect.Value, error) {
	if val == nil {
		return reflect.Zero(target), nil
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(target) && (rv.Kind() == target.Kind() || (isNumeric(rv.Kind()) && isNumeric(target.Kind()))) {
		return rv.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), target)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
