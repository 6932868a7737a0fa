package wire

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Shape is the result of classifying a collection's keys.
type Shape uint8

const (
	// ShapeAmbiguous is an empty collection. It is encoded as a List.
	ShapeAmbiguous Shape = iota
	// ShapeList is a collection keyed exactly 0..n-1 in order.
	ShapeList
	// ShapeMap is any other non-empty collection.
	ShapeMap
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeAmbiguous:
		return "AMBIGUOUS"
	case ShapeList:
		return "LIST"
	case ShapeMap:
		return "MAP"
	default:
		return "UNKNOWN"
	}
}

// Classify decides whether a collection with the given keys, in iteration
// order, is a List or a Map.
func Classify(keys []string) Shape {
	if len(keys) == 0 {
		return ShapeAmbiguous
	}
	for i, k := range keys {
		if k != strconv.Itoa(i) {
			return ShapeMap
		}
	}
	return ShapeList
}

// FromNative converts a Go value into a Value.
//
// Supported inputs are Value itself, ItemMarshaler, strings, integer and
// float kinds, json.Number, slices and arrays, and maps with string or
// integer keys. Maps are walked in a deterministic key order (integer-like
// keys ascending, then the rest lexically) and classified with Classify.
// Anything else fails with *UnsupportedValueError.
func FromNative(v any) (Value, error) {
	return fromNative("", v)
}

func fromNative(path string, v any) (Value, error) {
	switch tv := v.(type) {
	case nil:
		return nil, &UnsupportedValueError{Path: path, Type: "nil"}
	case Value:
		if ext, ok := tv.(Extension); ok && ext == nil {
			return nil, &UnsupportedValueError{Path: path, Type: "nil wire.Extension"}
		}
		return tv, nil
	case ItemMarshaler:
		return Ext(tv), nil
	case string:
		return Scalar(tv), nil
	case json.Number:
		return Scalar(tv.String()), nil
	case []Value:
		return fromValues(tv), nil
	case []string:
		items := make([]Value, len(tv))
		for i, s := range tv {
			items[i] = Scalar(s)
		}
		return fromValues(items), nil
	case map[string]any:
		return fromStringMap(path, tv)
	case map[string]string:
		m := make(map[string]any, len(tv))
		for k, s := range tv {
			m[k] = s
		}
		return fromStringMap(path, m)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Scalar(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Scalar(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &UnsupportedValueError{Path: path, Type: rv.Type().String()}
		}
		return Scalar(strconv.FormatFloat(f, 'f', -1, rv.Type().Bits())), nil
	case reflect.String:
		return Scalar(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List{}, nil
		}
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := fromNative(childPath(path, strconv.Itoa(i), true), rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return fromValues(items), nil
	case reflect.Map:
		return fromReflectMap(path, rv)
	}
	return nil, &UnsupportedValueError{Path: path, Type: fmt.Sprintf("%T", v)}
}

// fromValues wraps a positional sequence. Positional keys are always 0..n-1,
// so the result is a List, including the ambiguous empty case.
func fromValues(items []Value) Value {
	return List(items)
}

func fromStringMap(path string, m map[string]any) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return buildCollection(path, keys, func(k string) any { return m[k] })
}

func fromReflectMap(path string, rv reflect.Value) (Value, error) {
	lookup := make(map[string]reflect.Value, rv.Len())
	keys := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		var k string
		switch key := iter.Key(); key.Kind() {
		case reflect.String:
			k = key.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			k = strconv.FormatInt(key.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			k = strconv.FormatUint(key.Uint(), 10)
		default:
			return nil, &UnsupportedValueError{Path: path, Type: rv.Type().String()}
		}
		lookup[k] = iter.Value()
		keys = append(keys, k)
	}
	sortKeys(keys)
	return buildCollection(path, keys, func(k string) any { return lookup[k].Interface() })
}

func buildCollection(path string, keys []string, get func(string) any) (Value, error) {
	shape := Classify(keys)
	positional := shape != ShapeMap

	values := make([]Value, len(keys))
	for i, k := range keys {
		v, err := fromNative(childPath(path, k, positional), get(k))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	if positional {
		return List(values), nil
	}
	m := make(Map, len(keys))
	for i, k := range keys {
		m[i] = Pair{Key: k, Value: values[i]}
	}
	return m, nil
}
