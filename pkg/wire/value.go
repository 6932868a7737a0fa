package wire

import (
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindScalar Kind = iota
	KindList
	KindMap
	KindExtension
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "SCALAR"
	case KindList:
		return "LIST"
	case KindMap:
		return "MAP"
	case KindExtension:
		return "EXTENSION"
	default:
		return "UNKNOWN"
	}
}

// Value is a node of the OPS value tree.
// The set of implementations is closed: Scalar, List, Map and Extension.
type Value interface {
	Kind() Kind
	isValue()
}

// Scalar is a text leaf. Numbers are carried in their decimal text form.
type Scalar string

// Kind returns KindScalar.
func (Scalar) Kind() Kind { return KindScalar }
func (Scalar) isValue() {}

// List is an ordered sequence of values, keyed 0..n-1 on the wire.
type List []Value

// Kind returns KindList.
func (List) Kind() Kind { return KindList }
func (List) isValue() {}

// Pair is a single Map entry.
type Pair struct {
	Key   string
	Value Value
}

// Map is an ordered sequence of key/value pairs.
// Encoding preserves the order; Equal ignores it.
type Map []Pair

// Kind returns KindMap.
func (Map) Kind() Kind { return KindMap }
func (Map) isValue() {}

// Get returns the value stored under key.
func (m Map) Get(key string) (Value, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// GetString returns the scalar text stored under key.
func (m Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	return AsString(v)
}

// Keys returns the keys in wire order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// With returns a copy of m with key set to v. An existing entry keeps its
// position; a new one is appended.
func (m Map) With(key string, v Value) Map {
	out := make(Map, len(m), len(m)+1)
	copy(out, m)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = v
			return out
		}
	}
	return append(out, Pair{Key: key, Value: v})
}

// ItemMarshaler is implemented by caller-defined types that write their own
// wire representation into an <item> element.
type ItemMarshaler interface {
	MarshalItem(item *etree.Element) error
}

// Extension is a delegate that populates the <item> element it is given.
// It has no decode counterpart.
type Extension func(item *etree.Element) error

// Kind returns KindExtension.
func (Extension) Kind() Kind { return KindExtension }
func (Extension) isValue() {}

// Ext wraps an ItemMarshaler as an Extension value.
func Ext(m ItemMarshaler) Extension {
	return m.MarshalItem
}

// AsString returns the text of a Scalar.
func AsString(v Value) (string, bool) {
	s, ok := v.(Scalar)
	return string(s), ok
}

// AsMap returns v as a Map.
func AsMap(v Value) (Map, bool) {
	m, ok := v.(Map)
	return m, ok
}

// AsList returns v as a List.
func AsList(v Value) (List, bool) {
	l, ok := v.(List)
	return l, ok
}

// Equal reports whether a and b hold the same tree. Map comparison ignores
// pair order. Extensions never compare equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Scalar:
		bv, ok := b.(Scalar)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for _, p := range av {
			other, ok := bv.Get(p.Key)
			if !ok || !Equal(p.Value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ToNative converts v into plain Go values: string, []any and
// map[string]any. Extensions convert to nil.
func ToNative(v Value) any {
	switch tv := v.(type) {
	case Scalar:
		return string(tv)
	case List:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = ToNative(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(tv))
		for _, p := range tv {
			out[p.Key] = ToNative(p.Value)
		}
		return out
	default:
		return nil
	}
}

// sortKeys orders native map keys deterministically: integer-like keys
// ascending by value, then the remaining keys lexically.
func sortKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ni, iok := indexKey(keys[i])
		nj, jok := indexKey(keys[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
}

// indexKey parses a canonical non-negative decimal key ("0", "17", not "007").
func indexKey(k string) (int, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	n, err := strconv.Atoi(k)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
