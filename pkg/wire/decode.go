package wire

import (
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Decode reads the container held by el.
//
// If el has a <dt_assoc> child the result is a Map, else if it has a
// <dt_array> child the result is a List. Otherwise there is no value and
// ok is false; callers must not treat that as an empty collection.
//
// A repeated key in a <dt_assoc> keeps the position of its first
// occurrence and the value of its last. List items are sorted by key and
// then indexed by position, so a <dt_array> keyed 0 and 2 decodes to a
// two-element List.
func Decode(el *etree.Element) (v Value, ok bool) {
	if el == nil {
		return nil, false
	}
	if assoc := el.SelectElement(TagAssoc); assoc != nil {
		return decodeAssoc(assoc), true
	}
	if array := el.SelectElement(TagArray); array != nil {
		return decodeArray(array), true
	}
	return nil, false
}

// DecodeItem reads the value of a single <item>: its nested container if it
// has one, otherwise its text as a Scalar.
func DecodeItem(item *etree.Element) Value {
	if v, ok := Decode(item); ok {
		return v
	}
	return Scalar(item.Text())
}

// DecodeContainer reads a <dt_assoc> or <dt_array> element itself.
func DecodeContainer(container *etree.Element) (Value, bool) {
	if container == nil {
		return nil, false
	}
	switch container.Tag {
	case TagAssoc:
		return decodeAssoc(container), true
	case TagArray:
		return decodeArray(container), true
	default:
		return nil, false
	}
}

func decodeAssoc(assoc *etree.Element) Map {
	items := assoc.SelectElements(TagItem)
	m := make(Map, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, item := range items {
		key := item.SelectAttrValue(AttrKey, "")
		value := DecodeItem(item)
		if i, ok := seen[key]; ok {
			m[i].Value = value
			continue
		}
		seen[key] = len(m)
		m = append(m, Pair{Key: key, Value: value})
	}
	return m
}

// decodeArray orders items by their numeric key. If any key is not an
// integer the document order is kept instead.
func decodeArray(array *etree.Element) List {
	items := array.SelectElements(TagItem)

	type indexed struct {
		index int
		value Value
	}
	entries := make([]indexed, len(items))
	numeric := true
	for i, item := range items {
		entries[i].value = DecodeItem(item)
		n, err := strconv.Atoi(strings.TrimSpace(item.SelectAttrValue(AttrKey, "")))
		if err != nil {
			numeric = false
			continue
		}
		entries[i].index = n
	}

	if numeric {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].index < entries[j].index
		})
	}

	l := make(List, len(entries))
	for i, e := range entries {
		l[i] = e.value
	}
	return l
}
