package wire

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Element and attribute names of the OPS dialect.
const (
	TagDataBlock = "data_block"
	TagAssoc     = "dt_assoc"
	TagArray     = "dt_array"
	TagItem      = "item"
	AttrKey      = "key"
)

// Encode appends the wire form of v to into.
//
// A Scalar becomes a leaf <item>, a List a <dt_array> and a Map a
// <dt_assoc>. An Extension writes into an empty element of the same tag
// whose attributes and children are then moved onto into; existing
// children of into are not touched. Nothing is appended when an error is
// returned.
func Encode(into *etree.Element, v Value) error {
	if into == nil {
		return fmt.Errorf("wire: encode into nil element")
	}
	switch tv := v.(type) {
	case Scalar:
		leaf := etree.NewElement(TagItem)
		leaf.SetText(string(tv))
		into.AddChild(leaf)
		return nil
	case List, Map:
		container, err := buildContainer("", tv)
		if err != nil {
			return err
		}
		into.AddChild(container)
		return nil
	case Extension:
		if tv == nil {
			return ErrNilExtension
		}
		scratch := etree.NewElement(into.Tag)
		if err := tv(scratch); err != nil {
			return &ExtensionError{Path: "", Err: err}
		}
		moveContent(into, scratch)
		return nil
	default:
		return &UnsupportedValueError{Type: fmt.Sprintf("%T", v)}
	}
}

// EncodePayload converts a native value with FromNative and appends it to
// parent as a single <data_block>. The returned element is the data block.
func EncodePayload(parent *etree.Element, v any) (*etree.Element, error) {
	if parent == nil {
		return nil, fmt.Errorf("wire: encode into nil element")
	}
	value, err := FromNative(v)
	if err != nil {
		return nil, err
	}
	block := etree.NewElement(TagDataBlock)
	if err := Encode(block, value); err != nil {
		return nil, err
	}
	parent.AddChild(block)
	return block, nil
}

// buildContainer returns a detached <dt_array> or <dt_assoc> element for a
// List or Map.
func buildContainer(path string, v Value) (*etree.Element, error) {
	switch tv := v.(type) {
	case List:
		array := etree.NewElement(TagArray)
		for i, item := range tv {
			key := strconv.Itoa(i)
			if err := addItem(array, childPath(path, key, true), key, item); err != nil {
				return nil, err
			}
		}
		return array, nil
	case Map:
		assoc := etree.NewElement(TagAssoc)
		for _, p := range tv {
			if err := addItem(assoc, childPath(path, p.Key, false), p.Key, p.Value); err != nil {
				return nil, err
			}
		}
		return assoc, nil
	default:
		return nil, &UnsupportedValueError{Path: path, Type: fmt.Sprintf("%T", v)}
	}
}

// addItem appends <item key="key"> holding v to container.
func addItem(container *etree.Element, path, key string, v Value) error {
	item := etree.NewElement(TagItem)
	item.CreateAttr(AttrKey, key)

	switch tv := v.(type) {
	case Scalar:
		item.SetText(string(tv))
	case List, Map:
		nested, err := buildContainer(path, tv)
		if err != nil {
			return err
		}
		item.AddChild(nested)
	case Extension:
		if tv == nil {
			return &UnsupportedValueError{Path: path, Type: "nil wire.Extension"}
		}
		if err := tv(item); err != nil {
			return &ExtensionError{Path: path, Err: err}
		}
	default:
		return &UnsupportedValueError{Path: path, Type: fmt.Sprintf("%T", v)}
	}

	container.AddChild(item)
	return nil
}

// moveContent sets src's attributes on dst and moves src's children to the
// end of dst.
func moveContent(dst, src *etree.Element) {
	for _, a := range src.Attr {
		dst.CreateAttr(a.FullKey(), a.Value)
	}
	for _, tok := range append([]etree.Token(nil), src.Child...) {
		src.RemoveChild(tok)
		dst.AddChild(tok)
	}
}
