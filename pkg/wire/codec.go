package wire

import (
	"fmt"

	"github.com/beevik/etree"
)

// Marshal encodes a native value as a standalone <data_block> fragment.
// The output has no XML declaration; it is meant for logging and tests,
// requests are rendered by package envelope.
func Marshal(v any) ([]byte, error) {
	doc := etree.NewDocument()
	if _, err := EncodePayload(&doc.Element, v); err != nil {
		return nil, err
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

// Unmarshal decodes a fragment produced by Marshal, or any document whose
// root element holds a container. ok is false when the root holds neither
// a <dt_assoc> nor a <dt_array>.
func Unmarshal(data []byte) (v Value, ok bool, err error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, false, fmt.Errorf("failed to parse fragment: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, false, fmt.Errorf("failed to parse fragment: no root element")
	}
	if v, ok := DecodeContainer(root); ok {
		return v, true, nil
	}
	v, ok = Decode(root)
	return v, ok, nil
}

// Clone returns a deep copy of v. Extensions are shared, not copied.
func Clone(v Value) Value {
	switch tv := v.(type) {
	case List:
		out := make(List, len(tv))
		for i, item := range tv {
			out[i] = Clone(item)
		}
		return out
	case Map:
		out := make(Map, len(tv))
		for i, p := range tv {
			out[i] = Pair{Key: p.Key, Value: Clone(p.Value)}
		}
		return out
	default:
		return v
	}
}
