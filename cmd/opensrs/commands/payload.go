package commands

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/supernovus/opensrs-go/pkg/wire"
)

// readPayload reads a YAML request payload. Mapping order is kept, so the
// request lists items in the order they appear in the file.
func readPayload(path string) (wire.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return parsePayload(data)
}

func parsePayload(data []byte) (wire.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}
	return nodeValue(doc.Content[0], "", map[*yaml.Node]bool{})
}

// nodeValue converts n to a Value. Mappings are classified like native
// maps, so keys 0..n-1 in order and empty mappings become lists. expanding
// holds the anchors currently being resolved.
func nodeValue(n *yaml.Node, path string, expanding map[*yaml.Node]bool) (wire.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if expanding[n.Alias] {
			return nil, fmt.Errorf("payload %s (line %d): alias %q refers to itself", displayPath(path), n.Line, n.Value)
		}
		expanding[n.Alias] = true
		defer delete(expanding, n.Alias)
		return nodeValue(n.Alias, path, expanding)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, fmt.Errorf("payload %s (line %d): null is not allowed", displayPath(path), n.Line)
		}
		return wire.Scalar(n.Value), nil
	case yaml.SequenceNode:
		list := make(wire.List, 0, len(n.Content))
		for i, item := range n.Content {
			v, err := nodeValue(item, path+"["+strconv.Itoa(i)+"]", expanding)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		keys := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keys = append(keys, n.Content[i].Value)
		}
		positional := wire.Classify(keys) != wire.ShapeMap

		values := make([]wire.Value, len(keys))
		for i, key := range keys {
			child := path + "[" + key + "]"
			if !positional {
				child = key
				if path != "" {
					child = path + "." + key
				}
			}
			v, err := nodeValue(n.Content[2*i+1], child, expanding)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}

		if positional {
			return wire.List(values), nil
		}
		m := make(wire.Map, len(keys))
		for i, key := range keys {
			m[i] = wire.Pair{Key: key, Value: values[i]}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("payload %s (line %d): unsupported YAML node", displayPath(path), n.Line)
	}
}

func displayPath(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
