package value

import (
	"bytes"
	"fmt"

	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FromJSON decodes a JSON document.
func FromJSON(data []byte) (Value, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return Value{}, nil
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("decoding json: %w", err)
	}
	return Of(doc), nil
}

// FromYAML decodes a YAML document. Scalars keep their source text; only
// explicit nulls become Absent.
func FromYAML(data []byte) (Value, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, fmt.Errorf("decoding yaml: %w", err)
	}
	return FromNode(&root), nil
}

// FromNode converts a yaml.v3 node tree.
func FromNode(n *yaml.Node) Value {
	if n == nil {
		return Value{}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Value{}
		}
		return FromNode(n.Content[0])
	case yaml.AliasNode:
		return FromNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, FromNode(c))
		}
		return NewSequence(items)
	case yaml.MappingNode:
		fields := make(map[string]Value, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			fields[n.Content[i].Value] = FromNode(n.Content[i+1])
		}
		return NewMapping(fields)
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return Value{}
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err == nil {
				return Value{kind: Scalar, scalar: b}
			}
		}
		return Of(n.Value)
	}
	return Value{}
}
