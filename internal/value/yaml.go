package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML converts a decoded YAML node tree into a Value.
// Scalars keep their resolved YAML type (!!int, !!float, !!bool, !!null);
// timestamps and everything else stay strings. Aliases are followed and
// merge keys (<<) are expanded.
func FromYAML(node *yaml.Node) (Value, error) {
	if node == nil {
		return Null{}, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null{}, nil
		}
		return FromYAML(node.Content[0])

	case yaml.AliasNode:
		return FromYAML(node.Alias)

	case yaml.ScalarNode:
		return scalarFromYAML(node)

	case yaml.SequenceNode:
		arr := make(Array, 0, len(node.Content))
		for i, child := range node.Content {
			v, err := FromYAML(child)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr = append(arr, v)
		}
		return arr, nil

	case yaml.MappingNode:
		obj := make(Object, len(node.Content)/2)
		if err := mergeMapping(obj, node); err != nil {
			return nil, err
		}
		return obj, nil

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

func scalarFromYAML(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Int(n), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}

// mergeMapping copies the pairs of a mapping node into obj.
// Explicit keys win over keys pulled in through <<.
func mergeMapping(obj Object, node *yaml.Node) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if keyNode.ShortTag() == "!!merge" {
			merges = append(merges, valNode)
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		v, err := FromYAML(valNode)
		if err != nil {
			return fmt.Errorf("%s: %w", keyNode.Value, err)
		}
		obj[keyNode.Value] = v
	}

	for _, m := range merges {
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			merged, err := FromYAML(src)
			if err != nil {
				return err
			}
			mobj, ok := merged.(Object)
			if !ok {
				return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
			}
			for k, v := range mobj {
				if _, exists := obj[k]; !exists {
					obj[k] = v
				}
			}
		}
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Object.
func (obj *Object) UnmarshalYAML(node *yaml.Node) error {
	v, err := FromYAML(node)
	if err != nil {
		return err
	}
	switch val := v.(type) {
	case Object:
		*obj = val
	case Null:
		*obj = Object{}
	default:
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, KindOf(v))
	}
	return nil
}
