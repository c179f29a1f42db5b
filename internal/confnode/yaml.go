// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confnode

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML converts a parsed YAML node. Mapping order is preserved and the
// sentinel is recognised whether or not it is quoted.
func FromYAML(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return Mapping(), nil
		}
		return FromYAML(y.Content[0])
	case yaml.AliasNode:
		return FromYAML(y.Alias)
	case yaml.MappingNode:
		n := &Node{kind: KindMapping, fields: make(map[string]*Node, len(y.Content)/2)}
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			if k.Tag == "!!merge" {
				if err := mergeKey(n, v); err != nil {
					return nil, fmt.Errorf("line %d: %w", k.Line, err)
				}
				continue
			}
			child, err := FromYAML(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.Value, err)
			}
			n.set(k.Value, child)
		}
		return n, nil
	case yaml.SequenceNode:
		items := make([]*Node, 0, len(y.Content))
		for i, c := range y.Content {
			child, err := FromYAML(c)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, child)
		}
		return Sequence(items...), nil
	case yaml.ScalarNode:
		if y.Value == MissingToken {
			return missingNode, nil
		}
		var v any
		if err := y.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", y.Line, err)
		}
		switch v.(type) {
		case nil, string, bool, int, int64, uint64, float64:
			return Scalar(v), nil
		default:
			// Timestamps and binary data are kept as their source text.
			return Scalar(y.Value), nil
		}
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", y.Line, y.Kind)
	}
}

// mergeKey applies a `<<` value to n. The value is a mapping or a sequence
// of mappings; keys already in n win, then earlier mappings in the sequence.
func mergeKey(n *Node, v *yaml.Node) error {
	sources := []*yaml.Node{v}
	if v.Kind == yaml.SequenceNode {
		sources = v.Content
	}
	for _, src := range sources {
		merged, err := FromYAML(src)
		if err != nil {
			return err
		}
		if merged.Kind() != KindMapping {
			return fmt.Errorf("merge key expects a mapping or a list of mappings, got a %s", merged.Kind())
		}
		for _, mk := range merged.keys {
			if _, exists := n.fields[mk]; !exists {
				n.set(mk, merged.fields[mk])
			}
		}
	}
	return nil
}

// ParseYAML parses a YAML document into a tree. An empty document yields an
// empty mapping.
func ParseYAML(src []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return Mapping(), nil
	}
	return FromYAML(&doc)
}

// ToYAML converts n into a yaml.Node tree, keeping key order.
func ToYAML(n *Node) *yaml.Node {
	switch n.Kind() {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case KindMissing:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: MissingToken}
	case KindScalar:
		switch v := n.scalar.(type) {
		case string:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
		case bool:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
		case int64:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
		case float64:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(n.scalar)}
	case KindMapping:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range n.keys {
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				ToYAML(n.fields[k]),
			)
		}
		return y
	default:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range n.items {
			y.Content = append(y.Content, ToYAML(it))
		}
		return y
	}
}

// MarshalYAML implements yaml.Marshaler.
func (n *Node) MarshalYAML() (any, error) {
	return ToYAML(n), nil
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'n' || c == 'N' || c == 'I' {
			return s
		}
	}
	// Keep a decimal point so the value reads back as a float.
	return s + ".0"
}
