// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confnode

import (
	"fmt"

	"github.com/specialistvlad/expconf/internal/confpath"
)

// Lookup returns the node at p.
func (n *Node) Lookup(p confpath.Path) (*Node, bool) {
	cur := n
	for _, step := range p {
		if step.IsIndex {
			if cur.Kind() != KindSequence || step.Index < 0 || step.Index >= len(cur.items) {
				return nil, false
			}
			cur = cur.items[step.Index]
			continue
		}
		next, ok := cur.Field(step.Key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Nest wraps v in mappings so that it sits at p. Index steps are not
// allowed.
func Nest(p confpath.Path, v *Node) (*Node, error) {
	out := v
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].IsIndex {
			return nil, fmt.Errorf("cannot nest under index step in %q", p.String())
		}
		out = Mapping(Field{Key: p[i].Key, Value: out})
	}
	return out, nil
}

// With returns a copy of n with v stored at p. Missing intermediate mappings
// are created; sequence indexes must already exist. When create is false the
// final key must already exist.
func (n *Node) With(p confpath.Path, v *Node, create bool) (*Node, error) {
	if len(p) == 0 {
		return v, nil
	}
	return with(n, p, 0, v, create)
}

func with(cur *Node, p confpath.Path, depth int, v *Node, create bool) (*Node, error) {
	step := p[depth]
	last := depth == len(p)-1

	if step.IsIndex {
		if cur.Kind() != KindSequence {
			return nil, fmt.Errorf("%q: %s is not a sequence", p.String(), p[:depth].String())
		}
		if step.Index < 0 || step.Index >= len(cur.items) {
			return nil, fmt.Errorf("%q: index %d out of range", p.String(), step.Index)
		}
		items := make([]*Node, len(cur.items))
		copy(items, cur.items)
		if last {
			items[step.Index] = v
		} else {
			child, err := with(items[step.Index], p, depth+1, v, create)
			if err != nil {
				return nil, err
			}
			items[step.Index] = child
		}
		return &Node{kind: KindSequence, items: items}, nil
	}

	var out *Node
	switch cur.Kind() {
	case KindMapping:
		out = cur.shallowCopy()
	case KindNull, KindMissing:
		if !create {
			return nil, fmt.Errorf("%q: key %q does not exist", p.String(), step.Key)
		}
		out = Mapping()
	default:
		return nil, fmt.Errorf("%q: %s is a %s, not a mapping", p.String(), p[:depth].String(), cur.Kind())
	}

	existing, exists := out.fields[step.Key]
	if last {
		if !exists && !create {
			return nil, fmt.Errorf("%q: key %q does not exist", p.String(), step.Key)
		}
		out.set(step.Key, v)
		return out, nil
	}
	if !exists {
		if !create {
			return nil, fmt.Errorf("%q: key %q does not exist", p.String(), step.Key)
		}
		existing = nullNode
	}
	child, err := with(existing, p, depth+1, v, create)
	if err != nil {
		return nil, err
	}
	out.set(step.Key, child)
	return out, nil
}

// Without returns a copy of n with the value at p removed. Removing the root
// or a sequence element is not supported.
func (n *Node) Without(p confpath.Path) (*Node, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("cannot delete the root")
	}
	last := p[len(p)-1]
	if last.IsIndex {
		return nil, fmt.Errorf("%q: deleting sequence elements is not supported", p.String())
	}
	parent, ok := n.Lookup(p[:len(p)-1])
	if !ok || parent.Kind() != KindMapping {
		return nil, fmt.Errorf("%q: key does not exist", p.String())
	}
	if _, ok := parent.fields[last.Key]; !ok {
		return nil, fmt.Errorf("%q: key does not exist", p.String())
	}

	pruned := &Node{kind: KindMapping, fields: make(map[string]*Node, len(parent.fields))}
	for _, k := range parent.keys {
		if k != last.Key {
			pruned.set(k, parent.fields[k])
		}
	}
	if len(p) == 1 {
		return pruned, nil
	}
	return n.With(p[:len(p)-1], pruned, false)
}
