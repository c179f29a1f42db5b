// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confnode

import "github.com/specialistvlad/expconf/internal/confpath"

// WalkFunc is called for every node in depth-first, source order.
type WalkFunc func(p confpath.Path, n *Node) error

// Walk visits n and all of its descendants.
func Walk(n *Node, fn WalkFunc) error {
	return walk(confpath.Root, n, fn)
}

func walk(p confpath.Path, n *Node, fn WalkFunc) error {
	if err := fn(p, n); err != nil {
		return err
	}
	switch n.Kind() {
	case KindMapping:
		for _, k := range n.keys {
			if err := walk(p.Child(k), n.fields[k], fn); err != nil {
				return err
			}
		}
	case KindSequence:
		for i, it := range n.items {
			if err := walk(p.Elem(i), it, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// MissingPaths returns the path of every sentinel left in n, in source order.
func MissingPaths(n *Node) []confpath.Path {
	var out []confpath.Path
	_ = Walk(n, func(p confpath.Path, v *Node) error {
		if v.IsMissing() {
			out = append(out, p)
		}
		return nil
	})
	return out
}
