// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confnode

// Merge overlays over onto base and returns the result. Mappings merge key
// by key, recursively; every other kind in over replaces what base holds at
// the same position. Keys that only exist in base keep their position and
// new keys from over are appended in over's order.
//
// Neither input is modified. A sentinel in over replaces a concrete value in
// base, which is how a layer re-marks a field as required.
func Merge(base, over *Node) *Node {
	if over == nil {
		return base
	}
	if base.Kind() != KindMapping || over.Kind() != KindMapping {
		return over
	}

	out := base.shallowCopy()
	for _, k := range over.keys {
		ov := over.fields[k]
		if bv, ok := out.fields[k]; ok {
			out.fields[k] = Merge(bv, ov)
			continue
		}
		out.keys = append(out.keys, k)
		out.fields[k] = ov
	}
	return out
}

// MergeAll merges every layer onto an empty mapping, left to right.
func MergeAll(layers ...*Node) *Node {
	acc := Mapping()
	for _, l := range layers {
		acc = Merge(acc, l)
	}
	return acc
}
