// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confpath

import (
	"slices"
	"strconv"
	"strings"
)

// Step is one component of a Path: either a mapping key or a sequence index.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeyStep returns a step that selects a mapping key.
func KeyStep(key string) Step {
	return Step{Key: key, Index: -1}
}

// IndexStep returns a step that selects a sequence element.
func IndexStep(i int) Step {
	return Step{Index: i, IsIndex: true}
}

// Path addresses a value inside a configuration tree. The empty Path is the
// root.
type Path []Step

// Root is the empty path.
var Root = Path(nil)

// Keys builds a path out of plain mapping keys.
func Keys(keys ...string) Path {
	p := make(Path, 0, len(keys))
	for _, k := range keys {
		p = append(p, KeyStep(k))
	}
	return p
}

// Child returns a new path extended by a mapping key. The receiver is never
// modified.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, KeyStep(key))
}

// Elem returns a new path extended by a sequence index.
func (p Path) Elem(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, IndexStep(i))
}

// Join returns p followed by other.
func (p Path) Join(other Path) Path {
	out := make(Path, 0, len(p)+len(other))
	out = append(out, p...)
	return append(out, other...)
}

// IsRoot reports whether the path addresses the root of the tree.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Equal reports whether both paths address the same value.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// String renders the canonical dotted form, e.g. `a.b[0].c`.
func (p Path) String() string {
	var sb strings.Builder
	for i, s := range p {
		if s.IsIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(s.Index))
			sb.WriteByte(']')
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(s.Key)
	}
	return sb.String()
}
