// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confnode

import (
	"fmt"
	"math"
	"slices"
)

// Kind enumerates the node variants.
type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindMapping
	KindSequence
	KindMissing
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindMissing:
		return "missing"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MissingToken is the source spelling of the required-value sentinel.
const MissingToken = "???"

// Node is one value in a configuration tree.
type Node struct {
	kind   Kind
	scalar any
	keys   []string
	fields map[string]*Node
	items  []*Node
}

// Field is a key/value pair used to build mappings.
type Field struct {
	Key   string
	Value *Node
}

var (
	nullNode    = &Node{kind: KindNull}
	missingNode = &Node{kind: KindMissing}
)

// Null returns the null node.
func Null() *Node { return nullNode }

// Missing returns the required-value sentinel.
func Missing() *Node { return missingNode }

// Scalar wraps a Go scalar. Integer types are stored as int64 and floating
// point types as float64. The string "???" yields the Missing sentinel.
func Scalar(v any) *Node {
	switch t := v.(type) {
	case nil:
		return nullNode
	case string:
		if t == MissingToken {
			return missingNode
		}
		return &Node{kind: KindScalar, scalar: t}
	case bool:
		return &Node{kind: KindScalar, scalar: t}
	case int:
		return &Node{kind: KindScalar, scalar: int64(t)}
	case int8:
		return &Node{kind: KindScalar, scalar: int64(t)}
	case int16:
		return &Node{kind: KindScalar, scalar: int64(t)}
	case int32:
		return &Node{kind: KindScalar, scalar: int64(t)}
	case int64:
		return &Node{kind: KindScalar, scalar: t}
	case uint:
		return &Node{kind: KindScalar, scalar: int64(t)}
	case uint8:
		return &Node{kind: KindScalar, scalar: int64(t)}
	case uint16:
		return &Node{kind: KindScalar, scalar: int64(t)}
	case uint32:
		return &Node{kind: KindScalar, scalar: int64(t)}
	case uint64:
		if t > math.MaxInt64 {
			return &Node{kind: KindScalar, scalar: float64(t)}
		}
		return &Node{kind: KindScalar, scalar: int64(t)}
	case float32:
		return &Node{kind: KindScalar, scalar: float64(t)}
	case float64:
		return &Node{kind: KindScalar, scalar: t}
	default:
		panic(fmt.Sprintf("confnode: unsupported scalar type %T", v))
	}
}

// Mapping builds a mapping node. A repeated key keeps its first position and
// its last value.
func Mapping(fields ...Field) *Node {
	n := &Node{kind: KindMapping, fields: make(map[string]*Node, len(fields))}
	for _, f := range fields {
		n.set(f.Key, f.Value)
	}
	return n
}

// Sequence builds a sequence node.
func Sequence(items ...*Node) *Node {
	out := make([]*Node, len(items))
	for i, it := range items {
		if it == nil {
			it = nullNode
		}
		out[i] = it
	}
	return &Node{kind: KindSequence, items: out}
}

// set is only used while a new mapping is under construction.
func (n *Node) set(key string, v *Node) {
	if v == nil {
		v = nullNode
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
}

// shallowCopy returns a mapping that can be modified without touching n.
func (n *Node) shallowCopy() *Node {
	out := &Node{
		kind:   KindMapping,
		keys:   slices.Clone(n.keys),
		fields: make(map[string]*Node, len(n.fields)+1),
	}
	for k, v := range n.fields {
		out.fields[k] = v
	}
	return out
}

// Kind reports the node variant. A nil node is treated as null.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

func (n *Node) IsNull() bool     { return n.Kind() == KindNull }
func (n *Node) IsMissing() bool  { return n.Kind() == KindMissing }
func (n *Node) IsMapping() bool  { return n.Kind() == KindMapping }
func (n *Node) IsSequence() bool { return n.Kind() == KindSequence }
func (n *Node) IsScalar() bool   { return n.Kind() == KindScalar }

// Value returns the scalar value, or nil for non-scalars.
func (n *Node) Value() any {
	if n.Kind() != KindScalar {
		return nil
	}
	return n.scalar
}

// Keys returns the mapping keys in source order.
func (n *Node) Keys() []string {
	if n.Kind() != KindMapping {
		return nil
	}
	return slices.Clone(n.keys)
}

// Field returns the value stored under key.
func (n *Node) Field(key string) (*Node, bool) {
	if n.Kind() != KindMapping {
		return nil, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Items returns the sequence elements.
func (n *Node) Items() []*Node {
	if n.Kind() != KindSequence {
		return nil
	}
	return slices.Clone(n.items)
}

// Len returns the number of mapping keys or sequence items.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindMapping:
		return len(n.keys)
	case KindSequence:
		return len(n.items)
	default:
		return 0
	}
}

// AsString returns the value of a string scalar.
func (n *Node) AsString() (string, bool) {
	s, ok := n.Value().(string)
	return s, ok
}

// AsInt returns the value of an integer scalar. Floats with an integral
// value are accepted.
func (n *Node) AsInt() (int64, bool) {
	switch v := n.Value().(type) {
	case int64:
		return v, true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), true
		}
	}
	return 0, false
}

// AsFloat returns the value of a numeric scalar.
func (n *Node) AsFloat() (float64, bool) {
	switch v := n.Value().(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// AsBool returns the value of a boolean scalar.
func (n *Node) AsBool() (bool, bool) {
	b, ok := n.Value().(bool)
	return b, ok
}

// String renders a short human readable form, used in logs and errors.
func (n *Node) String() string {
	switch n.Kind() {
	case KindNull:
		return "null"
	case KindMissing:
		return MissingToken
	case KindScalar:
		return fmt.Sprint(n.scalar)
	case KindMapping:
		return fmt.Sprintf("{%d keys}", len(n.keys))
	default:
		return fmt.Sprintf("[%d items]", len(n.items))
	}
}

// Equal reports structural equality. Mapping key order is ignored.
func Equal(a, b *Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull, KindMissing:
		return true
	case KindScalar:
		return a.scalar == b.scalar
	case KindMapping:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for k, av := range a.fields {
			bv, ok := b.fields[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	}
}
