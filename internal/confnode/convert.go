// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confnode

import (
	"fmt"
	"reflect"
	"sort"
)

// ToAny converts n into plain Go values: map[string]any, []any, scalars and
// nil. The sentinel is rendered as the string "???".
func ToAny(n *Node) any {
	switch n.Kind() {
	case KindNull:
		return nil
	case KindMissing:
		return MissingToken
	case KindScalar:
		return n.scalar
	case KindMapping:
		out := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			out[k] = ToAny(n.fields[k])
		}
		return out
	default:
		out := make([]any, len(n.items))
		for i, it := range n.items {
			out[i] = ToAny(it)
		}
		return out
	}
}

// FromAny builds a tree out of plain Go values. Map keys are sorted since Go
// maps carry no order.
func FromAny(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return nullNode, nil
	case *Node:
		return t, nil
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Scalar(t), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			child, err := FromAny(t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			fields = append(fields, Field{Key: k, Value: child})
		}
		return Mapping(fields...), nil
	case []any:
		items := make([]*Node, len(t))
		for i, it := range t {
			child, err := FromAny(it)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = child
		}
		return Sequence(items...), nil
	}

	// Typed maps and slices, e.g. map[string]int or []string.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return FromAny(m)
	case reflect.Slice, reflect.Array:
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = rv.Index(i).Interface()
		}
		return FromAny(s)
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}
