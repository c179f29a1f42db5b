// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confnode

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON implements json.Marshaler. Mapping keys keep their order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n *Node) error {
	switch n.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindMissing:
		b, _ := json.Marshal(MissingToken)
		buf.Write(b)
	case KindScalar:
		b, err := json.Marshal(n.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindMapping:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.fields[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, it); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	return nil
}
