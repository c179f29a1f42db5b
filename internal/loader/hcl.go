// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package loader

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/expconf/internal/confnode"
	"github.com/zclconf/go-cty/cty"
)

// packageAttr is the HCL spelling of the `@package` directive.
const packageAttr = "_package_"

// parseHCL reads an attributes-only HCL document. Attributes keep their
// source order; nested object keys are ordered by name, as cty stores them.
func parseHCL(src []byte, filename string) (*confnode.Node, string, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, "", diags
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, "", diags
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	var header string
	fields := make([]confnode.Field, 0, len(ordered))
	for _, attr := range ordered {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, "", diags
		}
		if attr.Name == packageAttr {
			if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
				return nil, "", fmt.Errorf("%s: %s must be a string", attr.Range.String(), packageAttr)
			}
			header = val.AsString()
			continue
		}
		n, err := ctyToNode(val)
		if err != nil {
			return nil, "", fmt.Errorf("%s: attribute %q: %w", attr.Range.String(), attr.Name, err)
		}
		fields = append(fields, confnode.Field{Key: attr.Name, Value: n})
	}
	return confnode.Mapping(fields...), header, nil
}

// ctyToNode converts an evaluated HCL value.
func ctyToNode(v cty.Value) (*confnode.Node, error) {
	if v.IsNull() {
		return confnode.Null(), nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return confnode.Scalar(v.AsString()), nil
	case ty == cty.Bool:
		return confnode.Scalar(v.True()), nil
	case ty == cty.Number:
		return numberToNode(v.AsBigFloat()), nil
	case ty.IsObjectType() || ty.IsMapType():
		keys := make([]string, 0, v.LengthInt())
		vals := make(map[string]cty.Value, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			keys = append(keys, k.AsString())
			vals[k.AsString()] = ev
		}
		sort.Strings(keys)
		fields := make([]confnode.Field, 0, len(keys))
		for _, k := range keys {
			child, err := ctyToNode(vals[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			fields = append(fields, confnode.Field{Key: k, Value: child})
		}
		return confnode.Mapping(fields...), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var items []*confnode.Node
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			child, err := ctyToNode(ev)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", len(items), err)
			}
			items = append(items, child)
		}
		return confnode.Sequence(items...), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

func numberToNode(bf *big.Float) *confnode.Node {
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return confnode.Scalar(i)
		}
	}
	f, _ := bf.Float64()
	return confnode.Scalar(f)
}
