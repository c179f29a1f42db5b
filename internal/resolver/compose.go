// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolver

import (
	"context"
	"log/slog"
	"slices"

	"github.com/specialistvlad/expconf/internal/confnode"
	"github.com/specialistvlad/expconf/internal/confpath"
	"github.com/specialistvlad/expconf/internal/ctxlog"
	"github.com/specialistvlad/expconf/internal/document"
	"github.com/specialistvlad/expconf/internal/registry"
)

// Layer is one document body, or a required-group placeholder, in merge
// order.
type Layer struct {
	Ref     string
	Source  string
	Package confpath.Path
	// Groups is the chain of group selections that pulled the layer in,
	// outermost first. Empty for layers of the entry document and its bases.
	Groups []string
	Body   *confnode.Node
	// Required names the group of a `group: ???` placeholder.
	Required string

	node *TreeNode
}

// IsPlaceholder reports a `group: ???` layer that carries no body.
func (l Layer) IsPlaceholder() bool { return l.Required != "" }

func (l Layer) selectedBy(group string) bool {
	return slices.Contains(l.Groups, group)
}

// TreeNode is one document of the composition, with the defaults entries it
// expanded as children.
type TreeNode struct {
	// Directive is the defaults entry as written, empty for the entry point.
	Directive string
	// Ref is the document reference, empty for null selections and
	// placeholders.
	Ref    string
	Source string
	// Overridden is set when a later override dropped this document.
	Overridden bool
	Children   []*TreeNode
}

func (n *TreeNode) add(directive string, doc *document.Document) *TreeNode {
	child := &TreeNode{Directive: directive}
	if doc != nil {
		child.Ref, child.Source = doc.Ref(), doc.Source
	}
	n.Children = append(n.Children, child)
	return child
}

func (n *TreeNode) markOverridden() {
	n.Overridden = true
	for _, c := range n.Children {
		c.markOverridden()
	}
}

// Composition is the outcome of expanding an entry point's defaults.
type Composition struct {
	Entry  string
	Root   *TreeNode
	Layers []Layer
	// Overrides are the caller value overrides, applied after the merge.
	Overrides []Override
}

// Sources returns the source file of every body layer in merge order.
func (c *Composition) Sources() []string {
	var out []string
	for _, l := range c.Layers {
		if !l.IsPlaceholder() {
			out = append(out, l.Source)
		}
	}
	return out
}

// Merge deep-merges the body layers at their packages.
func (c *Composition) Merge() *confnode.Node {
	merged := confnode.Mapping()
	for _, l := range c.Layers {
		if l.IsPlaceholder() {
			continue
		}
		nested, err := confnode.Nest(l.Package, l.Body)
		if err != nil {
			// Packages are parsed from dotted keys and never carry indexes.
			panic(err)
		}
		merged = confnode.Merge(merged, nested)
	}
	return merged
}

// MissingGroups returns the groups of placeholders left in the layers.
func (c *Composition) MissingGroups() []string {
	var out []string
	for _, l := range c.Layers {
		if l.IsPlaceholder() && !slices.Contains(out, l.Required) {
			out = append(out, l.Required)
		}
	}
	return out
}

type composer struct {
	reg    *registry.Registry
	logger *slog.Logger
	layers []Layer
	stack  []string
}

func newComposer(ctx context.Context, reg *registry.Registry) *composer {
	return &composer{reg: reg, logger: ctxlog.FromContext(ctx)}
}

// expand appends the layers of doc. extra entries are spliced in just
// before the document's own body.
func (c *composer) expand(doc *document.Document, groups []string, node *TreeNode, extra []document.Entry) error {
	ref := doc.Ref()
	if i := slices.Index(c.stack, ref); i >= 0 {
		cycle := append(slices.Clone(c.stack[i:]), ref)
		return &CycleError{Cycle: cycle}
	}
	c.stack = append(c.stack, ref)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()

	entries := spliceBeforeSelf(doc.Defaults, extra)
	selfPlaced := false
	for _, e := range entries {
		if e.Kind == document.EntrySelf {
			c.appendBody(doc, groups, node)
			selfPlaced = true
			continue
		}
		if err := c.entry(doc, e, groups, node); err != nil {
			return err
		}
	}
	if !selfPlaced {
		c.appendBody(doc, groups, node)
	}
	return nil
}

func spliceBeforeSelf(entries, extra []document.Entry) []document.Entry {
	if len(extra) == 0 {
		return entries
	}
	at := len(entries)
	for i, e := range entries {
		if e.Kind == document.EntrySelf {
			at = i
			break
		}
	}
	out := make([]document.Entry, 0, len(entries)+len(extra))
	out = append(out, entries[:at]...)
	out = append(out, extra...)
	return append(out, entries[at:]...)
}

func (c *composer) appendBody(doc *document.Document, groups []string, node *TreeNode) {
	c.logger.Debug("Layer appended.", "ref", doc.Ref(), "package", doc.Package, "position", len(c.layers))
	c.layers = append(c.layers, Layer{
		Ref:     doc.Ref(),
		Source:  doc.Source,
		Package: doc.PackagePath(),
		Groups:  groups,
		Body:    doc.Body,
		node:    node,
	})
}

func (c *composer) entry(parent *document.Document, e document.Entry, groups []string, node *TreeNode) error {
	c.logger.Debug("Expanding defaults entry.", "document", parent.Ref(), "entry", e.Raw, "kind", e.Kind.String())

	if e.Kind == document.EntryBase {
		ref := e.TargetRef(parent.Group)
		target, ok := c.reg.Document(ref)
		if !ok {
			group, name := splitRef(ref)
			return &UnknownVariantError{Directive: e.Raw, Group: group, Name: name, Suggestion: c.reg.Suggest(group, name)}
		}
		return c.expand(target, groups, node.add(e.Raw, target), nil)
	}

	group := e.TargetGroup(parent.Group)
	switch e.Kind {
	case document.EntryOverride:
		c.drop(group)
	case document.EntryGroup:
		if c.selected(group) {
			return &DuplicateSelectionError{Directive: e.Raw, Group: group}
		}
		c.dropPlaceholder(group)
	}

	if e.IsNull() {
		node.add(e.Raw, nil)
		return nil
	}

	chain := append(slices.Clone(groups), group)
	if e.Required {
		child := node.add(e.Raw, nil)
		c.layers = append(c.layers, Layer{Ref: group, Groups: chain, Required: group, node: child})
		return nil
	}

	if !c.reg.HasGroup(group) {
		if e.Optional {
			return nil
		}
		return &UnknownGroupError{Directive: e.Raw, Group: group, Suggestion: c.reg.SuggestGroup(group)}
	}
	target, ok := c.reg.Variant(group, e.Name)
	if !ok {
		if e.Optional {
			return nil
		}
		return &UnknownVariantError{Directive: e.Raw, Group: group, Name: e.Name, Suggestion: c.reg.Suggest(group, e.Name)}
	}
	return c.expand(target, chain, node.add(e.Raw, target), nil)
}

// selected reports whether a non-placeholder layer of group is present.
func (c *composer) selected(group string) bool {
	for _, l := range c.layers {
		if !l.IsPlaceholder() && l.selectedBy(group) {
			return true
		}
	}
	return false
}

// drop removes every layer pulled in by a selection of group.
func (c *composer) drop(group string) {
	kept := c.layers[:0]
	dropped := 0
	for _, l := range c.layers {
		if l.selectedBy(group) {
			if l.node != nil {
				l.node.markOverridden()
			}
			dropped++
			continue
		}
		kept = append(kept, l)
	}
	c.layers = kept
	if dropped > 0 {
		c.logger.Debug("Override dropped earlier layers.", "group", group, "dropped", dropped)
	}
}

func (c *composer) dropPlaceholder(group string) {
	c.layers = slices.DeleteFunc(c.layers, func(l Layer) bool {
		return l.IsPlaceholder() && l.Required == group
	})
}

func splitRef(ref string) (group, name string) {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == '/' {
			return ref[:i], ref[i+1:]
		}
	}
	return "", ref
}
