// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/expconf/internal/config"
	"github.com/specialistvlad/expconf/internal/registry"
	"github.com/specialistvlad/expconf/internal/resolver"
	"github.com/xlab/treeprint"
	"gopkg.in/yaml.v3"
)

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	if format == FormatJSON {
		out, err := cfg.Root().MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Root()); err != nil {
		return err
	}
	return enc.Close()
}

// writeTree prints the documents of a composition as a tree. Documents
// dropped by a later override are marked.
func writeTree(w io.Writer, comp *resolver.Composition) error {
	tree := treeprint.NewWithRoot(treeLabel(comp.Root))
	addChildren(tree, comp.Root)
	_, err := io.WriteString(w, tree.String())
	return err
}

func addChildren(branch treeprint.Tree, n *resolver.TreeNode) {
	for _, c := range n.Children {
		if len(c.Children) == 0 {
			branch.AddNode(treeLabel(c))
			continue
		}
		addChildren(branch.AddBranch(treeLabel(c)), c)
	}
}

func treeLabel(n *resolver.TreeNode) string {
	var b strings.Builder
	if n.Directive != "" {
		b.WriteString(n.Directive)
	} else {
		b.WriteString(n.Ref)
	}
	if n.Source != "" {
		fmt.Fprintf(&b, " (%s)", n.Source)
	}
	if n.Overridden {
		b.WriteString(" [overridden]")
	}
	return b.String()
}

func writeGroups(w io.Writer, reg *registry.Registry) error {
	tree := treeprint.NewWithRoot("conf")
	for _, name := range reg.Roots() {
		tree.AddNode(name)
	}
	for _, g := range reg.Groups() {
		branch := tree.AddBranch(g + "/")
		for _, v := range reg.Variants(g) {
			branch.AddNode(v)
		}
	}
	_, err := io.WriteString(w, tree.String())
	return err
}
