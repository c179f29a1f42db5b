// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/specialistvlad/expconf/internal/confnode"
	"github.com/specialistvlad/expconf/internal/confpath"
)

// DefaultsKey is the reserved top-level key holding the defaults list.
const DefaultsKey = "defaults"

const (
	packageGlobal = "_global_"
	packageGroup  = "_group_"
)

// Document is one parsed configuration document.
type Document struct {
	// Name is the file name without extension.
	Name string
	// Group is the directory relative to the conf root, "" for root documents.
	Group string
	// Package is the dotted key path the body lands under, "" for the root.
	Package string
	// Defaults is the ordered composition list.
	Defaults []Entry
	// Body holds the document's own keys, `defaults` excluded.
	Body *confnode.Node
	// Source is the file the document was read from.
	Source string
}

// Ref returns the document's reference within the conf tree, e.g.
// `model/gpt2_5M` or `config`.
func (d *Document) Ref() string {
	if d.Group == "" {
		return d.Name
	}
	return d.Group + "/" + d.Name
}

// HasSelf reports whether the defaults list places `_self_` explicitly.
func (d *Document) HasSelf() bool {
	for _, e := range d.Defaults {
		if e.Kind == EntrySelf {
			return true
		}
	}
	return false
}

// PackagePath returns Package as a confpath.Path.
func (d *Document) PackagePath() confpath.Path {
	p, err := confpath.FromPackage(d.Package)
	if err != nil {
		// New validates the package, so this only happens for hand-built values.
		panic(fmt.Sprintf("document %s: %v", d.Ref(), err))
	}
	return p
}

// New builds a Document out of a parsed tree. header is the value of an
// `@package` directive, empty when the document has none.
func New(name, group, source, header string, root *confnode.Node) (*Document, error) {
	if root == nil || root.IsNull() {
		root = confnode.Mapping()
	}
	if !root.IsMapping() {
		return nil, fmt.Errorf("%s: top level must be a mapping, got %s", source, root.Kind())
	}

	doc := &Document{
		Name:    name,
		Group:   group,
		Package: ResolvePackage(header, group),
		Source:  source,
	}
	if _, err := confpath.FromPackage(doc.Package); err != nil {
		return nil, fmt.Errorf("%s: invalid package %q: %w", source, header, err)
	}

	body := root
	if defaults, ok := root.Field(DefaultsKey); ok {
		entries, err := ParseDefaults(defaults)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		doc.Defaults = entries
		body, err = root.Without(confpath.Keys(DefaultsKey))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
	}
	doc.Body = body
	return doc, nil
}

// ResolvePackage computes the package of a document from its `@package`
// header and its group.
func ResolvePackage(header, group string) string {
	groupPkg := strings.ReplaceAll(group, "/", ".")
	switch {
	case header == "":
		return groupPkg
	case header == packageGlobal:
		return ""
	case header == packageGroup:
		return groupPkg
	case strings.HasPrefix(header, packageGlobal+"."):
		return strings.TrimPrefix(header, packageGlobal+".")
	case strings.HasPrefix(header, packageGroup+"."):
		rest := strings.TrimPrefix(header, packageGroup+".")
		if groupPkg == "" {
			return rest
		}
		return groupPkg + "." + rest
	default:
		return header
	}
}

// PackageHeader scans the leading comment block of a YAML document for a
// `# @package <name>` directive.
func PackageHeader(src []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			return ""
		}
		comment := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if rest, ok := strings.CutPrefix(comment, "@package"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
