// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/specialistvlad/expconf/internal/document"
)

// suggestionDistance is the largest edit distance still offered as a
// "did you mean" suggestion.
const suggestionDistance = 3

// Registry holds the documents of one conf tree.
type Registry struct {
	roots  map[string]*document.Document
	groups map[string]map[string]*document.Document
	// all keeps every document per reference, duplicates included, so that
	// Validate can report them.
	all map[string][]*document.Document
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		roots:  make(map[string]*document.Document),
		groups: make(map[string]map[string]*document.Document),
		all:    make(map[string][]*document.Document),
	}
}

// Populate adds documents to the registry. When a reference is defined more
// than once the first document wins; Validate reports the duplicate.
func (r *Registry) Populate(docs []*document.Document) {
	for _, d := range docs {
		ref := d.Ref()
		r.all[ref] = append(r.all[ref], d)
		if len(r.all[ref]) > 1 {
			continue
		}
		if d.Group == "" {
			r.roots[d.Name] = d
			continue
		}
		variants, ok := r.groups[d.Group]
		if !ok {
			variants = make(map[string]*document.Document)
			r.groups[d.Group] = variants
		}
		variants[d.Name] = d
	}
}

// Root returns the root document with the given name.
func (r *Registry) Root(name string) (*document.Document, bool) {
	d, ok := r.roots[name]
	return d, ok
}

// Variant returns a variant of a group.
func (r *Registry) Variant(group, name string) (*document.Document, bool) {
	d, ok := r.groups[group][name]
	return d, ok
}

// Document returns the document with a full reference such as `config` or
// `model/gpt2_5M`. A leading slash is ignored.
func (r *Registry) Document(ref string) (*document.Document, bool) {
	ref = strings.TrimPrefix(ref, "/")
	group, name := "", ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		group, name = ref[:i], ref[i+1:]
	}
	if group == "" {
		return r.Root(name)
	}
	return r.Variant(group, name)
}

// HasGroup reports whether at least one variant of group exists.
func (r *Registry) HasGroup(group string) bool {
	_, ok := r.groups[group]
	return ok
}

// Groups returns all group names, sorted.
func (r *Registry) Groups() []string {
	out := make([]string, 0, len(r.groups))
	for g := range r.groups {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Variants returns the variant names of a group, sorted.
func (r *Registry) Variants(group string) []string {
	variants := r.groups[group]
	out := make([]string, 0, len(variants))
	for name := range variants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Roots returns the names of the root documents, sorted.
func (r *Registry) Roots() []string {
	out := make([]string, 0, len(r.roots))
	for name := range r.roots {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Named returns every variant called name across all groups, ordered by group.
func (r *Registry) Named(name string) []*document.Document {
	var out []*document.Document
	for _, g := range r.Groups() {
		if d, ok := r.groups[g][name]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Suggest returns the closest known variant of group to name, or "" when
// nothing is close. An empty group suggests among root documents.
func (r *Registry) Suggest(group, name string) string {
	candidates := r.Roots()
	if group != "" {
		candidates = r.Variants(group)
	}
	return closest(name, candidates)
}

// SuggestGroup returns the closest known group to name, or "".
func (r *Registry) SuggestGroup(name string) string {
	return closest(name, r.Groups())
}

func closest(given string, candidates []string) string {
	best, bestDist := "", suggestionDistance
	for _, c := range candidates {
		if d := levenshtein.Distance(given, c, nil); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
