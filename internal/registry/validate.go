// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/expconf/internal/ctxlog"
	"github.com/specialistvlad/expconf/internal/document"
)

// Validate reports every reference defined by more than one file (e.g.
// `.yaml` and `.hcl`) in a single error. Such a tree is ambiguous for every
// entry point, so callers treat it as fatal.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs *multierror.Error

	for _, ref := range r.sortedRefs() {
		docs := r.all[ref]
		if len(docs) > 1 {
			sources := make([]string, 0, len(docs))
			for _, d := range docs {
				sources = append(sources, d.Source)
			}
			errs = multierror.Append(errs, fmt.Errorf("document %q is defined more than once: %s", ref, strings.Join(sources, ", ")))
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	logger.Debug("Registry validation passed.", "roots", len(r.roots), "groups", len(r.groups))
	return nil
}

// CheckReferences reports defaults entries that cannot resolve: unknown
// groups, and non-optional entries naming a variant or base document that
// does not exist. A broken document only fails the resolutions that reach
// it, so the result is advisory.
func (r *Registry) CheckReferences(ctx context.Context) []error {
	var problems []error
	for _, ref := range r.sortedRefs() {
		d := r.all[ref][0]
		for _, e := range d.Defaults {
			if err := r.checkEntry(d, e); err != nil {
				problems = append(problems, err)
			}
		}
	}
	ctxlog.FromContext(ctx).Debug("Registry references checked.", "problems", len(problems))
	return problems
}

func (r *Registry) sortedRefs() []string {
	refs := make([]string, 0, len(r.all))
	for ref := range r.all {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

func (r *Registry) checkEntry(d *document.Document, e document.Entry) error {
	switch e.Kind {
	case document.EntryBase:
		ref := e.TargetRef(d.Group)
		if _, ok := r.Document(ref); !ok {
			return fmt.Errorf("%s: defaults entry %q: no document %q%s", d.Source, e.Raw, ref, r.hint(ref))
		}
	case document.EntryGroup, document.EntryOverride:
		group := e.TargetGroup(d.Group)
		if !r.HasGroup(group) {
			if e.Optional {
				return nil
			}
			msg := fmt.Sprintf("%s: defaults entry %q: unknown group %q", d.Source, e.Raw, group)
			if s := r.SuggestGroup(group); s != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", s)
			}
			return fmt.Errorf("%s", msg)
		}
		if e.IsNull() || e.Required || e.Optional {
			return nil
		}
		if _, ok := r.Variant(group, e.Name); !ok {
			msg := fmt.Sprintf("%s: defaults entry %q: group %q has no variant %q", d.Source, e.Raw, group, e.Name)
			if s := r.Suggest(group, e.Name); s != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", s)
			}
			return fmt.Errorf("%s", msg)
		}
	}
	return nil
}

func (r *Registry) hint(ref string) string {
	group, name := "", ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		group, name = ref[:i], ref[i+1:]
	}
	if s := r.Suggest(group, name); s != "" {
		if group != "" {
			s = group + "/" + s
		}
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}
