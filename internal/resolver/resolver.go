// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/expconf/internal/config"
	"github.com/specialistvlad/expconf/internal/confnode"
	"github.com/specialistvlad/expconf/internal/ctxlog"
	"github.com/specialistvlad/expconf/internal/document"
	"github.com/specialistvlad/expconf/internal/registry"
)

// preferredEntryGroup wins when a bare entry-point name matches variants of
// several groups.
const preferredEntryGroup = "experiment"

// Resolver resolves entry points against one registry. It holds no
// per-call state and is safe for concurrent use.
type Resolver struct {
	reg *registry.Registry
	env confnode.EnvFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEnv sets the lookup used by `${oc.env:...}`. Defaults to os.LookupEnv.
func WithEnv(env confnode.EnvFunc) Option {
	return func(r *Resolver) { r.env = env }
}

// New creates a resolver over a populated, validated registry.
func New(reg *registry.Registry, opts ...Option) *Resolver {
	r := &Resolver{reg: reg, env: os.LookupEnv}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry the resolver reads from.
func (r *Resolver) Registry() *registry.Registry { return r.reg }

// Resolve produces the final configuration of an entry point. overrides are
// caller overrides in `key=value` form; see ParseOverride.
func (r *Resolver) Resolve(ctx context.Context, entry string, overrides ...string) (*config.Config, error) {
	ctx, logger := ctxlog.With(ctx, "entry", entry)
	logger.Debug("Resolution started.", "overrides", overrides)

	comp, err := r.Compose(ctx, entry, overrides...)
	if err != nil {
		return nil, err
	}

	merged := comp.Merge()
	for _, ov := range comp.Overrides {
		merged, err = ov.apply(merged)
		if err != nil {
			return nil, err
		}
		logger.Debug("Override applied.", "override", ov.Raw)
	}

	missing := confnode.MissingPaths(merged)
	groups := comp.MissingGroups()
	if len(missing) > 0 || len(groups) > 0 {
		paths := make([]string, len(missing))
		for i, p := range missing {
			paths[i] = p.String()
		}
		logger.Debug("Resolution found missing values.", "paths", paths, "groups", groups)
		return nil, &MissingFieldsError{Entry: comp.Entry, Paths: paths, Groups: groups}
	}

	final, err := confnode.Interpolate(merged, r.env)
	if err != nil {
		return nil, err
	}

	logger.Debug("Resolution complete.", "layers", len(comp.Layers))
	return config.New(comp.Entry, final, comp.Sources()), nil
}

// Compose expands the defaults of an entry point into layers without merging
// them. Group overrides among overrides are spliced into the entry
// document's defaults just before its own body.
func (r *Resolver) Compose(ctx context.Context, entry string, overrides ...string) (*Composition, error) {
	logger := ctxlog.FromContext(ctx)

	doc, err := r.lookupEntry(entry)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseOverrides(overrides)
	if err != nil {
		return nil, err
	}
	var (
		directives []document.Entry
		values     []Override
	)
	for _, ov := range parsed {
		e, isGroup, err := r.groupDirective(ov)
		if err != nil {
			return nil, err
		}
		if isGroup {
			directives = append(directives, e)
			continue
		}
		values = append(values, ov)
	}

	root := &TreeNode{Ref: doc.Ref(), Source: doc.Source}
	c := newComposer(ctx, r.reg)
	if err := c.expand(doc, nil, root, directives); err != nil {
		return nil, err
	}
	logger.Debug("Defaults expanded.", "document", doc.Ref(), "layers", len(c.layers))

	return &Composition{
		Entry:     doc.Ref(),
		Root:      root,
		Layers:    c.layers,
		Overrides: values,
	}, nil
}

// lookupEntry finds the entry document: a root document, a `group/name`
// reference, or a variant whose name is unique across groups.
func (r *Resolver) lookupEntry(name string) (*document.Document, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	for _, ext := range []string{".yaml", ".yml", ".hcl"} {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" {
		return nil, &UnknownEntryError{Name: name}
	}

	if strings.Contains(name, "/") {
		if d, ok := r.reg.Document(name); ok {
			return d, nil
		}
		group, base := splitRef(name)
		suggestion := r.reg.Suggest(group, base)
		if suggestion != "" {
			suggestion = group + "/" + suggestion
		}
		return nil, &UnknownEntryError{Name: name, Suggestion: suggestion}
	}

	if d, ok := r.reg.Root(name); ok {
		return d, nil
	}
	named := r.reg.Named(name)
	switch len(named) {
	case 0:
		return nil, &UnknownEntryError{Name: name, Suggestion: r.suggestEntry(name)}
	case 1:
		return named[0], nil
	}
	candidates := make([]string, len(named))
	for i, d := range named {
		if d.Group == preferredEntryGroup {
			return d, nil
		}
		candidates[i] = d.Ref()
	}
	return nil, &UnknownEntryError{Name: name, Candidates: candidates}
}

func (r *Resolver) suggestEntry(name string) string {
	if s := r.reg.Suggest("", name); s != "" {
		return s
	}
	if s := r.reg.Suggest(preferredEntryGroup, name); s != "" {
		return fmt.Sprintf("%s/%s", preferredEntryGroup, s)
	}
	return ""
}
