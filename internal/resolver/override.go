// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/expconf/internal/confnode"
	"github.com/specialistvlad/expconf/internal/confpath"
	"github.com/specialistvlad/expconf/internal/document"
)

// OverrideKind is the form of a caller override.
type OverrideKind int

const (
	// OverrideSet (`key=value`) replaces a value that already exists.
	OverrideSet OverrideKind = iota
	// OverrideAdd (`+key=value`) adds a key that does not exist yet.
	OverrideAdd
	// OverrideUpsert (`++key=value`) sets a key whether or not it exists.
	OverrideUpsert
	// OverrideDelete (`~key`) removes a key.
	OverrideDelete
)

// Override is one parsed caller override.
type Override struct {
	Kind OverrideKind
	// Key is the key as written, without prefix.
	Key string
	// Path is Key as a config path. It is nil for keys that can only name a
	// group, such as `model/kwargs`.
	Path confpath.Path
	// Value is nil for deletions.
	Value *confnode.Node
	Raw   string
}

// ParseOverride parses one `key=value`, `+key=value`, `++key=value` or
// `~key` argument.
func ParseOverride(raw string) (Override, error) {
	s := strings.TrimSpace(raw)
	ov := Override{Raw: raw}

	switch {
	case strings.HasPrefix(s, "~"):
		ov.Kind = OverrideDelete
		s = s[1:]
	case strings.HasPrefix(s, "++"):
		ov.Kind = OverrideUpsert
		s = s[2:]
	case strings.HasPrefix(s, "+"):
		ov.Kind = OverrideAdd
		s = s[1:]
	}

	key, value, hasValue := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return Override{}, &OverrideError{Override: raw, Err: errors.New("missing key")}
	}
	if !hasValue && ov.Kind != OverrideDelete {
		return Override{}, &OverrideError{Override: raw, Err: errors.New("expected key=value")}
	}
	ov.Key = key

	if !strings.Contains(key, "/") {
		p, err := confpath.Parse(key)
		if err != nil {
			return Override{}, &OverrideError{Override: raw, Err: err}
		}
		ov.Path = p
	}

	if ov.Kind != OverrideDelete {
		ov.Value = parseValue(value)
	}
	return ov, nil
}

// ParseOverrides parses every argument and reports all malformed ones.
func ParseOverrides(args []string) ([]Override, error) {
	var (
		out  []Override
		errs *multierror.Error
	)
	for _, a := range args {
		ov, err := ParseOverride(a)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		out = append(out, ov)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseValue reads an override value as YAML so that numbers, booleans,
// null, `???`, flow lists and flow mappings keep their type. Anything YAML
// rejects is taken as a plain string.
func parseValue(s string) *confnode.Node {
	if strings.TrimSpace(s) == "" {
		return confnode.Scalar(s)
	}
	n, err := confnode.ParseYAML([]byte(s))
	if err != nil {
		return confnode.Scalar(s)
	}
	return n
}

// groupDirective turns an override naming a group into an `override`
// defaults entry. It returns false for value overrides.
func (r *Resolver) groupDirective(ov Override) (document.Entry, bool, error) {
	group := strings.TrimPrefix(ov.Key, "/")
	if !r.reg.HasGroup(group) {
		if ov.Path == nil {
			return document.Entry{}, false, &UnknownGroupError{
				Directive:  ov.Raw,
				Group:      group,
				Suggestion: r.reg.SuggestGroup(group),
			}
		}
		return document.Entry{}, false, nil
	}

	var choice string
	switch {
	case ov.Kind == OverrideDelete || ov.Value.IsNull():
		choice = "null"
	case ov.Value.IsScalar():
		choice = ov.Value.String()
	default:
		return document.Entry{}, false, &OverrideError{Override: ov.Raw, Err: fmt.Errorf("group %q takes a variant name", group)}
	}

	e, err := document.ParseDirective(fmt.Sprintf("override /%s: %s", group, choice))
	if err != nil {
		return document.Entry{}, false, &OverrideError{Override: ov.Raw, Err: err}
	}
	e.Raw = ov.Raw
	return e, true, nil
}

// apply applies a value override to the merged tree.
func (ov Override) apply(root *confnode.Node) (*confnode.Node, error) {
	if ov.Path == nil {
		return nil, &OverrideError{Override: ov.Raw, Err: fmt.Errorf("%q is not a config key", ov.Key)}
	}

	_, exists := root.Lookup(ov.Path)
	var (
		out *confnode.Node
		err error
	)
	switch ov.Kind {
	case OverrideSet:
		if !exists {
			return nil, &OverrideError{Override: ov.Raw, Err: fmt.Errorf("key %q is not in the config, use +%s=... to add it", ov.Key, ov.Key)}
		}
		out, err = root.With(ov.Path, ov.Value, false)
	case OverrideAdd:
		if exists {
			return nil, &OverrideError{Override: ov.Raw, Err: fmt.Errorf("key %q is already set, use ++%s=... to replace it", ov.Key, ov.Key)}
		}
		out, err = root.With(ov.Path, ov.Value, true)
	case OverrideUpsert:
		out, err = root.With(ov.Path, ov.Value, true)
	case OverrideDelete:
		out, err = root.Without(ov.Path)
	}
	if err != nil {
		return nil, &OverrideError{Override: ov.Raw, Err: err}
	}
	return out, nil
}
