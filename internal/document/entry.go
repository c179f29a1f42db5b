// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/specialistvlad/expconf/internal/confnode"
)

// EntryKind enumerates the defaults list entry forms.
type EntryKind int

const (
	// EntryBase pulls in another document by name.
	EntryBase EntryKind = iota
	// EntryGroup selects a variant of a group.
	EntryGroup
	// EntryOverride replaces any earlier selection of a group.
	EntryOverride
	// EntrySelf marks where the document's own keys are merged.
	EntrySelf
)

func (k EntryKind) String() string {
	switch k {
	case EntryBase:
		return "base"
	case EntryGroup:
		return "group"
	case EntryOverride:
		return "override"
	case EntrySelf:
		return "self"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// SelfKeyword is the defaults entry marking the document's own keys.
const SelfKeyword = "_self_"

var nameRegex = regexp.MustCompile(`^[A-Za-z0-9_.\-]+(/[A-Za-z0-9_.\-]+)*$`)

// Entry is one item of a defaults list.
type Entry struct {
	Kind EntryKind
	// Group is the group as written, without a leading slash. Empty for base
	// and self entries.
	Group string
	// Name is the document or variant name. Empty for a null selection.
	Name string
	// Absolute is set when the group or document name starts with "/".
	Absolute bool
	// Optional entries are skipped when the variant does not exist.
	Optional bool
	// Required is set for `group: ???`: a later layer must pick the variant.
	Required bool
	// Raw is the entry as written, for error messages.
	Raw string
}

func (e Entry) String() string { return e.Raw }

// IsNull reports a `group: null` selection, which selects nothing.
func (e Entry) IsNull() bool {
	return (e.Kind == EntryGroup || e.Kind == EntryOverride) && e.Name == "" && !e.Required
}

// TargetGroup returns the absolute group an entry refers to, given the group
// of the document that contains it.
func (e Entry) TargetGroup(parentGroup string) string {
	if e.Absolute || parentGroup == "" {
		return e.Group
	}
	return path.Join(parentGroup, e.Group)
}

// TargetRef returns the absolute document reference of a base entry.
func (e Entry) TargetRef(parentGroup string) string {
	if e.Absolute || parentGroup == "" {
		return e.Name
	}
	return path.Join(parentGroup, e.Name)
}

// ParseDefaults converts the value of a `defaults` key into entries.
func ParseDefaults(n *confnode.Node) ([]Entry, error) {
	if n == nil || n.IsNull() {
		return nil, nil
	}
	if !n.IsSequence() {
		return nil, fmt.Errorf("defaults must be a list, got %s", n.Kind())
	}

	var entries []Entry
	selfSeen := false
	for i, item := range n.Items() {
		e, err := parseEntry(item)
		if err != nil {
			return nil, fmt.Errorf("defaults[%d]: %w", i, err)
		}
		if e.Kind == EntrySelf {
			if selfSeen {
				return nil, fmt.Errorf("defaults[%d]: %s listed more than once", i, SelfKeyword)
			}
			selfSeen = true
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseEntry(item *confnode.Node) (Entry, error) {
	switch item.Kind() {
	case confnode.KindScalar:
		s, ok := item.AsString()
		if !ok {
			return Entry{}, fmt.Errorf("entry %v must be a string", item)
		}
		s = strings.TrimSpace(s)
		if s == SelfKeyword {
			return Entry{Kind: EntrySelf, Raw: s}, nil
		}
		name, abs := strings.CutPrefix(s, "/")
		if !nameRegex.MatchString(name) {
			return Entry{}, fmt.Errorf("invalid document name %q", s)
		}
		return Entry{Kind: EntryBase, Name: name, Absolute: abs, Raw: s}, nil

	case confnode.KindMapping:
		keys := item.Keys()
		if len(keys) != 1 {
			return Entry{}, fmt.Errorf("a group entry must have exactly one key, got %d", len(keys))
		}
		key := strings.TrimSpace(keys[0])
		value, _ := item.Field(keys[0])

		e := Entry{Kind: EntryGroup}
		if rest, ok := strings.CutPrefix(key, "override "); ok {
			e.Kind = EntryOverride
			key = strings.TrimSpace(rest)
		} else if rest, ok := strings.CutPrefix(key, "optional "); ok {
			e.Optional = true
			key = strings.TrimSpace(rest)
		}
		if strings.Contains(key, "@") {
			return Entry{}, fmt.Errorf("package overrides in %q are not supported", keys[0])
		}
		group, abs := strings.CutPrefix(key, "/")
		if !nameRegex.MatchString(group) {
			return Entry{}, fmt.Errorf("invalid group name %q", keys[0])
		}
		e.Group, e.Absolute = group, abs

		switch value.Kind() {
		case confnode.KindNull:
			e.Raw = fmt.Sprintf("%s: null", keys[0])
		case confnode.KindMissing:
			e.Required = true
			e.Raw = fmt.Sprintf("%s: %s", keys[0], confnode.MissingToken)
		case confnode.KindScalar:
			name := strings.TrimSpace(value.String())
			if !nameRegex.MatchString(name) {
				return Entry{}, fmt.Errorf("invalid variant name %q for group %q", name, group)
			}
			e.Name = name
			e.Raw = fmt.Sprintf("%s: %s", keys[0], name)
		default:
			return Entry{}, fmt.Errorf("group %q must select a single variant, got a %s", group, value.Kind())
		}
		return e, nil

	default:
		return Entry{}, fmt.Errorf("unsupported entry of kind %s", item.Kind())
	}
}

// ParseDirective parses one entry written inline, e.g. `override /model:
// gpt2_5M` or `/config`. Used by callers that assemble directives outside a
// document.
func ParseDirective(raw string) (Entry, error) {
	raw = strings.TrimSpace(raw)
	key, value, found := strings.Cut(raw, ":")
	if !found {
		return parseEntry(confnode.Scalar(raw))
	}
	value = strings.TrimSpace(value)
	var v *confnode.Node
	switch value {
	case "", "null", "~":
		v = confnode.Null()
	default:
		v = confnode.Scalar(value)
	}
	return parseEntry(confnode.Mapping(confnode.Field{Key: strings.TrimSpace(key), Value: v}))
}
