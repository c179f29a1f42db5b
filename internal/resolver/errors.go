// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolver

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/expconf/internal/confnode"
)

// MissingFieldsError lists every required value no layer supplied.
type MissingFieldsError struct {
	Entry string
	// Paths are the dotted paths still holding `???`, in document order.
	Paths []string
	// Groups are `group: ???` selections no later directive filled.
	Groups []string
}

func (e *MissingFieldsError) Error() string {
	var parts []string
	if len(e.Paths) > 0 {
		parts = append(parts, fmt.Sprintf("missing mandatory value(s): %s", strings.Join(e.Paths, ", ")))
	}
	if len(e.Groups) > 0 {
		parts = append(parts, fmt.Sprintf("no variant selected for group(s): %s", strings.Join(e.Groups, ", ")))
	}
	return fmt.Sprintf("config %q is incomplete: %s", e.Entry, strings.Join(parts, "; "))
}

// UnknownEntryError reports an entry point that matches no document.
type UnknownEntryError struct {
	Name string
	// Candidates lists the documents a bare name matched ambiguously.
	Candidates []string
	Suggestion string
}

func (e *UnknownEntryError) Error() string {
	if len(e.Candidates) > 0 {
		return fmt.Sprintf("config %q is ambiguous, candidates: %s", e.Name, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("config %q not found%s", e.Name, didYouMean(e.Suggestion))
}

// UnknownGroupError reports a directive naming a group with no variants.
type UnknownGroupError struct {
	Directive  string
	Group      string
	Suggestion string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("%s: unknown group %q%s", e.Directive, e.Group, didYouMean(e.Suggestion))
}

// UnknownVariantError reports a directive naming a variant (or base
// document) that does not exist. Group is empty for root documents.
type UnknownVariantError struct {
	Directive  string
	Group      string
	Name       string
	Suggestion string
}

func (e *UnknownVariantError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("%s: no config named %q%s", e.Directive, e.Name, didYouMean(e.Suggestion))
	}
	return fmt.Sprintf("%s: group %q has no variant %q%s", e.Directive, e.Group, e.Name, didYouMean(e.Suggestion))
}

// DuplicateSelectionError reports a plain selection of a group that an
// earlier entry already selected.
type DuplicateSelectionError struct {
	Directive string
	Group     string
}

func (e *DuplicateSelectionError) Error() string {
	return fmt.Sprintf("%s: group %q is already selected, use 'override /%s: ...' to replace it", e.Directive, e.Group, e.Group)
}

// CycleError reports a defaults chain that revisits a document.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("defaults cycle: %s", strings.Join(e.Cycle, " -> "))
}

// OverrideError reports a caller override that cannot be parsed or applied.
type OverrideError struct {
	Override string
	Err      error
}

func (e *OverrideError) Error() string {
	return fmt.Sprintf("override %q: %v", e.Override, e.Err)
}

func (e *OverrideError) Unwrap() error { return e.Err }

func didYouMean(s string) string {
	if s == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", s)
}

// InterpolationError reports a bad or cyclic `${...}` reference.
type InterpolationError = confnode.InterpolationError
