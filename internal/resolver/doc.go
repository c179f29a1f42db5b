// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package resolver composes a configuration out of the documents of a
// registry.
//
// Resolution runs in two phases. Compose walks the defaults list of the
// entry document depth first and produces an ordered list of layers, each
// tagged with the chain of group selections that pulled it in. An
// `override /group: name` directive drops every earlier layer tagged with
// that group and then appends the new variant at its own position. A
// document's own keys become a layer where `_self_` appears in its defaults
// list, or after all of its entries when `_self_` is absent.
//
// Resolve then deep-merges the layers at their packages, applies caller
// value overrides, fails with every unresolved `???` path at once, and
// finally resolves `${...}` interpolations.
package resolver
