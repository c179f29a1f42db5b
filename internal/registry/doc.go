// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package registry indexes the documents of a conf tree.
//
// Root documents (files at the top of the tree) are addressed by name; every
// other document is a variant of the group named by its directory. The
// registry is populated once from a loader's output and then validated, so
// that problems spanning documents (a name defined twice, a defaults entry
// pointing at a group that does not exist) surface together at startup
// rather than one at a time during resolution.
package registry
