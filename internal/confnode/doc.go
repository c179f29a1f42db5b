// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package confnode defines the tree that every configuration document is
// parsed into and that the resolver merges.
//
// # Node kinds
//
//   - Null: an explicit null (`~` or `null` in YAML).
//   - Scalar: string, int64, float64 or bool.
//   - Mapping: string keys in source order.
//   - Sequence: ordered items.
//   - Missing: the required-value sentinel, written `???` in documents.
//     It marks a field that a later layer must supply.
//
// Nodes are immutable. Merge, With and Without return new trees that share
// unchanged subtrees with their inputs, so a resolved tree can be handed to
// any number of consumers without copying.
package confnode
