// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package integrationtests runs the whole App (loader, registry, resolver,
// schema and output) against in-memory conf trees.
package integrationtests
