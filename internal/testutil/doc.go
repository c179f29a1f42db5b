// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package testutil holds shared test helpers: in-memory conf trees, a
// thread-safe log buffer and a context carrying a debug logger. It must not
// import the packages it helps test.
package testutil
