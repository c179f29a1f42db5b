// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package app wires the pieces of expconf together for one invocation: it
// builds an isolated logger, loads the conf tree through a config.Loader,
// populates and validates the registry, and then prints a resolved config,
// its composition tree or the group listing, or serves configs over HTTP.
package app
