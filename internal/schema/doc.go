// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package schema is the typed view of a resolved training configuration.
//
// The resolver only guarantees that no required value is left unset. Decode
// additionally rejects unknown keys and values of the wrong type, and
// Validate checks the constraints between fields that the training code
// relies on.
package schema
