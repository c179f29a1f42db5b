// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"

	"github.com/specialistvlad/expconf/internal/document"
)

// Loader is the interface for a source of configuration documents.
type Loader interface {
	// Load reads every document of a conf tree. Documents are returned in a
	// deterministic order.
	Load(ctx context.Context) ([]*document.Document, error)
}
