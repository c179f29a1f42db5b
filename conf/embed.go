// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package conf bundles the default conf tree into the binary.
package conf

import (
	"embed"

	"github.com/spf13/afero"
)

//go:embed *.yaml */*.yaml */*.hcl
var files embed.FS

// FS returns the bundled conf tree as a read-only file system.
func FS() afero.Fs {
	return afero.FromIOFS{FS: files}
}
