// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package loader implements config.Loader for a conf tree stored on any
// afero file system: the OS, an in-memory tree in tests, or the bundled tree
// embedded in the binary.
//
// Documents may be written in YAML (`.yaml`, `.yml`) or HCL (`.hcl`). A YAML
// document declares its package with a leading `# @package <name>` comment;
// an HCL document uses a `_package_` attribute. Both formats spell the
// required-value sentinel as the string "???".
package loader
