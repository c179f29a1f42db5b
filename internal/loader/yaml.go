// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package loader

import (
	"github.com/specialistvlad/expconf/internal/confnode"
	"github.com/specialistvlad/expconf/internal/document"
)

// parseYAML reads a YAML document and its `# @package` header.
func parseYAML(src []byte) (*confnode.Node, string, error) {
	root, err := confnode.ParseYAML(src)
	if err != nil {
		return nil, "", err
	}
	return root, document.PackageHeader(src), nil
}
