// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package loader

import "github.com/specialistvlad/expconf/internal/confpath"

func mustPath(raw string) confpath.Path { return confpath.MustParse(raw) }
