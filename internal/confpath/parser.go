// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex matches one dotted segment: a key followed by any number of
// `[n]` index suffixes.
var segmentRegex = regexp.MustCompile(`^([A-Za-z0-9_\-]+)((?:\[\d+\])*)$`)

var indexRegex = regexp.MustCompile(`\[(\d+)\]`)

// Parse converts the dotted string form into a Path.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	var p Path
	for _, segment := range strings.Split(raw, ".") {
		if segment == "" {
			return nil, fmt.Errorf("path %q contains an empty segment", raw)
		}

		matches := segmentRegex.FindStringSubmatch(segment)
		if matches == nil {
			return nil, fmt.Errorf("invalid path segment %q in %q", segment, raw)
		}
		if matches[1] == "-" {
			return nil, fmt.Errorf("invalid key %q in %q", matches[1], raw)
		}
		p = append(p, KeyStep(matches[1]))

		for _, idx := range indexRegex.FindAllStringSubmatch(matches[2], -1) {
			i, err := strconv.Atoi(idx[1])
			if err != nil {
				return nil, fmt.Errorf("invalid index in %q: %w", raw, err)
			}
			p = append(p, IndexStep(i))
		}
	}
	return p, nil
}

// MustParse is like Parse but panics on error. Intended for literals.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// FromPackage converts a package name (`model`, `model.kwargs`, or the empty
// string for the root) into a Path.
func FromPackage(pkg string) (Path, error) {
	if pkg == "" {
		return Root, nil
	}
	return Parse(pkg)
}
