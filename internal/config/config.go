// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mitchellh/copystructure"
	"github.com/specialistvlad/expconf/internal/confnode"
	"github.com/specialistvlad/expconf/internal/confpath"
)

// Config is a fully resolved configuration. It is immutable.
type Config struct {
	entry   string
	root    *confnode.Node
	sources []string

	plainOnce sync.Once
	plain     map[string]any
}

// New wraps a resolved tree. sources lists the document references merged
// into it, in merge order.
func New(entry string, root *confnode.Node, sources []string) *Config {
	if root == nil {
		root = confnode.Mapping()
	}
	return &Config{entry: entry, root: root, sources: slices.Clone(sources)}
}

// Entry returns the entry point the configuration was resolved from.
func (c *Config) Entry() string { return c.entry }

// Root returns the resolved tree.
func (c *Config) Root() *confnode.Node { return c.root }

// Sources returns the merged document references in merge order.
func (c *Config) Sources() []string { return slices.Clone(c.sources) }

// FieldError reports a field that is absent or has the wrong type.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config field %q: %s", e.Path, e.Reason)
}

// Get returns the node at a dotted path.
func (c *Config) Get(path string) (*confnode.Node, error) {
	p, err := confpath.Parse(path)
	if err != nil {
		return nil, &FieldError{Path: path, Reason: err.Error()}
	}
	n, ok := c.root.Lookup(p)
	if !ok {
		return nil, &FieldError{Path: path, Reason: "not set"}
	}
	return n, nil
}

// Has reports whether a non-null value exists at path.
func (c *Config) Has(path string) bool {
	n, err := c.Get(path)
	return err == nil && !n.IsNull()
}

// String returns the string at path.
func (c *Config) String(path string) (string, error) {
	n, err := c.Get(path)
	if err != nil {
		return "", err
	}
	s, ok := n.AsString()
	if !ok {
		return "", &FieldError{Path: path, Reason: fmt.Sprintf("expected a string, got %s", n)}
	}
	return s, nil
}

// Int returns the integer at path.
func (c *Config) Int(path string) (int64, error) {
	n, err := c.Get(path)
	if err != nil {
		return 0, err
	}
	v, ok := n.AsInt()
	if !ok {
		return 0, &FieldError{Path: path, Reason: fmt.Sprintf("expected an integer, got %s", n)}
	}
	return v, nil
}

// Float returns the number at path.
func (c *Config) Float(path string) (float64, error) {
	n, err := c.Get(path)
	if err != nil {
		return 0, err
	}
	v, ok := n.AsFloat()
	if !ok {
		return 0, &FieldError{Path: path, Reason: fmt.Sprintf("expected a number, got %s", n)}
	}
	return v, nil
}

// Bool returns the boolean at path.
func (c *Config) Bool(path string) (bool, error) {
	n, err := c.Get(path)
	if err != nil {
		return false, err
	}
	v, ok := n.AsBool()
	if !ok {
		return false, &FieldError{Path: path, Reason: fmt.Sprintf("expected a boolean, got %s", n)}
	}
	return v, nil
}

// ToMap returns the configuration as plain Go values. Each call returns an
// independent deep copy, so callers may modify the result freely.
func (c *Config) ToMap() (map[string]any, error) {
	c.plainOnce.Do(func() {
		m, _ := confnode.ToAny(c.root).(map[string]any)
		if m == nil {
			m = map[string]any{}
		}
		c.plain = m
	})
	out, err := copystructure.Copy(c.plain)
	if err != nil {
		return nil, fmt.Errorf("copying configuration: %w", err)
	}
	return out.(map[string]any), nil
}

// Equal reports whether two configurations hold structurally identical trees.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return confnode.Equal(c.root, other.root)
}
