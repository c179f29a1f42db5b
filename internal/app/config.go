// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"errors"
	"fmt"
)

// Output formats for a resolved config.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfDir is the conf tree on disk; empty means the bundled tree.
	ConfDir   string
	Entry     string
	Overrides []string

	Format string
	Tree   bool
	List   bool
	Strict bool

	LogFormat string
	LogLevel  string
	ServePort int
	// ServeHost is the interface serve mode binds to. Defaults to loopback.
	ServeHost string
}

// DefaultServeHost is the interface serve mode binds to unless told
// otherwise.
const DefaultServeHost = "127.0.0.1"

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Entry == "" && !cfg.List && cfg.ServePort == 0 {
		return nil, errors.New("an entry point is required unless -list or -serve-port is given")
	}
	if cfg.Format == "" {
		cfg.Format = FormatYAML
	}
	if cfg.Format != FormatYAML && cfg.Format != FormatJSON {
		return nil, fmt.Errorf("invalid format %q: must be '%s' or '%s'", cfg.Format, FormatYAML, FormatJSON)
	}
	if cfg.ServePort < 0 || cfg.ServePort > 65535 {
		return nil, fmt.Errorf("invalid serve port %d", cfg.ServePort)
	}
	if cfg.ServeHost == "" {
		cfg.ServeHost = DefaultServeHost
	}
	if cfg.Tree && cfg.List {
		return nil, errors.New("-tree and -list cannot be combined")
	}
	return &cfg, nil
}
