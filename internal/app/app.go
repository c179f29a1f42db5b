// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/expconf/internal/config"
	"github.com/specialistvlad/expconf/internal/ctxlog"
	"github.com/specialistvlad/expconf/internal/registry"
	"github.com/specialistvlad/expconf/internal/resolver"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	resolver *resolver.Resolver
	config   *Config
}

// NewApp loads the conf tree and prepares a resolver for it. Results are
// written to outW and logs to logW, each App with its own logger.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load conf tree: %w", err)
	}
	logger.Debug("Conf tree loaded.", "documents", len(docs))

	reg := registry.New()
	reg.Populate(docs)
	logger.Debug("Registry populated.", "roots", len(reg.Roots()), "groups", len(reg.Groups()))

	if err := reg.Validate(ctx); err != nil {
		return nil, err
	}
	for _, problem := range reg.CheckReferences(ctx) {
		logger.Warn("Conf tree has a dangling reference.", "error", problem)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		resolver: resolver.New(reg),
		config:   appConfig,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
