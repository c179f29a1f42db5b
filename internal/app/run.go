// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"net"
	"strconv"

	"github.com/specialistvlad/expconf/internal/ctxlog"
	"github.com/specialistvlad/expconf/internal/schema"
	"github.com/specialistvlad/expconf/internal/server"
)

// Run executes the mode selected by the App's configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	cfg := a.config

	switch {
	case cfg.ServePort > 0:
		srv := server.New(a.resolver, a.logger, server.Options{Strict: cfg.Strict})
		return srv.ListenAndServe(ctx, net.JoinHostPort(cfg.ServeHost, strconv.Itoa(cfg.ServePort)))
	case cfg.List:
		return writeGroups(a.outW, a.registry)
	case cfg.Tree:
		comp, err := a.resolver.Compose(ctx, cfg.Entry, cfg.Overrides...)
		if err != nil {
			return err
		}
		return writeTree(a.outW, comp)
	}

	resolved, err := a.resolver.Resolve(ctx, cfg.Entry, cfg.Overrides...)
	if err != nil {
		return err
	}
	if cfg.Strict {
		typed, err := schema.Decode(resolved)
		if err != nil {
			return err
		}
		if err := typed.Validate(); err != nil {
			return err
		}
		a.logger.Debug("Config matches the training schema.")
	}

	a.logger.Info("Config resolved.", "entry", resolved.Entry(), "sources", len(resolved.Sources()))
	return writeConfig(a.outW, resolved, cfg.Format)
}
