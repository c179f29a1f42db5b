// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/specialistvlad/expconf/internal/resolver"
)

const shutdownTimeout = 5 * time.Second

var ginModeOnce sync.Once

// Options configures a Server.
type Options struct {
	// Strict decodes and validates resolved configs against the training
	// schema before returning them.
	Strict bool
}

// Server serves resolved configurations over HTTP.
type Server struct {
	resolver *resolver.Resolver
	logger   *slog.Logger
	metrics  *metrics
	engine   *gin.Engine
	opts     Options
}

// New builds the routes of a server around a resolver.
func New(res *resolver.Resolver, logger *slog.Logger, opts Options) *Server {
	ginModeOnce.Do(func() { gin.SetMode(gin.ReleaseMode) })

	s := &Server{
		resolver: res,
		logger:   logger,
		metrics:  newMetrics(),
		engine:   gin.New(),
		opts:     opts,
	}
	s.engine.Use(gin.Recovery(), requestContext(logger), s.metrics.middleware())

	s.engine.GET("/health", s.health)
	s.engine.GET("/metrics", s.metrics.handler())
	v1 := s.engine.Group("/v1")
	v1.GET("/groups", s.groups)
	v1.GET("/configs/*entry", s.config)
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Config server starting.", "address", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("config server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down config server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("config server shutdown failed: %w", err)
	}
	s.logger.Debug("Config server shut down gracefully.")
	return nil
}
