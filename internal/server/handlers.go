// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/specialistvlad/expconf/internal/ctxlog"
	"github.com/specialistvlad/expconf/internal/resolver"
	"github.com/specialistvlad/expconf/internal/schema"
	"gopkg.in/yaml.v3"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
	Groups  []string `json:"missing_groups,omitempty"`
}

type groupsResponse struct {
	Roots  []string            `json:"roots"`
	Groups map[string][]string `json:"groups"`
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "OK\n")
}

func (s *Server) groups(c *gin.Context) {
	reg := s.resolver.Registry()
	resp := groupsResponse{Roots: reg.Roots(), Groups: make(map[string][]string)}
	for _, g := range reg.Groups() {
		resp.Groups[g] = reg.Variants(g)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) config(c *gin.Context) {
	ctx := c.Request.Context()
	logger := ctxlog.FromContext(ctx)

	entry := strings.TrimPrefix(c.Param("entry"), "/")
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "yaml" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "format must be 'json' or 'yaml'"})
		return
	}

	overrides := c.QueryArray("override")
	for _, ov := range overrides {
		if strings.Contains(ov, "${") {
			s.metrics.resolutions.WithLabelValues("error").Inc()
			c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("override %q: interpolations are not accepted over HTTP", ov)})
			return
		}
	}

	cfg, err := s.resolver.Resolve(ctx, entry, overrides...)
	if err == nil && s.opts.Strict {
		var typed *schema.TransformerSegmentationConfig
		if typed, err = schema.Decode(cfg); err == nil {
			err = typed.Validate()
		}
		if err != nil {
			s.metrics.resolutions.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
	}
	if err != nil {
		status, body := errorStatus(err)
		logger.Debug("Resolution failed.", "entry", entry, "status", status, "error", err)
		s.metrics.resolutions.WithLabelValues("error").Inc()
		c.JSON(status, body)
		return
	}
	s.metrics.resolutions.WithLabelValues("ok").Inc()

	if format == "yaml" {
		out, err := yaml.Marshal(cfg.Root())
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/yaml", out)
		return
	}
	out, err := cfg.Root().MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

// errorStatus maps resolver errors to HTTP statuses.
func errorStatus(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error()}

	var (
		missing     *resolver.MissingFieldsError
		entry       *resolver.UnknownEntryError
		variant     *resolver.UnknownVariantError
		group       *resolver.UnknownGroupError
		override    *resolver.OverrideError
		cycle       *resolver.CycleError
		duplicate   *resolver.DuplicateSelectionError
		interpolate *resolver.InterpolationError
	)
	switch {
	case errors.As(err, &missing):
		body.Missing, body.Groups = missing.Paths, missing.Groups
		return http.StatusUnprocessableEntity, body
	case errors.As(err, &override):
		return http.StatusBadRequest, body
	case errors.As(err, &entry), errors.As(err, &variant), errors.As(err, &group):
		return http.StatusNotFound, body
	case errors.As(err, &cycle), errors.As(err, &duplicate), errors.As(err, &interpolate):
		return http.StatusUnprocessableEntity, body
	default:
		return http.StatusInternalServerError, body
	}
}
