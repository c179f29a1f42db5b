// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/specialistvlad/expconf/internal/ctxlog"
)

const requestIDHeader = "X-Request-Id"

// requestContext reuses or assigns an X-Request-Id and stores a logger
// carrying it in the request context.
func requestContext(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, rid)

		logger := base.With("request_id", rid)
		c.Request = c.Request.WithContext(ctxlog.WithLogger(c.Request.Context(), logger))

		start := time.Now()
		c.Next()
		logger.Debug("Request served.",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
