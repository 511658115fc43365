// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package format

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RegisterRoutes registers the format endpoints.
//
// Description:
//
//	Registers all /v1/format/* endpoints with the given router group.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/format - Format source text
//	POST /v1/format/check - Report whether source text is formatted
//	GET  /v1/format/languages - Supported languages and extensions
//	GET  /v1/format/health - Health check
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	f := rg.Group("/format")
	{
		f.POST("", handlers.HandleFormat)
		f.POST("/check", handlers.HandleCheck)
		f.GET("/languages", handlers.HandleLanguages)
		f.GET("/health", handlers.HandleHealth)
	}
}

// RouterConfig configures NewRouter.
type RouterConfig struct {
	// RatePerSecond limits requests per client IP. Zero disables limiting.
	RatePerSecond float64

	// RateBurst is the bucket size for RatePerSecond.
	RateBurst int

	// Metrics serves /metrics when non-nil.
	Metrics http.Handler

	// AccessLog enables gin's request logger.
	AccessLog bool
}

// NewRouter builds the gin engine for the format server: recovery,
// tracing, optional access log, rate limiting on /v1, the format routes
// and /metrics.
func NewRouter(svc *Service, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("aleutian-fmt"))
	if cfg.AccessLog {
		router.Use(gin.Logger())
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	v1 := router.Group("/v1")
	v1.Use(RateLimit(cfg.RatePerSecond, cfg.RateBurst))
	RegisterRoutes(v1, NewHandlers(svc))
	return router
}
