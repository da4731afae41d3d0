// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import "github.com/gin-gonic/gin"

// registerRoutes registers the comparison API.
//
// Endpoints:
//
//	POST /v1/compare        - Compare two conditions
//	POST /v1/diagnostics    - Assess a single sample
//	GET  /v1/compare/health - Health check
func registerRoutes(router *gin.Engine, h *handlers) {
	v1 := router.Group("/v1")
	{
		v1.POST("/compare", h.handleCompare)
		v1.POST("/diagnostics", h.handleDiagnostics)
		v1.GET("/compare/health", h.handleHealth)
	}
}
