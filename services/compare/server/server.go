// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package server exposes the comparison engine over HTTP: a comparison
// endpoint, a diagnostics endpoint, health, and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/statgate/statgate/services/compare/config"
	"github.com/statgate/statgate/services/compare/telemetry"
)

// ServiceVersion is the statgate service version.
const ServiceVersion = "0.1.0"

// Server is the statgate HTTP server.
type Server struct {
	cfg    config.Config
	router *gin.Engine
	logger *slog.Logger
	http   *http.Server
}

// New builds the server with routes and middleware installed.
//
// Inputs:
//   - cfg: Service configuration.
//   - logger: Destination for request logs. Nil selects slog.Default().
//   - metrics: Comparison instruments. Nil disables recording.
//   - registry: Prometheus registry backing /metrics. Nil disables the
//     endpoint.
func New(cfg config.Config, logger *slog.Logger, metrics *telemetry.Metrics, registry *prometheus.Registry) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	router.Use(requestID())
	router.Use(requestLogger(logger))

	handlers := newHandlers(cfg.Engine, metrics)
	registerRoutes(router, handlers)

	if registry != nil {
		router.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	return &Server{
		cfg:    cfg,
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Handler returns the underlying http.Handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then drains in-flight
// requests for the configured grace period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("statgate listening", "addr", s.cfg.Server.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), s.cfg.Server.ShutdownGrace)
	defer cancel()

	s.logger.Info("statgate shutting down")
	return s.http.Shutdown(shutdownCtx)
}
