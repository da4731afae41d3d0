// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package telemetry wires OpenTelemetry tracing and metrics for statgate.
//
// Metrics are exported through the Prometheus bridge so the HTTP server can
// expose them on /metrics; traces go to the configured exporter (stdout in
// development). Without Init, all instruments are no-ops against the global
// providers.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const scopeName = "github.com/statgate/statgate/services/compare/telemetry"

// ErrInitFailed indicates telemetry initialization failed.
var ErrInitFailed = errors.New("telemetry initialization failed")

// Config configures the telemetry stack.
type Config struct {
	// ServiceName identifies this process in exported telemetry.
	// Required.
	ServiceName string

	// ServiceVersion is attached as instrumentation version. Optional.
	ServiceVersion string

	// Registry is the Prometheus registry metrics are bridged into.
	// If nil, a new registry is created.
	Registry *prometheus.Registry

	// TraceStdout enables the stdout trace exporter. Off by default;
	// intended for development runs.
	TraceStdout bool
}

// Provider owns the configured providers and their shutdown.
type Provider struct {
	// Registry is the Prometheus registry serving /metrics.
	Registry *prometheus.Registry

	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
}

// Init builds the meter and tracer providers and installs them globally.
//
// Outputs:
//   - *Provider: Owns shutdown; its Registry backs the /metrics endpoint.
//   - error: ErrInitFailed when an exporter cannot be constructed.
func Init(cfg Config) (*Provider, error) {
	if cfg.ServiceName == "" {
		return nil, fmt.Errorf("%w: service name is required", ErrInitFailed)
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	promExporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitFailed, err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExporter))
	otel.SetMeterProvider(mp)

	provider := &Provider{
		Registry:      registry,
		meterProvider: mp,
	}

	if cfg.TraceStdout {
		traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInitFailed, err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
		otel.SetTracerProvider(tp)
		provider.tracerProvider = tp
	}

	return provider, nil
}

// Shutdown flushes and stops the providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracerProvider != nil {
		errs = append(errs, p.tracerProvider.Shutdown(ctx))
	}
	if p.meterProvider != nil {
		errs = append(errs, p.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// -----------------------------------------------------------------------------
// Instruments
// -----------------------------------------------------------------------------

// Metrics holds the comparison-engine instruments.
type Metrics struct {
	comparisons     metric.Int64Counter
	compareDuration metric.Float64Histogram
	diagnostics     metric.Int64Counter
}

// NewMetrics creates the instrument set on the global meter provider.
func NewMetrics(serviceVersion string) (*Metrics, error) {
	meter := otel.GetMeterProvider().Meter(
		scopeName,
		metric.WithInstrumentationVersion(serviceVersion),
	)

	m := &Metrics{}
	var err error

	m.comparisons, err = meter.Int64Counter(
		"statgate.comparisons.total",
		metric.WithDescription("Completed comparisons by verdict and test"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitFailed, err)
	}

	m.compareDuration, err = meter.Float64Histogram(
		"statgate.compare.duration",
		metric.WithDescription("Comparison wall time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitFailed, err)
	}

	m.diagnostics, err = meter.Int64Counter(
		"statgate.diagnostics.total",
		metric.WithDescription("Diagnostics-only runs by quality grade"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitFailed, err)
	}

	return m, nil
}

// RecordComparison records one completed comparison.
func (m *Metrics) RecordComparison(ctx context.Context, verdict, test string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("verdict", verdict),
		attribute.String("test", test),
	)
	m.comparisons.Add(ctx, 1, attrs)
	m.compareDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordDiagnostics records one diagnostics-only run.
func (m *Metrics) RecordDiagnostics(ctx context.Context, quality string) {
	if m == nil {
		return
	}
	m.diagnostics.Add(ctx, 1, metric.WithAttributes(
		attribute.String("quality", quality),
	))
}
