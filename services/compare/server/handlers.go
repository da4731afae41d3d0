// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statgate/statgate/services/compare/config"
	"github.com/statgate/statgate/services/compare/diagnostics"
	"github.com/statgate/statgate/services/compare/engine"
	"github.com/statgate/statgate/services/compare/telemetry"
)

// handlers contains the HTTP handlers for the comparison API.
type handlers struct {
	defaults config.EngineConfig
	metrics  *telemetry.Metrics
}

func newHandlers(defaults config.EngineConfig, metrics *telemetry.Metrics) *handlers {
	return &handlers{defaults: defaults, metrics: metrics}
}

// -----------------------------------------------------------------------------
// Request / response shapes
// -----------------------------------------------------------------------------

type compareRequest struct {
	SamplesA []float64 `json:"samples_a" binding:"required"`
	SamplesB []float64 `json:"samples_b" binding:"required"`

	// PracticalThreshold is required and must be non-zero: an absent or
	// zero threshold would let the practical gate pass on any difference.
	// The engine additionally rejects non-finite values.
	PracticalThreshold float64 `json:"practical_threshold" binding:"required"`

	// Zero-valued knobs fall back to the service defaults.
	Alpha             float64  `json:"alpha"`
	EffectSizeMinimum float64  `json:"effect_size_minimum"`
	OutlierThreshold  float64  `json:"outlier_threshold"`
	Labels            []string `json:"labels"`
}

type diagnosticsRequest struct {
	Sample           []float64 `json:"sample" binding:"required"`
	OutlierThreshold float64   `json:"outlier_threshold"`
}

type confidenceIntervalDTO struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
}

type evidenceDTO struct {
	Test              string                 `json:"test"`
	MeanA             float64                `json:"mean_a"`
	MeanB             float64                `json:"mean_b"`
	Difference        float64                `json:"difference"`
	PercentDifference float64                `json:"percent_difference"`
	PValue            float64                `json:"p_value"`
	Statistic         float64                `json:"statistic"`
	DegreesOfFreedom  *float64               `json:"degrees_of_freedom,omitempty"`
	EffectSize        float64                `json:"effect_size"`
	EffectCategory    string                 `json:"effect_category"`
	CI                *confidenceIntervalDTO `json:"confidence_interval,omitempty"`
}

type sampleDiagnosticsDTO struct {
	N              int       `json:"n"`
	Mean           float64   `json:"mean"`
	StdDev         float64   `json:"std_dev"`
	Min            float64   `json:"min"`
	Max            float64   `json:"max"`
	OutlierCount   int       `json:"outlier_count"`
	OutlierValues  []float64 `json:"outlier_values,omitempty"`
	ShapiroW       float64   `json:"shapiro_w"`
	ShapiroP       float64   `json:"shapiro_p"`
	IsNormal       bool      `json:"is_normal"`
	Sufficient     bool      `json:"sufficient"`
	Recommendation string    `json:"recommendation"`
	Summary        string    `json:"summary"`
}

type compareResponse struct {
	RequestID      string               `json:"request_id"`
	Verdict        string               `json:"verdict"`
	Recommendation string               `json:"recommendation"`
	Quality        string               `json:"quality"`
	Evidence       evidenceDTO          `json:"evidence"`
	DiagnosticsA   sampleDiagnosticsDTO `json:"diagnostics_a"`
	DiagnosticsB   sampleDiagnosticsDTO `json:"diagnostics_b"`
	Warnings       []string             `json:"warnings"`
	Interpretation string               `json:"interpretation"`
}

type diagnosticsResponse struct {
	RequestID   string               `json:"request_id"`
	Quality     string               `json:"quality"`
	Diagnostics sampleDiagnosticsDTO `json:"diagnostics"`
}

type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// handleCompare runs a full two-condition comparison.
//
// POST /v1/compare
func (h *handlers) handleCompare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			RequestID: c.GetString("request_id"),
			Error:     err.Error(),
		})
		return
	}

	cfg := h.engineConfig(req)
	start := time.Now()
	result, err := engine.CompareConditions(c.Request.Context(), req.SamplesA, req.SamplesB, cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrInvalidConfig) || errors.Is(err, engine.ErrNonFiniteSample) {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorResponse{
			RequestID: c.GetString("request_id"),
			Error:     err.Error(),
		})
		return
	}

	h.metrics.RecordComparison(c.Request.Context(),
		string(result.Verdict), string(result.Evidence.Test), time.Since(start))

	c.JSON(http.StatusOK, compareResponse{
		RequestID:      c.GetString("request_id"),
		Verdict:        string(result.Verdict),
		Recommendation: string(result.Recommendation),
		Quality:        string(result.Quality),
		Evidence:       toEvidenceDTO(result.Evidence),
		DiagnosticsA:   toDiagnosticsDTO(result.DiagnosticsA),
		DiagnosticsB:   toDiagnosticsDTO(result.DiagnosticsB),
		Warnings:       result.Warnings,
		Interpretation: result.Interpretation,
	})
}

// handleDiagnostics assesses a single sample.
//
// POST /v1/diagnostics
func (h *handlers) handleDiagnostics(c *gin.Context) {
	var req diagnosticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			RequestID: c.GetString("request_id"),
			Error:     err.Error(),
		})
		return
	}

	cfg := engine.DefaultConfig(0)
	cfg.Alpha = h.defaults.Alpha
	cfg.OutlierThreshold = h.defaults.OutlierThreshold
	if req.OutlierThreshold > 0 {
		cfg.OutlierThreshold = req.OutlierThreshold
	}

	result, err := engine.RunDiagnostics(req.Sample, cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrInvalidConfig) || errors.Is(err, engine.ErrNonFiniteSample) {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorResponse{
			RequestID: c.GetString("request_id"),
			Error:     err.Error(),
		})
		return
	}

	h.metrics.RecordDiagnostics(c.Request.Context(), string(result.Quality))

	c.JSON(http.StatusOK, diagnosticsResponse{
		RequestID:   c.GetString("request_id"),
		Quality:     string(result.Quality),
		Diagnostics: toDiagnosticsDTO(result.Diagnostics),
	})
}

// handleHealth reports liveness.
//
// GET /v1/compare/health
func (h *handlers) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "statgate",
		"version": ServiceVersion,
	})
}

// engineConfig merges the request over the service defaults.
func (h *handlers) engineConfig(req compareRequest) engine.Config {
	cfg := engine.DefaultConfig(req.PracticalThreshold)
	cfg.Alpha = h.defaults.Alpha
	cfg.EffectSizeMinimum = h.defaults.EffectSizeMinimum
	cfg.OutlierThreshold = h.defaults.OutlierThreshold

	if req.Alpha > 0 {
		cfg.Alpha = req.Alpha
	}
	if req.EffectSizeMinimum > 0 {
		cfg.EffectSizeMinimum = req.EffectSizeMinimum
	}
	if req.OutlierThreshold > 0 {
		cfg.OutlierThreshold = req.OutlierThreshold
	}
	if len(req.Labels) == 2 {
		cfg.Labels = [2]string{req.Labels[0], req.Labels[1]}
	}
	return cfg
}

// toEvidenceDTO maps engine evidence into JSON-safe form: NaN degrees of
// freedom (rank route) become an omitted field.
func toEvidenceDTO(ev engine.Evidence) evidenceDTO {
	dto := evidenceDTO{
		Test:              string(ev.Test),
		MeanA:             ev.MeanA,
		MeanB:             ev.MeanB,
		Difference:        ev.Difference,
		PercentDifference: ev.PercentDifference,
		PValue:            ev.PValue,
		Statistic:         ev.Statistic,
		EffectSize:        ev.EffectSize,
		EffectCategory:    ev.EffectCategory.String(),
	}
	if !math.IsNaN(ev.DegreesOfFreedom) && ev.DegreesOfFreedom != 0 {
		df := ev.DegreesOfFreedom
		dto.DegreesOfFreedom = &df
	}
	if ev.CI != nil {
		dto.CI = &confidenceIntervalDTO{
			Lower: ev.CI.Lower,
			Upper: ev.CI.Upper,
			Level: ev.CI.Level,
		}
	}
	return dto
}

func toDiagnosticsDTO(d diagnostics.SampleDiagnostics) sampleDiagnosticsDTO {
	return sampleDiagnosticsDTO{
		N:              d.N,
		Mean:           d.Mean,
		StdDev:         d.StdDev,
		Min:            d.Min,
		Max:            d.Max,
		OutlierCount:   d.Outliers.Count,
		OutlierValues:  d.Outliers.Values,
		ShapiroW:       d.Normality.W,
		ShapiroP:       d.Normality.PValue,
		IsNormal:       d.Normality.IsNormal,
		Sufficient:     d.Sufficient,
		Recommendation: string(d.Recommendation),
		Summary:        d.Summary,
	}
}
