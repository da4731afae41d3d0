// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"

	"github.com/statgate/statgate/services/compare/diagnostics"
	"github.com/statgate/statgate/services/compare/numeric"
)

// DiagnosticsResult is the outcome of a diagnostics-only run.
type DiagnosticsResult struct {
	// Diagnostics is the per-sample quality record.
	Diagnostics diagnostics.SampleDiagnostics

	// Quality grades the sample on the same scale as comparisons.
	Quality Quality
}

// CompareConditions is the one-shot form of Engine.Compare for callers
// that do not hold an Engine.
func CompareConditions(ctx context.Context, a, b []float64, cfg Config) (*CompareResult, error) {
	eng, err := NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return eng.Compare(ctx, a, b)
}

// RunDiagnostics assesses a single sample under a comparison configuration.
//
// Outputs:
//   - *DiagnosticsResult: Quality record and grade.
//   - error: ErrInvalidConfig or ErrNonFiniteSample.
func RunDiagnostics(sample []float64, cfg Config) (*DiagnosticsResult, error) {
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	diag, err := GetSampleDiagnostics(sample, cfg.OutlierThreshold)
	if err != nil {
		return nil, err
	}

	quality := QualityGood
	switch {
	case !diag.Sufficient, diag.Recommendation == diagnostics.RecommendNonparametric:
		quality = QualityPoor
	case diag.Outliers.Count > 0:
		quality = QualityAcceptable
	}

	return &DiagnosticsResult{Diagnostics: *diag, Quality: quality}, nil
}

// GetSampleDiagnostics runs the raw per-sample assessment with an explicit
// outlier threshold. Zero or negative selects the package default.
func GetSampleDiagnostics(sample []float64, outlierThreshold float64) (*diagnostics.SampleDiagnostics, error) {
	if !numeric.AllFinite(sample) {
		return nil, ErrNonFiniteSample
	}
	diag := diagnostics.Analyze(sample, outlierThreshold)
	return &diag, nil
}
