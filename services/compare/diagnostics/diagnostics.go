// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package diagnostics assesses the quality of a single sample before it is
// trusted with a parametric test: descriptive statistics, outlier findings,
// and a normality verdict, folded into a recommendation.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/statgate/statgate/services/compare/normality"
	"github.com/statgate/statgate/services/compare/numeric"
	"github.com/statgate/statgate/services/compare/outlier"
)

// MinSampleSize is the smallest sample for which diagnostics are
// meaningful; below it the record short-circuits with safe defaults.
const MinSampleSize = 3

// Recommendation indicates how a sample should be treated downstream.
type Recommendation string

const (
	// RecommendProceed indicates the sample supports a parametric test.
	RecommendProceed Recommendation = "proceed"

	// RecommendCaution indicates the sample is usable but imperfect.
	RecommendCaution Recommendation = "caution"

	// RecommendNonparametric indicates a rank-based test should be used.
	RecommendNonparametric Recommendation = "use-nonparametric"
)

// SampleDiagnostics describes one sample's quality.
type SampleDiagnostics struct {
	// N is the sample size.
	N int

	// Mean is the arithmetic mean.
	Mean float64

	// StdDev is the sample standard deviation.
	StdDev float64

	// Min and Max are the sample extremes.
	Min float64
	Max float64

	// Outliers is the z-score outlier detection result.
	Outliers outlier.Result

	// Normality is the Shapiro-Wilk result.
	Normality normality.Result

	// Sufficient is false when the sample was too small to diagnose.
	Sufficient bool

	// Recommendation folds the findings into a downstream action.
	Recommendation Recommendation

	// Summary is a human-readable recap of the findings.
	Summary string
}

// Analyze runs the full quality assessment for one sample.
//
// Description:
//
//	Samples below MinSampleSize short-circuit to an insufficient-data
//	record with recommendation caution. Otherwise z-score outlier
//	detection and the Shapiro-Wilk test both run; an outlier-heavy or
//	non-normal sample is routed to a non-parametric test.
//
// Inputs:
//   - sample: Observations. Not modified.
//   - outlierThreshold: Z-score cutoff; zero or negative selects the
//     package default.
//
// Thread Safety: Stateless, safe for concurrent use.
func Analyze(sample []float64, outlierThreshold float64) SampleDiagnostics {
	n := len(sample)

	if n < MinSampleSize {
		return SampleDiagnostics{
			N:              n,
			Sufficient:     false,
			Recommendation: RecommendCaution,
			Summary: fmt.Sprintf(
				"insufficient data for diagnostics (n=%d, need %d)", n, MinSampleSize,
			),
		}
	}

	diag := SampleDiagnostics{
		N:          n,
		Mean:       numeric.Mean(sample),
		StdDev:     numeric.StdDev(sample),
		Min:        numeric.Min(sample),
		Max:        numeric.Max(sample),
		Outliers:   outlier.Detect(sample, outlierThreshold),
		Normality:  normality.ShapiroWilk(sample),
		Sufficient: true,
	}

	if diag.Outliers.TooMany || !diag.Normality.IsNormal {
		diag.Recommendation = RecommendNonparametric
	} else {
		diag.Recommendation = RecommendProceed
	}

	diag.Summary = summarize(&diag)
	return diag
}

// summarize concatenates the findings into one line.
func summarize(d *SampleDiagnostics) string {
	var sb strings.Builder

	if d.Outliers.Count == 0 {
		sb.WriteString("no outliers")
	} else {
		sb.WriteString(fmt.Sprintf("%d outlier(s) %v", d.Outliers.Count, d.Outliers.Values))
		if d.Outliers.TooMany {
			sb.WriteString(" (excessive)")
		}
	}

	sb.WriteString("; ")
	sb.WriteString(d.Normality.Interpretation)
	sb.WriteString(fmt.Sprintf("; recommendation: %s", d.Recommendation))

	return sb.String()
}
