// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package outlier flags anomalous observations in a single sample using the
// z-score method, the IQR (Tukey fence) method, or both combined with a
// method recommendation.
//
// All detectors are pure functions over their inputs; the caller's sample
// is never modified.
package outlier

import (
	"fmt"
	"math"
	"sort"

	"github.com/statgate/statgate/services/compare/numeric"
)

const (
	// DefaultZThreshold is the default z-score cutoff in standard
	// deviations. 2.5 rather than the textbook 3.0: large outliers inflate
	// the standard deviation and mask moderate ones at 3.0.
	DefaultZThreshold = 2.5

	// DefaultIQRMultiplier is the default Tukey fence multiplier.
	DefaultIQRMultiplier = 1.5

	// tooManyRatio is the flagged fraction above which a sample is
	// considered outlier-heavy.
	tooManyRatio = 0.10

	// degenerateStdDev is the standard deviation below which a sample is
	// treated as constant, so z-scores are not computed.
	degenerateStdDev = 1e-10
)

// Method identifies an outlier detection method.
type Method int

const (
	// MethodZScore is the standard-deviation based detector.
	MethodZScore Method = iota

	// MethodIQR is the Tukey fence detector.
	MethodIQR
)

// String returns the string representation.
func (m Method) String() string {
	switch m {
	case MethodZScore:
		return "z-score"
	case MethodIQR:
		return "iqr"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Z-Score Method
// -----------------------------------------------------------------------------

// Result holds the outcome of z-score outlier detection.
type Result struct {
	// Indices are the positions of flagged values in the input sample.
	Indices []int

	// Values are the flagged values.
	Values []float64

	// Cleaned is the sample with flagged values removed.
	Cleaned []float64

	// Count is the number of flagged values.
	Count int

	// TooMany is true when more than 10% of the sample was flagged.
	TooMany bool

	// ZScores holds the z-score of every element, aligned with the input.
	ZScores []float64

	// Threshold is the cutoff that was applied.
	Threshold float64
}

// Detect flags values whose absolute z-score exceeds the threshold.
//
// Description:
//
//	For fewer than three observations, or for a degenerate (near constant)
//	sample, no outliers are flagged and every z-score is zero; dividing by
//	a vanishing standard deviation would otherwise flag nothing meaningful
//	or blow up.
//
// Inputs:
//   - sample: Observations. Not modified.
//   - threshold: Cutoff in standard deviations. Zero or negative selects
//     DefaultZThreshold.
//
// Outputs:
//   - Result: Flagged indices/values, cleaned sample, and per-element
//     z-scores.
//
// Thread Safety: Stateless, safe for concurrent use.
func Detect(sample []float64, threshold float64) Result {
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}

	n := len(sample)
	result := Result{
		ZScores:   make([]float64, n),
		Threshold: threshold,
	}

	sd := numeric.StdDev(sample)
	if n < 3 || sd < degenerateStdDev {
		result.Cleaned = append([]float64(nil), sample...)
		return result
	}

	m := numeric.Mean(sample)
	result.Cleaned = make([]float64, 0, n)
	for i, v := range sample {
		z := (v - m) / sd
		result.ZScores[i] = z
		if math.Abs(z) > threshold {
			result.Indices = append(result.Indices, i)
			result.Values = append(result.Values, v)
		} else {
			result.Cleaned = append(result.Cleaned, v)
		}
	}

	result.Count = len(result.Indices)
	result.TooMany = float64(result.Count)/float64(n) > tooManyRatio
	return result
}

// -----------------------------------------------------------------------------
// IQR Method
// -----------------------------------------------------------------------------

// IQRResult holds the outcome of IQR (Tukey fence) outlier detection.
type IQRResult struct {
	// Indices are the positions of flagged values in the input sample.
	Indices []int

	// Values are the flagged values.
	Values []float64

	// Cleaned is the sample with flagged values removed.
	Cleaned []float64

	// Count is the number of flagged values.
	Count int

	// TooMany is true when more than 10% of the sample was flagged.
	TooMany bool

	// Q1 and Q3 are the first and third quartiles.
	Q1 float64
	Q3 float64

	// IQR is Q3 - Q1.
	IQR float64

	// LowerFence and UpperFence are the flagging bounds.
	LowerFence float64
	UpperFence float64
}

// DetectIQR flags values outside the Tukey fences Q1-k*IQR, Q3+k*IQR.
//
// Description:
//
//	Quartiles are estimated with the inclusive interpolated method. With
//	fewer than four observations the quartile estimate is meaningless, so
//	nothing is flagged and the fences are infinite. Unlike the z-score
//	method, the fences do not widen when an extreme value is present,
//	which makes this the robust choice for skewed or small samples.
//
// Inputs:
//   - sample: Observations. Not modified.
//   - multiplier: Fence multiplier k. Zero or negative selects
//     DefaultIQRMultiplier.
//
// Thread Safety: Stateless, safe for concurrent use.
func DetectIQR(sample []float64, multiplier float64) IQRResult {
	if multiplier <= 0 {
		multiplier = DefaultIQRMultiplier
	}

	n := len(sample)
	if n < 4 {
		return IQRResult{
			Cleaned:    append([]float64(nil), sample...),
			LowerFence: math.Inf(-1),
			UpperFence: math.Inf(1),
		}
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	q1 := numeric.Quantile(sorted, 0.25)
	q3 := numeric.Quantile(sorted, 0.75)
	iqr := q3 - q1

	result := IQRResult{
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerFence: q1 - multiplier*iqr,
		UpperFence: q3 + multiplier*iqr,
		Cleaned:    make([]float64, 0, n),
	}

	for i, v := range sample {
		if v < result.LowerFence || v > result.UpperFence {
			result.Indices = append(result.Indices, i)
			result.Values = append(result.Values, v)
		} else {
			result.Cleaned = append(result.Cleaned, v)
		}
	}

	result.Count = len(result.Indices)
	result.TooMany = float64(result.Count)/float64(n) > tooManyRatio
	return result
}

// -----------------------------------------------------------------------------
// Combined Detection
// -----------------------------------------------------------------------------

// CombinedResult holds both detector outcomes and a method recommendation.
type CombinedResult struct {
	// ZScore is the z-score detector outcome.
	ZScore Result

	// IQR is the Tukey fence detector outcome.
	IQR IQRResult

	// Recommended is the method whose findings should be trusted.
	Recommended Method

	// Reason explains the recommendation in human-readable form.
	Reason string
}

// DetectCombined runs both detectors and recommends one.
//
// Description:
//
//	The IQR method is recommended when the z-score method appears to be
//	masked (finds none where IQR finds some), when the z-score method
//	flags more than double the IQR count (suggesting non-normal spread),
//	or when the sample is small (n < 20). Otherwise the z-score method is
//	recommended.
//
// Inputs:
//   - sample: Observations. Not modified.
//   - zThreshold: Z-score cutoff; zero or negative selects the default.
//   - iqrMultiplier: Fence multiplier; zero or negative selects the default.
//
// Thread Safety: Stateless, safe for concurrent use.
func DetectCombined(sample []float64, zThreshold, iqrMultiplier float64) CombinedResult {
	z := Detect(sample, zThreshold)
	iqr := DetectIQR(sample, iqrMultiplier)

	result := CombinedResult{ZScore: z, IQR: iqr}

	switch {
	case z.Count == 0 && iqr.Count > 0:
		result.Recommended = MethodIQR
		result.Reason = fmt.Sprintf(
			"z-score found no outliers but IQR found %d; extreme values may be masking the z-score method",
			iqr.Count,
		)
	case z.Count > 2*iqr.Count:
		result.Recommended = MethodIQR
		result.Reason = fmt.Sprintf(
			"z-score flagged %d values against %d from IQR; the spread is likely non-normal",
			z.Count, iqr.Count,
		)
	case len(sample) < 20:
		result.Recommended = MethodIQR
		result.Reason = fmt.Sprintf(
			"sample is small (n=%d); quartile fences are more robust than standard deviations here",
			len(sample),
		)
	default:
		result.Recommended = MethodZScore
		result.Reason = fmt.Sprintf(
			"methods agree closely (z-score: %d, IQR: %d); z-score is appropriate",
			z.Count, iqr.Count,
		)
	}

	return result
}
