// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package normality implements the Shapiro-Wilk test for departure from
// normality.
//
// The W statistic is exact in structure but approximate in its
// coefficients: published table values are used for n <= 11 and the Blom
// order-statistic approximation beyond that, with Royston's normalizing
// transform for the p-value. The approximation can stray slightly outside
// [0, 1] before clamping and is not table-exact for n > 11; callers should
// treat W and p as bounded-accuracy values, not reference values.
package normality

import (
	"math"
	"sort"

	"github.com/statgate/statgate/services/compare/numeric"
)

const (
	// MaxSampleSize is the largest n the approximation supports.
	MaxSampleSize = 5000

	// alpha is the significance level behind IsNormal.
	alpha = 0.05
)

// Result holds the outcome of a Shapiro-Wilk test.
type Result struct {
	// W is the test statistic, clamped to [0, 1]. Values near 1 indicate
	// agreement with a normal distribution.
	W float64

	// PValue is the probability of a W this small under normality,
	// clamped to [0, 1].
	PValue float64

	// IsNormal is true when PValue >= 0.05.
	IsNormal bool

	// Interpretation is a banded plain-language reading of the p-value.
	Interpretation string

	// N is the sample size the test ran on.
	N int
}

// ShapiroWilk tests the sample for departure from normality.
//
// Description:
//
//	Samples with fewer than three observations, or with zero variance,
//	are trivially compatible with normality (W=1, p=1): there is nothing
//	to test. Samples beyond 5000 observations are outside the
//	approximation's validated range and are reported as not applicable
//	(W=0, p=0) rather than silently extrapolated.
//
// Inputs:
//   - sample: Observations. Not modified.
//
// Outputs:
//   - Result: W, p-value, and interpretation. Never errors; degenerate
//     inputs produce the trivial results above.
//
// Thread Safety: Stateless, safe for concurrent use.
func ShapiroWilk(sample []float64) Result {
	n := len(sample)

	if n < 3 {
		return Result{
			W: 1, PValue: 1, IsNormal: true, N: n,
			Interpretation: "too few observations to test; assuming normal",
		}
	}
	if n > MaxSampleSize {
		return Result{
			W: 0, PValue: 0, IsNormal: false, N: n,
			Interpretation: "sample too large for the Shapiro-Wilk approximation",
		}
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	mean := numeric.Mean(sorted)
	var ssq float64
	for _, v := range sorted {
		d := v - mean
		ssq += d * d
	}
	if ssq < 1e-20 {
		return Result{
			W: 1, PValue: 1, IsNormal: true, N: n,
			Interpretation: "zero variance; trivially consistent with normal",
		}
	}

	coeffs := coefficients(n)

	// b = sum over the first floor(n/2) pairs of a_i * (x_{n-1-i} - x_i).
	var b float64
	for i, a := range coeffs {
		b += a * (sorted[n-1-i] - sorted[i])
	}

	w := clamp01(b * b / ssq)
	p := clamp01(pValue(w, n))

	return Result{
		W:              w,
		PValue:         p,
		IsNormal:       p >= alpha,
		Interpretation: interpret(p),
		N:              n,
	}
}

// coefficients returns the half-vector of Shapiro-Wilk linear coefficients
// for sample size n: table values for n <= 11, the Blom approximation
// normalized to unit norm otherwise.
func coefficients(n int) []float64 {
	if tab, ok := smallSampleCoefficients[n]; ok {
		return tab
	}

	// Expected normal order statistics via Blom's approximation.
	m := make([]float64, n)
	var norm float64
	for i := 0; i < n; i++ {
		m[i] = numeric.NormalQuantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		norm += m[i] * m[i]
	}
	norm = math.Sqrt(norm)

	half := n / 2
	coeffs := make([]float64, half)
	for i := 0; i < half; i++ {
		// The upper-half order statistic; with the pairing in ShapiroWilk
		// this is equivalent to the normalized paired difference
		// (m_{n-i} - m_{i+1}) / 2.
		coeffs[i] = m[n-1-i] / norm
	}
	return coeffs
}

// pValue converts W to a p-value with Royston's normalizing transform.
// Two regimes: small samples use z = (-ln(gamma - ln(1-W)) - mu) / sigma
// with polynomials in n; larger samples use z = (ln(1-W) - mu) / sigma
// with polynomials in ln(n).
func pValue(w float64, n int) float64 {
	fn := float64(n)

	var z float64
	if n <= 11 {
		gamma := -2.273 + 0.459*fn
		mu := 0.5440 - 0.39978*fn + 0.025054*fn*fn - 0.0006714*fn*fn*fn
		sigma := math.Exp(1.3822 - 0.77857*fn + 0.062767*fn*fn - 0.0020322*fn*fn*fn)

		arg := gamma - math.Log(1.0-w)
		if arg <= 0 {
			// W close enough to 1 that the transform degenerates; report
			// full compatibility with normality.
			return 1
		}
		z = (-math.Log(arg) - mu) / sigma
	} else {
		u := math.Log(fn)
		mu := -1.5861 - 0.31082*u - 0.083751*u*u + 0.0038915*u*u*u
		sigma := math.Exp(-0.4803 - 0.082676*u + 0.0030302*u*u)
		z = (math.Log(1.0-w) - mu) / sigma
	}

	return 1.0 - numeric.NormalCDF(z)
}

// interpret bands the p-value into plain language.
func interpret(p float64) string {
	switch {
	case p >= 0.10:
		return "distribution appears normal"
	case p >= 0.05:
		return "marginal evidence against normality"
	case p >= 0.01:
		return "distribution appears non-normal; consider a non-parametric test"
	default:
		return "distribution is strongly non-normal"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
