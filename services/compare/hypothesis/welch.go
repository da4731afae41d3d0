// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package hypothesis provides the two-sample significance tests behind the
// statgate comparison engine: Welch's t-test for means under unequal
// variances and the Mann-Whitney U rank test for distribution-free
// comparison.
//
// Both tests are pure functions over their inputs and safe for unbounded
// concurrent use.
package hypothesis

import (
	"errors"
	"math"

	"github.com/statgate/statgate/services/compare/numeric"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrInsufficientSamples indicates not enough observations for the test.
	ErrInsufficientSamples = errors.New("insufficient samples for statistical test")

	// ErrZeroVariance indicates both samples are constant, leaving the
	// t statistic undefined.
	ErrZeroVariance = errors.New("sample sets have zero variance")
)

// DefaultAlpha is the significance level used when the caller passes a
// non-positive alpha.
const DefaultAlpha = 0.05

// confidenceLevel is the level of the interval attached to Welch results.
const confidenceLevel = 0.95

// -----------------------------------------------------------------------------
// Welch's t-test
// -----------------------------------------------------------------------------

// ConfidenceInterval represents a two-sided confidence interval.
type ConfidenceInterval struct {
	// Lower is the lower bound.
	Lower float64

	// Upper is the upper bound.
	Upper float64

	// Level is the confidence level (e.g., 0.95).
	Level float64
}

// Contains returns true if the interval contains the value.
func (ci ConfidenceInterval) Contains(v float64) bool {
	return v >= ci.Lower && v <= ci.Upper
}

// Width returns the interval width.
func (ci ConfidenceInterval) Width() float64 {
	return ci.Upper - ci.Lower
}

// WelchResult holds the results of Welch's t-test.
type WelchResult struct {
	// TStatistic is the computed t statistic.
	TStatistic float64

	// DegreesOfFreedom is the Welch-Satterthwaite df. Real-valued, not
	// necessarily integral.
	DegreesOfFreedom float64

	// PValue is the two-tailed p-value.
	PValue float64

	// Significant is true if PValue < the significance level.
	Significant bool

	// EffectSize is Cohen's d computed on the pooled standard deviation.
	EffectSize float64

	// EffectCategory bands EffectSize on the Cohen's d scale.
	EffectCategory EffectCategory

	// MeanDifference is mean(a) - mean(b).
	MeanDifference float64

	// CI is the 95% confidence interval for the mean difference.
	CI ConfidenceInterval
}

// Welch performs Welch's t-test on two samples.
//
// Description:
//
//	Welch's test compares means without assuming equal population
//	variances. Sample (n-1 denominator) variances feed both the statistic
//	and the Welch-Satterthwaite degrees of freedom; Cohen's d deliberately
//	uses the pooled standard deviation instead, which weights the groups
//	differently from the df formula.
//
// Inputs:
//   - a, b: Sample sets. Each must have at least 2 observations.
//   - alpha: Significance level. Non-positive selects DefaultAlpha.
//
// Outputs:
//   - *WelchResult: Statistic, p-value, effect size, and CI.
//   - error: ErrInsufficientSamples or ErrZeroVariance.
//
// Thread Safety: Stateless, safe for concurrent use.
func Welch(a, b []float64, alpha float64) (*WelchResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return nil, ErrInsufficientSamples
	}
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	n1 := float64(len(a))
	n2 := float64(len(b))

	mean1 := numeric.Mean(a)
	mean2 := numeric.Mean(b)
	var1 := numeric.Variance(a)
	var2 := numeric.Variance(b)

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		return nil, ErrZeroVariance
	}

	tStat := (mean1 - mean2) / se

	// Welch-Satterthwaite degrees of freedom.
	num := math.Pow(var1/n1+var2/n2, 2)
	denom := math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1)
	df := num / denom

	pValue := 2.0 * (1.0 - numeric.TDistCDF(math.Abs(tStat), df))
	if pValue < 0 {
		pValue = 0
	}
	if pValue > 1 {
		pValue = 1
	}

	// Cohen's d on the pooled standard deviation.
	pooledVar := ((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2)
	pooledStd := math.Sqrt(pooledVar)
	var d float64
	if pooledStd > 0 {
		d = (mean1 - mean2) / pooledStd
	}

	meanDiff := mean1 - mean2
	tCrit := numeric.TDistQuantile(1.0-(1.0-confidenceLevel)/2.0, df)
	margin := tCrit * se

	return &WelchResult{
		TStatistic:       tStat,
		DegreesOfFreedom: df,
		PValue:           pValue,
		Significant:      pValue < alpha,
		EffectSize:       d,
		EffectCategory:   CategorizeCohenD(d),
		MeanDifference:   meanDiff,
		CI: ConfidenceInterval{
			Lower: meanDiff - margin,
			Upper: meanDiff + margin,
			Level: confidenceLevel,
		},
	}, nil
}
