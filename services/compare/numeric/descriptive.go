// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package numeric

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or 0 for an empty sample.
func Mean(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	var sum float64
	for _, v := range sample {
		sum += v
	}
	return sum / float64(len(sample))
}

// Variance returns the sample (n-1 denominator) variance, or 0 when fewer
// than two observations are available. The n-1 denominator matters: the
// population variance biases every downstream t statistic.
func Variance(sample []float64) float64 {
	n := len(sample)
	if n < 2 {
		return 0
	}
	m := Mean(sample)
	var sumSq float64
	for _, v := range sample {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(n-1)
}

// StdDev returns the sample standard deviation.
func StdDev(sample []float64) float64 {
	return math.Sqrt(Variance(sample))
}

// Min returns the smallest value, or 0 for an empty sample.
func Min(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	min := sample[0]
	for _, v := range sample[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value, or 0 for an empty sample.
func Max(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	max := sample[0]
	for _, v := range sample[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Quantile returns the p-quantile of the sample using the inclusive
// (linear interpolation between closest ranks) method. The input is not
// modified; a sorted copy is taken internally.
//
// Inputs:
//   - sample: Observations. Must not be empty.
//   - p: Quantile in [0, 1].
func Quantile(sample []float64, p float64) float64 {
	n := len(sample)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sample[0]
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	pos := p * float64(n-1)
	lower := int(math.Floor(pos))
	frac := pos - float64(lower)
	if lower+1 >= n {
		return sorted[n-1]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// AllFinite reports whether every value in the sample is finite.
func AllFinite(sample []float64) bool {
	for _, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
