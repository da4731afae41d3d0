// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package numeric

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := Mean([]float64{10, 20, 30}); got != 20 {
		t.Errorf("expected mean 20, got %v", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("expected 0 for empty sample, got %v", got)
	}
}

func TestVariance(t *testing.T) {
	t.Run("sample variance uses n-1", func(t *testing.T) {
		// Sum of squared deviations is 8, sample variance 8/4.
		got := Variance([]float64{2, 4, 4, 4, 6})
		want := 8.0 / 4.0
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		if got := Variance([]float64{5}); got != 0 {
			t.Errorf("expected 0 for n=1, got %v", got)
		}
		if got := Variance([]float64{3, 3, 3}); got != 0 {
			t.Errorf("expected 0 for constant sample, got %v", got)
		}
	})
}

func TestMinMax(t *testing.T) {
	sample := []float64{5, -2, 9, 0}
	if got := Min(sample); got != -2 {
		t.Errorf("expected min -2, got %v", got)
	}
	if got := Max(sample); got != 9 {
		t.Errorf("expected max 9, got %v", got)
	}
}

func TestQuantile(t *testing.T) {
	t.Run("quartiles with interpolation", func(t *testing.T) {
		sample := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		tests := []struct {
			p        float64
			expected float64
		}{
			{0, 1},
			{0.25, 3.25},
			{0.5, 5.5},
			{0.75, 7.75},
			{1, 10},
		}
		for _, tt := range tests {
			got := Quantile(sample, tt.p)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Quantile(%.2f): expected %v, got %v", tt.p, tt.expected, got)
			}
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		sample := []float64{3, 1, 2}
		Quantile(sample, 0.5)
		if sample[0] != 3 || sample[1] != 1 || sample[2] != 2 {
			t.Errorf("input mutated: %v", sample)
		}
	})

	t.Run("single element", func(t *testing.T) {
		if got := Quantile([]float64{42}, 0.75); got != 42 {
			t.Errorf("expected 42, got %v", got)
		}
	})
}

func TestAllFinite(t *testing.T) {
	if !AllFinite([]float64{1, 2, 3}) {
		t.Error("expected finite sample to pass")
	}
	if AllFinite([]float64{1, math.NaN()}) {
		t.Error("expected NaN to fail")
	}
	if AllFinite([]float64{1, math.Inf(1)}) {
		t.Error("expected +Inf to fail")
	}
}
