// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hypothesis

import (
	"math"
	"testing"
)

func TestMannWhitney(t *testing.T) {
	t.Run("fully separated groups", func(t *testing.T) {
		a := []float64{1, 2, 3, 4, 5, 6, 7, 8}
		b := []float64{101, 102, 103, 104, 105, 106, 107, 108}

		result, err := MannWhitney(a, b, 0.05)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.U != 0 {
			t.Errorf("expected U=0 for full separation, got %v", result.U)
		}
		if !result.Significant {
			t.Errorf("expected significance, got p=%.4f", result.PValue)
		}
		if math.Abs(result.EffectSize) != 1 {
			t.Errorf("expected |r|=1 for full separation, got %v", result.EffectSize)
		}
		if result.EffectCategory != EffectLarge {
			t.Errorf("expected large effect, got %s", result.EffectCategory)
		}
	})

	t.Run("identical groups", func(t *testing.T) {
		a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		b := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

		result, err := MannWhitney(a, b, 0.05)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Significant {
			t.Errorf("expected no significance for identical groups, p=%.4f", result.PValue)
		}
		if result.PValue <= 0 || result.PValue >= 1 {
			t.Errorf("expected p strictly inside (0,1), got %v", result.PValue)
		}
	})

	t.Run("tie safety", func(t *testing.T) {
		// Heavily tied and even fully constant samples must not divide by
		// zero and must keep p inside (0, 1).
		cases := [][2][]float64{
			{{5, 5, 5, 5, 5}, {5, 5, 5, 5, 5}},
			{{1, 1, 2, 2, 3, 3}, {2, 2, 3, 3, 4, 4}},
			{{7, 7, 7, 8}, {7, 8, 8, 8}},
		}

		for _, c := range cases {
			result, err := MannWhitney(c[0], c[1], 0.05)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !(result.PValue > 0 && result.PValue < 1) {
				t.Errorf("expected 0 < p < 1 for tied samples %v vs %v, got %v",
					c[0], c[1], result.PValue)
			}
			if math.IsNaN(result.U) || math.IsNaN(result.EffectSize) {
				t.Errorf("expected finite U and effect size, got U=%v r=%v",
					result.U, result.EffectSize)
			}
		}
	})

	t.Run("U is the smaller statistic", func(t *testing.T) {
		a := []float64{1, 2, 3}
		b := []float64{4, 5, 6, 7, 8, 9, 10}

		result, err := MannWhitney(a, b, 0.05)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		n1n2 := float64(len(a) * len(b))
		if result.U > n1n2/2 {
			t.Errorf("expected U <= n1*n2/2, got %v", result.U)
		}
	})

	t.Run("shifted overlapping groups", func(t *testing.T) {
		a := []float64{10, 12, 14, 16, 18, 20, 22, 24, 26, 28}
		b := []float64{15, 17, 19, 21, 23, 25, 27, 29, 31, 33}

		result, err := MannWhitney(a, b, 0.05)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.PValue <= 0 || result.PValue >= 1 {
			t.Errorf("expected p in (0,1), got %v", result.PValue)
		}
		if result.EffectSize <= 0 {
			t.Errorf("expected positive rank-biserial r for clear shift, got %v", result.EffectSize)
		}
	})

	t.Run("empty sample", func(t *testing.T) {
		if _, err := MannWhitney(nil, []float64{1, 2}, 0.05); err != ErrInsufficientSamples {
			t.Errorf("expected ErrInsufficientSamples, got %v", err)
		}
	})
}

func TestRankSums(t *testing.T) {
	t.Run("no ties", func(t *testing.T) {
		r1, r2 := rankSums([]float64{1, 3}, []float64{2, 4})

		// Ranks: 1->1, 2->2, 3->3, 4->4.
		if r1 != 4 || r2 != 6 {
			t.Errorf("expected rank sums 4 and 6, got %v and %v", r1, r2)
		}
	})

	t.Run("tie averaging", func(t *testing.T) {
		r1, r2 := rankSums([]float64{1, 2}, []float64{2, 3})

		// Values 2 and 2 occupy ranks 2 and 3, each receives 2.5.
		if r1 != 1+2.5 || r2 != 2.5+4 {
			t.Errorf("expected rank sums 3.5 and 6.5, got %v and %v", r1, r2)
		}
	})

	t.Run("total rank sum invariant", func(t *testing.T) {
		a := []float64{5, 5, 1, 9}
		b := []float64{5, 2, 2}
		r1, r2 := rankSums(a, b)

		n := float64(len(a) + len(b))
		if total := r1 + r2; total != n*(n+1)/2 {
			t.Errorf("rank sums must total n(n+1)/2 = %v, got %v", n*(n+1)/2, total)
		}
	})
}

func TestCategorizeRankBiserial(t *testing.T) {
	tests := []struct {
		r        float64
		expected EffectCategory
	}{
		{0.05, EffectNegligible},
		{0.2, EffectSmall},
		{0.4, EffectMedium},
		{0.7, EffectLarge},
		{-0.4, EffectMedium},
	}

	for _, tt := range tests {
		if got := CategorizeRankBiserial(tt.r); got != tt.expected {
			t.Errorf("CategorizeRankBiserial(%.2f): expected %s, got %s", tt.r, tt.expected, got)
		}
	}
}
