// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package outlier

import (
	"math"
	"testing"
)

// -----------------------------------------------------------------------------
// Z-Score Tests
// -----------------------------------------------------------------------------

func TestDetect(t *testing.T) {
	t.Run("single extreme value", func(t *testing.T) {
		sample := []float64{100, 101, 99, 102, 98, 100, 101, 99, 100, 500}

		result := Detect(sample, 0)

		if result.Count != 1 {
			t.Fatalf("expected exactly one outlier, got %d (%v)", result.Count, result.Values)
		}
		if result.Values[0] != 500 {
			t.Errorf("expected flagged value 500, got %v", result.Values[0])
		}
		if result.Indices[0] != 9 {
			t.Errorf("expected flagged index 9, got %d", result.Indices[0])
		}
		for _, v := range result.Cleaned {
			if v == 500 {
				t.Error("expected 500 to be absent from cleaned sample")
			}
		}
		if len(result.Cleaned) != 9 {
			t.Errorf("expected 9 cleaned values, got %d", len(result.Cleaned))
		}
		if result.TooMany {
			t.Error("1/10 flagged should not be too many")
		}
	})

	t.Run("clean sample", func(t *testing.T) {
		sample := []float64{10, 11, 9, 12, 8, 10, 11, 9}

		result := Detect(sample, 0)

		if result.Count != 0 {
			t.Errorf("expected no outliers, got %d", result.Count)
		}
		if len(result.ZScores) != len(sample) {
			t.Errorf("expected z-score per element, got %d", len(result.ZScores))
		}
	})

	t.Run("too few samples", func(t *testing.T) {
		result := Detect([]float64{1, 1000}, 0)

		if result.Count != 0 {
			t.Errorf("expected no outliers for n<3, got %d", result.Count)
		}
		for _, z := range result.ZScores {
			if z != 0 {
				t.Errorf("expected zero z-scores for n<3, got %v", result.ZScores)
			}
		}
		if len(result.Cleaned) != 2 {
			t.Errorf("expected cleaned to carry the full sample, got %v", result.Cleaned)
		}
	})

	t.Run("constant sample", func(t *testing.T) {
		result := Detect([]float64{5, 5, 5, 5, 5}, 0)

		if result.Count != 0 {
			t.Errorf("expected no outliers for constant sample, got %d", result.Count)
		}
		for _, z := range result.ZScores {
			if z != 0 {
				t.Errorf("expected zero z-scores for constant sample, got %v", result.ZScores)
			}
		}
	})

	t.Run("too many flagged", func(t *testing.T) {
		// Two extremes in a sample of nine exceeds the 10% ratio.
		sample := []float64{10, 10, 11, 9, 10, 11, 9, 400, -400}

		result := Detect(sample, 1.5)

		if result.Count < 2 {
			t.Fatalf("expected at least two outliers, got %d", result.Count)
		}
		if !result.TooMany {
			t.Errorf("expected TooMany with %d/%d flagged", result.Count, len(sample))
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		sample := []float64{1, 2, 3, 4, 100}
		Detect(sample, 0)
		if sample[4] != 100 || len(sample) != 5 {
			t.Errorf("input mutated: %v", sample)
		}
	})
}

// -----------------------------------------------------------------------------
// IQR Tests
// -----------------------------------------------------------------------------

func TestDetectIQR(t *testing.T) {
	t.Run("flags masked extreme value", func(t *testing.T) {
		sample := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 1000}

		result := DetectIQR(sample, 0)

		found := false
		for _, v := range result.Values {
			if v == 1000 {
				found = true
			}
		}
		if !found {
			t.Errorf("expected IQR to flag 1000, flagged %v", result.Values)
		}
	})

	t.Run("fences and quartiles", func(t *testing.T) {
		sample := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

		result := DetectIQR(sample, 0)

		if math.Abs(result.Q1-3.25) > 1e-12 {
			t.Errorf("expected Q1 3.25, got %v", result.Q1)
		}
		if math.Abs(result.Q3-7.75) > 1e-12 {
			t.Errorf("expected Q3 7.75, got %v", result.Q3)
		}
		if math.Abs(result.IQR-4.5) > 1e-12 {
			t.Errorf("expected IQR 4.5, got %v", result.IQR)
		}
		if result.Count != 0 {
			t.Errorf("expected no outliers in uniform ramp, got %d", result.Count)
		}
	})

	t.Run("too few samples", func(t *testing.T) {
		result := DetectIQR([]float64{1, 2, 1000}, 0)

		if result.Count != 0 {
			t.Errorf("expected no outliers for n<4, got %d", result.Count)
		}
		if !math.IsInf(result.LowerFence, -1) || !math.IsInf(result.UpperFence, 1) {
			t.Errorf("expected infinite fences for n<4, got [%v, %v]",
				result.LowerFence, result.UpperFence)
		}
	})
}

// -----------------------------------------------------------------------------
// Combined Tests
// -----------------------------------------------------------------------------

func TestDetectCombined(t *testing.T) {
	t.Run("small sample prefers IQR", func(t *testing.T) {
		sample := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

		result := DetectCombined(sample, 0, 0)

		if result.Recommended != MethodIQR {
			t.Errorf("expected IQR recommendation for n<20, got %s", result.Recommended)
		}
		if result.Reason == "" {
			t.Error("expected a non-empty reason")
		}
	})

	t.Run("masking prefers IQR", func(t *testing.T) {
		// The extreme value inflates the standard deviation enough that a
		// strict z threshold misses it, while the fences do not move.
		sample := make([]float64, 0, 24)
		for i := 0; i < 23; i++ {
			sample = append(sample, 10+float64(i%3))
		}
		sample = append(sample, 60)

		result := DetectCombined(sample, 10, 0)

		if result.ZScore.Count != 0 {
			t.Skipf("z-score flagged %d at inflated threshold; masking setup failed", result.ZScore.Count)
		}
		if result.IQR.Count == 0 {
			t.Fatal("expected IQR to flag the extreme value")
		}
		if result.Recommended != MethodIQR {
			t.Errorf("expected IQR recommendation under masking, got %s", result.Recommended)
		}
	})

	t.Run("agreeing methods prefer z-score on large samples", func(t *testing.T) {
		sample := make([]float64, 40)
		for i := range sample {
			sample[i] = 100 + float64(i%7)
		}

		result := DetectCombined(sample, 0, 0)

		if result.Recommended != MethodZScore {
			t.Errorf("expected z-score recommendation, got %s (%s)",
				result.Recommended, result.Reason)
		}
	})
}

func TestMethodString(t *testing.T) {
	if MethodZScore.String() != "z-score" {
		t.Errorf("unexpected: %s", MethodZScore)
	}
	if MethodIQR.String() != "iqr" {
		t.Errorf("unexpected: %s", MethodIQR)
	}
	if Method(9).String() != "unknown" {
		t.Errorf("unexpected: %s", Method(9))
	}
}
