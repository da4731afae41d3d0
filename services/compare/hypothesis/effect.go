// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hypothesis

import "math"

// EffectCategory labels the magnitude of an effect size.
//
// The same labels serve both effect-size scales used in this package, but
// the band cutoffs differ: Cohen's d and rank-biserial correlation are not
// comparable numbers and must never share thresholds.
type EffectCategory int

const (
	// EffectNegligible is below the smallest meaningful band.
	EffectNegligible EffectCategory = iota

	// EffectSmall is a small effect.
	EffectSmall

	// EffectMedium is a medium effect.
	EffectMedium

	// EffectLarge is a large effect.
	EffectLarge
)

// String returns the string representation.
func (e EffectCategory) String() string {
	switch e {
	case EffectNegligible:
		return "negligible"
	case EffectSmall:
		return "small"
	case EffectMedium:
		return "medium"
	case EffectLarge:
		return "large"
	default:
		return "unknown"
	}
}

// CategorizeCohenD bands a Cohen's d value using Cohen's conventions
// (0.2 / 0.5 / 0.8).
func CategorizeCohenD(d float64) EffectCategory {
	abs := math.Abs(d)
	switch {
	case abs < 0.2:
		return EffectNegligible
	case abs < 0.5:
		return EffectSmall
	case abs < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// CategorizeRankBiserial bands a rank-biserial correlation
// (0.1 / 0.3 / 0.5 bands, distinct from Cohen's d).
func CategorizeRankBiserial(r float64) EffectCategory {
	abs := math.Abs(r)
	switch {
	case abs < 0.1:
		return EffectNegligible
	case abs < 0.3:
		return EffectSmall
	case abs < 0.5:
		return EffectMedium
	default:
		return EffectLarge
	}
}
