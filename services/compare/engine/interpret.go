// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"fmt"
	"math"
	"strings"
)

// interpret renders a deterministic plain-language explanation of the
// result. failedGate is empty when all three gates passed.
func (e *Engine) interpret(result *CompareResult, failedGate string) string {
	cfg := e.config
	ev := result.Evidence

	var sb strings.Builder

	labelA, labelB := cfg.Labels[0], cfg.Labels[1]
	direction := "higher than"
	if ev.Difference < 0 {
		direction = "lower than"
	} else if ev.Difference == 0 {
		direction = "equal to"
	}

	sb.WriteString(fmt.Sprintf("%s mean (%.4g) is %s %s mean (%.4g)",
		labelA, ev.MeanA, direction, labelB, ev.MeanB))
	if ev.Difference != 0 {
		sb.WriteString(fmt.Sprintf(", a difference of %.4g", math.Abs(ev.Difference)))
		if ev.PercentDifference != 0 {
			sb.WriteString(fmt.Sprintf(" (%.1f%%)", ev.PercentDifference))
		}
	}
	sb.WriteString(". ")

	switch ev.Test {
	case TestWelch:
		sb.WriteString(fmt.Sprintf(
			"Welch's t-test: t=%.3f, df=%.1f, p=%.4g; Cohen's d=%.3f (%s)",
			ev.Statistic, ev.DegreesOfFreedom, ev.PValue, ev.EffectSize, ev.EffectCategory))
		if ev.CI != nil {
			sb.WriteString(fmt.Sprintf("; %d%% CI for the difference [%.4g, %.4g]",
				int(ev.CI.Level*100), ev.CI.Lower, ev.CI.Upper))
		}
	case TestMannWhitney:
		sb.WriteString(fmt.Sprintf(
			"Mann-Whitney U test: U=%.1f, p=%.4g; rank-biserial r=%.3f (%s)",
			ev.Statistic, ev.PValue, ev.EffectSize, ev.EffectCategory))
	}
	sb.WriteString(". ")

	if failedGate == "" {
		sb.WriteString(fmt.Sprintf(
			"The difference is statistically significant, the effect is large enough to matter, and it exceeds the practical threshold of %.4g.",
			cfg.PracticalThreshold))
	} else {
		sb.WriteString(fmt.Sprintf("The difference does not hold up: %s.", failedGate))
	}

	if result.Recommendation != "" && result.Quality != QualityGood {
		sb.WriteString(fmt.Sprintf(
			" Data quality is %s (recommendation: %s); see warnings.",
			result.Quality, result.Recommendation))
	}

	return sb.String()
}
