// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package compare groups the statgate comparison pipeline.
//
// The pipeline answers one question: do two samples of measurements differ
// in a way that matters? A difference must clear three gates in order:
//
//  1. Statistical: the p-value is below alpha.
//  2. Effect size: the standardized effect clears a minimum.
//  3. Practical: the raw difference clears a caller-chosen threshold.
//
// Sample quality is assessed first, and decides which test runs:
//
//	             ┌──────────────┐
//	samples ───► │ diagnostics   │  outliers (z-score / IQR)
//	             │               │  normality (Shapiro-Wilk)
//	             └──────┬───────┘
//	                    │ proceed            use-nonparametric
//	             ┌──────▼───────┐      ┌──────────────────────┐
//	             │ Welch t-test  │      │ Mann-Whitney U test  │
//	             └──────┬───────┘      └──────────┬───────────┘
//	                    └─────────┬───────────────┘
//	             ┌────────────────▼────────────────┐
//	             │ three gates → verdict + warnings │
//	             └─────────────────────────────────┘
//
// Subpackages:
//
//   - numeric: special functions (erf, incomplete beta, Student's t) and
//     descriptive statistics.
//   - outlier: z-score and IQR outlier detection.
//   - normality: the Shapiro-Wilk test.
//   - hypothesis: Welch's t-test and the Mann-Whitney U test.
//   - diagnostics: per-sample quality assessment.
//   - engine: the gated decision orchestrator.
//   - server: the HTTP surface.
//   - config, telemetry: service wiring.
package compare
