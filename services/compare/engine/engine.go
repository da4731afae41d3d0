// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine is the top-level comparison orchestrator. It runs sample
// diagnostics on both conditions, routes to Welch's t-test or the
// Mann-Whitney U test, and passes the result through three gates
// (statistical, effect-size, practical) to reach a verdict.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/statgate/statgate/services/compare/diagnostics"
	"github.com/statgate/statgate/services/compare/hypothesis"
	"github.com/statgate/statgate/services/compare/numeric"
)

const tracerName = "github.com/statgate/statgate/services/compare/engine"

// -----------------------------------------------------------------------------
// Result types
// -----------------------------------------------------------------------------

// Verdict is the final outcome of a comparison.
type Verdict string

const (
	// VerdictSignificant means all three gates passed.
	VerdictSignificant Verdict = "significant"

	// VerdictNotSignificant means at least one gate failed.
	VerdictNotSignificant Verdict = "not-significant"

	// VerdictInsufficientData means a sample was too small to test.
	VerdictInsufficientData Verdict = "insufficient-data"

	// VerdictDataQualityIssue is reserved for quality failures severe
	// enough to block testing. The current pipeline degrades quality
	// through warnings and the nonparametric route instead of refusing,
	// so no code path produces it yet.
	VerdictDataQualityIssue Verdict = "data-quality-issue"
)

// Test identifies which significance test produced the evidence.
type Test string

const (
	// TestWelch is Welch's unequal-variance t-test.
	TestWelch Test = "welch-t"

	// TestMannWhitney is the Mann-Whitney U rank test.
	TestMannWhitney Test = "mann-whitney-u"
)

// Quality grades the combined data quality of both samples.
type Quality string

const (
	// QualityGood means both samples passed diagnostics cleanly.
	QualityGood Quality = "good"

	// QualityAcceptable means minor findings (isolated outliers).
	QualityAcceptable Quality = "acceptable"

	// QualityPoor means at least one sample needed the nonparametric route.
	QualityPoor Quality = "poor"
)

// Evidence carries the numeric findings behind a verdict.
type Evidence struct {
	// Test identifies the significance test that ran.
	Test Test

	// MeanA and MeanB are the sample means.
	MeanA float64
	MeanB float64

	// Difference is MeanA - MeanB.
	Difference float64

	// PercentDifference is Difference relative to MeanB, in percent.
	// Zero when MeanB is zero.
	PercentDifference float64

	// PValue is the two-tailed p-value.
	PValue float64

	// Statistic is the t statistic or the U statistic.
	Statistic float64

	// DegreesOfFreedom is the Welch-Satterthwaite df, or NaN when the
	// Mann-Whitney test ran.
	DegreesOfFreedom float64

	// EffectSize is Cohen's d (Welch) or rank-biserial r (Mann-Whitney).
	EffectSize float64

	// EffectCategory bands EffectSize on its own scale.
	EffectCategory hypothesis.EffectCategory

	// CI is the 95% confidence interval for the mean difference. Nil
	// when the Mann-Whitney test ran.
	CI *hypothesis.ConfidenceInterval
}

// CompareResult is the full outcome of a two-condition comparison.
type CompareResult struct {
	// Verdict is the gated outcome.
	Verdict Verdict

	// Recommendation is the merged data-quality recommendation.
	Recommendation diagnostics.Recommendation

	// Evidence holds the test numbers. Zero-valued when the verdict is
	// insufficient-data.
	Evidence Evidence

	// DiagnosticsA and DiagnosticsB are the per-sample quality records.
	DiagnosticsA diagnostics.SampleDiagnostics
	DiagnosticsB diagnostics.SampleDiagnostics

	// Quality grades both samples together.
	Quality Quality

	// Warnings lists quality findings in a fixed order: outliers in A,
	// outliers in B, non-normality in A, non-normality in B, then any
	// routing notes.
	Warnings []string

	// Interpretation is a rendered explanation of the verdict.
	Interpretation string
}

// -----------------------------------------------------------------------------
// Engine
// -----------------------------------------------------------------------------

// Engine runs comparisons under a fixed configuration.
type Engine struct {
	config Config
	logger *slog.Logger
}

// New creates an Engine for the given practical threshold and options.
//
// Outputs:
//   - *Engine: Ready for concurrent use.
//   - error: ErrInvalidConfig when the resulting configuration is malformed.
func New(practicalThreshold float64, opts ...Option) (*Engine, error) {
	cfg := DefaultConfig(practicalThreshold)
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates an Engine from a fully specified configuration.
// Zero-valued optional fields receive defaults before validation.
func NewWithConfig(cfg Config) (*Engine, error) {
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		config: cfg,
		logger: slog.Default().With("component", "compare_engine"),
	}, nil
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Compare runs the full comparison pipeline on two samples.
//
// Description:
//
//	The pipeline is: finiteness check, minimum-size gate, per-sample
//	diagnostics, test routing (parametric unless diagnostics object),
//	then the three decision gates in order: p-value, effect size,
//	practical threshold. The first failed gate decides the verdict; the
//	evidence is reported either way. The pipeline is deterministic: the
//	same samples and configuration always yield the same result.
//
// Inputs:
//   - ctx: Carries the trace span. The computation itself does not block.
//   - a, b: The two conditions. Not modified.
//
// Outputs:
//   - *CompareResult: Verdict, evidence, diagnostics, and interpretation.
//   - error: ErrNonFiniteSample for NaN/Inf inputs. Undersized samples
//     are a verdict, not an error.
//
// Thread Safety: Safe for concurrent use.
func (e *Engine) Compare(ctx context.Context, a, b []float64) (*CompareResult, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "engine.Compare")
	defer span.End()
	span.SetAttributes(
		attribute.Int("sample.a.size", len(a)),
		attribute.Int("sample.b.size", len(b)),
	)

	if !numeric.AllFinite(a) {
		return nil, fmt.Errorf("%w: sample %s", ErrNonFiniteSample, e.config.Labels[0])
	}
	if !numeric.AllFinite(b) {
		return nil, fmt.Errorf("%w: sample %s", ErrNonFiniteSample, e.config.Labels[1])
	}

	result := e.compare(a, b)

	span.SetAttributes(
		attribute.String("compare.verdict", string(result.Verdict)),
		attribute.String("compare.test", string(result.Evidence.Test)),
		attribute.String("compare.quality", string(result.Quality)),
	)
	e.logger.Debug("comparison complete",
		"verdict", result.Verdict,
		"test", result.Evidence.Test,
		"p_value", result.Evidence.PValue,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

func (e *Engine) compare(a, b []float64) *CompareResult {
	cfg := e.config

	// Minimum-size gate. Too little data is a verdict, not an error:
	// callers comparing early partial samples should see a stable shape.
	if len(a) < diagnostics.MinSampleSize || len(b) < diagnostics.MinSampleSize {
		result := &CompareResult{
			Verdict:        VerdictInsufficientData,
			Recommendation: diagnostics.RecommendCaution,
			DiagnosticsA:   diagnostics.Analyze(a, cfg.OutlierThreshold),
			DiagnosticsB:   diagnostics.Analyze(b, cfg.OutlierThreshold),
			Quality:        QualityPoor,
		}
		if len(a) < diagnostics.MinSampleSize {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"sample %s has %d observation(s); need at least %d",
				cfg.Labels[0], len(a), diagnostics.MinSampleSize))
		}
		if len(b) < diagnostics.MinSampleSize {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"sample %s has %d observation(s); need at least %d",
				cfg.Labels[1], len(b), diagnostics.MinSampleSize))
		}
		result.Interpretation = fmt.Sprintf(
			"Not enough data to compare %s (n=%d) against %s (n=%d); at least %d observations per condition are required.",
			cfg.Labels[0], len(a), cfg.Labels[1], len(b), diagnostics.MinSampleSize)
		return result
	}

	diagA := diagnostics.Analyze(a, cfg.OutlierThreshold)
	diagB := diagnostics.Analyze(b, cfg.OutlierThreshold)

	recommendation, warnings := mergeDiagnostics(cfg, diagA, diagB)

	result := &CompareResult{
		Recommendation: recommendation,
		DiagnosticsA:   diagA,
		DiagnosticsB:   diagB,
		Quality:        gradeQuality(recommendation),
		Warnings:       warnings,
	}

	evidence, routingWarnings := e.runTest(a, b, recommendation)
	result.Evidence = evidence
	result.Warnings = append(result.Warnings, routingWarnings...)

	// The three gates, in order. The first failure decides.
	effectMinimum := cfg.EffectSizeMinimum
	if evidence.Test == TestMannWhitney {
		effectMinimum = rankBiserialMinimum
	}

	failedGate := ""
	switch {
	case evidence.PValue >= cfg.Alpha:
		failedGate = fmt.Sprintf("p-value %.4g is not below alpha %.4g", evidence.PValue, cfg.Alpha)
	case math.Abs(evidence.EffectSize) < effectMinimum:
		failedGate = fmt.Sprintf("effect size |%.3f| is below the minimum %.2f", evidence.EffectSize, effectMinimum)
	case math.Abs(evidence.Difference) < cfg.PracticalThreshold:
		failedGate = fmt.Sprintf("absolute difference %.4g is below the practical threshold %.4g",
			math.Abs(evidence.Difference), cfg.PracticalThreshold)
	}

	if failedGate == "" {
		result.Verdict = VerdictSignificant
	} else {
		result.Verdict = VerdictNotSignificant
	}
	result.Interpretation = e.interpret(result, failedGate)
	return result
}

// runTest routes to the parametric or rank-based test and shapes the
// evidence. A zero-variance Welch failure falls back to Mann-Whitney: the
// data passed diagnostics, so refusing to compare would be worse than
// switching to a test that tolerates constant samples.
func (e *Engine) runTest(a, b []float64, rec diagnostics.Recommendation) (Evidence, []string) {
	var warnings []string

	meanA := numeric.Mean(a)
	meanB := numeric.Mean(b)
	evidence := Evidence{
		MeanA:      meanA,
		MeanB:      meanB,
		Difference: meanA - meanB,
	}
	if meanB != 0 {
		evidence.PercentDifference = (meanA - meanB) / meanB * 100.0
	}

	useWelch := rec != diagnostics.RecommendNonparametric
	if useWelch {
		welch, err := hypothesis.Welch(a, b, e.config.Alpha)
		if err == nil {
			evidence.Test = TestWelch
			evidence.PValue = welch.PValue
			evidence.Statistic = welch.TStatistic
			evidence.DegreesOfFreedom = welch.DegreesOfFreedom
			evidence.EffectSize = welch.EffectSize
			evidence.EffectCategory = welch.EffectCategory
			ci := welch.CI
			evidence.CI = &ci
			return evidence, warnings
		}
		warnings = append(warnings, fmt.Sprintf(
			"parametric test unavailable (%v); falling back to Mann-Whitney U", err))
	}

	mw, err := hypothesis.MannWhitney(a, b, e.config.Alpha)
	if err != nil {
		// Unreachable: both samples already passed the minimum-size gate.
		return evidence, append(warnings, fmt.Sprintf("rank test failed: %v", err))
	}
	evidence.Test = TestMannWhitney
	evidence.PValue = mw.PValue
	evidence.Statistic = mw.U
	evidence.DegreesOfFreedom = math.NaN()
	evidence.EffectSize = mw.EffectSize
	evidence.EffectCategory = mw.EffectCategory
	return evidence, warnings
}

// mergeDiagnostics folds two per-sample recommendations into one and
// collects warnings in the fixed reporting order.
func mergeDiagnostics(cfg Config, diagA, diagB diagnostics.SampleDiagnostics) (diagnostics.Recommendation, []string) {
	rec := diagnostics.RecommendProceed
	var warnings []string

	escalate := func(to diagnostics.Recommendation) {
		if to == diagnostics.RecommendNonparametric {
			rec = to
			return
		}
		if to == diagnostics.RecommendCaution && rec == diagnostics.RecommendProceed {
			rec = to
		}
	}

	reportOutliers := func(label string, d diagnostics.SampleDiagnostics) {
		if d.Outliers.TooMany {
			escalate(diagnostics.RecommendNonparametric)
			warnings = append(warnings, fmt.Sprintf(
				"sample %s: %d of %d observations are outliers (excessive): %v",
				label, d.Outliers.Count, d.N, d.Outliers.Values))
		} else if d.Outliers.Count > 0 {
			escalate(diagnostics.RecommendCaution)
			warnings = append(warnings, fmt.Sprintf(
				"sample %s: %d outlier(s) detected: %v",
				label, d.Outliers.Count, d.Outliers.Values))
		}
	}
	reportNormality := func(label string, d diagnostics.SampleDiagnostics) {
		if !d.Normality.IsNormal {
			escalate(diagnostics.RecommendNonparametric)
			warnings = append(warnings, fmt.Sprintf(
				"sample %s: %s (Shapiro-Wilk W=%.4f, p=%.4f)",
				label, d.Normality.Interpretation, d.Normality.W, d.Normality.PValue))
		}
	}

	reportOutliers(cfg.Labels[0], diagA)
	reportOutliers(cfg.Labels[1], diagB)
	reportNormality(cfg.Labels[0], diagA)
	reportNormality(cfg.Labels[1], diagB)

	return rec, warnings
}

func gradeQuality(rec diagnostics.Recommendation) Quality {
	switch rec {
	case diagnostics.RecommendProceed:
		return QualityGood
	case diagnostics.RecommendCaution:
		return QualityAcceptable
	default:
		return QualityPoor
	}
}
