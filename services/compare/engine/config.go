// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidConfig indicates malformed configuration.
	ErrInvalidConfig = errors.New("invalid comparison configuration")

	// ErrNonFiniteSample indicates a sample contains NaN or infinities.
	ErrNonFiniteSample = errors.New("sample contains non-finite values")
)

// Defaults for optional configuration fields.
const (
	// DefaultAlpha is the default significance level.
	DefaultAlpha = 0.05

	// DefaultEffectSizeMinimum is the default Cohen's d gate threshold.
	DefaultEffectSizeMinimum = 0.5

	// DefaultOutlierThreshold is the default z-score outlier cutoff.
	DefaultOutlierThreshold = 2.5

	// rankBiserialMinimum is the fixed effect-size gate threshold applied
	// when the Mann-Whitney test was used. Rank-biserial correlation is a
	// different scale from Cohen's d and must not share its threshold.
	rankBiserialMinimum = 0.3
)

var validate = validator.New()

// Config controls a comparison.
type Config struct {
	// PracticalThreshold is the minimum absolute raw difference that
	// matters in practice. Required; must be finite and non-negative.
	PracticalThreshold float64 `validate:"gte=0" yaml:"practical_threshold"`

	// Alpha is the significance level. Default: 0.05.
	Alpha float64 `validate:"gt=0,lt=1" yaml:"alpha"`

	// EffectSizeMinimum is the minimum |Cohen's d| for the effect-size
	// gate. Applies only when Welch's t-test runs. Default: 0.5.
	EffectSizeMinimum float64 `validate:"gte=0" yaml:"effect_size_minimum"`

	// OutlierThreshold is the z-score outlier cutoff in standard
	// deviations. Default: 2.5.
	OutlierThreshold float64 `validate:"gt=0" yaml:"outlier_threshold"`

	// Labels names the two conditions in rendered text. Default: A, B.
	Labels [2]string `yaml:"labels"`
}

// DefaultConfig returns a configuration with the given practical threshold
// and defaults for everything else.
func DefaultConfig(practicalThreshold float64) Config {
	return Config{
		PracticalThreshold: practicalThreshold,
		Alpha:              DefaultAlpha,
		EffectSizeMinimum:  DefaultEffectSizeMinimum,
		OutlierThreshold:   DefaultOutlierThreshold,
		Labels:             [2]string{"A", "B"},
	}
}

// Option mutates a Config.
type Option func(*Config)

// WithAlpha sets the significance level.
func WithAlpha(alpha float64) Option {
	return func(c *Config) { c.Alpha = alpha }
}

// WithEffectSizeMinimum sets the Cohen's d gate threshold.
func WithEffectSizeMinimum(min float64) Option {
	return func(c *Config) { c.EffectSizeMinimum = min }
}

// WithOutlierThreshold sets the z-score outlier cutoff.
func WithOutlierThreshold(threshold float64) Option {
	return func(c *Config) { c.OutlierThreshold = threshold }
}

// WithLabels sets the condition names used in rendered text.
func WithLabels(a, b string) Option {
	return func(c *Config) { c.Labels = [2]string{a, b} }
}

// normalized fills zero-valued optional fields with defaults.
func (c Config) normalized() Config {
	if c.Alpha == 0 {
		c.Alpha = DefaultAlpha
	}
	if c.EffectSizeMinimum == 0 {
		c.EffectSizeMinimum = DefaultEffectSizeMinimum
	}
	if c.OutlierThreshold == 0 {
		c.OutlierThreshold = DefaultOutlierThreshold
	}
	if c.Labels[0] == "" {
		c.Labels[0] = "A"
	}
	if c.Labels[1] == "" {
		c.Labels[1] = "B"
	}
	return c
}

// Validate checks the configuration after normalization.
//
// A non-finite practical threshold is a programming error, not a data
// quality finding, so it fails fast here rather than degrading the verdict.
func (c Config) Validate() error {
	if math.IsNaN(c.PracticalThreshold) || math.IsInf(c.PracticalThreshold, 0) {
		return fmt.Errorf("%w: practical threshold must be finite", ErrInvalidConfig)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
