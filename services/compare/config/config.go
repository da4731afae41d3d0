// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the statgate service configuration from YAML with
// environment overrides for deployment knobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a malformed configuration file.
var ErrInvalidConfig = errors.New("invalid service configuration")

// Config is the top-level service configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after load.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `yaml:"server"`

	// Engine contains default comparison settings. Per-request values
	// override these.
	Engine EngineConfig `yaml:"engine"`

	// Telemetry contains observability settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr" validate:"required"`

	// ReadTimeout and WriteTimeout bound request handling.
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownGrace is how long in-flight requests get on shutdown.
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

// EngineConfig contains default comparison settings.
type EngineConfig struct {
	// Alpha is the default significance level.
	Alpha float64 `yaml:"alpha" validate:"gt=0,lt=1"`

	// EffectSizeMinimum is the default Cohen's d gate threshold.
	EffectSizeMinimum float64 `yaml:"effect_size_minimum" validate:"gte=0"`

	// OutlierThreshold is the default z-score outlier cutoff.
	OutlierThreshold float64 `yaml:"outlier_threshold" validate:"gt=0"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// ServiceName identifies this process in exported telemetry.
	ServiceName string `yaml:"service_name" validate:"required"`

	// TraceStdout enables the stdout trace exporter for development.
	TraceStdout bool `yaml:"trace_stdout"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  30 * time.Second,
			ShutdownGrace: 15 * time.Second,
		},
		Engine: EngineConfig{
			Alpha:             0.05,
			EffectSizeMinimum: 0.5,
			OutlierThreshold:  2.5,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "statgate",
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults and validates the result.
//
// Inputs:
//   - path: Configuration file. Empty selects pure defaults.
//
// Outputs:
//   - Config: Merged configuration.
//   - error: ErrInvalidConfig for unreadable or malformed files.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}
