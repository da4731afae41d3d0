// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/statgate/statgate/pkg/logging"
)

var (
	flagLogLevel string
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:   "statgate",
	Short: "Gated statistical comparison of two measurement samples",
	Long: `statgate decides whether two samples of measurements differ in a way
that matters. A difference must clear three gates: statistical significance,
a minimum effect size, and a practical threshold you choose. Sample quality
is checked first; skewed or outlier-heavy data is routed to a rank-based test.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger, _ := logging.New(logging.Config{Level: flagLogLevel})
		logger.Install()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn",
		"log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false,
		"emit machine-readable JSON instead of text")
}

// readSample parses one observation per line from a file, or from stdin
// when the path is "-". Blank lines and lines starting with # are skipped.
func readSample(path string) ([]float64, error) {
	var file *os.File
	if path == "-" {
		file = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		file = f
	}

	var sample []float64
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %q is not a number", path, line, text)
		}
		sample = append(sample, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sample, nil
}
