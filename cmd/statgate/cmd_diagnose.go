// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statgate/statgate/services/compare/engine"
)

var flagDiagnoseOutlierZ float64

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <file>",
	Short: "Assess a single sample's quality",
	Long: `Diagnose reads one observation per line ("-" for stdin) and reports
descriptive statistics, outliers, a normality verdict, and a recommendation
for which kind of test the sample supports.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sample, err := readSample(args[0])
		if err != nil {
			return err
		}

		cfg := engine.DefaultConfig(0)
		cfg.OutlierThreshold = flagDiagnoseOutlierZ

		result, err := engine.RunDiagnostics(sample, cfg)
		if err != nil {
			return err
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"quality":        string(result.Quality),
				"n":              result.Diagnostics.N,
				"mean":           result.Diagnostics.Mean,
				"std_dev":        result.Diagnostics.StdDev,
				"outlier_count":  result.Diagnostics.Outliers.Count,
				"outlier_values": result.Diagnostics.Outliers.Values,
				"shapiro_w":      result.Diagnostics.Normality.W,
				"shapiro_p":      result.Diagnostics.Normality.PValue,
				"recommendation": string(result.Diagnostics.Recommendation),
				"summary":        result.Diagnostics.Summary,
			})
		}

		d := result.Diagnostics
		fmt.Printf("n=%d  mean=%.4g  sd=%.4g  min=%.4g  max=%.4g\n",
			d.N, d.Mean, d.StdDev, d.Min, d.Max)
		fmt.Printf("quality: %s\n", result.Quality)
		fmt.Println(d.Summary)
		return nil
	},
}

func init() {
	diagnoseCmd.Flags().Float64Var(&flagDiagnoseOutlierZ, "outlier-z",
		engine.DefaultOutlierThreshold, "z-score outlier cutoff in standard deviations")
	rootCmd.AddCommand(diagnoseCmd)
}
