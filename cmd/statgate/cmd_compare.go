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

var (
	flagPracticalThreshold float64
	flagAlpha              float64
	flagEffectMinimum      float64
	flagOutlierThreshold   float64
	flagLabelA             string
	flagLabelB             string
)

var compareCmd = &cobra.Command{
	Use:   "compare <file-a> <file-b>",
	Short: "Compare two samples and print the gated verdict",
	Long: `Compare reads one observation per line from each file ("-" for stdin)
and prints the verdict, the evidence behind it, and any data quality warnings.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := readSample(args[0])
		if err != nil {
			return err
		}
		b, err := readSample(args[1])
		if err != nil {
			return err
		}

		result, err := engine.CompareConditions(cmd.Context(), a, b,
			compareConfig())
		if err != nil {
			return err
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summaryOf(result))
		}
		printCompareResult(result)
		return nil
	},
}

func init() {
	compareCmd.Flags().Float64VarP(&flagPracticalThreshold, "threshold", "t", 0,
		"practical threshold: minimum absolute difference that matters (required)")
	compareCmd.Flags().Float64Var(&flagAlpha, "alpha", engine.DefaultAlpha,
		"significance level")
	compareCmd.Flags().Float64Var(&flagEffectMinimum, "effect-min", engine.DefaultEffectSizeMinimum,
		"minimum |Cohen's d| for the effect-size gate")
	compareCmd.Flags().Float64Var(&flagOutlierThreshold, "outlier-z", engine.DefaultOutlierThreshold,
		"z-score outlier cutoff in standard deviations")
	compareCmd.Flags().StringVar(&flagLabelA, "label-a", "A", "name of the first condition")
	compareCmd.Flags().StringVar(&flagLabelB, "label-b", "B", "name of the second condition")
	_ = compareCmd.MarkFlagRequired("threshold")

	rootCmd.AddCommand(compareCmd)
}

func compareConfig() engine.Config {
	cfg := engine.DefaultConfig(flagPracticalThreshold)
	cfg.Alpha = flagAlpha
	cfg.EffectSizeMinimum = flagEffectMinimum
	cfg.OutlierThreshold = flagOutlierThreshold
	cfg.Labels = [2]string{flagLabelA, flagLabelB}
	return cfg
}

// summary is the JSON shape emitted by --json.
type summary struct {
	Verdict        string   `json:"verdict"`
	Test           string   `json:"test"`
	PValue         float64  `json:"p_value"`
	EffectSize     float64  `json:"effect_size"`
	EffectCategory string   `json:"effect_category"`
	Difference     float64  `json:"difference"`
	Quality        string   `json:"quality"`
	Warnings       []string `json:"warnings,omitempty"`
	Interpretation string   `json:"interpretation"`
}

func summaryOf(r *engine.CompareResult) summary {
	return summary{
		Verdict:        string(r.Verdict),
		Test:           string(r.Evidence.Test),
		PValue:         r.Evidence.PValue,
		EffectSize:     r.Evidence.EffectSize,
		EffectCategory: r.Evidence.EffectCategory.String(),
		Difference:     r.Evidence.Difference,
		Quality:        string(r.Quality),
		Warnings:       r.Warnings,
		Interpretation: r.Interpretation,
	}
}

func printCompareResult(r *engine.CompareResult) {
	fmt.Printf("verdict: %s (quality: %s)\n", r.Verdict, r.Quality)
	if r.Evidence.Test != "" {
		fmt.Printf("test:    %s  p=%.4g  effect=%.3f (%s)\n",
			r.Evidence.Test, r.Evidence.PValue,
			r.Evidence.EffectSize, r.Evidence.EffectCategory)
	}
	fmt.Println()
	fmt.Println(r.Interpretation)
	if len(r.Warnings) > 0 {
		fmt.Println("\nwarnings:")
		for _, w := range r.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
