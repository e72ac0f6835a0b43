// Copyright ©2026 The dgemm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command compare compares a dgemmbench CSV report against a baseline
// report and exits non-zero on a performance or accuracy regression.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/LynnColeArt/dgemm/harness"
)

func main() {
	var (
		baselineFile string
		currentFile  string
		regress      float64
		tol          float64
	)

	cmd := &cobra.Command{
		Use:           "compare",
		Short:         "Compare a dgemmbench report against a baseline",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			baseline, err := loadResults(baselineFile)
			if err != nil {
				return err
			}
			current, err := loadResults(currentFile)
			if err != nil {
				return err
			}

			comps := compare(baseline, current, regress, tol)
			printComparisons(cmd.OutOrStdout(), comps)

			for _, c := range comps {
				if c.failed() {
					klog.Flush()
					os.Exit(1)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baselineFile, "baseline", "baseline.csv", "baseline report")
	cmd.Flags().StringVar(&currentFile, "current", "results.csv", "current report")
	cmd.Flags().Float64Var(&regress, "regress", 1.1, "performance regression threshold (1.1 = 10% slower)")
	cmd.Flags().Float64Var(&tol, "tol", 1e-6, "allowed growth of a kernel's deviation")

	if err := cmd.Execute(); err != nil {
		klog.ErrorS(err, "compare failed")
		klog.Flush()
		os.Exit(2)
	}
}

func loadResults(path string) ([]harness.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return harness.ReadCSV(f)
}
