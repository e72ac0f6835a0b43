// Copyright ©2026 The dgemm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dgemmbench runs the dgemm kernels over a sweep of matrix orders,
// grades them against the reference and appends the results to a CSV
// report.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/LynnColeArt/dgemm"
	"github.com/LynnColeArt/dgemm/harness"
)

type options struct {
	sizes     []int
	tile      int
	kernels   []string
	output    string
	session   string
	seed      uint64
	perf      bool
	coldCache bool
	tolerance bool
	failOnDev bool
}

func main() {
	defer klog.Flush()
	if err := newRootCommand().Execute(); err != nil {
		klog.ErrorS(err, "dgemmbench failed")
		klog.Flush()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	def := harness.DefaultConfig()

	run := func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runSweep(ctx, cmd, opts)
	}

	root := &cobra.Command{
		Use:           "dgemmbench",
		Short:         "Benchmark stepped DGEMM kernels against a BLAS reference",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	opts.addFlags(root.PersistentFlags(), def)

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the benchmark sweep (default)",
			Args:  cobra.NoArgs,
			RunE:  run,
		},
		&cobra.Command{
			Use:   "cpu",
			Short: "Print detected CPU features",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				f := dgemm.Features()
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%d CPUs\n%s\n", f.Arch, f.NumCPU, dgemm.GetCPUInfo())
				if err := harness.PerfAvailable(); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Hardware counters: %v\n", err)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Hardware counters: available")
				}
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print module and gonum versions",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				version, sum, gonum := dgemm.Version()
				fmt.Fprintf(cmd.OutOrStdout(), "dgemm %s %s\ngonum %s\n",
					lo.CoalesceOrEmpty(version, "(devel)"), sum, lo.CoalesceOrEmpty(gonum, "unknown"))
			},
		},
	)
	return root
}

func (o *options) addFlags(flags *pflag.FlagSet, def harness.Config) {
	flags.IntSliceVar(&o.sizes, "sizes", def.Sizes, "matrix orders to run, in order")
	flags.IntVar(&o.tile, "tile", def.TileSize, "tile size for the blocked kernels")
	flags.StringSliceVar(&o.kernels, "kernels", lo.Map(def.Kernels, func(k dgemm.Kernel, _ int) string {
		return k.Name()
	}), "kernels to grade against the reference")
	flags.StringVarP(&o.output, "output", "o", "results.csv", "CSV report to append to, empty to disable")
	flags.StringVar(&o.session, "session", "", "directory for a JSON session log")
	flags.Uint64Var(&o.seed, "random-seed", 0, "fill inputs with random values from this seed (0 uses the mod 64 pattern)")
	flags.BoolVar(&o.perf, "perf", false, "collect hardware performance counters")
	flags.BoolVar(&o.coldCache, "cold-cache", false, "evict the caches before every kernel call")
	flags.BoolVar(&o.tolerance, "check", false, "check every kernel against a size-scaled tolerance")
	flags.BoolVar(&o.failOnDev, "fail-on-deviation", false, "stop the sweep when a kernel is out of tolerance (implies --check)")

	klogFlags := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlagSet(klogFlags)
}

func runSweep(ctx context.Context, cmd *cobra.Command, opts *options) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}

	var sinks []harness.Sink
	if opts.output != "" {
		report, err := harness.OpenCSVReport(opts.output)
		if err != nil {
			return err
		}
		defer report.Close()
		sinks = append(sinks, report)
	}
	if opts.session != "" {
		log, err := harness.NewSessionLog(opts.session, "dgemm", cfg)
		if err != nil {
			return err
		}
		klog.InfoS("Writing session log", "path", log.Path())
		sinks = append(sinks, log)
	}

	h, err := harness.New(cfg, sinks...)
	if err != nil {
		return err
	}

	results, runErr := h.Run(ctx)
	if len(results) > 0 {
		if err := harness.PrintSummary(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	}
	return runErr
}

func (o *options) config() (harness.Config, error) {
	unknown := lo.Reject(o.kernels, func(name string, _ int) bool {
		_, ok := dgemm.Lookup(name)
		return ok
	})
	if len(unknown) > 0 {
		known := lo.Map(dgemm.Steps(), func(k dgemm.Kernel, _ int) string { return k.Name() })
		return harness.Config{}, dgemm.NewInvalidArgError("kernels",
			fmt.Sprintf("unknown kernel %s (have %s)", strings.Join(unknown, ", "), strings.Join(known, ", ")))
	}

	cfg := harness.Config{
		Sizes:           o.sizes,
		TileSize:        o.tile,
		Kernels:         lo.FilterMap(o.kernels, func(name string, _ int) (dgemm.Kernel, bool) { return dgemm.Lookup(name) }),
		Seed:            o.seed,
		FailOnDeviation: o.failOnDev,
		Perf:            o.perf,
		ColdCache:       o.coldCache,
	}
	if o.tolerance || o.failOnDev {
		// Inputs never exceed 63 (pattern) or 1 (random) in magnitude.
		maxAbs := float64(dgemm.PatternModulus - 1)
		if o.seed != 0 {
			maxAbs = 1
		}
		tol := dgemm.GEMMTolerance(lo.Max(o.sizes), maxAbs)
		cfg.Tolerance = &tol
	}
	return cfg, nil
}
