package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"regress/internal/logging"
	"regress/internal/smoke"
)

var smokeFlags struct {
	parallel int
	timeout  time.Duration
	settle   time.Duration
}

var smokeCmd = &cobra.Command{
	Use:   "smoke [url...]",
	Short: "Collect browser failures from live pages and report them",
	Long: `Drive a headless browser over the given URLs (or the smoke targets from
the project config), capture uncaught exceptions and console errors, and
report each as a failure. Synthesized tests are not executed here; this
command only produces failure reports.`,
	RunE: runSmoke,
}

func init() {
	f := smokeCmd.Flags()
	f.IntVar(&smokeFlags.parallel, "parallel", 0, "Concurrent targets (default from config, else 1)")
	f.DurationVar(&smokeFlags.timeout, "timeout", 0, "Per-target budget (default 30s)")
	f.DurationVar(&smokeFlags.settle, "settle", 0, "Wait after load for async errors (default 2s)")
}

func runSmoke(cmd *cobra.Command, args []string) error {
	eng, cfg, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	targets := args
	if len(targets) == 0 {
		targets = cfg.Smoke.Targets
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets: pass URLs or set smoke.targets in %s", rootFlags.configPath)
	}

	opts := smoke.Options{
		Timeout:  smokeFlags.timeout,
		Settle:   smokeFlags.settle,
		Parallel: smokeFlags.parallel,
	}
	if opts.Parallel == 0 {
		opts.Parallel = cfg.Smoke.Parallel
	}
	if opts.Timeout == 0 && cfg.Smoke.TimeoutSec > 0 {
		opts.Timeout = time.Duration(cfg.Smoke.TimeoutSec) * time.Second
	}

	logger := logging.New("smoke")
	logger.Info("collecting", "targets", len(targets), "parallel", opts.Parallel)

	reports, err := smoke.Collect(cmd.Context(), targets, opts)
	if err != nil {
		return fmt.Errorf("smoke: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(reports) == 0 {
		fmt.Fprintln(out, "No failures observed.")
		return nil
	}

	// Reports are recorded serially: the registry is single-writer.
	for _, r := range reports {
		outcome, err := eng.ReportFailure(cmd.Context(), r.Text, "", r.Context)
		if err != nil {
			return fmt.Errorf("smoke: record failure: %w", err)
		}
		fmt.Fprintf(out, "Recorded %s (category: %s)\n", outcome.Record.ID, outcome.Record.Category)
	}
	fmt.Fprintf(out, "%d failure(s) recorded.\n", len(reports))
	return nil
}
