package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reportFlags struct {
	category string
	context  []string
}

var reportCmd = &cobra.Command{
	Use:   "report <failure text>",
	Short: "Report one failure and attempt regression-test synthesis",
	Long: `Report a raw failure text. The text is classified against the failure
taxonomy (or the category given with --category), checked against prior
failures for similarity, and persisted. When a structured pattern is
detected, a regression-test fragment is synthesized from it.

Usage:
  regress report "fooBar is not defined"
  regress report --category interpreted-runtime "fooBar is not defined"
  regress report --context file=init.js --context line=42 "fooBar is not defined"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.category, "category", "", "Taxonomy category (default: keyword guess)")
	f.StringArrayVar(&reportFlags.context, "context", nil, "Context metadata as key=value (repeatable)")
}

func runReport(cmd *cobra.Command, args []string) error {
	rawText := strings.Join(args, " ")
	reportCtx, err := parseContext(reportFlags.context)
	if err != nil {
		return err
	}

	eng, _, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	outcome, err := eng.ReportFailure(cmd.Context(), rawText, reportFlags.category, reportCtx)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	out := cmd.OutOrStdout()
	rec := outcome.Record
	fmt.Fprintf(out, "Recorded %s (category: %s)\n", rec.ID, rec.Category)
	if len(rec.SimilarIDs) > 0 {
		fmt.Fprintf(out, "Similar failures: %s\n", strings.Join(rec.SimilarIDs, ", "))
	}
	switch {
	case outcome.Fragment != nil:
		fmt.Fprintf(out, "Synthesized fragment: %s (%s)\n", outcome.Fragment.Name, outcome.Fragment.TestKind)
	case outcome.Lint != nil:
		fmt.Fprintf(out, "Recorded lint pattern: %s\n", outcome.Lint.Rule)
	default:
		fmt.Fprintln(out, "Cannot auto-generate test for this failure.")
	}
	return nil
}
