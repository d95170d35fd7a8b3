package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registry summary counts for the project",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	eng, cfg, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	listing, err := eng.ListFailures(cmd.Context())
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	reg := listing.Registry

	generated := 0
	for _, rec := range reg.Records {
		if rec.TestGenerated {
			generated++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project:      %s (store: %s)\n", reg.Project, cfg.Store)
	fmt.Fprintf(out, "Failures:     %d (%d with generated tests)\n", len(reg.Records), generated)
	fmt.Fprintf(out, "Fragments:    %d\n", len(reg.Fragments))
	fmt.Fprintf(out, "Lint entries: %d\n", len(reg.LintEntries))
	for _, cat := range listing.Categories {
		fmt.Fprintf(out, "  %-22s %d\n", cat, len(listing.ByCategory[cat]))
	}
	return nil
}
