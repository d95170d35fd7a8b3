package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"regress/internal/taxonomy"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Merge pending test fragments into the configured test files",
	Long: `Flush synthesized fragments into the per-kind test files named in the
project config. A fragment whose name already appears in the target file is
skipped, so running export twice changes nothing.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	eng, cfg, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	paths := make(map[taxonomy.TestKind]string)
	for kind, path := range cfg.Exports {
		paths[taxonomy.TestKind(kind)] = path
	}

	results, err := eng.FlushFiles(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "Nothing to export.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "Appended %d bytes to %s (%s)\n", r.Appended, r.Path, r.Kind)
	}
	return nil
}
