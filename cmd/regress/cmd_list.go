package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"regress/internal/format"
)

var listFlags struct {
	markdown bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded failures grouped by category",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listFlags.markdown, "markdown", false, "Render Markdown tables instead of ASCII")
}

func runList(cmd *cobra.Command, args []string) error {
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	listing, err := eng.ListFailures(cmd.Context())
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(listing.Registry.Records) == 0 {
		fmt.Fprintf(out, "No failures recorded for project %q.\n", eng.Project)
		return nil
	}

	mode := format.ASCII
	if listFlags.markdown {
		mode = format.Markdown
	}

	for _, cat := range listing.Categories {
		records := listing.ByCategory[cat]
		fmt.Fprintf(out, "\n%s (%d)\n", cat, len(records))

		tbl := format.NewTable(mode)
		tbl.Header("ID", "Status", "Test", "Message")
		tbl.MaxWidth(4, 72)
		for _, rec := range records {
			tbl.Row(rec.ID, rec.Status, format.YesNo(rec.TestGenerated), format.Excerpt(rec.Message, 72))
		}
		fmt.Fprintln(out, tbl.String())
	}
	return nil
}
