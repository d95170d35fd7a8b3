package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"regress/internal/logging"
	"regress/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine over MCP on stdio",
	Long: `Expose report_failure, list_failures, export_tests, and status as Model
Context Protocol tools on stdio, so an external coding assistant can drive
the engine directly.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	eng, cfg, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	logger := logging.New("serve")
	logger.Info("mcp server starting", "project", cfg.Project, "store", cfg.Store)

	srv := mcp.NewServer(eng, cfg, version)
	if err := srv.Run(cmd.Context()); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
