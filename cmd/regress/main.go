package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"regress/internal/logging"
	"regress/internal/project"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	project    string
	logLevel   string
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "regress",
	Short: "Learn from pipeline failures and synthesize regression tests",
	Long: "Regress records free-text failure reports from a build/test pipeline,\n" +
		"classifies them against a failure taxonomy, deduplicates them, and\n" +
		"synthesizes runnable regression-test fragments merged idempotently\n" +
		"into the project's test suite.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", project.DefaultConfigPath, "Path to project config (YAML or JSON)")
	pf.StringVar(&rootFlags.project, "project", "", "Project identifier (overrides config)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(smokeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
