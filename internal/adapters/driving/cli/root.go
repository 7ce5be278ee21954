// Package cli implements the enricher command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/strand-media/enricher/internal/logger"
)

// version is the build version, overridden at link time.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "enricher",
	Short: "External metadata enrichment pipeline",
	Long: `Enricher authenticates against a configured metadata system, fetches the
raw record for an asset, normalises it into the standard metadata schema
and records the outcome durably so hosts can schedule retries.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the configuration file (default ~/.enricher/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose logging")
}

// Execute runs the root command with the given context. The context is
// cancelled by the entry point on SIGINT/SIGTERM so in-flight runs stop
// at the next blocking call.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
