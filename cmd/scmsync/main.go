package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cdot65/scmsync/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scmsync",
	Short: "scmsync - declarative configuration object sync for Strata Cloud Manager",
	Long: `scmsync reconciles named configuration objects (addresses, address groups,
applications, application groups, services, service groups, tags) in
Strata Cloud Manager against a desired specification.

Each resource in the specification is validated, probed, diffed and then
created, updated, deleted or left untouched - idempotently, with dry-run
support for previewing every decision.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		jsonOut, _ := cmd.Flags().GetBool("log-json")
		log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOut})
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"scmsync version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit JSON logs instead of console output")

	rootCmd.AddCommand(applyCmd)
}
