// Package cli implements the darkfleet command-line interface: starting
// the live pipeline, importing a SAR detection batch, and querying
// scores/assessments against the embedded store directly (no daemon —
// each invocation opens its own store handle).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// NewRootCommand builds the darkfleet root command and wires every
// subcommand onto it.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "darkfleet",
		Short: "Dark fleet AIS/SAR fusion and intelligence engine",
		Long: `darkfleet fuses multi-source AIS positions with SAR detections to
surface vessels evading tracking, engaging in ship-to-ship transfers, or
matching sanctions watchlists.

Examples:
  darkfleet stream --config config.yaml
  darkfleet sar-import --config config.yaml --file detections.csv --batch 2026-07-31-pass1
  darkfleet score --config config.yaml --mmsi 227123456
  darkfleet assess --config config.yaml --mmsi 227123456`,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML)")

	rootCmd.AddCommand(NewStreamCommand())
	rootCmd.AddCommand(NewSARImportCommand())
	rootCmd.AddCommand(NewScoreCommand())
	rootCmd.AddCommand(NewAssessCommand())

	return rootCmd
}

// Execute runs the root command, exiting the process with status 1 on
// any returned error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
