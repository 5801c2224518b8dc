package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewAssessCommand prints the full fused Assessment for a single vessel
// as indented JSON.
func NewAssessCommand() *cobra.Command {
	var mmsi string

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Print the full intelligence assessment for a single vessel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mmsi == "" {
				return fmt.Errorf("--mmsi is required")
			}
			_, engine, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			a, err := engine.Assess(mmsi)
			if err != nil {
				return fmt.Errorf("failed to assess %s: %w", mmsi, err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(a)
		},
	}

	cmd.Flags().StringVar(&mmsi, "mmsi", "", "MMSI of the vessel to assess")
	return cmd
}
