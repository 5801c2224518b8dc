package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewScoreCommand prints just the confidence/risk figures for a single
// vessel, recomputed on demand from its stored track.
func NewScoreCommand() *cobra.Command {
	var mmsi string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the confidence and risk scores for a single vessel",
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
				return fmt.Errorf("failed to score %s: %w", mmsi, err)
			}

			s := a.Score
			fmt.Printf("mmsi:                 %s\n", mmsi)
			fmt.Printf("ais_consistency:      %.2f\n", s.AISConsistency)
			fmt.Printf("behavioral_normalcy:  %.2f\n", s.BehavioralNormalcy)
			fmt.Printf("sar_corroboration:    %.2f\n", s.SARCorroboration)
			fmt.Printf("overall_confidence:   %.2f (%s)\n", s.OverallConfidence, s.Level)
			fmt.Printf("deception_likelihood: %.2f\n", s.DeceptionLikelihood)
			fmt.Printf("dark_fleet_risk:      %.1f (%s)\n", s.DarkFleetRisk, s.DarkFleetRiskLevel)
			for _, f := range s.DarkFleetFactors {
				fmt.Printf("  + %-24s %.0f\n", f.Name, f.Weight)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mmsi, "mmsi", "", "MMSI of the vessel to score")
	return cmd
}
