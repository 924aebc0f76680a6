// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crop-engine/internal/irrigation"
)

var irrigationCmd = &cobra.Command{
	Use:   "irrigation <farmer-id> <crop-name>",
	Short: "Estimate daily water need and suggest an irrigation method",
	Long: `Irrigation estimates the daily water need of a crop on the farmer's
land from reference evapotranspiration, the crop coefficient and the farm
size, and suggests drip, sprinkler or flood irrigation.`,
	Args: cobra.ExactArgs(2),
	RunE: runIrrigation,
}

func runIrrigation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	st, err := openStore(ctx, cfg, newLogger(cmd.ErrOrStderr(), cfg))
	if err != nil {
		return err
	}
	defer st.Close()

	farmer, ok, err := st.Farmer(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("farmer %s not found", args[0])
	}

	guide, err := irrigation.For(args[1], farmer.FarmSizeAcres)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatGuide(cmd.OutOrStdout(), guide, jsonOutput)
}

func formatGuide(w io.Writer, g irrigation.Guide, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, g)
	}

	fmt.Fprintf(w, "Crop:        %s (Kc %.2f)\n", g.CropName, g.CropCoefficient)
	fmt.Fprintf(w, "Farm size:   %.2f acres\n", g.FarmSizeAcres)
	fmt.Fprintf(w, "Water need:  %.0f per day\n", g.DailyWaterNeed)
	fmt.Fprintf(w, "Recommended: %s\n\n", g.Recommended)

	names := make([]string, 0, len(g.Methods))
	for name := range g.Methods {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		m := g.Methods[name]
		marker := " "
		if name == g.Recommended {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-9s  %3d%%  saves %-7s  %s\n   %s\n",
			marker, name, m.EfficiencyPct, m.WaterSaved, m.Cost, m.Suitability)
	}
	return nil
}

func init() {
	irrigationCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(irrigationCmd)
}
