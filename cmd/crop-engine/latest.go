// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crop-engine/internal/recommend"
	"github.com/pdiddy/crop-engine/pkg/types"
)

var latestCmd = &cobra.Command{
	Use:   "latest <farmer-id>",
	Short: "Show the most recent recommendations for a farmer",
	Long: `Latest prints the farmer's most recent stored batch with each crop
joined to its current catalog entry.`,
	Args: cobra.ExactArgs(1),
	RunE: runLatest,
}

func runLatest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)
	ctx := cmd.Context()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	crops, err := st.Catalog(ctx)
	if err != nil {
		return err
	}

	engine := recommend.New(st, cfg.Engine, logger, nil)
	batch, ok, err := engine.LatestDetailed(ctx, args[0], crops)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if !ok {
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), nil)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "No recommendations for farmer %s.\n", args[0])
		return nil
	}
	return formatDetailed(cmd.OutOrStdout(), batch, jsonOutput)
}

func formatDetailed(w io.Writer, batch types.DetailedBatch, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, batch)
	}

	fmt.Fprintf(w, "Latest recommendations for %s (%s)\n\n",
		batch.FarmerID, batch.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "%-4s  %-16s  %6s  %7s  %4s  %6s  %s\n",
		"Rank", "Crop", "CSI", "Price", "Days", "Water", "Reasons")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, c := range batch.Crops {
		name, price, days, water := c.CropID, "-", "-", "-"
		if c.Crop != nil {
			name = c.Crop.Name
			price = fmt.Sprintf("%.0f", c.Crop.MarketPricePerQuintal)
			days = fmt.Sprintf("%d", c.Crop.GrowthDays)
			water = fmt.Sprintf("%.1f", c.Crop.WaterLitresPerPlantPerDay)
		}
		fmt.Fprintf(w, "%-4d  %-16s  %6.2f  %7s  %4s  %6s  %s\n",
			i+1, truncate(name, 16), c.CSI, price, days, water, strings.Join(c.Reasons, "; "))
	}
	return nil
}

func init() {
	latestCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(latestCmd)
}
