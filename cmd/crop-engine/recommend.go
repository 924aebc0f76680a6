// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crop-engine/internal/catalog"
	"github.com/pdiddy/crop-engine/internal/publish"
	"github.com/pdiddy/crop-engine/internal/recommend"
	"github.com/pdiddy/crop-engine/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score the catalog for a farmer and store the top crops",
	Long: `Recommend scores every crop in the stored catalog against a farmer's
profile, keeps the five highest Crop Suitability Index scores and stores
them as a new recommendation batch.

The farmer is read from the store (--farmer) or from a YAML file
(--farmer-file). --explain prints the per-factor breakdown of the whole
catalog without storing anything; --dry-run ranks without touching the
stored history.`,
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	farmerID, _ := cmd.Flags().GetString("farmer")
	farmerFile, _ := cmd.Flags().GetString("farmer-file")
	explain, _ := cmd.Flags().GetBool("explain")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if farmerID == "" && farmerFile == "" {
		return errors.New("provide --farmer or --farmer-file")
	}

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

	var farmer types.FarmerProfile
	if farmerFile != "" {
		if farmer, err = catalog.LoadFarmer(farmerFile, farmerID); err != nil {
			return err
		}
	} else {
		var ok bool
		farmer, ok, err = st.Farmer(ctx, farmerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("farmer %s not found", farmerID)
		}
	}

	crops, err := st.Catalog(ctx)
	if err != nil {
		return err
	}

	var batches recommend.Store = st
	if dryRun || explain {
		batches = recommend.NewMemoryStore()
	}
	engine := recommend.New(batches, cfg.Engine, logger, nil)

	if explain {
		explanations, err := engine.Explain(farmer, crops)
		if err != nil {
			return err
		}
		return formatExplanations(cmd.OutOrStdout(), explanations, jsonOutput)
	}

	if cfg.Kafka.Enabled && !dryRun {
		pub := newPublisher(cfg, logger)
		defer pub.Close()
		engine.SetPublisher(pub)
	}

	batch, err := engine.Generate(ctx, farmer, crops)
	if err != nil {
		return err
	}
	return formatBatch(cmd.OutOrStdout(), batch, crops, jsonOutput)
}

func newPublisher(cfg types.Config, logger *slog.Logger) *publish.KafkaPublisher {
	logger.Info("kafka publishing enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return publish.NewKafkaPublisher(cfg.Kafka, logger)
}

func formatBatch(w io.Writer, batch types.RecommendationBatch, crops []types.CropProfile, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, batch)
	}

	names := make(map[string]string, len(crops))
	for _, c := range crops {
		names[c.ID] = c.Name
	}

	fmt.Fprintf(w, "Recommendations for %s (%s)\n\n",
		batch.FarmerID, batch.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "%-4s  %-16s  %6s  %s\n", "Rank", "Crop", "CSI", "Reasons")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for i, sc := range batch.Crops {
		name := names[sc.CropID]
		if name == "" {
			name = sc.CropID
		}
		fmt.Fprintf(w, "%-4d  %-16s  %6.2f  %s\n",
			i+1, truncate(name, 16), sc.CSI, strings.Join(sc.Reasons, "; "))
	}
	return nil
}

func formatExplanations(w io.Writer, explanations []recommend.Explanation, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, explanations)
	}

	fmt.Fprintf(w, "%-16s  %5s  %7s  %6s  %7s  %6s  %6s  %s\n",
		"Crop", "Soil", "Climate", "Market", "Disease", "Water", "CSI", "Tier")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, e := range explanations {
		b := e.Breakdown
		fmt.Fprintf(w, "%-16s  %5.2f  %7.2f  %6.2f  %7.2f  %6.2f  %6.2f  %s\n",
			truncate(e.Name, 16), b.Soil, b.Climate, b.Market, b.Disease, b.Water, b.CSI, b.Tier)
	}
	return nil
}

func init() {
	recommendCmd.Flags().String("farmer", "", "ID of a stored farmer profile (or ID override with --farmer-file)")
	recommendCmd.Flags().String("farmer-file", "", "YAML farmer profile to score")
	recommendCmd.Flags().Bool("explain", false, "print the factor breakdown of every crop without storing a batch")
	recommendCmd.Flags().Bool("dry-run", false, "rank without saving the batch or publishing it")
	recommendCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(recommendCmd)
}
