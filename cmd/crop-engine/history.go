// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crop-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history <farmer-id>",
	Short: "List stored recommendation batches for a farmer, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

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

	batches, err := st.History(ctx, args[0], limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(cmd.OutOrStdout(), batches, jsonOutput)
}

func formatHistory(w io.Writer, batches []types.RecommendationBatch, jsonOutput bool) error {
	if jsonOutput {
		if batches == nil {
			batches = []types.RecommendationBatch{}
		}
		return writeJSON(w, batches)
	}

	if len(batches) == 0 {
		fmt.Fprintln(w, "No recommendations found.")
		return nil
	}

	fmt.Fprintf(w, "%-25s  %-10s  %6s  %s\n", "Created", "Top crop", "CSI", "Ranked crops")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, b := range batches {
		top, csi := "-", 0.0
		ids := make([]string, len(b.Crops))
		for i, c := range b.Crops {
			ids[i] = c.CropID
		}
		if len(b.Crops) > 0 {
			top, csi = b.Crops[0].CropID, b.Crops[0].CSI
		}
		fmt.Fprintf(w, "%-25s  %-10s  %6.2f  %s\n",
			b.CreatedAt.Format("2006-01-02 15:04:05 MST"), truncate(top, 10), csi, strings.Join(ids, ", "))
	}

	fmt.Fprintf(w, "\n%d batches\n", len(batches))
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum batches to show (0 = store.history_limit)")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
