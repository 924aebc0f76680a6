// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crop-engine/internal/catalog"
	"github.com/pdiddy/crop-engine/pkg/types"
)

var cropsCmd = &cobra.Command{
	Use:   "crops",
	Short: "List or replace the crop catalog",
	Long: `Crops manages the catalog stored in the SQLite database. The catalog is
seeded with the built-in crops the first time the store is opened.`,
}

// --- list subcommand ---

var cropsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the stored crop catalog",
	RunE:  runCropsList,
}

func runCropsList(cmd *cobra.Command, args []string) error {
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

	crops, err := st.Catalog(ctx)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatCrops(cmd.OutOrStdout(), crops, jsonOutput)
}

func formatCrops(w io.Writer, crops []types.CropProfile, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, crops)
	}

	if len(crops) == 0 {
		fmt.Fprintln(w, "Catalog is empty.")
		return nil
	}

	fmt.Fprintf(w, "%-12s  %-14s  %-24s  %-9s  %-11s  %-9s  %7s  %4s  %5s\n",
		"ID", "Name", "Soil", "pH", "Rain (mm)", "Temp (C)", "Price", "Risk", "Water")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, c := range crops {
		soil := strings.Join(c.Soil.AcceptedTypes, ",")
		if len(soil) > 24 {
			soil = soil[:21] + "..."
		}
		fmt.Fprintf(w, "%-12s  %-14s  %-24s  %-9s  %-11s  %-9s  %7.0f  %4.1f  %5.1f\n",
			truncate(c.ID, 12), truncate(c.Name, 14), soil,
			formatRange(c.Soil.PH, "%.1f"),
			formatRange(c.Climate.Rainfall, "%.0f"),
			formatRange(c.Climate.Temperature, "%.0f"),
			c.MarketPricePerQuintal, c.DiseaseRisk, c.WaterLitresPerPlantPerDay)
	}

	fmt.Fprintf(w, "\n%d crops\n", len(crops))
	return nil
}

// --- import subcommand ---

var cropsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored catalog with a YAML catalog file",
	Long: `Import validates every crop in the file and replaces the whole stored
catalog in one transaction. The stored catalog is unchanged when any crop
is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runCropsImport,
}

func runCropsImport(cmd *cobra.Command, args []string) error {
	crops, err := catalog.LoadCrops(args[0])
	if err != nil {
		return err
	}

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

	if err := st.ImportCatalog(ctx, crops); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d crops from %s\n", len(crops), args[0])
	return nil
}

// --- shared helpers ---

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func formatRange(r types.Range, verb string) string {
	return fmt.Sprintf(verb+"-"+verb, r.Min, r.Max)
}

func init() {
	cropsListCmd.Flags().Bool("json", false, "output the catalog as JSON")

	cropsCmd.AddCommand(cropsListCmd)
	cropsCmd.AddCommand(cropsImportCmd)

	rootCmd.AddCommand(cropsCmd)
}
