// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/crop-engine/internal/catalog"
	"github.com/pdiddy/crop-engine/pkg/types"
)

var farmerCmd = &cobra.Command{
	Use:   "farmer",
	Short: "Store or show farmer profiles",
}

// --- set subcommand ---

var farmerSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Validate and store a YAML farmer profile",
	Long: `Set reads a farmer profile from a YAML file, validates it and stores
it, replacing any profile with the same ID. Use --id to override the ID in
the file or --generate-id to assign a fresh one.`,
	Args: cobra.ExactArgs(1),
	RunE: runFarmerSet,
}

func runFarmerSet(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	generate, _ := cmd.Flags().GetBool("generate-id")
	if generate {
		if id != "" {
			return errors.New("--id and --generate-id are mutually exclusive")
		}
		id = uuid.NewString()
	}

	farmer, err := catalog.LoadFarmer(args[0], id)
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

	if err := st.UpsertFarmer(ctx, farmer); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored farmer %s\n", farmer.ID)
	return nil
}

// --- show subcommand ---

var farmerShowCmd = &cobra.Command{
	Use:   "show <farmer-id>",
	Short: "Print a stored farmer profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runFarmerShow,
}

func runFarmerShow(cmd *cobra.Command, args []string) error {
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

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatFarmer(cmd.OutOrStdout(), farmer, jsonOutput)
}

func formatFarmer(w io.Writer, f types.FarmerProfile, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, f)
	}
	fmt.Fprintf(w, "ID:          %s\n", f.ID)
	if f.Name != "" {
		fmt.Fprintf(w, "Name:        %s\n", f.Name)
	}
	fmt.Fprintf(w, "Location:    %s\n", f.Location)
	fmt.Fprintf(w, "Farm size:   %.2f acres\n", f.FarmSizeAcres)
	fmt.Fprintf(w, "Soil:        %s, pH %.1f\n", f.SoilType, f.SoilPH)
	fmt.Fprintf(w, "Rainfall:    %.0f mm/year\n", f.AnnualRainfallMM)
	fmt.Fprintf(w, "Temperature: %.1f-%.1f C (midpoint %.1f)\n",
		f.Temperature.MinC, f.Temperature.MaxC, f.Temperature.Midpoint())
	return nil
}

func init() {
	farmerSetCmd.Flags().String("id", "", "farmer ID, overriding the id in the file")
	farmerSetCmd.Flags().Bool("generate-id", false, "assign a new random farmer ID")
	farmerShowCmd.Flags().Bool("json", false, "output the profile as JSON")

	farmerCmd.AddCommand(farmerSetCmd)
	farmerCmd.AddCommand(farmerShowCmd)

	rootCmd.AddCommand(farmerCmd)
}
