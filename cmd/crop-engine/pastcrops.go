// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crop-engine/internal/catalog"
	"github.com/pdiddy/crop-engine/pkg/types"
)

var pastCropsCmd = &cobra.Command{
	Use:   "past-crops",
	Short: "Record and list a farmer's harvested crops",
}

// --- add subcommand ---

var pastCropsAddCmd = &cobra.Command{
	Use:   "add <farmer-id>",
	Short: "Record a harvested crop for a stored farmer",
	Long: `Add appends a harvest to the farmer's ledger. Dates use YYYY-MM-DD.
--revenue defaults to quantity x price when omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runPastCropsAdd,
}

func runPastCropsAdd(cmd *cobra.Command, args []string) error {
	const subject = "past crop"
	name, _ := cmd.Flags().GetString("crop")
	plantedStr, _ := cmd.Flags().GetString("planted")
	harvestedStr, _ := cmd.Flags().GetString("harvested")
	quantity, _ := cmd.Flags().GetFloat64("quantity")
	price, _ := cmd.Flags().GetFloat64("price")
	revenue, _ := cmd.Flags().GetFloat64("revenue")
	buyer, _ := cmd.Flags().GetString("buyer")
	notes, _ := cmd.Flags().GetString("notes")

	planted, err := catalog.ParseDate(subject, "planted_on", plantedStr)
	if err != nil {
		return err
	}
	harvested, err := catalog.ParseDate(subject, "harvested_on", harvestedStr)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("revenue") {
		revenue = quantity * price
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

	saved, err := st.AddPastCrop(ctx, types.PastCrop{
		FarmerID:     args[0],
		CropName:     name,
		PlantedOn:    planted,
		HarvestedOn:  harvested,
		QuantityKg:   quantity,
		PricePerKg:   price,
		TotalRevenue: revenue,
		Buyer:        buyer,
		Notes:        notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for farmer %s (#%d)\n", saved.CropName, saved.FarmerID, saved.ID)
	return nil
}

// --- list subcommand ---

var pastCropsListCmd = &cobra.Command{
	Use:   "list <farmer-id>",
	Short: "List a farmer's harvests, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE:  runPastCropsList,
}

func runPastCropsList(cmd *cobra.Command, args []string) error {
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

	crops, err := st.PastCrops(ctx, args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPastCrops(cmd.OutOrStdout(), crops, jsonOutput)
}

func formatPastCrops(w io.Writer, crops []types.PastCrop, jsonOutput bool) error {
	if jsonOutput {
		if crops == nil {
			crops = []types.PastCrop{}
		}
		return writeJSON(w, crops)
	}

	if len(crops) == 0 {
		fmt.Fprintln(w, "No past crops recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-14s  %-10s  %-10s  %9s  %7s  %10s  %s\n",
		"Crop", "Planted", "Harvested", "Qty (kg)", "Rs/kg", "Revenue", "Buyer")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	var total float64
	for _, pc := range crops {
		fmt.Fprintf(w, "%-14s  %-10s  %-10s  %9.0f  %7.2f  %10.0f  %s\n",
			truncate(pc.CropName, 14),
			pc.PlantedOn.Format("2006-01-02"), pc.HarvestedOn.Format("2006-01-02"),
			pc.QuantityKg, pc.PricePerKg, pc.TotalRevenue, pc.Buyer)
		total += pc.TotalRevenue
	}

	fmt.Fprintf(w, "\n%d harvests, total revenue %.0f\n", len(crops), total)
	return nil
}

func init() {
	pastCropsAddCmd.Flags().String("crop", "", "crop name")
	pastCropsAddCmd.Flags().String("planted", "", "planting date (YYYY-MM-DD)")
	pastCropsAddCmd.Flags().String("harvested", "", "harvest date (YYYY-MM-DD)")
	pastCropsAddCmd.Flags().Float64("quantity", 0, "harvested quantity in kg")
	pastCropsAddCmd.Flags().Float64("price", 0, "sale price per kg")
	pastCropsAddCmd.Flags().Float64("revenue", 0, "total revenue (default quantity x price)")
	pastCropsAddCmd.Flags().String("buyer", "", "buyer name")
	pastCropsAddCmd.Flags().String("notes", "", "free-form notes")
	_ = pastCropsAddCmd.MarkFlagRequired("crop")
	_ = pastCropsAddCmd.MarkFlagRequired("planted")
	_ = pastCropsAddCmd.MarkFlagRequired("harvested")

	pastCropsListCmd.Flags().Bool("json", false, "output as JSON")

	pastCropsCmd.AddCommand(pastCropsAddCmd)
	pastCropsCmd.AddCommand(pastCropsListCmd)

	farmerCmd.AddCommand(pastCropsCmd)
}
