// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/crop-engine/pkg/types"
)

// AddPastCrop validates pc and appends it to the farmer's ledger. The
// farmer must already have a stored profile. The returned copy carries
// the assigned ID.
func (s *Store) AddPastCrop(ctx context.Context, pc types.PastCrop) (types.PastCrop, error) {
	if err := pc.Validate(); err != nil {
		return types.PastCrop{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.PastCrop{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM farmers WHERE id = ?`, pc.FarmerID).Scan(&exists); err != nil {
		return types.PastCrop{}, fmt.Errorf("looking up farmer %s: %w", pc.FarmerID, err)
	}
	if exists == 0 {
		return types.PastCrop{}, fmt.Errorf("adding past crop for %s: %w", pc.FarmerID, types.ErrUnknownFarmer)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO past_crops (farmer_id, crop_name, planted_at, harvested_at, quantity_kg, price_per_kg, total_revenue, buyer, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pc.FarmerID, pc.CropName, pc.PlantedOn.UnixNano(), pc.HarvestedOn.UnixNano(),
		pc.QuantityKg, pc.PricePerKg, pc.TotalRevenue, pc.Buyer, pc.Notes,
	)
	if err != nil {
		return types.PastCrop{}, fmt.Errorf("inserting past crop: %w", err)
	}
	if pc.ID, err = res.LastInsertId(); err != nil {
		return types.PastCrop{}, fmt.Errorf("reading past crop id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return types.PastCrop{}, fmt.Errorf("committing past crop: %w", err)
	}
	return pc, nil
}

// PastCrops returns the farmer's ledger, most recent harvest first.
func (s *Store) PastCrops(ctx context.Context, farmerID string) ([]types.PastCrop, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, farmer_id, crop_name, planted_at, harvested_at, quantity_kg, price_per_kg, total_revenue, buyer, notes
		 FROM past_crops WHERE farmer_id = ?
		 ORDER BY harvested_at DESC, id DESC`, farmerID)
	if err != nil {
		return nil, fmt.Errorf("querying past crops: %w", err)
	}
	defer rows.Close()

	var out []types.PastCrop
	for rows.Next() {
		var (
			pc                 types.PastCrop
			planted, harvested int64
		)
		if err := rows.Scan(&pc.ID, &pc.FarmerID, &pc.CropName, &planted, &harvested,
			&pc.QuantityKg, &pc.PricePerKg, &pc.TotalRevenue, &pc.Buyer, &pc.Notes); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		pc.PlantedOn = time.Unix(0, planted).UTC()
		pc.HarvestedOn = time.Unix(0, harvested).UTC()
		out = append(out, pc)
	}
	return out, rows.Err()
}
