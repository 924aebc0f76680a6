// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// PastCrop is one harvested crop in a farmer's ledger.
type PastCrop struct {
	// ID is assigned by the store; zero until saved.
	ID       int64  `json:"id" yaml:"id"`
	FarmerID string `json:"farmer_id" yaml:"farmer_id"`
	CropName string `json:"crop_name" yaml:"crop_name"`

	PlantedOn   time.Time `json:"planted_on" yaml:"planted_on"`
	HarvestedOn time.Time `json:"harvested_on" yaml:"harvested_on"`

	QuantityKg   float64 `json:"quantity_kg" yaml:"quantity_kg"`
	PricePerKg   float64 `json:"price_per_kg" yaml:"price_per_kg"`
	TotalRevenue float64 `json:"total_revenue" yaml:"total_revenue"`

	Buyer string `json:"buyer,omitempty" yaml:"buyer,omitempty"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate reports the first field outside its domain.
func (p PastCrop) Validate() error {
	subject := "past crop"
	if p.CropName != "" {
		subject = "past crop " + p.CropName
	}
	switch {
	case strings.TrimSpace(p.FarmerID) == "":
		return invalid(subject, "farmer_id", "is required")
	case strings.TrimSpace(p.CropName) == "":
		return invalid(subject, "crop_name", "is required")
	case p.PlantedOn.IsZero():
		return invalid(subject, "planted_on", "is required")
	case p.HarvestedOn.IsZero():
		return invalid(subject, "harvested_on", "is required")
	case p.HarvestedOn.Before(p.PlantedOn):
		return invalid(subject, "harvested_on", "%s is before planted_on %s",
			p.HarvestedOn.Format(time.DateOnly), p.PlantedOn.Format(time.DateOnly))
	case !finite(p.QuantityKg) || p.QuantityKg < 0:
		return invalid(subject, "quantity_kg", "must be >= 0, got %v", p.QuantityKg)
	case !finite(p.PricePerKg) || p.PricePerKg < 0:
		return invalid(subject, "price_per_kg", "must be >= 0, got %v", p.PricePerKg)
	case !finite(p.TotalRevenue) || p.TotalRevenue < 0:
		return invalid(subject, "total_revenue", "must be >= 0, got %v", p.TotalRevenue)
	}
	return nil
}
