// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/pdiddy/crop-engine/pkg/types"
)

type pastCropDoc struct {
	CropName     string   `json:"crop_name"`
	PlantedOn    *string  `json:"planted_on"`
	HarvestedOn  *string  `json:"harvested_on"`
	QuantityKg   *float64 `json:"quantity_kg"`
	PricePerKg   *float64 `json:"price_per_kg"`
	TotalRevenue *float64 `json:"total_revenue"`
	Buyer        string   `json:"buyer"`
	Notes        string   `json:"notes"`
}

// DecodePastCropJSON decodes and validates a JSON past-crop record for
// farmerID. Dates use YYYY-MM-DD. When total_revenue is absent it is
// quantity_kg x price_per_kg.
func DecodePastCropJSON(data []byte, farmerID string) (types.PastCrop, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc pastCropDoc
	if err := dec.Decode(&doc); err != nil {
		return types.PastCrop{}, &types.InvalidProfileError{Subject: "past crop", Field: "body", Reason: err.Error()}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return types.PastCrop{}, &types.InvalidProfileError{Subject: "past crop", Field: "body", Reason: "unexpected data after the record object"}
	}

	subject := "past crop"
	switch {
	case doc.PlantedOn == nil:
		return types.PastCrop{}, missing(subject, "planted_on")
	case doc.HarvestedOn == nil:
		return types.PastCrop{}, missing(subject, "harvested_on")
	case doc.QuantityKg == nil:
		return types.PastCrop{}, missing(subject, "quantity_kg")
	case doc.PricePerKg == nil:
		return types.PastCrop{}, missing(subject, "price_per_kg")
	}

	pc := types.PastCrop{
		FarmerID:   farmerID,
		CropName:   doc.CropName,
		QuantityKg: *doc.QuantityKg,
		PricePerKg: *doc.PricePerKg,
		Buyer:      doc.Buyer,
		Notes:      doc.Notes,
	}
	var err error
	if pc.PlantedOn, err = ParseDate(subject, "planted_on", *doc.PlantedOn); err != nil {
		return types.PastCrop{}, err
	}
	if pc.HarvestedOn, err = ParseDate(subject, "harvested_on", *doc.HarvestedOn); err != nil {
		return types.PastCrop{}, err
	}
	if doc.TotalRevenue != nil {
		pc.TotalRevenue = *doc.TotalRevenue
	} else {
		pc.TotalRevenue = pc.QuantityKg * pc.PricePerKg
	}

	if err := pc.Validate(); err != nil {
		return types.PastCrop{}, err
	}
	return pc, nil
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(subject, field, s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, &types.InvalidProfileError{Subject: subject, Field: field, Reason: "must be a YYYY-MM-DD date, got " + s}
	}
	return t, nil
}
