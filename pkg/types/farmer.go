// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"slices"
	"strings"
)

// Soil pH domain accepted for farmer profiles.
const (
	MinSoilPH = 4.0
	MaxSoilPH = 9.0
)

// SoilTypes is the controlled vocabulary for FarmerProfile.SoilType.
var SoilTypes = []string{
	"loam", "clay", "clay-loam", "sandy", "sandy-loam",
	"silt", "silt-loam", "black", "red", "alluvial",
}

// IsSoilType reports whether s belongs to the soil type vocabulary.
func IsSoilType(s string) bool {
	return slices.Contains(SoilTypes, s)
}

// TemperatureRange is a farm's typical temperature band in degrees Celsius.
type TemperatureRange struct {
	MinC float64 `json:"min_c" yaml:"min_c"`
	MaxC float64 `json:"max_c" yaml:"max_c"`
}

// Midpoint returns the average of MinC and MaxC.
func (t TemperatureRange) Midpoint() float64 {
	return (t.MinC + t.MaxC) / 2
}

// FarmerProfile describes one farmer's land and climate.
type FarmerProfile struct {
	// ID is the farmer identity used as the recommendation store key.
	ID string `json:"id" yaml:"id"`

	// Name is an optional display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Location      string  `json:"location" yaml:"location"`
	FarmSizeAcres float64 `json:"farm_size_acres" yaml:"farm_size_acres"`

	// SoilType is one of SoilTypes.
	SoilType string  `json:"soil_type" yaml:"soil_type"`
	SoilPH   float64 `json:"soil_ph" yaml:"soil_ph"`

	// AnnualRainfallMM is total yearly rainfall in millimetres.
	AnnualRainfallMM float64 `json:"annual_rainfall_mm" yaml:"annual_rainfall_mm"`

	Temperature TemperatureRange `json:"temperature" yaml:"temperature"`
}

// NewFarmerProfile returns p if it passes Validate.
func NewFarmerProfile(p FarmerProfile) (FarmerProfile, error) {
	if err := p.Validate(); err != nil {
		return FarmerProfile{}, err
	}
	return p, nil
}

// Validate checks every field against its declared domain and returns an
// *InvalidProfileError for the first violation.
func (p FarmerProfile) Validate() error {
	subject := "farmer"
	if p.ID != "" {
		subject = "farmer " + p.ID
	}

	switch {
	case strings.TrimSpace(p.ID) == "":
		return invalid(subject, "id", "is required")
	case strings.TrimSpace(p.Location) == "":
		return invalid(subject, "location", "is required")
	case !finite(p.FarmSizeAcres) || p.FarmSizeAcres <= 0:
		return invalid(subject, "farm_size_acres", "must be > 0, got %v", p.FarmSizeAcres)
	case p.SoilType == "":
		return invalid(subject, "soil_type", "is required")
	case !IsSoilType(p.SoilType):
		return invalid(subject, "soil_type", "%q is not a known soil type", p.SoilType)
	case !finite(p.SoilPH) || p.SoilPH < MinSoilPH || p.SoilPH > MaxSoilPH:
		return invalid(subject, "soil_ph", "must be within [%.1f, %.1f], got %v", MinSoilPH, MaxSoilPH, p.SoilPH)
	case !finite(p.AnnualRainfallMM) || p.AnnualRainfallMM < 0:
		return invalid(subject, "annual_rainfall_mm", "must be >= 0, got %v", p.AnnualRainfallMM)
	case !finite(p.Temperature.MinC) || !finite(p.Temperature.MaxC):
		return invalid(subject, "temperature", "must be finite")
	case p.Temperature.MinC > p.Temperature.MaxC:
		return invalid(subject, "temperature", "min_c %v exceeds max_c %v", p.Temperature.MinC, p.Temperature.MaxC)
	}
	return nil
}
