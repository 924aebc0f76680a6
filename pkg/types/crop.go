// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"slices"
	"strings"
)

// Disease risk scale bounds; higher is riskier.
const (
	MinDiseaseRisk = 1.0
	MaxDiseaseRisk = 10.0
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) valid() bool {
	return finite(r.Min) && finite(r.Max) && r.Min <= r.Max
}

// SoilRequirements lists the soils and pH band a crop tolerates.
type SoilRequirements struct {
	AcceptedTypes []string `json:"accepted_types" yaml:"accepted_types"`
	PH            Range    `json:"ph_range" yaml:"ph_range"`
}

// Accepts reports whether soilType is one of AcceptedTypes.
func (s SoilRequirements) Accepts(soilType string) bool {
	return slices.Contains(s.AcceptedTypes, soilType)
}

// ClimateRequirements lists the rainfall (mm/year) and temperature (°C)
// bands a crop needs.
type ClimateRequirements struct {
	Rainfall    Range `json:"rainfall_range" yaml:"rainfall_range"`
	Temperature Range `json:"temperature_range" yaml:"temperature_range"`
}

// CropProfile is one entry of the reference crop catalog. It is read-only
// at scoring time.
type CropProfile struct {
	// ID is unique within a catalog and becomes ScoredCrop.CropID.
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`

	Soil    SoilRequirements    `json:"soil" yaml:"soil"`
	Climate ClimateRequirements `json:"climate" yaml:"climate"`

	MarketPricePerQuintal float64 `json:"market_price_per_quintal" yaml:"market_price_per_quintal"`

	// DiseaseRisk is on a 1-10 scale.
	DiseaseRisk float64 `json:"disease_risk" yaml:"disease_risk"`

	GrowthDays int `json:"growth_days" yaml:"growth_days"`

	// BaseTemperatureC is the growing-degree-day base temperature.
	BaseTemperatureC float64 `json:"base_temperature_c,omitempty" yaml:"base_temperature_c,omitempty"`

	WaterLitresPerPlantPerDay float64 `json:"water_litres_per_plant_per_day" yaml:"water_litres_per_plant_per_day"`
}

// NewCropProfile returns c if it passes Validate.
func NewCropProfile(c CropProfile) (CropProfile, error) {
	if err := c.Validate(); err != nil {
		return CropProfile{}, err
	}
	return c, nil
}

// Validate checks every field against its declared domain.
func (c CropProfile) Validate() error {
	subject := "crop"
	if c.ID != "" {
		subject = "crop " + c.ID
	}

	switch {
	case strings.TrimSpace(c.ID) == "":
		return invalid(subject, "id", "is required")
	case strings.TrimSpace(c.Name) == "":
		return invalid(subject, "name", "is required")
	case len(c.Soil.AcceptedTypes) == 0:
		return invalid(subject, "soil.accepted_types", "must list at least one soil type")
	case !c.Soil.PH.valid():
		return invalid(subject, "soil.ph_range", "min %v must not exceed max %v", c.Soil.PH.Min, c.Soil.PH.Max)
	case !c.Climate.Rainfall.valid():
		return invalid(subject, "climate.rainfall_range", "min %v must not exceed max %v", c.Climate.Rainfall.Min, c.Climate.Rainfall.Max)
	case !c.Climate.Temperature.valid():
		return invalid(subject, "climate.temperature_range", "min %v must not exceed max %v", c.Climate.Temperature.Min, c.Climate.Temperature.Max)
	case !finite(c.MarketPricePerQuintal) || c.MarketPricePerQuintal < 0:
		return invalid(subject, "market_price_per_quintal", "must be >= 0, got %v", c.MarketPricePerQuintal)
	case !finite(c.DiseaseRisk) || c.DiseaseRisk < MinDiseaseRisk || c.DiseaseRisk > MaxDiseaseRisk:
		return invalid(subject, "disease_risk", "must be within [1, 10], got %v", c.DiseaseRisk)
	case c.GrowthDays <= 0:
		return invalid(subject, "growth_days", "must be > 0, got %d", c.GrowthDays)
	case !finite(c.WaterLitresPerPlantPerDay) || c.WaterLitresPerPlantPerDay < 0:
		return invalid(subject, "water_litres_per_plant_per_day", "must be >= 0, got %v", c.WaterLitresPerPlantPerDay)
	}
	return nil
}
