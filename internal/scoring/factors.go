// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring converts a farmer profile and a crop profile into factor
// scores, a weighted Crop Suitability Index (CSI), a tier, and templated
// reasons. Every function is pure.
package scoring

import "github.com/pdiddy/crop-engine/pkg/types"

const (
	// MarketPriceCeiling is the price per quintal at which the market
	// factor saturates.
	MarketPriceCeiling = 3000.0

	// WaterScarceRainfallMM is the annual rainfall below which water
	// demand is scored.
	WaterScarceRainfallMM = 800.0

	// ReferenceWaterLitres is the per-plant daily demand scored as zero in
	// water-scarce regions.
	ReferenceWaterLitres = 6.0

	// wetRegionWaterScore applies when water is not a limiting factor.
	wetRegionWaterScore = 0.8
)

// SoilScore averages a soil type match (1.0, else 0.3) and a pH range
// match (1.0, else 0.5).
func SoilScore(f types.FarmerProfile, c types.CropProfile) float64 {
	typeMatch := 0.3
	if c.Soil.Accepts(f.SoilType) {
		typeMatch = 1.0
	}
	phMatch := 0.5
	if c.Soil.PH.Contains(f.SoilPH) {
		phMatch = 1.0
	}
	return (typeMatch + phMatch) / 2
}

// ClimateScore averages a rainfall range match and a match of the farm's
// midpoint temperature; each is 1.0 on a match and 0.4 otherwise.
func ClimateScore(f types.FarmerProfile, c types.CropProfile) float64 {
	rainMatch := 0.4
	if c.Climate.Rainfall.Contains(f.AnnualRainfallMM) {
		rainMatch = 1.0
	}
	tempMatch := 0.4
	if c.Climate.Temperature.Contains(f.Temperature.Midpoint()) {
		tempMatch = 1.0
	}
	return (rainMatch + tempMatch) / 2
}

// MarketScore scales price linearly up to MarketPriceCeiling.
func MarketScore(c types.CropProfile) float64 {
	return min(c.MarketPricePerQuintal/MarketPriceCeiling, 1)
}

// DiseaseScore inverts the 1-10 disease risk.
func DiseaseScore(c types.CropProfile) float64 {
	return (10 - c.DiseaseRisk) / 10
}

// WaterScore favours thirsty-light crops on dry farms. Below
// WaterScarceRainfallMM the score is (6 - litres)/6 and goes negative for
// crops needing more than 6 litres; it is left unclamped so the penalty
// carries through to the CSI.
func WaterScore(f types.FarmerProfile, c types.CropProfile) float64 {
	if f.AnnualRainfallMM < WaterScarceRainfallMM {
		return (ReferenceWaterLitres - c.WaterLitresPerPlantPerDay) / ReferenceWaterLitres
	}
	return wetRegionWaterScore
}
