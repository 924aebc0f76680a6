// Package irrigation estimates a crop's daily water need and suggests an
// irrigation method for it.
package irrigation

import (
	"fmt"
	"maps"
	"math"
	"strings"

	"github.com/pdiddy/crop-engine/pkg/types"
)

const (
	// ReferenceET0 is the assumed reference evapotranspiration in mm/day.
	ReferenceET0 = 5.0

	// RainfallShare is the fraction of the need assumed covered by rain.
	RainfallShare = 0.3

	// DripThreshold is the daily need above which drip is suggested.
	DripThreshold = 100.0

	defaultCropCoefficient = 1.0
)

// Method names.
const (
	Drip      = "drip"
	Sprinkler = "sprinkler"
	Flood     = "flood"
)

// cropCoefficients holds the FAO-style Kc per crop, keyed by lower-case name.
var cropCoefficients = map[string]float64{
	"rice":      1.2,
	"wheat":     1.0,
	"maize":     1.1,
	"potato":    1.0,
	"onion":     0.9,
	"tomato":    1.1,
	"cotton":    1.2,
	"sugarcane": 1.3,
}

// MethodInfo describes one irrigation method.
type MethodInfo struct {
	EfficiencyPct int    `json:"efficiency_pct" yaml:"efficiency_pct"`
	WaterSaved    string `json:"water_saved" yaml:"water_saved"`
	Cost          string `json:"cost" yaml:"cost"`
	Suitability   string `json:"suitability" yaml:"suitability"`
}

var methods = map[string]MethodInfo{
	Drip: {
		EfficiencyPct: 90,
		WaterSaved:    "40-50%",
		Cost:          "₹50,000-80,000 per acre (initial)",
		Suitability:   "Best for water-scarce areas, high-value crops",
	},
	Sprinkler: {
		EfficiencyPct: 75,
		WaterSaved:    "20-30%",
		Cost:          "₹25,000-40,000 per acre (initial)",
		Suitability:   "Good for medium-sized fields, cereals",
	},
	Flood: {
		EfficiencyPct: 60,
		WaterSaved:    "0%",
		Cost:          "₹5,000-15,000 per acre (initial)",
		Suitability:   "Traditional method, needs abundant water",
	},
}

// Guide is the irrigation advice for one crop on one farm.
type Guide struct {
	CropName        string                `json:"crop_name" yaml:"crop_name"`
	FarmSizeAcres   float64               `json:"farm_size_acres" yaml:"farm_size_acres"`
	CropCoefficient float64               `json:"crop_coefficient" yaml:"crop_coefficient"`
	DailyWaterNeed  float64               `json:"daily_water_need" yaml:"daily_water_need"`
	Methods         map[string]MethodInfo `json:"methods" yaml:"methods"`
	Recommended     string                `json:"recommended" yaml:"recommended"`
}

// CropCoefficient returns Kc for cropName, 1.0 for unknown crops.
func CropCoefficient(cropName string) float64 {
	if kc, ok := cropCoefficients[strings.ToLower(strings.TrimSpace(cropName))]; ok {
		return kc
	}
	return defaultCropCoefficient
}

// For computes the guide for cropName on a farm of farmSizeAcres.
//
// The daily need is ET0 x Kc x acres x (1 - RainfallShare), rounded to a
// whole number. Drip is suggested above DripThreshold, flood for rice,
// sprinkler otherwise.
func For(cropName string, farmSizeAcres float64) (Guide, error) {
	if strings.TrimSpace(cropName) == "" {
		return Guide{}, &types.InvalidProfileError{Subject: "irrigation", Field: "crop_name", Reason: "is required"}
	}
	if math.IsNaN(farmSizeAcres) || math.IsInf(farmSizeAcres, 0) || farmSizeAcres <= 0 {
		return Guide{}, &types.InvalidProfileError{
			Subject: "irrigation", Field: "farm_size_acres",
			Reason: fmt.Sprintf("must be > 0, got %v", farmSizeAcres),
		}
	}

	kc := CropCoefficient(cropName)
	need := ReferenceET0 * kc * farmSizeAcres * (1 - RainfallShare)

	recommended := Sprinkler
	switch {
	case need > DripThreshold:
		recommended = Drip
	case strings.EqualFold(strings.TrimSpace(cropName), "rice"):
		recommended = Flood
	}

	return Guide{
		CropName:        cropName,
		FarmSizeAcres:   farmSizeAcres,
		CropCoefficient: kc,
		DailyWaterNeed:  math.Round(need),
		Methods:         maps.Clone(methods),
		Recommended:     recommended,
	}, nil
}
