// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads crop catalogs and farmer profiles from YAML and
// JSON documents. Decoding is strict: a required field that is absent is
// reported as *types.InvalidProfileError instead of defaulting to zero.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/crop-engine/pkg/types"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default returns the built-in catalog.
func Default() []types.CropProfile {
	crops, err := ParseCrops(defaultCatalog)
	if err != nil {
		panic("catalog: built-in catalog is invalid: " + err.Error())
	}
	return crops
}

// LoadCrops reads a YAML catalog file. See ParseCrops.
func LoadCrops(path string) ([]types.CropProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	crops, err := ParseCrops(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return crops, nil
}

// ParseCrops decodes a YAML document with a top-level "crops" list and
// validates every entry. File order is preserved; it is the catalog order
// used for tie-breaking.
func ParseCrops(data []byte) ([]types.CropProfile, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	crops := make([]types.CropProfile, 0, len(doc.Crops))
	seen := make(map[string]bool, len(doc.Crops))
	for i, cd := range doc.Crops {
		c, err := cd.profile(i)
		if err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, &types.InvalidProfileError{Subject: "crop " + c.ID, Field: "id", Reason: "is duplicated in the catalog"}
		}
		seen[c.ID] = true
		crops = append(crops, c)
	}
	return crops, nil
}

type catalogDoc struct {
	Crops []cropDoc `yaml:"crops"`
}

type rangeDoc struct {
	Min *float64 `json:"min" yaml:"min"`
	Max *float64 `json:"max" yaml:"max"`
}

func (r *rangeDoc) value(subject, field string) (types.Range, error) {
	switch {
	case r == nil:
		return types.Range{}, missing(subject, field)
	case r.Min == nil:
		return types.Range{}, missing(subject, field+".min")
	case r.Max == nil:
		return types.Range{}, missing(subject, field+".max")
	}
	return types.Range{Min: *r.Min, Max: *r.Max}, nil
}

type cropDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
	Soil *struct {
		AcceptedTypes []string  `yaml:"accepted_types"`
		PH            *rangeDoc `yaml:"ph_range"`
	} `yaml:"soil"`
	Climate *struct {
		Rainfall    *rangeDoc `yaml:"rainfall_range"`
		Temperature *rangeDoc `yaml:"temperature_range"`
	} `yaml:"climate"`
	MarketPricePerQuintal     *float64 `yaml:"market_price_per_quintal"`
	DiseaseRisk               *float64 `yaml:"disease_risk"`
	GrowthDays                *int     `yaml:"growth_days"`
	BaseTemperatureC          float64  `yaml:"base_temperature_c"`
	WaterLitresPerPlantPerDay *float64 `yaml:"water_litres_per_plant_per_day"`
}

func (d cropDoc) profile(index int) (types.CropProfile, error) {
	subject := fmt.Sprintf("crop #%d", index+1)
	if d.ID != "" {
		subject = "crop " + d.ID
	}

	c := types.CropProfile{ID: d.ID, Name: d.Name, Icon: d.Icon, BaseTemperatureC: d.BaseTemperatureC}
	if d.Soil == nil {
		return c, missing(subject, "soil")
	}
	if d.Climate == nil {
		return c, missing(subject, "climate")
	}
	c.Soil.AcceptedTypes = d.Soil.AcceptedTypes

	var err error
	if c.Soil.PH, err = d.Soil.PH.value(subject, "soil.ph_range"); err != nil {
		return c, err
	}
	if c.Climate.Rainfall, err = d.Climate.Rainfall.value(subject, "climate.rainfall_range"); err != nil {
		return c, err
	}
	if c.Climate.Temperature, err = d.Climate.Temperature.value(subject, "climate.temperature_range"); err != nil {
		return c, err
	}

	switch {
	case d.MarketPricePerQuintal == nil:
		return c, missing(subject, "market_price_per_quintal")
	case d.DiseaseRisk == nil:
		return c, missing(subject, "disease_risk")
	case d.GrowthDays == nil:
		return c, missing(subject, "growth_days")
	case d.WaterLitresPerPlantPerDay == nil:
		return c, missing(subject, "water_litres_per_plant_per_day")
	}
	c.MarketPricePerQuintal = *d.MarketPricePerQuintal
	c.DiseaseRisk = *d.DiseaseRisk
	c.GrowthDays = *d.GrowthDays
	c.WaterLitresPerPlantPerDay = *d.WaterLitresPerPlantPerDay

	return types.NewCropProfile(c)
}

func missing(subject, field string) error {
	return &types.InvalidProfileError{Subject: subject, Field: field, Reason: "is required"}
}
