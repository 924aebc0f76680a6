// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crop-engine/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	var ipe *types.InvalidProfileError
	require.True(t, errors.As(err, &ipe), "want *InvalidProfileError, got %v", err)
	assert.Equal(t, field, ipe.Field)
}

func TestDefaultCatalog(t *testing.T) {
	crops := Default()
	require.Len(t, crops, 4)

	ids := []string{crops[0].ID, crops[1].ID, crops[2].ID, crops[3].ID}
	assert.Equal(t, []string{"onion", "potato", "maize", "rice"}, ids)

	rice := crops[3]
	assert.Equal(t, "Rice", rice.Name)
	assert.Equal(t, []string{"clay", "clay-loam"}, rice.Soil.AcceptedTypes)
	assert.Equal(t, types.Range{Min: 5.5, Max: 7.0}, rice.Soil.PH)
	assert.Equal(t, types.Range{Min: 1000, Max: 2000}, rice.Climate.Rainfall)
	assert.Equal(t, 2000.0, rice.MarketPricePerQuintal)
	assert.Equal(t, 5.0, rice.DiseaseRisk)
	assert.Equal(t, 120, rice.GrowthDays)
	assert.Equal(t, 5.0, rice.WaterLitresPerPlantPerDay)
}

const maizeOnly = `
crops:
  - id: maize
    name: Maize
    soil:
      accepted_types: [loam]
      ph_range: {min: 6.0, max: 7.0}
    climate:
      rainfall_range: {min: 600, max: 1200}
      temperature_range: {min: 20, max: 30}
    market_price_per_quintal: 2200
    disease_risk: 3
    growth_days: 110
    water_litres_per_plant_per_day: 4.0
`

func TestLoadCrops(t *testing.T) {
	path := writeFile(t, t.TempDir(), "crops.yaml", maizeOnly)

	crops, err := LoadCrops(path)
	require.NoError(t, err)
	require.Len(t, crops, 1)
	assert.Equal(t, "maize", crops[0].ID)
	assert.Equal(t, 4.0, crops[0].WaterLitresPerPlantPerDay)
}

func TestLoadCropsMissingFile(t *testing.T) {
	_, err := LoadCrops(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseCropsRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "missing water",
			doc:   "crops:\n  - id: x\n    name: X\n    soil: {accepted_types: [loam], ph_range: {min: 5, max: 7}}\n    climate: {rainfall_range: {min: 1, max: 2}, temperature_range: {min: 1, max: 2}}\n    market_price_per_quintal: 10\n    disease_risk: 2\n    growth_days: 30\n",
			field: "water_litres_per_plant_per_day",
		},
		{
			name:  "missing ph max",
			doc:   "crops:\n  - id: x\n    name: X\n    soil: {accepted_types: [loam], ph_range: {min: 5}}\n    climate: {rainfall_range: {min: 1, max: 2}, temperature_range: {min: 1, max: 2}}\n",
			field: "soil.ph_range.max",
		},
		{
			name:  "missing climate",
			doc:   "crops:\n  - id: x\n    name: X\n    soil: {accepted_types: [loam], ph_range: {min: 5, max: 7}}\n",
			field: "climate",
		},
		{
			name:  "zero risk present but invalid",
			doc:   "crops:\n  - id: x\n    name: X\n    soil: {accepted_types: [loam], ph_range: {min: 5, max: 7}}\n    climate: {rainfall_range: {min: 1, max: 2}, temperature_range: {min: 1, max: 2}}\n    market_price_per_quintal: 10\n    disease_risk: 0\n    growth_days: 30\n    water_litres_per_plant_per_day: 1\n",
			field: "disease_risk",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCrops([]byte(tt.doc))
			requireField(t, err, tt.field)
		})
	}
}

func TestParseCropsRejectsDuplicateIDs(t *testing.T) {
	doc := maizeOnly + maizeOnly[len("\ncrops:\n"):]
	_, err := ParseCrops([]byte(doc))
	requireField(t, err, "id")
}

func TestLoadFarmer(t *testing.T) {
	path := writeFile(t, t.TempDir(), "farmer.yaml", `
id: f-7
name: Asha
location: Nashik
farm_size_acres: 2.5
soil_type: loam
soil_ph: 6.8
annual_rainfall_mm: 0
temperature: {min_c: 18, max_c: 30}
`)
	f, err := LoadFarmer(path, "")
	require.NoError(t, err)
	assert.Equal(t, "f-7", f.ID)
	assert.Equal(t, 0.0, f.AnnualRainfallMM, "an explicit zero is accepted")
	assert.Equal(t, 24.0, f.Temperature.Midpoint())

	f, err = LoadFarmer(path, "f-8")
	require.NoError(t, err)
	assert.Equal(t, "f-8", f.ID)
}

func TestDecodeFarmerJSON(t *testing.T) {
	body := `{"location":"Pune","farm_size_acres":1,"soil_type":"black","soil_ph":7.2,"annual_rainfall_mm":650,"temperature":{"min_c":20,"max_c":34}}`

	f, err := DecodeFarmerJSON([]byte(body), "f-9")
	require.NoError(t, err)
	assert.Equal(t, "f-9", f.ID)
	assert.Equal(t, "black", f.SoilType)
}

func TestDecodeFarmerJSONMissingRainfall(t *testing.T) {
	body := `{"location":"Pune","farm_size_acres":1,"soil_type":"black","soil_ph":7.2,"temperature":{"min_c":20,"max_c":34}}`
	_, err := DecodeFarmerJSON([]byte(body), "f-9")
	requireField(t, err, "annual_rainfall_mm")
}

func TestDecodeFarmerJSONRejectsTrailingData(t *testing.T) {
	body := `{"location":"Pune","farm_size_acres":1,"soil_type":"black","soil_ph":7.2,"annual_rainfall_mm":650,"temperature":{"min_c":20,"max_c":34}}`

	for _, trailer := range []string{` {"soil_ph": 4}`, `}`, `garbage`} {
		_, err := DecodeFarmerJSON([]byte(body+trailer), "f-9")
		requireField(t, err, "body")
	}

	_, err := DecodeFarmerJSON([]byte(body+"\n  "), "f-9")
	require.NoError(t, err, "trailing whitespace is fine")
}

func TestDecodeFarmerJSONRejectsUnknownFields(t *testing.T) {
	_, err := DecodeFarmerJSON([]byte(`{"rainfall": 900}`), "f-9")
	requireField(t, err, "body")
}

const wheatRecord = `{"crop_name":"Wheat","planted_on":"2025-11-01","harvested_on":"2026-03-20","quantity_kg":1500,"price_per_kg":24,"buyer":"FCI"}`

func TestDecodePastCropJSON(t *testing.T) {
	pc, err := DecodePastCropJSON([]byte(wheatRecord), "f-1")
	require.NoError(t, err)
	assert.Equal(t, "f-1", pc.FarmerID)
	assert.Equal(t, "Wheat", pc.CropName)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), pc.PlantedOn)
	assert.Equal(t, 36000.0, pc.TotalRevenue, "revenue defaults to quantity x price")
	assert.Equal(t, "FCI", pc.Buyer)

	withRevenue := strings.Replace(wheatRecord, `"buyer"`, `"total_revenue":35000,"buyer"`, 1)
	pc, err = DecodePastCropJSON([]byte(withRevenue), "f-1")
	require.NoError(t, err)
	assert.Equal(t, 35000.0, pc.TotalRevenue)
}

func TestDecodePastCropJSONRejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing planted", strings.Replace(wheatRecord, `"planted_on":"2025-11-01",`, "", 1), "planted_on"},
		{"missing quantity", strings.Replace(wheatRecord, `"quantity_kg":1500,`, "", 1), "quantity_kg"},
		{"bad date", strings.Replace(wheatRecord, "2026-03-20", "20/03/2026", 1), "harvested_on"},
		{"harvest before planting", strings.Replace(wheatRecord, "2026-03-20", "2025-10-01", 1), "harvested_on"},
		{"no crop name", strings.Replace(wheatRecord, `"Wheat"`, `""`, 1), "crop_name"},
		{"unknown field", `{"crop":"Wheat"}`, "body"},
		{"trailing data", wheatRecord + `{}`, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePastCropJSON([]byte(tt.body), "f-1")
			requireField(t, err, tt.field)
		})
	}
}
