// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crop-engine/pkg/types"
)

const floatTol = 1e-9

func riceFarmer() types.FarmerProfile {
	return types.FarmerProfile{
		ID:               "f-1",
		Location:         "Cuttack",
		FarmSizeAcres:    3,
		SoilType:         "clay-loam",
		SoilPH:           6.2,
		AnnualRainfallMM: 1100,
		Temperature:      types.TemperatureRange{MinC: 22, MaxC: 32},
	}
}

func rice() types.CropProfile {
	return types.CropProfile{
		ID:   "rice",
		Name: "Rice",
		Soil: types.SoilRequirements{
			AcceptedTypes: []string{"clay", "clay-loam"},
			PH:            types.Range{Min: 5.5, Max: 7.0},
		},
		Climate: types.ClimateRequirements{
			Rainfall:    types.Range{Min: 1000, Max: 2000},
			Temperature: types.Range{Min: 20, Max: 35},
		},
		MarketPricePerQuintal:     2000,
		DiseaseRisk:               5,
		GrowthDays:                120,
		WaterLitresPerPlantPerDay: 5.0,
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), floatTol)
	assert.NoError(t, w.Validate())
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{"default", DefaultWeights(), false},
		{"equal fifths", Weights{0.2, 0.2, 0.2, 0.2, 0.2}, false},
		{"sum above one", Weights{0.3, 0.3, 0.2, 0.15, 0.1}, true},
		{"sum below one", Weights{0.3, 0.25, 0.2, 0.15, 0.09}, true},
		{"negative weight", Weights{0.5, 0.35, 0.2, 0.15, -0.2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSoilScore(t *testing.T) {
	tests := []struct {
		name     string
		soilType string
		ph       float64
		want     float64
	}{
		{"type and ph match", "clay", 6.0, 1.0},
		{"type only", "clay", 8.0, 0.75},
		{"ph only", "sandy", 6.0, 0.65},
		{"neither", "sandy", 8.0, 0.4},
		{"ph on lower edge", "clay", 5.5, 1.0},
		{"ph on upper edge", "clay", 7.0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := riceFarmer()
			f.SoilType = tt.soilType
			f.SoilPH = tt.ph
			assert.InDelta(t, tt.want, SoilScore(f, rice()), floatTol)
		})
	}
}

func TestClimateScore(t *testing.T) {
	tests := []struct {
		name     string
		rainfall float64
		temp     types.TemperatureRange
		want     float64
	}{
		{"both match", 1100, types.TemperatureRange{MinC: 22, MaxC: 32}, 1.0},
		{"rain misses", 900, types.TemperatureRange{MinC: 22, MaxC: 32}, 0.7},
		{"midpoint misses", 1100, types.TemperatureRange{MinC: 10, MaxC: 20}, 0.7},
		{"both miss", 500, types.TemperatureRange{MinC: 30, MaxC: 50}, 0.4},
		{"midpoint on edge", 1000, types.TemperatureRange{MinC: 30, MaxC: 40}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := riceFarmer()
			f.AnnualRainfallMM = tt.rainfall
			f.Temperature = tt.temp
			assert.InDelta(t, tt.want, ClimateScore(f, rice()), floatTol)
		})
	}
}

func TestMarketScoreSaturates(t *testing.T) {
	c := rice()
	for price, want := range map[float64]float64{0: 0, 1500: 0.5, 3000: 1, 4500: 1} {
		c.MarketPricePerQuintal = price
		assert.InDelta(t, want, MarketScore(c), floatTol, "price %v", price)
	}
}

func TestDiseaseScore(t *testing.T) {
	c := rice()
	c.DiseaseRisk = 1
	assert.InDelta(t, 0.9, DiseaseScore(c), floatTol)
	c.DiseaseRisk = 10
	assert.InDelta(t, 0.0, DiseaseScore(c), floatTol)
}

func TestWaterScore(t *testing.T) {
	f := riceFarmer()
	c := rice()

	f.AnnualRainfallMM = 800
	assert.InDelta(t, 0.8, WaterScore(f, c), floatTol, "800mm is not water-scarce")

	f.AnnualRainfallMM = 799
	c.WaterLitresPerPlantPerDay = 3
	assert.InDelta(t, 0.5, WaterScore(f, c), floatTol)

	c.WaterLitresPerPlantPerDay = 9
	assert.InDelta(t, -0.5, WaterScore(f, c), floatTol, "heavy demand keeps its negative penalty")
}

func TestScoreRiceScenario(t *testing.T) {
	b := Score(DefaultWeights(), riceFarmer(), rice())

	assert.InDelta(t, 1.0, b.Soil, floatTol)
	assert.InDelta(t, 1.0, b.Climate, floatTol)
	assert.InDelta(t, 2000.0/3000.0, b.Market, floatTol)
	assert.InDelta(t, 0.5, b.Disease, floatTol)
	assert.InDelta(t, 0.8, b.Water, floatTol)
	assert.Equal(t, 83.83, b.CSI)
	assert.Equal(t, TierExcellent, b.Tier)
	assert.Equal(t, []string{ReasonExcellentMatch, ReasonHighDemand}, Reasons(b.Tier, rice()))
}

func TestScoreIsIdempotent(t *testing.T) {
	f, c := riceFarmer(), rice()
	first := Score(DefaultWeights(), f, c)
	second := Score(DefaultWeights(), f, c)
	assert.Equal(t, first, second)
}

func TestScoreBounds(t *testing.T) {
	soils := []string{"clay", "sandy"}
	rainfalls := []float64{0, 500, 799, 800, 1500, 3000}
	for _, soil := range soils {
		for _, rain := range rainfalls {
			for risk := 1.0; risk <= 10; risk++ {
				for _, water := range []float64{0, 3, 6} {
					f := riceFarmer()
					f.SoilType = soil
					f.AnnualRainfallMM = rain
					c := rice()
					c.DiseaseRisk = risk
					c.WaterLitresPerPlantPerDay = water

					b := Score(DefaultWeights(), f, c)
					for _, v := range []float64{b.Soil, b.Climate, b.Market, b.Disease, b.Water} {
						require.GreaterOrEqual(t, v, 0.0)
						require.LessOrEqual(t, v, 1.0)
					}
					require.GreaterOrEqual(t, b.CSI, 0.0)
					require.LessOrEqual(t, b.CSI, 100.0)
				}
			}
		}
	}
}

func TestThirstyCropOnDryFarmCanGoNegative(t *testing.T) {
	f := riceFarmer()
	f.AnnualRainfallMM = 300
	c := rice()
	c.WaterLitresPerPlantPerDay = 600

	b := Score(DefaultWeights(), f, c)
	assert.InDelta(t, -99.0, b.Water, floatTol)

	w := DefaultWeights()
	want := 100 * (w.Soil*b.Soil + w.Climate*b.Climate + w.Market*b.Market + w.Disease*b.Disease + w.Water*b.Water)
	assert.InDelta(t, want, b.CSI, 0.01)
	assert.Less(t, b.CSI, 0.0, "the water penalty carries through to the CSI")
	assert.Equal(t, TierModerate, b.Tier)
}

func TestScoreMonotonicity(t *testing.T) {
	f := riceFarmer()

	prev := math.Inf(-1)
	for risk := 10.0; risk >= 1; risk -= 0.5 {
		c := rice()
		c.DiseaseRisk = risk
		csi := Score(DefaultWeights(), f, c).CSI
		assert.GreaterOrEqual(t, csi, prev, "lowering risk to %v decreased CSI", risk)
		prev = csi
	}

	prev = math.Inf(-1)
	for price := 0.0; price <= MarketPriceCeiling; price += 250 {
		c := rice()
		c.MarketPricePerQuintal = price
		csi := Score(DefaultWeights(), f, c).CSI
		assert.GreaterOrEqual(t, csi, prev, "raising price to %v decreased CSI", price)
		prev = csi
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		csi  float64
		want Tier
	}{
		{100, TierExcellent},
		{80.01, TierExcellent},
		{80, TierGood},
		{60.01, TierGood},
		{60, TierModerate},
		{0, TierModerate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.csi), "csi %v", tt.csi)
	}
}

func TestReasons(t *testing.T) {
	lowRisk := rice()
	lowRisk.DiseaseRisk = 3
	thirsty := rice()
	thirsty.WaterLitresPerPlantPerDay = 4.5
	frugal := rice()
	frugal.WaterLitresPerPlantPerDay = 4

	tests := []struct {
		name string
		tier Tier
		crop types.CropProfile
		want []string
	}{
		{"excellent", TierExcellent, lowRisk, []string{ReasonExcellentMatch, ReasonHighDemand}},
		{"good low risk", TierGood, lowRisk, []string{ReasonGoodMatch, ReasonLowDisease}},
		{"good risk 5", TierGood, rice(), []string{ReasonGoodMatch}},
		{"moderate thirsty", TierModerate, thirsty, []string{ReasonModerate, ReasonHighWater}},
		{"moderate at 4 litres", TierModerate, frugal, []string{ReasonModerate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reasons(tt.tier, tt.crop))
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 83.83, RoundHalfUp(83.8333333, 2))
	assert.Equal(t, 3.0, RoundHalfUp(2.5, 0))
	assert.Equal(t, 0.13, RoundHalfUp(0.125, 2))
	assert.Equal(t, 2.0, RoundHalfUp(1.999, 2))
}
