// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"math"

	"github.com/pdiddy/crop-engine/pkg/types"
)

// Tier buckets a CSI for reason selection. Tiers never filter crops.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierModerate  Tier = "moderate"
)

// Tier thresholds; a CSI equal to a threshold falls in the lower tier.
const (
	excellentAbove = 80.0
	goodAbove      = 60.0
)

// Classify maps a CSI to its tier.
func Classify(csi float64) Tier {
	switch {
	case csi > excellentAbove:
		return TierExcellent
	case csi > goodAbove:
		return TierGood
	default:
		return TierModerate
	}
}

// Breakdown holds every factor score for one farmer/crop pair alongside
// the resulting CSI and tier.
type Breakdown struct {
	Soil    float64 `json:"soil" yaml:"soil"`
	Climate float64 `json:"climate" yaml:"climate"`
	Market  float64 `json:"market" yaml:"market"`
	Disease float64 `json:"disease" yaml:"disease"`
	Water   float64 `json:"water" yaml:"water"`

	CSI  float64 `json:"csi" yaml:"csi"`
	Tier Tier    `json:"tier" yaml:"tier"`
}

// Score computes the factor breakdown and CSI of crop c for farmer f with
// weights w. Inputs are assumed to be validated.
func Score(w Weights, f types.FarmerProfile, c types.CropProfile) Breakdown {
	b := Breakdown{
		Soil:    SoilScore(f, c),
		Climate: ClimateScore(f, c),
		Market:  MarketScore(c),
		Disease: DiseaseScore(c),
		Water:   WaterScore(f, c),
	}
	sum := w.Soil*b.Soil +
		w.Climate*b.Climate +
		w.Market*b.Market +
		w.Disease*b.Disease +
		w.Water*b.Water
	b.CSI = RoundHalfUp(sum*100, 2)
	b.Tier = Classify(b.CSI)
	return b
}

// RoundHalfUp rounds v to the given number of decimals, with halves
// rounded towards positive infinity.
func RoundHalfUp(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(v*p+0.5) / p
}
