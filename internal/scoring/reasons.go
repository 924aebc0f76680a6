// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import "github.com/pdiddy/crop-engine/pkg/types"

// Reason texts shown alongside a recommendation.
const (
	ReasonExcellentMatch = "Excellent match for your soil and climate"
	ReasonHighDemand     = "High market demand and good prices"
	ReasonGoodMatch      = "Good compatibility with your farm conditions"
	ReasonLowDisease     = "Low disease risk"
	ReasonModerate       = "Moderate suitability - consider with care"
	ReasonHighWater      = "High water requirement"
)

const (
	lowDiseaseBelow = 4.0
	highWaterAbove  = 4.0
)

// Reasons returns the ordered justification strings for a crop in tier t.
func Reasons(t Tier, c types.CropProfile) []string {
	switch t {
	case TierExcellent:
		return []string{ReasonExcellentMatch, ReasonHighDemand}
	case TierGood:
		reasons := []string{ReasonGoodMatch}
		if c.DiseaseRisk < lowDiseaseBelow {
			reasons = append(reasons, ReasonLowDisease)
		}
		return reasons
	default:
		reasons := []string{ReasonModerate}
		if c.WaterLitresPerPlantPerDay > highWaterAbove {
			reasons = append(reasons, ReasonHighWater)
		}
		return reasons
	}
}
