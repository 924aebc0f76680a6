// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ScoredCrop is one ranked entry of a recommendation run.
type ScoredCrop struct {
	CropID string `json:"crop_id" yaml:"crop_id"`

	// CSI is the Crop Suitability Index, two decimals. It is at most 100
	// and drops below 0 only for very thirsty crops on dry farms.
	CSI float64 `json:"csi" yaml:"csi"`

	// Reasons are short templated justifications, in display order.
	Reasons []string `json:"reasons" yaml:"reasons"`
}

// RecommendationBatch is the persisted output of one ranking run. Crops is
// ordered by rank (descending CSI) and holds at most five entries. A batch
// is never mutated; the next run supersedes it.
type RecommendationBatch struct {
	FarmerID  string       `json:"farmer_id" yaml:"farmer_id"`
	Crops     []ScoredCrop `json:"crops" yaml:"crops"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
}

// DetailedCrop pairs a ScoredCrop with its catalog entry for display.
// Crop is nil when the crop has since left the catalog.
type DetailedCrop struct {
	ScoredCrop `yaml:",inline"`
	Crop       *CropProfile `json:"crop,omitempty" yaml:"crop,omitempty"`
}

// DetailedBatch is a RecommendationBatch with catalog details attached.
type DetailedBatch struct {
	FarmerID  string         `json:"farmer_id" yaml:"farmer_id"`
	Crops     []DetailedCrop `json:"crops" yaml:"crops"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}
