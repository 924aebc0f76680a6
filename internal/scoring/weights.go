// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"fmt"
	"math"
)

// weightTolerance bounds the floating error allowed in the weight sum.
const weightTolerance = 1e-9

// Weights is the relative importance of each factor. Weights must be
// non-negative and sum to 1.
type Weights struct {
	Soil    float64 `json:"soil" yaml:"soil"`
	Climate float64 `json:"climate" yaml:"climate"`
	Market  float64 `json:"market" yaml:"market"`
	Disease float64 `json:"disease" yaml:"disease"`
	Water   float64 `json:"water" yaml:"water"`
}

// DefaultWeights returns the production weight vector.
func DefaultWeights() Weights {
	return Weights{
		Soil:    0.30,
		Climate: 0.25,
		Market:  0.20,
		Disease: 0.15,
		Water:   0.10,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Soil + w.Climate + w.Market + w.Disease + w.Water
}

// Validate checks that weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"soil": w.Soil, "climate": w.Climate, "market": w.Market,
		"disease": w.Disease, "water": w.Water,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weight %s is %v, must be >= 0", name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights sum to %.12f, must sum to 1.0", sum)
	}
	return nil
}

func init() {
	if err := DefaultWeights().Validate(); err != nil {
		panic("scoring: " + err.Error())
	}
}
