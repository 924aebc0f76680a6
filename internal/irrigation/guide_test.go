package irrigation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crop-engine/pkg/types"
)

func TestCropCoefficient(t *testing.T) {
	assert.Equal(t, 1.2, CropCoefficient("rice"))
	assert.Equal(t, 1.2, CropCoefficient(" Rice "))
	assert.Equal(t, 0.9, CropCoefficient("onion"))
	assert.Equal(t, 1.0, CropCoefficient("quinoa"), "unknown crops use 1.0")
}

func TestFor(t *testing.T) {
	tests := []struct {
		name      string
		crop      string
		acres     float64
		wantNeed  float64
		wantRecom string
	}{
		// 5 * 1.1 * 4 * 0.7 = 15.4
		{"maize small farm", "Maize", 4, 15, Sprinkler},
		// 5 * 1.2 * 10 * 0.7 = 42
		{"rice floods", "rice", 10, 42, Flood},
		// 5 * 1.2 * 30 * 0.7 = 126
		{"large rice farm gets drip", "Rice", 30, 126, Drip},
		// 5 * 1.0 * 28.57 * 0.7 = 99.995, below the threshold
		{"just under drip threshold", "wheat", 28.57, 100, Sprinkler},
		// 5 * 0.9 * 2.5 * 0.7 = 7.875
		{"onion rounds up", "onion", 2.5, 8, Sprinkler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := For(tt.crop, tt.acres)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNeed, g.DailyWaterNeed)
			assert.Equal(t, tt.wantRecom, g.Recommended)
			assert.Len(t, g.Methods, 3)
			assert.Equal(t, 90, g.Methods[Drip].EfficiencyPct)
		})
	}
}

func TestForReturnsIndependentMethods(t *testing.T) {
	g, err := For("rice", 1)
	require.NoError(t, err)
	g.Methods[Drip] = MethodInfo{}

	again, err := For("rice", 1)
	require.NoError(t, err)
	assert.Equal(t, 90, again.Methods[Drip].EfficiencyPct)
}

func TestForRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		crop  string
		acres float64
		field string
	}{
		{"no crop", " ", 3, "crop_name"},
		{"zero acres", "rice", 0, "farm_size_acres"},
		{"negative acres", "rice", -2, "farm_size_acres"},
		{"nan acres", "rice", math.NaN(), "farm_size_acres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := For(tt.crop, tt.acres)
			var ipe *types.InvalidProfileError
			require.True(t, errors.As(err, &ipe), "got %v", err)
			assert.Equal(t, tt.field, ipe.Field)
		})
	}
}
