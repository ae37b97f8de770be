package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
)

func testChurnConfig() config.ChurnConfig {
	return config.ChurnConfig{HighThreshold: 0.7, MediumThreshold: 0.3}
}

func TestChurnProbability_Bounds(t *testing.T) {
	t.Parallel()

	grid := []float64{0, 0.25, 0.5, 0.75, 1}
	for _, s := range grid {
		for _, e := range grid {
			for _, w := range grid {
				p := ChurnProbability(LeadFeatures{Staleness: s, EngagementNorm: e, StatusWeight: w})
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
			}
		}
	}
}

func TestChurnProbability_MonotoneInStaleness(t *testing.T) {
	t.Parallel()

	// Holding other features fixed, probability must never decrease as the
	// lead grows staler.
	base := LeadFeatures{EngagementNorm: 0.6, StatusWeight: 0.5}
	prev := -1.0
	for s := 0.0; s <= 1.0; s += 0.05 {
		f := base
		f.Staleness = s
		p := ChurnProbability(f)
		assert.GreaterOrEqual(t, p, prev, "staleness %.2f", s)
		prev = p
	}
}

func TestChurnProbability_DecreasingInEngagement(t *testing.T) {
	t.Parallel()

	engaged := ChurnProbability(LeadFeatures{Staleness: 0.5, EngagementNorm: 0.9, StatusWeight: 0.5})
	disengaged := ChurnProbability(LeadFeatures{Staleness: 0.5, EngagementNorm: 0.1, StatusWeight: 0.5})
	assert.Greater(t, disengaged, engaged)
}

func TestChurnLabelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p    float64
		want model.ChurnLabel
	}{
		{0.75, model.ChurnHigh},
		{0.7, model.ChurnHigh},
		{0.5, model.ChurnMedium},
		{0.3, model.ChurnMedium},
		{0.1, model.ChurnLow},
		{0, model.ChurnLow},
		{1, model.ChurnHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChurnLabelFor(tt.p, testChurnConfig()), "probability %.2f", tt.p)
	}
}

func TestChurnLabelFor_IsMonotoneBucketing(t *testing.T) {
	t.Parallel()

	rank := map[model.ChurnLabel]int{model.ChurnLow: 0, model.ChurnMedium: 1, model.ChurnHigh: 2}
	prev := 0
	for p := 0.0; p <= 1.0; p += 0.01 {
		r := rank[ChurnLabelFor(p, testChurnConfig())]
		assert.GreaterOrEqual(t, r, prev, "probability %.2f", p)
		prev = r
	}
}
