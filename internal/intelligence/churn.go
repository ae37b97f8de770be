package intelligence

import (
	"math"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
)

// Churn component weights. Staleness dominates: the probability must be
// non-decreasing in recency-days with the other features held fixed.
const (
	churnStalenessWeight  = 0.55
	churnEngagementWeight = 0.30
	churnStatusWeight     = 0.15
)

// ChurnProbability estimates the likelihood a lead disengages without
// converting, from the same feature vector the scoring model consumes.
func ChurnProbability(f LeadFeatures) float64 {
	p := churnStalenessWeight*f.Staleness +
		churnEngagementWeight*(1-f.EngagementNorm) +
		churnStatusWeight*(1-f.StatusWeight)
	p = clamp01(p)
	return math.Round(p*10000) / 10000
}

// ChurnLabelFor buckets a probability into the fixed churn labels.
func ChurnLabelFor(p float64, cfg config.ChurnConfig) model.ChurnLabel {
	high := cfg.HighThreshold
	medium := cfg.MediumThreshold
	if high <= 0 {
		high = 0.7
	}
	if medium <= 0 {
		medium = 0.3
	}
	switch {
	case p >= high:
		return model.ChurnHigh
	case p >= medium:
		return model.ChurnMedium
	default:
		return model.ChurnLow
	}
}
