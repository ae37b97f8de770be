package intelligence

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
)

// ValidateScoringConfig checks that the weights form a proper convex
// combination over the feature vector.
func ValidateScoringConfig(cfg config.ScoringConfig) error {
	weights := map[string]float64{
		"recency_weight":    cfg.RecencyWeight,
		"activity_weight":   cfg.ActivityWeight,
		"deal_value_weight": cfg.DealValueWeight,
		"engagement_weight": cfg.EngagementWeight,
		"status_weight":     cfg.StatusWeight,
	}
	sum := 0.0
	for name, w := range weights {
		if w < 0 {
			return eris.Errorf("scoring: %s must be >= 0", name)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		return eris.Errorf("scoring: weights must sum to 1, got %.6f", sum)
	}
	if cfg.WarmThreshold >= cfg.HotThreshold {
		return eris.Errorf("scoring: warm threshold %.1f must be below hot threshold %.1f",
			cfg.WarmThreshold, cfg.HotThreshold)
	}
	return nil
}

// Score converts a feature vector into a 0-100 lead score: a weighted sum of
// the normalized features scaled to the score range, clamped, and rounded to
// two decimals. Deterministic for identical features.
func (b *Batch) Score(f LeadFeatures) float64 {
	total := b.cfg.RecencyWeight*(1-f.Staleness) +
		b.cfg.ActivityWeight*f.ActivityFrequency +
		b.cfg.DealValueWeight*f.DealValueNorm +
		b.cfg.EngagementWeight*f.EngagementNorm +
		b.cfg.StatusWeight*f.StatusWeight

	score := math.Min(math.Max(total*100, 0), 100)
	return math.Round(score*100) / 100
}

// Tier buckets a score into the fixed priority tiers.
func (b *Batch) Tier(score float64) model.PriorityTier {
	switch {
	case score >= b.cfg.HotThreshold:
		return model.TierHot
	case score >= b.cfg.WarmThreshold:
		return model.TierWarm
	default:
		return model.TierCold
	}
}

// rankLess is the total order used for lead rankings: score descending,
// then more recent activity, then id ascending.
func rankLess(a, b model.LeadScoreResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	switch {
	case a.LastActivityAt != nil && b.LastActivityAt != nil:
		if !a.LastActivityAt.Equal(*b.LastActivityAt) {
			return a.LastActivityAt.After(*b.LastActivityAt)
		}
	case a.LastActivityAt != nil:
		return true
	case b.LastActivityAt != nil:
		return false
	}
	return a.LeadID < b.LeadID
}
