package intelligence

import (
	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
)

// dormantStaleness is the normalized staleness at which a low-scoring lead
// counts as dormant rather than merely cold.
const dormantStaleness = 0.75

// SegmentFor assigns exactly one segment from the decision table:
//
//	high score, low churn           -> champion
//	mid-or-high score, high churn   -> at-risk
//	low score, high staleness       -> dormant
//	everything else                 -> nurture
//
// The default branch makes the table exhaustive for any input combination.
func SegmentFor(score float64, churn model.ChurnLabel, f LeadFeatures, cfg config.ScoringConfig) model.Segment {
	switch {
	case score >= cfg.HotThreshold && churn == model.ChurnLow:
		return model.SegmentChampion
	case score >= cfg.WarmThreshold && churn == model.ChurnHigh:
		return model.SegmentAtRisk
	case score < cfg.WarmThreshold && f.Staleness >= dormantStaleness:
		return model.SegmentDormant
	default:
		return model.SegmentNurture
	}
}
