package intelligence

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/model"
)

// summarize computes the batch-level statistics. average_score is defined
// as 0 for an empty batch.
func summarize(results []model.LeadScoreResult, skipped int) *model.MLSummary {
	summary := &model.MLSummary{
		TotalLeads:  len(results),
		SkippedRows: skipped,
		PriorityDistribution: map[model.PriorityTier]int{
			model.TierHot:  0,
			model.TierWarm: 0,
			model.TierCold: 0,
		},
		SegmentDistribution: map[model.Segment]int{},
	}

	total := 0.0
	for _, r := range results {
		total += r.Score
		summary.PriorityDistribution[r.PriorityTier]++
		summary.SegmentDistribution[r.Segment]++
		if r.ChurnLabel == model.ChurnHigh {
			summary.AtRiskCount++
		}
	}
	if len(results) > 0 {
		avg := total / float64(len(results))
		summary.AverageScore = math.Round(avg*100) / 100
	}
	return summary
}

// rankAll returns all results sorted by the ranking total order.
func rankAll(results []model.LeadScoreResult) []model.LeadScoreResult {
	ranked := make([]model.LeadScoreResult, len(results))
	copy(ranked, results)
	sort.Slice(ranked, func(i, j int) bool { return rankLess(ranked[i], ranked[j]) })
	return ranked
}

// atRisk filters leads with a high churn label, sorted by churn probability
// descending with ties broken by lead id.
func atRisk(results []model.LeadScoreResult) []model.LeadScoreResult {
	var out []model.LeadScoreResult
	for _, r := range results {
		if r.ChurnLabel == model.ChurnHigh {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChurnProbability != out[j].ChurnProbability {
			return out[i].ChurnProbability > out[j].ChurnProbability
		}
		return out[i].LeadID < out[j].LeadID
	})
	return out
}

// TopN truncates an already-ranked lead list to the requested count.
// Counts outside [0, MaxTopLeads] are rejected before any work happens.
func TopN(ranked []model.LeadScoreResult, limit int) ([]model.LeadScoreResult, error) {
	if limit < 0 {
		return nil, eris.Wrapf(ErrUsage, "top leads limit %d is negative", limit)
	}
	if limit > MaxTopLeads {
		return nil, eris.Wrapf(ErrUsage, "top leads limit %d exceeds maximum %d", limit, MaxTopLeads)
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit], nil
}
