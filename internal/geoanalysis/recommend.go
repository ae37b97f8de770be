package geoanalysis

import (
	"fmt"

	"github.com/sells-group/lead-intel/internal/model"
)

// globalBaseline holds the snapshot-wide averages each market is compared to.
type globalBaseline struct {
	avgScore      float64
	avgConversion float64
}

// baseline computes the lead-weighted global averages over all markets.
func baseline(metrics []model.CountryMetrics) globalBaseline {
	var leads int
	var scoreSum, convSum float64
	for _, m := range metrics {
		leads += m.LeadCount
		scoreSum += m.AverageScore * float64(m.LeadCount)
		convSum += m.ConversionRate * float64(m.LeadCount)
	}
	if leads == 0 {
		return globalBaseline{}
	}
	return globalBaseline{
		avgScore:      scoreSum / float64(leads),
		avgConversion: convSum / float64(leads),
	}
}

// Recommend derives one strategic recommendation per country by comparing
// its metrics to the global baseline: expand when score and conversion both
// exceed the baseline by the margin, deprioritize when both fall short of it
// by the margin, monitor otherwise. The rationale cites the metric deltas.
func Recommend(metrics []model.CountryMetrics, margin float64) []model.MarketRecommendation {
	if margin <= 0 {
		margin = 0.10
	}
	base := baseline(metrics)

	recs := make([]model.MarketRecommendation, 0, len(metrics))
	for _, m := range metrics {
		scoreDelta := relativeDelta(m.AverageScore, base.avgScore)
		convDelta := relativeDelta(m.ConversionRate, base.avgConversion)

		var action model.MarketAction
		switch {
		case scoreDelta >= margin && convDelta >= margin:
			action = model.ActionExpand
		case scoreDelta <= -margin && convDelta <= -margin:
			action = model.ActionDeprioritize
		default:
			action = model.ActionMonitor
		}

		rationale := fmt.Sprintf(
			"avg score %.1f vs global %.1f (%+.0f%%); conversion %.1f%% vs global %.1f%% (%+.0f%%)",
			m.AverageScore, base.avgScore, scoreDelta*100,
			m.ConversionRate*100, base.avgConversion*100, convDelta*100,
		)
		if m.LowConfidence {
			rationale += fmt.Sprintf("; low confidence, only %d lead(s)", m.LeadCount)
		}

		recs = append(recs, model.MarketRecommendation{
			Country:        m.Country,
			Recommendation: action,
			Rationale:      rationale,
		})
	}
	return recs
}

// relativeDelta returns (v-base)/base, treating a zero baseline as no delta.
func relativeDelta(v, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (v - base) / base
}
