// Package geoanalysis rolls the lead snapshot up by country into market
// metrics, a concentration index, and market-entry recommendations.
package geoanalysis

import (
	"math"
	"sort"

	"github.com/sells-group/lead-intel/internal/intelligence"
	"github.com/sells-group/lead-intel/internal/model"
)

// countryGroup accumulates per-country values during aggregation.
type countryGroup struct {
	country    string
	regions    map[string]int
	leadCount  int
	scoreSum   float64
	totalValue float64
	wonCount   int
}

// Aggregate groups the snapshot by country and computes per-group metrics.
// Scores come from the same scoring model the intelligence pipeline uses,
// evaluated over the same batch pre-pass. Groups below minLeads are flagged
// low-confidence, never suppressed.
//
// The returned slice is ranked by lead count descending, then country name,
// and its share_of_total values sum to 1 over a non-empty snapshot.
func Aggregate(leads []model.Lead, batch *intelligence.Batch, minLeads int) []model.CountryMetrics {
	groups := make(map[string]*countryGroup)
	for _, lead := range leads {
		g, ok := groups[lead.Country]
		if !ok {
			g = &countryGroup{country: lead.Country, regions: make(map[string]int)}
			groups[lead.Country] = g
		}
		g.leadCount++
		g.regions[lead.Region]++
		g.scoreSum += batch.Score(batch.NormalizeLead(lead))
		g.totalValue += lead.DealValue
		if lead.Status == model.StatusWon {
			g.wonCount++
		}
	}

	total := len(leads)
	metrics := make([]model.CountryMetrics, 0, len(groups))
	for _, g := range groups {
		// Groups exist only for non-empty membership, so the divisions are safe.
		metrics = append(metrics, model.CountryMetrics{
			Country:        g.country,
			Region:         modalRegion(g.regions),
			LeadCount:      g.leadCount,
			AverageScore:   round2(g.scoreSum / float64(g.leadCount)),
			TotalValue:     round2(g.totalValue),
			ConversionRate: round4(float64(g.wonCount) / float64(g.leadCount)),
			ShareOfTotal:   float64(g.leadCount) / float64(total),
			LowConfidence:  g.leadCount < minLeads,
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].LeadCount != metrics[j].LeadCount {
			return metrics[i].LeadCount > metrics[j].LeadCount
		}
		return metrics[i].Country < metrics[j].Country
	})
	return metrics
}

// modalRegion picks the most common region in a country group, breaking
// ties alphabetically for a deterministic result.
func modalRegion(regions map[string]int) string {
	best, bestCount := "", -1
	for region, count := range regions {
		if count > bestCount || (count == bestCount && region < best) {
			best, bestCount = region, count
		}
	}
	return best
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
