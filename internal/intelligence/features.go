// Package intelligence implements the multi-model lead scoring pipeline:
// feature normalization, scoring, churn risk, segmentation, and
// recommendations, joined into an MLReport per invocation.
package intelligence

import (
	"math"
	"sort"
	"time"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
)

// engagementCeiling is the source scale of engagement_score.
const engagementCeiling = 100.0

// LeadFeatures is the normalized feature vector for one lead.
// Every normalized field lies in [0,1].
type LeadFeatures struct {
	// RecencyDays is days since last activity, capped at the staleness window.
	// Missing activity counts as the full window.
	RecencyDays float64

	// Staleness is RecencyDays normalized by the staleness window.
	Staleness float64

	// ActivityFrequency is the fraction of the lead's lifetime that had
	// elapsed at its last activity; never-active leads score 0.
	ActivityFrequency float64

	// DealValueNorm is deal value against the configured ceiling.
	DealValueNorm float64

	// EngagementNorm is the engagement score on a 0-1 scale; missing values
	// take the batch median.
	EngagementNorm float64

	// StatusWeight encodes how far along the pipeline the lead is.
	StatusWeight float64
}

var statusWeights = map[model.LeadStatus]float64{
	model.StatusNew:       0.3,
	model.StatusContacted: 0.5,
	model.StatusQualified: 0.8,
	model.StatusWon:       1.0,
	model.StatusLost:      0.0,
}

// Batch holds the per-invocation state shared by all per-lead computations:
// the reference time and the batch-wide engagement median. Computing these
// in a pre-pass keeps NormalizeLead a pure function.
type Batch struct {
	cfg              config.ScoringConfig
	asOf             time.Time
	medianEngagement float64
}

// NewBatch runs the pre-pass over the snapshot. asOf is the single reference
// time for all recency computations in this invocation.
func NewBatch(leads []model.Lead, cfg config.ScoringConfig, asOf time.Time) *Batch {
	return &Batch{
		cfg:              cfg,
		asOf:             asOf,
		medianEngagement: medianEngagement(leads),
	}
}

// medianEngagement computes the batch median of present engagement scores,
// normalized to [0,1]. An all-missing batch gets the mid-scale neutral 0.5.
func medianEngagement(leads []model.Lead) float64 {
	var present []float64
	for _, l := range leads {
		if l.EngagementScore != nil {
			present = append(present, clamp01(*l.EngagementScore/engagementCeiling))
		}
	}
	if len(present) == 0 {
		return 0.5
	}
	sort.Float64s(present)
	mid := len(present) / 2
	if len(present)%2 == 1 {
		return present[mid]
	}
	return (present[mid-1] + present[mid]) / 2
}

// NormalizeLead derives the feature vector for one lead. Pure given the
// batch pre-pass; safe to call concurrently.
func (b *Batch) NormalizeLead(lead model.Lead) LeadFeatures {
	window := float64(b.cfg.StalenessWindowDays)
	if window <= 0 {
		window = 180
	}

	// Recency: missing activity is treated as maximal staleness, capped at
	// the window so extreme gaps don't produce unbounded penalties.
	recency := window
	if lead.LastActivityAt != nil {
		recency = b.asOf.Sub(*lead.LastActivityAt).Hours() / 24
		recency = math.Min(math.Max(recency, 0), window)
	}

	ageDays := math.Max(b.asOf.Sub(lead.CreatedAt).Hours()/24, 1)
	frequency := 0.0
	if lead.LastActivityAt != nil {
		frequency = clamp01((ageDays - recency) / ageDays)
	}

	engagement := b.medianEngagement
	if lead.EngagementScore != nil {
		engagement = clamp01(*lead.EngagementScore / engagementCeiling)
	}

	ceiling := b.cfg.DealValueCeiling
	if ceiling <= 0 {
		ceiling = 250_000
	}

	return LeadFeatures{
		RecencyDays:       recency,
		Staleness:         clamp01(recency / window),
		ActivityFrequency: frequency,
		DealValueNorm:     clamp01(lead.DealValue / ceiling),
		EngagementNorm:    engagement,
		StatusWeight:      statusWeights[lead.Status],
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
