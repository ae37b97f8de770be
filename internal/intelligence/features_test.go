package intelligence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
)

var asOf = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		RecencyWeight:       0.25,
		ActivityWeight:      0.15,
		DealValueWeight:     0.20,
		EngagementWeight:    0.25,
		StatusWeight:        0.15,
		HotThreshold:        75,
		WarmThreshold:       40,
		StalenessWindowDays: 180,
		DealValueCeiling:    250_000,
	}
}

func lead(id int64, opts ...func(*model.Lead)) model.Lead {
	l := model.Lead{
		ID:        id,
		Company:   "Acme",
		Country:   "Germany",
		Region:    "Europe",
		Status:    model.StatusContacted,
		DealValue: 50_000,
		CreatedAt: asOf.AddDate(-1, 0, 0),
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

func withEngagement(v float64) func(*model.Lead) {
	return func(l *model.Lead) { l.EngagementScore = &v }
}

func withActivity(daysAgo int) func(*model.Lead) {
	return func(l *model.Lead) {
		t := asOf.AddDate(0, 0, -daysAgo)
		l.LastActivityAt = &t
	}
}

func TestMedianEngagement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		leads []model.Lead
		want  float64
	}{
		{
			name: "odd count",
			leads: []model.Lead{
				lead(1, withEngagement(10)),
				lead(2, withEngagement(50)),
				lead(3, withEngagement(90)),
			},
			want: 0.5,
		},
		{
			name: "even count averages middle pair",
			leads: []model.Lead{
				lead(1, withEngagement(20)),
				lead(2, withEngagement(40)),
				lead(3, withEngagement(60)),
				lead(4, withEngagement(80)),
			},
			want: 0.5,
		},
		{
			name: "missing values excluded",
			leads: []model.Lead{
				lead(1, withEngagement(80)),
				lead(2),
				lead(3),
			},
			want: 0.8,
		},
		{
			name:  "all missing falls back to neutral",
			leads: []model.Lead{lead(1), lead(2)},
			want:  0.5,
		},
		{
			name: "out of scale values clamped",
			leads: []model.Lead{
				lead(1, withEngagement(500)),
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, medianEngagement(tt.leads), 1e-9)
		})
	}
}

func TestNormalizeLead_Ranges(t *testing.T) {
	t.Parallel()
	batch := NewBatch(nil, testScoringConfig(), asOf)

	leads := []model.Lead{
		lead(1),
		lead(2, withActivity(0), withEngagement(100), func(l *model.Lead) { l.DealValue = 1e9 }),
		lead(3, withActivity(10_000)),
		lead(4, func(l *model.Lead) { l.Status = model.StatusLost }),
		lead(5, func(l *model.Lead) { l.CreatedAt = asOf }),
	}
	for _, l := range leads {
		f := batch.NormalizeLead(l)
		for name, v := range map[string]float64{
			"staleness":  f.Staleness,
			"activity":   f.ActivityFrequency,
			"deal_value": f.DealValueNorm,
			"engagement": f.EngagementNorm,
			"status":     f.StatusWeight,
		} {
			assert.GreaterOrEqual(t, v, 0.0, "lead %d feature %s", l.ID, name)
			assert.LessOrEqual(t, v, 1.0, "lead %d feature %s", l.ID, name)
		}
	}
}

func TestNormalizeLead_MissingActivityIsMaximallyStale(t *testing.T) {
	t.Parallel()
	batch := NewBatch(nil, testScoringConfig(), asOf)

	f := batch.NormalizeLead(lead(1))
	assert.InDelta(t, 180, f.RecencyDays, 1e-9)
	assert.InDelta(t, 1.0, f.Staleness, 1e-9)
	assert.InDelta(t, 0.0, f.ActivityFrequency, 1e-9)
}

func TestNormalizeLead_RecencyCappedAtWindow(t *testing.T) {
	t.Parallel()
	batch := NewBatch(nil, testScoringConfig(), asOf)

	f := batch.NormalizeLead(lead(1, withActivity(4000)))
	assert.InDelta(t, 180, f.RecencyDays, 1e-9)
	assert.InDelta(t, 1.0, f.Staleness, 1e-9)
}

func TestNormalizeLead_MissingEngagementTakesBatchMedian(t *testing.T) {
	t.Parallel()
	leads := []model.Lead{
		lead(1, withEngagement(20)),
		lead(2, withEngagement(60)),
		lead(3, withEngagement(100)),
		lead(4),
	}
	batch := NewBatch(leads, testScoringConfig(), asOf)

	f := batch.NormalizeLead(leads[3])
	assert.InDelta(t, 0.6, f.EngagementNorm, 1e-9)
}

func TestNormalizeLead_RecentActivityHighFrequency(t *testing.T) {
	t.Parallel()
	batch := NewBatch(nil, testScoringConfig(), asOf)

	recent := batch.NormalizeLead(lead(1, withActivity(1)))
	stale := batch.NormalizeLead(lead(2, withActivity(170)))
	assert.Greater(t, recent.ActivityFrequency, stale.ActivityFrequency)
	assert.Less(t, recent.Staleness, stale.Staleness)
}
