package intelligence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/store"
)

// stubStore implements store.Store over a fixed snapshot.
type stubStore struct {
	leads   []model.Lead
	skipped int
	err     error
}

func (s *stubStore) FetchActiveLeads(context.Context) ([]model.Lead, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.leads, s.skipped, nil
}

func (s *stubStore) Ping(context.Context) error { return s.err }
func (s *stubStore) Close() error               { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Scoring:  testScoringConfig(),
		Churn:    testChurnConfig(),
		Geo:      config.GeoConfig{MinLeadsPerCountry: 2, ExpandMargin: 0.10},
		Pipeline: config.PipelineConfig{Workers: 4},
	}
}

func newTestEngine(t *testing.T, st store.Store) *Engine {
	t.Helper()
	engine, err := NewEngine(st, testConfig())
	require.NoError(t, err)
	engine.now = func() time.Time { return asOf }
	return engine
}

func snapshot() []model.Lead {
	return []model.Lead{
		lead(1, withActivity(2), withEngagement(95), func(l *model.Lead) {
			l.Status = model.StatusQualified
			l.DealValue = 240_000
		}),
		lead(2, withActivity(45), withEngagement(60)),
		lead(3, withEngagement(5), func(l *model.Lead) {
			l.Status = model.StatusNew
			l.DealValue = 1_000
		}),
		lead(4, withActivity(170), withEngagement(10), func(l *model.Lead) {
			l.Country = "France"
		}),
	}
}

func TestEngineRun_Success(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, &stubStore{leads: snapshot(), skipped: 1})

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.ReportSuccess, report.Status)
	assert.Empty(t, report.Error)
	assert.NotEmpty(t, report.ReportID)
	assert.Equal(t, asOf.UTC(), report.Timestamp)

	require.NotNil(t, report.Summary)
	assert.Equal(t, 4, report.Summary.TotalLeads)
	assert.Equal(t, 1, report.Summary.SkippedRows)

	// Tier counts partition the batch.
	distSum := 0
	for _, n := range report.Summary.PriorityDistribution {
		distSum += n
	}
	assert.Equal(t, report.Summary.TotalLeads, distSum)

	// Score and probability bounds hold for every lead.
	require.Len(t, report.TopLeads, 4)
	for _, l := range report.TopLeads {
		assert.GreaterOrEqual(t, l.Score, 0.0)
		assert.LessOrEqual(t, l.Score, 100.0)
		assert.GreaterOrEqual(t, l.ChurnProbability, 0.0)
		assert.LessOrEqual(t, l.ChurnProbability, 1.0)
	}

	// Ranking is the documented total order.
	for i := 1; i < len(report.TopLeads); i++ {
		assert.False(t, rankLess(report.TopLeads[i], report.TopLeads[i-1]),
			"top_leads out of order at %d", i)
	}

	// Every at-risk lead is part of the batch and labeled high.
	ids := map[int64]bool{}
	for _, l := range report.TopLeads {
		ids[l.LeadID] = true
	}
	for _, l := range report.AtRiskLeads {
		assert.True(t, ids[l.LeadID])
		assert.Equal(t, model.ChurnHigh, l.ChurnLabel)
	}
	assert.Equal(t, report.Summary.AtRiskCount, len(report.AtRiskLeads))

	// At-risk view sorted by probability descending.
	for i := 1; i < len(report.AtRiskLeads); i++ {
		assert.GreaterOrEqual(t,
			report.AtRiskLeads[i-1].ChurnProbability,
			report.AtRiskLeads[i].ChurnProbability)
	}
}

func TestEngineRun_EmptySnapshot(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, &stubStore{})

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.ReportSuccess, report.Status)
	assert.Equal(t, 0, report.Summary.TotalLeads)
	assert.Equal(t, 0.0, report.Summary.AverageScore)
	assert.Empty(t, report.TopLeads)
	assert.Empty(t, report.AtRiskLeads)
	assert.Empty(t, report.Recommendations)
}

func TestEngineRun_StoreFailure(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, &stubStore{err: store.ErrUnavailable})

	report, err := engine.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrUnavailable))

	assert.Equal(t, model.ReportFailed, report.Status)
	assert.NotEmpty(t, report.Error)
	assert.Nil(t, report.Summary)
	assert.Empty(t, report.TopLeads)
}

func TestEngineRun_Idempotent(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, &stubStore{leads: snapshot()})

	first, err := engine.Run(context.Background())
	require.NoError(t, err)
	second, err := engine.Run(context.Background())
	require.NoError(t, err)

	// Identical except the per-invocation report id.
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.TopLeads, second.TopLeads)
	assert.Equal(t, first.AtRiskLeads, second.AtRiskLeads)
	assert.Equal(t, first.Recommendations, second.Recommendations)
	assert.Equal(t, first.Timestamp, second.Timestamp)
	assert.NotEqual(t, first.ReportID, second.ReportID)
}

func TestEngineRun_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	parallel := newTestEngine(t, &stubStore{leads: snapshot()})

	sequential, err := NewEngine(&stubStore{leads: snapshot()}, testConfig())
	require.NoError(t, err)
	sequential.now = func() time.Time { return asOf }
	sequential.workers = 1

	a, err := parallel.Run(context.Background())
	require.NoError(t, err)
	b, err := sequential.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.TopLeads, b.TopLeads)
	assert.Equal(t, a.Recommendations, b.Recommendations)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestNewEngine_RejectsBadWeights(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Scoring.EngagementWeight = 0.9
	_, err := NewEngine(&stubStore{}, cfg)
	assert.Error(t, err)
}
