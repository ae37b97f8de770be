package intelligence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/model"
)

func rankedFixture() []model.LeadScoreResult {
	return []model.LeadScoreResult{
		{LeadID: 1, Score: 90},
		{LeadID: 2, Score: 60},
		{LeadID: 3, Score: 30},
	}
}

func TestTopN(t *testing.T) {
	t.Parallel()

	top, err := TopN(rankedFixture(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 90.0, top[0].Score)
	assert.Equal(t, 60.0, top[1].Score)
}

func TestTopN_LimitBeyondBatch(t *testing.T) {
	t.Parallel()

	top, err := TopN(rankedFixture(), 100)
	require.NoError(t, err)
	assert.Len(t, top, 3)
}

func TestTopN_UsageErrors(t *testing.T) {
	t.Parallel()

	_, err := TopN(rankedFixture(), 101)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))

	_, err = TopN(rankedFixture(), -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))

	top, err := TopN(rankedFixture(), 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	results := []model.LeadScoreResult{
		{Score: 80, PriorityTier: model.TierHot, Segment: model.SegmentChampion, ChurnLabel: model.ChurnLow},
		{Score: 60, PriorityTier: model.TierWarm, Segment: model.SegmentNurture, ChurnLabel: model.ChurnMedium},
		{Score: 10, PriorityTier: model.TierCold, Segment: model.SegmentDormant, ChurnLabel: model.ChurnHigh},
	}
	s := summarize(results, 2)

	assert.Equal(t, 3, s.TotalLeads)
	assert.Equal(t, 2, s.SkippedRows)
	assert.InDelta(t, 50.0, s.AverageScore, 1e-9)
	assert.Equal(t, 1, s.AtRiskCount)
	assert.Equal(t, 1, s.PriorityDistribution[model.TierHot])
	assert.Equal(t, 1, s.PriorityDistribution[model.TierWarm])
	assert.Equal(t, 1, s.PriorityDistribution[model.TierCold])
	assert.Equal(t, 1, s.SegmentDistribution[model.SegmentChampion])
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s := summarize(nil, 0)
	assert.Equal(t, 0, s.TotalLeads)
	assert.Equal(t, 0.0, s.AverageScore)
	assert.Equal(t, 0, s.AtRiskCount)

	sum := 0
	for _, n := range s.PriorityDistribution {
		sum += n
	}
	assert.Equal(t, 0, sum)
}
