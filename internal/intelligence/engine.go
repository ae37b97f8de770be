package intelligence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/store"
)

// MaxTopLeads is the largest top-leads count a caller may request.
const MaxTopLeads = 100

// ErrUsage means a caller-supplied parameter is out of contract. Rejected
// before any computation runs.
var ErrUsage = eris.New("intelligence: usage error")

// Engine runs the full lead intelligence pipeline over one snapshot per
// invocation. It holds no state between invocations.
type Engine struct {
	store     store.Store
	scoring   config.ScoringConfig
	churn     config.ChurnConfig
	workers   int
	catalogue Catalogue
	now       func() time.Time
}

// NewEngine validates the configuration and builds an Engine. A rules path
// in the pipeline config overrides the built-in recommendation catalogue.
func NewEngine(st store.Store, cfg *config.Config) (*Engine, error) {
	if err := ValidateScoringConfig(cfg.Scoring); err != nil {
		return nil, err
	}

	catalogue := DefaultCatalogue()
	if cfg.Pipeline.RulesPath != "" {
		c, err := LoadCatalogue(cfg.Pipeline.RulesPath)
		if err != nil {
			return nil, err
		}
		catalogue = c
	}

	workers := cfg.Pipeline.Workers
	if workers <= 0 {
		workers = 8
	}

	return &Engine{
		store:     st,
		scoring:   cfg.Scoring,
		churn:     cfg.Churn,
		workers:   workers,
		catalogue: catalogue,
		now:       time.Now,
	}, nil
}

// Run fetches one snapshot and executes all models over it. The report
// fails as a whole only when the store does; per-lead problems are counted
// and excluded.
func (e *Engine) Run(ctx context.Context) (*model.MLReport, error) {
	start := e.now()
	report := &model.MLReport{
		ReportID:  uuid.NewString(),
		Timestamp: start.UTC(),
	}

	leads, skipped, err := e.store.FetchActiveLeads(ctx)
	if err != nil {
		report.Status = model.ReportFailed
		report.Error = eris.ToString(err, false)
		return report, err
	}

	results, excluded, err := e.scoreAll(ctx, leads, start)
	if err != nil {
		// Only context cancellation reaches here.
		report.Status = model.ReportFailed
		report.Error = eris.ToString(err, false)
		return report, err
	}

	report.Status = model.ReportSuccess
	report.Summary = summarize(results, skipped+excluded)
	report.TopLeads = rankAll(results)
	report.AtRiskLeads = atRisk(results)
	report.Recommendations = e.catalogue.Recommend(results)

	zap.L().Info("intelligence: run complete",
		zap.String("report_id", report.ReportID),
		zap.Int("leads", len(results)),
		zap.Int("skipped", skipped+excluded),
		zap.Duration("elapsed", e.now().Sub(start)),
	)
	return report, nil
}

// scoreAll runs the per-lead models over the snapshot with a bounded worker
// pool. Results are written into an index-addressed slice so the output is
// identical to sequential execution.
func (e *Engine) scoreAll(ctx context.Context, leads []model.Lead, asOf time.Time) ([]model.LeadScoreResult, int, error) {
	batch := NewBatch(leads, e.scoring, asOf)

	results := make([]*model.LeadScoreResult, len(leads))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, lead := range leads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.scoreOne(batch, lead)
			if err != nil {
				zap.L().Warn("intelligence: excluding lead",
					zap.Int64("lead_id", lead.ID), zap.Error(err))
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, eris.Wrap(err, "intelligence: score batch")
	}

	out := make([]model.LeadScoreResult, 0, len(leads))
	excluded := 0
	for _, r := range results {
		if r == nil {
			excluded++
			continue
		}
		out = append(out, *r)
	}
	return out, excluded, nil
}

// scoreOne applies the scoring, churn, and segmentation models to one lead.
func (e *Engine) scoreOne(batch *Batch, lead model.Lead) (model.LeadScoreResult, error) {
	f := batch.NormalizeLead(lead)
	if err := validateFeatures(f); err != nil {
		return model.LeadScoreResult{}, err
	}

	score := batch.Score(f)
	prob := ChurnProbability(f)
	label := ChurnLabelFor(prob, e.churn)

	return model.LeadScoreResult{
		LeadID:           lead.ID,
		Company:          lead.Company,
		Country:          lead.Country,
		Score:            score,
		PriorityTier:     batch.Tier(score),
		ChurnProbability: prob,
		ChurnLabel:       label,
		Segment:          SegmentFor(score, label, f, e.scoring),
		DealValue:        lead.DealValue,
		LastActivityAt:   lead.LastActivityAt,
	}, nil
}

// validateFeatures guards the normalized-range contract of the feature
// vector before any model consumes it.
func validateFeatures(f LeadFeatures) error {
	for name, v := range map[string]float64{
		"staleness":          f.Staleness,
		"activity_frequency": f.ActivityFrequency,
		"deal_value_norm":    f.DealValueNorm,
		"engagement_norm":    f.EngagementNorm,
		"status_weight":      f.StatusWeight,
	} {
		if v < 0 || v > 1 {
			return eris.Errorf("intelligence: feature %s out of range: %f", name, v)
		}
	}
	return nil
}
