package geoanalysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/intelligence"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/store"
)

// Engine runs the geographical aggregation pipeline over one snapshot per
// invocation. It holds no state between invocations.
type Engine struct {
	store   store.Store
	scoring config.ScoringConfig
	geo     config.GeoConfig
	now     func() time.Time
}

// NewEngine validates the configuration and builds an Engine.
func NewEngine(st store.Store, cfg *config.Config) (*Engine, error) {
	if err := intelligence.ValidateScoringConfig(cfg.Scoring); err != nil {
		return nil, err
	}
	return &Engine{
		store:   st,
		scoring: cfg.Scoring,
		geo:     cfg.Geo,
		now:     time.Now,
	}, nil
}

// Run fetches one snapshot and produces the geographical report. It fails
// as a whole only on store failure or an internal invariant violation.
func (e *Engine) Run(ctx context.Context) (*model.GeoReport, error) {
	start := e.now()
	report := &model.GeoReport{
		ReportID:  uuid.NewString(),
		Timestamp: start.UTC(),
	}

	leads, skipped, err := e.store.FetchActiveLeads(ctx)
	if err != nil {
		report.Status = model.ReportFailed
		report.Error = eris.ToString(err, false)
		return report, err
	}

	minLeads := e.geo.MinLeadsPerCountry
	if minLeads <= 0 {
		minLeads = 2
	}

	batch := intelligence.NewBatch(leads, e.scoring, start)
	metrics := Aggregate(leads, batch, minLeads)

	shares := make([]float64, len(metrics))
	for i, m := range metrics {
		shares[i] = m.ShareOfTotal
	}
	concentration, err := Concentration(shares)
	if err != nil {
		report.Status = model.ReportFailed
		report.Error = eris.ToString(err, false)
		return report, err
	}

	topMarket := ""
	if len(metrics) > 0 {
		topMarket = metrics[0].Country
	}

	report.Status = model.ReportSuccess
	report.CountryAnalysis = metrics
	report.Recommendations = Recommend(metrics, e.geo.ExpandMargin)
	report.Summary = &model.GeoSummary{
		TotalLeads:    len(leads),
		SkippedRows:   skipped,
		CountryCount:  len(metrics),
		TopMarket:     topMarket,
		Concentration: concentration,
	}

	zap.L().Info("geoanalysis: run complete",
		zap.String("report_id", report.ReportID),
		zap.Int("leads", len(leads)),
		zap.Int("countries", len(metrics)),
		zap.Float64("concentration", concentration.Index),
	)
	return report, nil
}
