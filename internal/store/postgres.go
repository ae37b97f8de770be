package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, satisfied by pgxmock.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

const selectActiveLeads = `
SELECT id, company, industry, country, region, status, deal_value,
       engagement_score, last_activity_at, created_at, source
FROM leads
WHERE active = TRUE
ORDER BY id`

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if cfg.MaxConns > 0 {
		maxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		minConns = cfg.MinConns
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// FetchActiveLeads reads the current snapshot of active leads.
func (s *PostgresStore) FetchActiveLeads(ctx context.Context) ([]model.Lead, int, error) {
	rows, err := s.pool.Query(ctx, selectActiveLeads)
	if err != nil {
		return nil, 0, eris.Wrapf(ErrUnavailable, "postgres: query leads: %v", err)
	}
	defer rows.Close()

	var (
		leads   []model.Lead
		skipped int
	)
	for rows.Next() {
		lead, rowErr := scanLead(rows)
		if rowErr != nil {
			skipped++
			zap.L().Warn("store: skipping malformed lead row", zap.Error(rowErr))
			continue
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, eris.Wrapf(ErrUnavailable, "postgres: read leads: %v", err)
	}

	zap.L().Debug("store: fetched lead snapshot",
		zap.Int("leads", len(leads)),
		zap.Int("skipped", skipped),
	)
	return leads, skipped, nil
}

// scanLead coerces one row into a Lead, returning ErrIntegrity on bad data.
func scanLead(rows pgx.Rows) (model.Lead, error) {
	var (
		lead       model.Lead
		industry   *string
		country    string
		region     *string
		rawStatus  string
		source     *string
		engagement *float64
		activity   *time.Time
	)
	if err := rows.Scan(
		&lead.ID, &lead.Company, &industry, &country, &region, &rawStatus,
		&lead.DealValue, &engagement, &activity, &lead.CreatedAt, &source,
	); err != nil {
		return model.Lead{}, eris.Wrapf(ErrIntegrity, "scan lead: %v", err)
	}

	status, err := model.ParseLeadStatus(rawStatus)
	if err != nil {
		return model.Lead{}, eris.Wrapf(ErrIntegrity, "lead %d: %v", lead.ID, err)
	}
	lead.Status = status

	if industry != nil {
		lead.Industry = *industry
	}
	if source != nil {
		lead.Source = *source
	}
	lead.Country = normalizeCountry(country)
	if region != nil {
		lead.Region = normalizeRegion(*region)
	} else {
		lead.Region = "Unknown"
	}
	lead.EngagementScore = engagement
	lead.LastActivityAt = activity

	if err := lead.Validate(); err != nil {
		return model.Lead{}, eris.Wrapf(ErrIntegrity, "lead %d: %v", lead.ID, err)
	}
	return lead, nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return eris.Wrapf(ErrUnavailable, "postgres: ping: %v", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
