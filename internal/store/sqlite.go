package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/lead-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Used for local
// analysis over an exported lead database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA query_only=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteSelectActiveLeads = `
SELECT id, company, industry, country, region, status, deal_value,
       engagement_score, last_activity_at, created_at, source
FROM leads
WHERE active = 1
ORDER BY id`

// FetchActiveLeads reads the current snapshot of active leads.
func (s *SQLiteStore) FetchActiveLeads(ctx context.Context) ([]model.Lead, int, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectActiveLeads)
	if err != nil {
		return nil, 0, eris.Wrapf(ErrUnavailable, "sqlite: query leads: %v", err)
	}
	defer rows.Close()

	var (
		leads   []model.Lead
		skipped int
	)
	for rows.Next() {
		var (
			lead       model.Lead
			industry   sql.NullString
			country    string
			region     sql.NullString
			rawStatus  string
			source     sql.NullString
			engagement sql.NullFloat64
			activity   sql.NullTime
			created    time.Time
		)
		if err := rows.Scan(
			&lead.ID, &lead.Company, &industry, &country, &region, &rawStatus,
			&lead.DealValue, &engagement, &activity, &created, &source,
		); err != nil {
			skipped++
			zap.L().Warn("store: skipping malformed lead row", zap.Error(err))
			continue
		}

		status, statusErr := model.ParseLeadStatus(rawStatus)
		if statusErr != nil {
			skipped++
			zap.L().Warn("store: skipping malformed lead row", zap.Int64("id", lead.ID), zap.Error(statusErr))
			continue
		}
		lead.Status = status
		lead.Industry = industry.String
		lead.Source = source.String
		lead.Country = normalizeCountry(country)
		lead.Region = normalizeRegion(region.String)
		lead.CreatedAt = created
		if engagement.Valid {
			v := engagement.Float64
			lead.EngagementScore = &v
		}
		if activity.Valid {
			t := activity.Time
			lead.LastActivityAt = &t
		}

		if err := lead.Validate(); err != nil {
			skipped++
			zap.L().Warn("store: skipping malformed lead row", zap.Int64("id", lead.ID), zap.Error(err))
			continue
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, eris.Wrapf(ErrUnavailable, "sqlite: read leads: %v", err)
	}

	return leads, skipped, nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return eris.Wrapf(ErrUnavailable, "sqlite: ping: %v", err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
