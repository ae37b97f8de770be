// Package store reads lead snapshots from the relational lead store.
//
// The store is a read-only collaborator: both implementations fetch one
// immutable snapshot per call and never write back. Malformed rows are
// skipped and counted rather than failing the batch.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/lead-intel/internal/model"
)

// Error kinds surfaced by the store. Callers branch with errors.Is.
var (
	// ErrUnavailable means the store could not be reached. Fatal to the
	// whole invocation.
	ErrUnavailable = eris.New("store: unavailable")

	// ErrIntegrity means a single row could not be coerced into a Lead.
	// Rows failing with it are skipped and counted, never fatal.
	ErrIntegrity = eris.New("store: data integrity")
)

// Store is the read-only persistence interface of both pipelines.
type Store interface {
	// FetchActiveLeads returns the current lead snapshot and the number of
	// malformed rows that were skipped.
	FetchActiveLeads(ctx context.Context) ([]model.Lead, int, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases the connection scope.
	Close() error
}

var countryCaser = cases.Title(language.English)

// normalizeCountry canonicalizes free-text country names so grouping does
// not split "USA"-style case variants into separate markets.
func normalizeCountry(raw string) string {
	c := strings.TrimSpace(raw)
	if c == "" {
		return "Unknown"
	}
	return countryCaser.String(strings.ToLower(c))
}

// normalizeRegion fills the documented default for a missing region.
func normalizeRegion(raw string) string {
	r := strings.TrimSpace(raw)
	if r == "" {
		return "Unknown"
	}
	return r
}
