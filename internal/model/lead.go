// Package model defines the lead snapshot row and the report structures
// produced by the intelligence and geographical pipelines.
package model

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

// LeadStatus is the pipeline stage of a lead.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusQualified LeadStatus = "qualified"
	StatusWon       LeadStatus = "won"
	StatusLost      LeadStatus = "lost"
)

// ParseLeadStatus converts a raw store value into a LeadStatus.
func ParseLeadStatus(s string) (LeadStatus, error) {
	switch LeadStatus(s) {
	case StatusNew, StatusContacted, StatusQualified, StatusWon, StatusLost:
		return LeadStatus(s), nil
	}
	return "", eris.Errorf("model: unknown lead status %q", s)
}

// Lead is an immutable snapshot row read from the lead store.
// EngagementScore and LastActivityAt are nullable at the source; the
// feature normalizer owns their defaulting policy.
type Lead struct {
	ID              int64      `json:"id" validate:"gt=0"`
	Company         string     `json:"company" validate:"required"`
	Industry        string     `json:"industry"`
	Country         string     `json:"country" validate:"required"`
	Region          string     `json:"region"`
	Status          LeadStatus `json:"status" validate:"oneof=new contacted qualified won lost"`
	DealValue       float64    `json:"deal_value" validate:"gte=0"`
	EngagementScore *float64   `json:"engagement_score,omitempty"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Source          string     `json:"source"`
}

var leadValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the row-level integrity constraints on a Lead.
func (l Lead) Validate() error {
	if err := leadValidator.Struct(l); err != nil {
		return eris.Wrapf(err, "model: invalid lead %d", l.ID)
	}
	return nil
}
