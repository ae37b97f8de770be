package model

import "time"

// ReportStatus marks whether a pipeline invocation produced a usable report.
type ReportStatus string

const (
	ReportSuccess ReportStatus = "success"
	ReportFailed  ReportStatus = "failed"
)

// PriorityTier is the coarse triage bucket derived from a lead score.
type PriorityTier string

const (
	TierHot  PriorityTier = "hot"
	TierWarm PriorityTier = "warm"
	TierCold PriorityTier = "cold"
)

// ChurnLabel is the bucketed churn risk.
type ChurnLabel string

const (
	ChurnLow    ChurnLabel = "low"
	ChurnMedium ChurnLabel = "medium"
	ChurnHigh   ChurnLabel = "high"
)

// Segment is the mutually exclusive behavioral category of a lead.
type Segment string

const (
	SegmentChampion Segment = "champion"
	SegmentAtRisk   Segment = "at-risk"
	SegmentDormant  Segment = "dormant"
	SegmentNurture  Segment = "nurture"
)

// LeadScoreResult joins the outputs of the scoring, churn, and segmentation
// models for a single lead.
type LeadScoreResult struct {
	LeadID           int64        `json:"lead_id"`
	Company          string       `json:"company"`
	Country          string       `json:"country"`
	Score            float64      `json:"score"`
	PriorityTier     PriorityTier `json:"priority_tier"`
	ChurnProbability float64      `json:"churn_probability"`
	ChurnLabel       ChurnLabel   `json:"churn_label"`
	Segment          Segment      `json:"segment"`
	DealValue        float64      `json:"deal_value"`
	LastActivityAt   *time.Time   `json:"last_activity_at,omitempty"`
}

// Recommendation is one actionable item for the sales team.
type Recommendation struct {
	LeadID    int64  `json:"lead_id"`
	Company   string `json:"company"`
	Action    string `json:"action"`
	Priority  int    `json:"priority"`
	Rationale string `json:"rationale"`
}

// MLSummary holds batch-level statistics over one scoring run.
type MLSummary struct {
	TotalLeads           int                  `json:"total_leads"`
	SkippedRows          int                  `json:"skipped_rows"`
	AverageScore         float64              `json:"average_score"`
	PriorityDistribution map[PriorityTier]int `json:"priority_distribution"`
	AtRiskCount          int                  `json:"at_risk_count"`
	SegmentDistribution  map[Segment]int      `json:"segment_distribution"`
}

// MLReport is the full result of one lead intelligence invocation.
type MLReport struct {
	ReportID        string            `json:"report_id"`
	Status          ReportStatus      `json:"status"`
	Error           string            `json:"error,omitempty"`
	Summary         *MLSummary        `json:"summary,omitempty"`
	TopLeads        []LeadScoreResult `json:"top_leads,omitempty"`
	AtRiskLeads     []LeadScoreResult `json:"at_risk_leads,omitempty"`
	Recommendations []Recommendation  `json:"recommendations,omitempty"`
	Timestamp       time.Time         `json:"timestamp"`
}

// CountryMetrics holds the rolled-up metrics for one country.
type CountryMetrics struct {
	Country        string  `json:"country"`
	Region         string  `json:"region"`
	LeadCount      int     `json:"lead_count"`
	AverageScore   float64 `json:"average_score"`
	TotalValue     float64 `json:"total_value"`
	ConversionRate float64 `json:"conversion_rate"`
	ShareOfTotal   float64 `json:"share_of_total"`
	LowConfidence  bool    `json:"low_confidence,omitempty"`
}

// ConcentrationLabel is the qualitative reading of the concentration index.
type ConcentrationLabel string

const (
	ConcentrationFragmented   ConcentrationLabel = "fragmented"
	ConcentrationModerate     ConcentrationLabel = "moderate"
	ConcentrationConcentrated ConcentrationLabel = "concentrated"
)

// ConcentrationResult is the Herfindahl-style market concentration index.
type ConcentrationResult struct {
	Index float64            `json:"index"`
	Label ConcentrationLabel `json:"label"`
}

// MarketAction is the strategic posture recommended for a market.
type MarketAction string

const (
	ActionExpand       MarketAction = "expand"
	ActionMonitor      MarketAction = "monitor"
	ActionDeprioritize MarketAction = "deprioritize"
)

// MarketRecommendation is one country-level strategic recommendation.
type MarketRecommendation struct {
	Country        string       `json:"country"`
	Recommendation MarketAction `json:"recommendation"`
	Rationale      string       `json:"rationale"`
}

// GeoSummary holds the top-level numbers of a geographical report.
type GeoSummary struct {
	TotalLeads    int                 `json:"total_leads"`
	SkippedRows   int                 `json:"skipped_rows"`
	CountryCount  int                 `json:"country_count"`
	TopMarket     string              `json:"top_market"`
	Concentration ConcentrationResult `json:"concentration"`
}

// GeoReport is the full result of one geographical analysis invocation.
type GeoReport struct {
	ReportID        string                 `json:"report_id"`
	Status          ReportStatus           `json:"status"`
	Error           string                 `json:"error,omitempty"`
	CountryAnalysis []CountryMetrics       `json:"country_analysis,omitempty"`
	Recommendations []MarketRecommendation `json:"recommendations,omitempty"`
	Summary         *GeoSummary            `json:"summary,omitempty"`
	Timestamp       time.Time              `json:"timestamp"`
}
