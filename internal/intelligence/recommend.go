package intelligence

import (
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-intel/internal/model"
)

// Rule maps a (segment, churn label, priority tier) combination to a canned
// action. Empty match fields act as wildcards; several rules may fire for
// the same lead.
type Rule struct {
	Segment   string `yaml:"segment,omitempty"`
	Churn     string `yaml:"churn,omitempty"`
	Tier      string `yaml:"tier,omitempty"`
	Action    string `yaml:"action"`
	Priority  int    `yaml:"priority"`
	Rationale string `yaml:"rationale"`
}

// Catalogue is the ordered rule set of the recommendation model.
type Catalogue struct {
	Rules []Rule `yaml:"rules"`
}

// DefaultCatalogue returns the built-in rule set.
func DefaultCatalogue() Catalogue {
	return Catalogue{Rules: []Rule{
		{Segment: "at-risk", Churn: "high", Action: "Immediate outreach call", Priority: 10,
			Rationale: "high-value lead showing strong churn signals"},
		{Segment: "champion", Action: "Send proposal and pricing", Priority: 9,
			Rationale: "engaged high scorer ready for a buying conversation"},
		{Tier: "hot", Churn: "medium", Action: "Re-engage with tailored content", Priority: 8,
			Rationale: "hot lead with early disengagement signals"},
		{Tier: "warm", Churn: "medium", Action: "Follow up within the week", Priority: 6,
			Rationale: "warm lead cooling without regular contact"},
		{Segment: "nurture", Action: "Enroll in nurture email sequence", Priority: 5,
			Rationale: "steady prospect not yet sales-ready"},
		{Segment: "dormant", Action: "Add to reactivation campaign", Priority: 4,
			Rationale: "no meaningful activity inside the staleness window"},
		{Tier: "cold", Churn: "high", Action: "Deprioritize manual outreach", Priority: 2,
			Rationale: "low score and high churn risk; automate touches only"},
	}}
}

// LoadCatalogue reads a rule catalogue from a YAML file.
func LoadCatalogue(path string) (Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalogue{}, eris.Wrapf(err, "recommend: read catalogue %s", path)
	}
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalogue{}, eris.Wrapf(err, "recommend: parse catalogue %s", path)
	}
	if len(c.Rules) == 0 {
		return Catalogue{}, eris.Errorf("recommend: catalogue %s has no rules", path)
	}
	for i, r := range c.Rules {
		if r.Action == "" {
			return Catalogue{}, eris.Errorf("recommend: catalogue %s: rule %d missing action", path, i)
		}
	}
	return c, nil
}

// matches reports whether the rule applies to a scored lead.
func (r Rule) matches(res model.LeadScoreResult) bool {
	if r.Segment != "" && r.Segment != string(res.Segment) {
		return false
	}
	if r.Churn != "" && r.Churn != string(res.ChurnLabel) {
		return false
	}
	if r.Tier != "" && r.Tier != string(res.PriorityTier) {
		return false
	}
	return true
}

// Recommend produces the globally sorted recommendation list for a batch of
// scored leads: priority descending, ties by score descending, then lead id.
func (c Catalogue) Recommend(results []model.LeadScoreResult) []model.Recommendation {
	type scored struct {
		rec   model.Recommendation
		score float64
	}
	var out []scored
	for _, res := range results {
		for _, rule := range c.Rules {
			if !rule.matches(res) {
				continue
			}
			out = append(out, scored{
				rec: model.Recommendation{
					LeadID:   res.LeadID,
					Company:  res.Company,
					Action:   rule.Action,
					Priority: rule.Priority,
					Rationale: fmt.Sprintf("%s (score %.1f, churn %s)",
						rule.Rationale, res.Score, res.ChurnLabel),
				},
				score: res.Score,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].rec.Priority != out[j].rec.Priority {
			return out[i].rec.Priority > out[j].rec.Priority
		}
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].rec.LeadID < out[j].rec.LeadID
	})

	recs := make([]model.Recommendation, len(out))
	for i, s := range out {
		recs[i] = s.rec
	}
	return recs
}
