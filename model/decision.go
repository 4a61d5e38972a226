package model

// Decision is the terminal label assigned to an input row by the classifier.
type Decision string

const (
	DecisionMatched     Decision = "Matched"
	DecisionNeedsReview Decision = "Needs Review"
	DecisionUnmatched   Decision = "Unmatched"
)

// Flag is a named data-quality problem detected on a record.
type Flag string

const (
	FlagMissingPostcode    Flag = "missing_postcode"
	FlagMissingStreet      Flag = "missing_street"
	FlagNoWebPresence      Flag = "no_web_presence"
	FlagStaleData          Flag = "stale_data"
	FlagMissingCompanyType Flag = "missing_company_type"

	// FlagMalformedInput marks rows that could not be matched because the
	// input record was missing its mandatory identity fields.
	FlagMalformedInput Flag = "malformed_input"
)

// FeatureVector holds the per-candidate-pair signals consumed by the scorer.
// NameSimilarity and Freshness are in [0,1]; the match signals are 0 or 1.
type FeatureVector struct {
	NameSimilarity float64 `json:"name_similarity"`
	CountryMatch   int     `json:"country_match"`
	CityMatch      int     `json:"city_match"`
	WebsitePresent int     `json:"website_present"`
	Freshness      float64 `json:"freshness"`
}

// DecisionRecord is the per-input-row output unit: match outcome, score,
// quality flags, and an audit-trail notes string. It is created once per
// input row per run and never mutated afterwards.
type DecisionRecord struct {
	InputRowKey   string        `json:"input_row_key"`
	InputName     string        `json:"input_company_name"`
	InputCountry  string        `json:"input_main_country_code"`
	InputCity     string        `json:"input_main_city"`
	CandidateID   string        `json:"candidate_id,omitempty"`
	CandidateName string        `json:"candidate_name,omitempty"`
	Features      FeatureVector `json:"features"`
	MatchScore    float64       `json:"match_score"`
	Decision      Decision      `json:"decision"`
	Flags         []Flag        `json:"flags,omitempty"`
	Notes         string        `json:"decision_notes"`
}

// Clean reports whether the record carries no quality flags.
func (d DecisionRecord) Clean() bool {
	return len(d.Flags) == 0
}

// HasFlag reports whether the given flag is present on the record.
func (d DecisionRecord) HasFlag(flag Flag) bool {
	for _, f := range d.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
