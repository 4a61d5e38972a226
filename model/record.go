package model

import (
	"strings"
	"time"
)

// EntityRecord is a single supplier or reference company record.
// RowKey is the only required identity field; the remaining attributes are
// descriptive and may be empty. Records are immutable once loaded for a run.
type EntityRecord struct {
	RowKey      string     `json:"row_key"`
	Name        string     `json:"company_name"`
	Country     string     `json:"main_country_code"`
	City        string     `json:"main_city"`
	Street      string     `json:"main_street"`
	Postcode    string     `json:"main_postcode"`
	CompanyType string     `json:"company_type"`
	WebsiteURL  string     `json:"website_url"`
	SocialURLs  []string   `json:"social_urls,omitempty"`
	LastUpdated *time.Time `json:"last_updated_at,omitempty"`
}

// HasIdentity reports whether the record carries the mandatory identity
// fields (a row key and a non-blank company name). Records without identity
// are treated as malformed input by the orchestrator.
func (r EntityRecord) HasIdentity() bool {
	return strings.TrimSpace(r.RowKey) != "" && strings.TrimSpace(r.Name) != ""
}

// HasWebsite reports whether the record's website field is non-empty after trimming.
func (r EntityRecord) HasWebsite() bool {
	return strings.TrimSpace(r.WebsiteURL) != ""
}

// HasSocialPresence reports whether any social URL is non-empty after trimming.
func (r EntityRecord) HasSocialPresence() bool {
	for _, u := range r.SocialURLs {
		if strings.TrimSpace(u) != "" {
			return true
		}
	}
	return false
}

// DaysSinceUpdate returns the whole days elapsed between the record's
// last-updated date and now. The second return value is false when the
// record has no parseable last-updated date.
func (r EntityRecord) DaysSinceUpdate(now time.Time) (int, bool) {
	if r.LastUpdated == nil {
		return 0, false
	}
	days := int(now.Sub(*r.LastUpdated).Hours() / 24)
	return days, true
}
