// Package quality derives data-quality flags from a record's attribute
// completeness and freshness, independent of the matching outcome.
package quality

import (
	"strings"
	"time"

	"github.com/veridata/go-entity-resolver/config"
	"github.com/veridata/go-entity-resolver/model"
)

// Flags inspects a record and returns every quality flag that applies, in a
// fixed deterministic order. Flags are independent booleans; an empty result
// means the record is clean.
//
// The record passed in is the quality view of a row: the matched candidate
// when one exists (the reference side carries the address, web, and freshness
// attributes), otherwise the input record itself.
func Flags(record model.EntityRecord, now time.Time, qualityCfg config.Quality) []model.Flag {
	flags := make([]model.Flag, 0)

	if strings.TrimSpace(record.Postcode) == "" {
		flags = append(flags, model.FlagMissingPostcode)
	}
	if strings.TrimSpace(record.Street) == "" {
		flags = append(flags, model.FlagMissingStreet)
	}
	if !record.HasWebsite() && !record.HasSocialPresence() {
		flags = append(flags, model.FlagNoWebPresence)
	}
	// Staleness applies only to records with a parseable last-updated date;
	// a missing date already costs the row its freshness score.
	if days, ok := record.DaysSinceUpdate(now); ok && days > qualityCfg.StalenessDays {
		flags = append(flags, model.FlagStaleData)
	}
	if strings.TrimSpace(record.CompanyType) == "" {
		flags = append(flags, model.FlagMissingCompanyType)
	}

	return flags
}
