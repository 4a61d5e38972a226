// Package features computes the per-candidate-pair signals consumed by the
// scorer: name similarity, country and city matches, website presence, and
// freshness of the candidate's last update.
package features

import (
	"time"

	"github.com/veridata/go-entity-resolver/internal/similarity"
	"github.com/veridata/go-entity-resolver/model"
)

// Freshness bin boundaries, in days since the candidate's last update.
// The curve is a simple monotone step function: updates within the last
// year score full freshness, anything older than three years sits on the
// floor.
const (
	freshWithinDays  = 365
	recentWithinDays = 730
	agingWithinDays  = 1095
	freshnessFull    = 1.0
	freshnessRecent  = 0.7
	freshnessAging   = 0.5
	freshnessFloor   = 0.3
)

// Extract computes the feature vector for one input/candidate pair.
// It is a pure function of its inputs: the similarity comes from the
// sequence alignment of the two names, the match bits from normalized field
// equality, and freshness from the candidate's last-updated age relative to
// now. No side effects.
func Extract(input, candidate model.EntityRecord, now time.Time) model.FeatureVector {
	return model.FeatureVector{
		NameSimilarity: similarity.Ratio(input.Name, candidate.Name),
		CountryMatch:   fieldMatch(input.Country, candidate.Country),
		CityMatch:      fieldMatch(input.City, candidate.City),
		WebsitePresent: boolBit(candidate.HasWebsite()),
		Freshness:      FreshnessScore(candidate, now),
	}
}

// ExtractWithSimilarity is Extract with a precomputed name similarity, so
// the selector's winning alignment is not recomputed per row.
func ExtractWithSimilarity(input, candidate model.EntityRecord, nameSimilarity float64, now time.Time) model.FeatureVector {
	fv := model.FeatureVector{
		NameSimilarity: nameSimilarity,
		CountryMatch:   fieldMatch(input.Country, candidate.Country),
		CityMatch:      fieldMatch(input.City, candidate.City),
		WebsitePresent: boolBit(candidate.HasWebsite()),
		Freshness:      FreshnessScore(candidate, now),
	}
	return fv
}

// FreshnessScore maps the age of a record's last update into [freshnessFloor, 1.0].
// A missing or unparseable date is treated as maximally stale.
func FreshnessScore(record model.EntityRecord, now time.Time) float64 {
	days, ok := record.DaysSinceUpdate(now)
	if !ok {
		return freshnessFloor
	}
	switch {
	case days <= freshWithinDays:
		return freshnessFull
	case days <= recentWithinDays:
		return freshnessRecent
	case days <= agingWithinDays:
		return freshnessAging
	default:
		return freshnessFloor
	}
}

// fieldMatch returns 1 when both values are present and equal after
// normalization (trim + case-fold), 0 otherwise, including when either
// side is missing.
func fieldMatch(a, b string) int {
	na := similarity.Normalize(a)
	nb := similarity.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	return boolBit(na == nb)
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
