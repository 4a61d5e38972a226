package matching

import (
	"github.com/veridata/go-entity-resolver/config"
	"github.com/veridata/go-entity-resolver/model"
)

// Score combines a feature vector into a single weighted match score,
// clamped to [0,1]. Pure and deterministic: the score is a function of the
// feature vector and the configured weights only, with no hidden state, so
// identical inputs always produce identical scores. With non-negative
// weights the score is monotonically non-decreasing in every individual
// feature.
func Score(fv model.FeatureVector, weights config.Weights) float64 {
	score := weights.NameSimilarity*fv.NameSimilarity +
		weights.CountryMatch*float64(fv.CountryMatch) +
		weights.CityMatch*float64(fv.CityMatch) +
		weights.Freshness*fv.Freshness +
		weights.HasWebsite*float64(fv.WebsitePresent)

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
