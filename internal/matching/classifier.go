package matching

import (
	"github.com/veridata/go-entity-resolver/config"
	"github.com/veridata/go-entity-resolver/model"
)

// Classify maps a (name similarity, match score) pair to a decision label.
// The name hard floor is evaluated first and short-circuits the score
// bands: a row whose best candidate's name similarity is below the floor is
// Unmatched no matter how high its score. Otherwise the score bands apply
// with inclusive lower bounds — a score exactly equal to the review
// threshold is Needs Review, and a score at or above the strong threshold
// is Matched.
func Classify(nameSimilarity, matchScore float64, thresholds config.Thresholds) model.Decision {
	if nameSimilarity < thresholds.NameHardFloor {
		return model.DecisionUnmatched
	}
	if matchScore >= thresholds.Strong {
		return model.DecisionMatched
	}
	if matchScore >= thresholds.Review {
		return model.DecisionNeedsReview
	}
	return model.DecisionUnmatched
}
