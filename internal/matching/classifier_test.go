package matching

import (
	"testing"

	"github.com/veridata/go-entity-resolver/config"
	"github.com/veridata/go-entity-resolver/model"
)

func defaultThresholds() config.Thresholds {
	return config.Default().Thresholds
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		nameSimilarity float64
		matchScore     float64
		expected       model.Decision
	}{
		{"strong score is matched", 0.90, 0.88, model.DecisionMatched},
		{"score at strong boundary is matched", 0.90, 0.75, model.DecisionMatched},
		{"score just under strong is needs review", 0.90, 0.7499, model.DecisionNeedsReview},
		{"score at review boundary is needs review", 0.75, 0.60, model.DecisionNeedsReview},
		{"score just under review is unmatched", 0.75, 0.5999, model.DecisionUnmatched},
		{"zero score is unmatched", 0.90, 0.0, model.DecisionUnmatched},
		{"name floor overrides high score", 0.40, 0.95, model.DecisionUnmatched},
		{"name just under floor overrides strong score", 0.6999, 0.80, model.DecisionUnmatched},
		{"name at floor does not trigger the floor", 0.70, 0.80, model.DecisionMatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.nameSimilarity, tt.matchScore, defaultThresholds())
			if got != tt.expected {
				t.Errorf("Classify(%f, %f) = %s, want %s", tt.nameSimilarity, tt.matchScore, got, tt.expected)
			}
		})
	}
}

// TestClassify_FloorInvariant sweeps scores across the whole range and
// verifies that no score rescues a row whose name similarity is below the
// hard floor.
func TestClassify_FloorInvariant(t *testing.T) {
	thresholds := defaultThresholds()
	for _, sim := range []float64{0.0, 0.3, 0.5, 0.69, 0.6999} {
		for _, score := range []float64{0.0, 0.25, 0.5, 0.6, 0.75, 0.9, 1.0} {
			if got := Classify(sim, score, thresholds); got != model.DecisionUnmatched {
				t.Errorf("Classify(%f, %f) = %s, want Unmatched (floor invariant)", sim, score, got)
			}
		}
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	thresholds := config.Thresholds{Strong: 0.9, Review: 0.5, NameHardFloor: 0.2}

	if got := Classify(0.3, 0.85, thresholds); got != model.DecisionNeedsReview {
		t.Errorf("Classify() = %s, want Needs Review with relaxed floor", got)
	}
	if got := Classify(0.3, 0.95, thresholds); got != model.DecisionMatched {
		t.Errorf("Classify() = %s, want Matched above the raised strong threshold", got)
	}
}
