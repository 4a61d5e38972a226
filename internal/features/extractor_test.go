package features

import (
	"math"
	"testing"
	"time"

	"github.com/veridata/go-entity-resolver/model"
)

var testNow = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func daysAgo(days int) *time.Time {
	t := testNow.AddDate(0, 0, -days)
	return &t
}

func TestFreshnessScore(t *testing.T) {
	tests := []struct {
		name     string
		updated  *time.Time
		expected float64
	}{
		{"updated today", daysAgo(0), 1.0},
		{"updated yesterday", daysAgo(1), 1.0},
		{"one year boundary", daysAgo(365), 1.0},
		{"just over one year", daysAgo(366), 0.7},
		{"two year boundary", daysAgo(730), 0.7},
		{"just over two years", daysAgo(731), 0.5},
		{"three year boundary", daysAgo(1095), 0.5},
		{"older than three years", daysAgo(1096), 0.3},
		{"very old", daysAgo(5000), 0.3},
		{"missing date is maximally stale", nil, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := model.EntityRecord{RowKey: "r1", Name: "Acme", LastUpdated: tt.updated}
			if got := FreshnessScore(record, testNow); got != tt.expected {
				t.Errorf("FreshnessScore() = %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestFreshnessScore_MonotonicallyDecreasing(t *testing.T) {
	prev := math.Inf(1)
	for _, days := range []int{0, 100, 365, 366, 730, 731, 1095, 1096, 4000} {
		record := model.EntityRecord{RowKey: "r1", Name: "Acme", LastUpdated: daysAgo(days)}
		score := FreshnessScore(record, testNow)
		if score > prev {
			t.Errorf("freshness increased with age at %d days: %f > %f", days, score, prev)
		}
		prev = score
	}
}

func TestExtract(t *testing.T) {
	input := model.EntityRecord{
		RowKey:  "in-1",
		Name:    "Acme Corp",
		Country: "US",
		City:    "Austin",
	}

	t.Run("full agreement", func(t *testing.T) {
		candidate := model.EntityRecord{
			RowKey:      "ref-1",
			Name:        "ACME Corporation",
			Country:     "us",
			City:        " AUSTIN ",
			WebsiteURL:  "https://acme.example.com",
			LastUpdated: daysAgo(1),
		}
		fv := Extract(input, candidate, testNow)

		if fv.CountryMatch != 1 {
			t.Errorf("CountryMatch = %d, want 1 (case-insensitive)", fv.CountryMatch)
		}
		if fv.CityMatch != 1 {
			t.Errorf("CityMatch = %d, want 1 (trimmed, case-insensitive)", fv.CityMatch)
		}
		if fv.WebsitePresent != 1 {
			t.Errorf("WebsitePresent = %d, want 1", fv.WebsitePresent)
		}
		if fv.Freshness != 1.0 {
			t.Errorf("Freshness = %f, want 1.0", fv.Freshness)
		}
		if fv.NameSimilarity < 0.70 {
			t.Errorf("NameSimilarity = %f, want >= 0.70", fv.NameSimilarity)
		}
	})

	t.Run("missing fields never match", func(t *testing.T) {
		candidate := model.EntityRecord{RowKey: "ref-2", Name: "Acme Corp", Country: "", City: "Austin"}
		blankInput := model.EntityRecord{RowKey: "in-2", Name: "Acme Corp", Country: "US", City: "  "}

		fv := Extract(blankInput, candidate, testNow)
		if fv.CountryMatch != 0 {
			t.Errorf("CountryMatch = %d, want 0 when candidate country missing", fv.CountryMatch)
		}
		if fv.CityMatch != 0 {
			t.Errorf("CityMatch = %d, want 0 when input city blank", fv.CityMatch)
		}
		if fv.WebsitePresent != 0 {
			t.Errorf("WebsitePresent = %d, want 0 for empty website", fv.WebsitePresent)
		}
	})

	t.Run("whitespace-only website is absent", func(t *testing.T) {
		candidate := model.EntityRecord{RowKey: "ref-3", Name: "Acme Corp", WebsiteURL: "   "}
		fv := Extract(input, candidate, testNow)
		if fv.WebsitePresent != 0 {
			t.Errorf("WebsitePresent = %d, want 0 for whitespace-only website", fv.WebsitePresent)
		}
	})
}

func TestExtractWithSimilarity_UsesPrecomputedValue(t *testing.T) {
	input := model.EntityRecord{RowKey: "in-1", Name: "Acme Corp"}
	candidate := model.EntityRecord{RowKey: "ref-1", Name: "ACME Corporation"}

	fv := ExtractWithSimilarity(input, candidate, 0.42, testNow)
	if fv.NameSimilarity != 0.42 {
		t.Errorf("NameSimilarity = %f, want the precomputed 0.42", fv.NameSimilarity)
	}
}
