// Package config provides configuration structures for the entity resolver.
// It defines feature weights, decision thresholds, quality-check settings,
// and the I/O paths used by the pipeline collaborators.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	internalerrors "github.com/veridata/go-entity-resolver/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// weightSumTolerance is the permitted deviation of the weight sum from 1.0.
const weightSumTolerance = 1e-9

// Paths holds the file-system locations consumed and produced by the
// pipeline collaborators. The core itself never touches the file system.
type Paths struct {
	Input     string `json:"input"`     // Input records CSV (supplier intake rows)
	Reference string `json:"reference"` // Reference set CSV (known companies)
	Output    string `json:"output"`    // Directory for decision CSVs and the run report
}

// Weights holds the feature weights combined into the match score.
// Weights must be non-negative and sum to 1.0 (see Validate).
type Weights struct {
	NameSimilarity float64 `json:"name_similarity" validate:"gte=0,lte=1"`
	CountryMatch   float64 `json:"country_match" validate:"gte=0,lte=1"`
	CityMatch      float64 `json:"city_match" validate:"gte=0,lte=1"`
	Freshness      float64 `json:"freshness" validate:"gte=0,lte=1"`
	HasWebsite     float64 `json:"has_website" validate:"gte=0,lte=1"`
}

// Sum returns the total of all feature weights.
func (w Weights) Sum() float64 {
	return w.NameSimilarity + w.CountryMatch + w.CityMatch + w.Freshness + w.HasWebsite
}

// Thresholds holds the decision band boundaries.
// A row with name similarity below NameHardFloor is always Unmatched,
// regardless of score. Otherwise: score >= Strong is Matched, score >=
// Review is Needs Review, anything below Review is Unmatched.
type Thresholds struct {
	Strong        float64 `json:"strong" validate:"gte=0,lte=1"`
	Review        float64 `json:"review" validate:"gte=0,lte=1"`
	NameHardFloor float64 `json:"name_hard_floor" validate:"gte=0,lte=1"`
}

// Quality holds settings for the data-quality flagger.
type Quality struct {
	StalenessDays int `json:"staleness_days" validate:"gt=0"` // Age in days beyond which a record is flagged stale
}

// Matching holds candidate-selection settings.
// BlockByCountry restricts the candidate scan to reference records sharing
// the input's normalized country, falling back to the full scan when the
// block is empty. This is a performance trade-off: the true best candidate
// may lie outside the block. Disabled by default.
type Matching struct {
	BlockByCountry bool `json:"block_by_country"`
}

// Config is the full run configuration. It is read-only for the duration of
// a run; every component receives it explicitly.
type Config struct {
	Paths      Paths      `json:"paths"`
	Weights    Weights    `json:"weights"`
	Thresholds Thresholds `json:"thresholds"`
	Quality    Quality    `json:"quality"`
	Matching   Matching   `json:"matching"`

	// Now pins the reference timestamp used for freshness and staleness.
	// The zero value means the wall clock; tests inject a fixed instant
	// for deterministic output.
	Now time.Time `json:"now,omitzero"`

	// RenormalizeWeights rescales a weight set whose sum deviates from 1.0
	// instead of rejecting it. Renormalization is an explicit opt-in; it is
	// never applied silently.
	RenormalizeWeights bool `json:"renormalize_weights"`
}

// Default returns a Config populated with the default weights, thresholds,
// and quality settings.
func Default() Config {
	return Config{
		Paths: Paths{Output: "output"},
		Weights: Weights{
			NameSimilarity: 0.60,
			CountryMatch:   0.15,
			CityMatch:      0.10,
			Freshness:      0.10,
			HasWebsite:     0.05,
		},
		Thresholds: Thresholds{
			Strong:        0.75,
			Review:        0.60,
			NameHardFloor: 0.70,
		},
		Quality: Quality{StalenessDays: 730},
	}
}

// ReadFile reads a JSON configuration file, layering it over the defaults so
// that omitted keys keep their default values. No validation is applied;
// callers that have no overrides to layer on top should use LoadFile.
func ReadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI flag, not remote input
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFile reads a JSON configuration file and validates it. An invalid
// file is a fatal error, surfaced before any row is processed.
func LoadFile(path string) (Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Finalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Finalize applies the optional weight renormalization and validates the
// result. It returns an InvalidConfigError listing every violation when the
// configuration is unusable.
func (cfg *Config) Finalize() error {
	if cfg.RenormalizeWeights {
		if err := cfg.renormalizeWeights(); err != nil {
			return err
		}
	}

	if violations := cfg.Validate(); len(violations) > 0 {
		return internalerrors.NewInvalidConfigError(violations)
	}
	return nil
}

// Validate checks the configuration and returns a list of violations.
// An empty list means the configuration is usable.
func (cfg *Config) Validate() []string {
	var violations []string

	// Range checks via struct tags
	if err := validate.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				violations = append(violations, fmt.Sprintf(
					"field '%s' failed rule '%s %s' (got %v)",
					fe.StructNamespace(), fe.Tag(), fe.Param(), fe.Value()))
			}
		} else {
			violations = append(violations, err.Error())
		}
	}

	// Checks the tags cannot express
	if sum := cfg.Weights.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		violations = append(violations, fmt.Sprintf(
			"feature weights must sum to 1.0, got %.6f (set renormalize_weights to rescale)", sum))
	}
	if cfg.Thresholds.Review > cfg.Thresholds.Strong {
		violations = append(violations, fmt.Sprintf(
			"review threshold (%.2f) must not exceed strong threshold (%.2f)",
			cfg.Thresholds.Review, cfg.Thresholds.Strong))
	}

	return violations
}

// renormalizeWeights rescales the weight set so it sums to 1.0.
func (cfg *Config) renormalizeWeights() error {
	sum := cfg.Weights.Sum()
	if sum <= 0 {
		return internalerrors.NewInvalidConfigError([]string{
			fmt.Sprintf("cannot renormalize weights with non-positive sum %.6f", sum)})
	}
	cfg.Weights.NameSimilarity /= sum
	cfg.Weights.CountryMatch /= sum
	cfg.Weights.CityMatch /= sum
	cfg.Weights.Freshness /= sum
	cfg.Weights.HasWebsite /= sum
	return nil
}

// EffectiveNow returns the pinned reference timestamp, or the current wall
// clock in UTC when none was configured.
func (cfg *Config) EffectiveNow() time.Time {
	if cfg.Now.IsZero() {
		return time.Now().UTC()
	}
	return cfg.Now
}
