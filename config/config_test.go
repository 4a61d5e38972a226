package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	internalerrors "github.com/veridata/go-entity-resolver/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if violations := cfg.Validate(); len(violations) > 0 {
		t.Errorf("Default() should validate cleanly, got violations: %v", violations)
	}
	if sum := cfg.Weights.Sum(); math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("default weights sum = %f, want 1.0", sum)
	}
	if cfg.Thresholds.Strong != 0.75 || cfg.Thresholds.Review != 0.60 || cfg.Thresholds.NameHardFloor != 0.70 {
		t.Errorf("default thresholds = %+v, want 0.75/0.60/0.70", cfg.Thresholds)
	}
	if cfg.Quality.StalenessDays != 730 {
		t.Errorf("default staleness = %d days, want 730", cfg.Quality.StalenessDays)
	}
	if cfg.Matching.BlockByCountry {
		t.Error("country blocking should be disabled by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*Config)
		wantFragment string
	}{
		{
			name:         "weights must sum to one",
			mutate:       func(cfg *Config) { cfg.Weights.NameSimilarity = 0.9 },
			wantFragment: "must sum to 1.0",
		},
		{
			name:         "negative weight",
			mutate:       func(cfg *Config) { cfg.Weights.CityMatch = -0.1; cfg.Weights.NameSimilarity = 0.80 },
			wantFragment: "gte",
		},
		{
			name:         "threshold above one",
			mutate:       func(cfg *Config) { cfg.Thresholds.Strong = 1.5 },
			wantFragment: "lte",
		},
		{
			name:         "review above strong",
			mutate:       func(cfg *Config) { cfg.Thresholds.Review = 0.8 },
			wantFragment: "must not exceed strong",
		},
		{
			name:         "zero staleness window",
			mutate:       func(cfg *Config) { cfg.Quality.StalenessDays = 0 },
			wantFragment: "gt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			violations := cfg.Validate()
			if len(violations) == 0 {
				t.Fatal("Validate() returned no violations, want at least one")
			}
			found := false
			for _, v := range violations {
				if strings.Contains(v, tt.wantFragment) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("violations %v do not mention %q", violations, tt.wantFragment)
			}
		})
	}
}

func TestFinalize(t *testing.T) {
	t.Run("invalid config returns typed error", func(t *testing.T) {
		cfg := Default()
		cfg.Weights.NameSimilarity = 0.9

		err := cfg.Finalize()
		if err == nil {
			t.Fatal("Finalize() error = nil, want InvalidConfigError")
		}
		if !errors.Is(err, internalerrors.ErrInvalidConfig) {
			t.Errorf("Finalize() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("renormalization is opt-in", func(t *testing.T) {
		cfg := Default()
		cfg.Weights.NameSimilarity = 1.20 // sum = 1.60
		if err := cfg.Finalize(); err == nil {
			t.Error("Finalize() without opt-in should reject non-unit weight sum")
		}

		cfg = Default()
		cfg.Weights.NameSimilarity = 1.20
		cfg.RenormalizeWeights = true
		if err := cfg.Finalize(); err != nil {
			t.Fatalf("Finalize() with renormalization error = %v", err)
		}
		if math.Abs(cfg.Weights.Sum()-1.0) > 1e-9 {
			t.Errorf("renormalized sum = %f, want 1.0", cfg.Weights.Sum())
		}
		if cfg.Weights.NameSimilarity <= cfg.Weights.CountryMatch {
			t.Error("renormalization should preserve relative weight order")
		}
	})

	t.Run("renormalization rejects zero sum", func(t *testing.T) {
		cfg := Default()
		cfg.Weights = Weights{}
		cfg.RenormalizeWeights = true
		if err := cfg.Finalize(); err == nil {
			t.Error("Finalize() with all-zero weights should fail even when renormalizing")
		}
	})
}

func TestReadFile(t *testing.T) {
	t.Run("partial file layers over defaults", func(t *testing.T) {
		path := writeConfig(t, `{"thresholds": {"strong": 0.8, "review": 0.6, "name_hard_floor": 0.7}}`)

		cfg, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if cfg.Thresholds.Strong != 0.8 {
			t.Errorf("Strong = %f, want 0.8 from file", cfg.Thresholds.Strong)
		}
		if cfg.Weights.NameSimilarity != 0.60 {
			t.Errorf("NameSimilarity = %f, want default 0.60", cfg.Weights.NameSimilarity)
		}
		if cfg.Quality.StalenessDays != 730 {
			t.Errorf("StalenessDays = %d, want default 730", cfg.Quality.StalenessDays)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("ReadFile() on missing file, wantErr, got nil")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeConfig(t, `{"weights": `)
		if _, err := ReadFile(path); err == nil {
			t.Error("ReadFile() on malformed JSON, wantErr, got nil")
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeConfig(t, `{
			"paths": {"input": "in.csv", "reference": "ref.csv", "output": "out"},
			"quality": {"staleness_days": 365}
		}`)

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg.Paths.Input != "in.csv" || cfg.Quality.StalenessDays != 365 {
			t.Errorf("cfg = %+v, want file values applied", cfg)
		}
	})

	t.Run("invalid file is rejected", func(t *testing.T) {
		path := writeConfig(t, `{"weights": {"name_similarity": 0.9, "country_match": 0.15, "city_match": 0.10, "freshness": 0.10, "has_website": 0.05}}`)

		if _, err := LoadFile(path); !errors.Is(err, internalerrors.ErrInvalidConfig) {
			t.Errorf("LoadFile() error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestEffectiveNow(t *testing.T) {
	cfg := Default()
	if cfg.EffectiveNow().IsZero() {
		t.Error("EffectiveNow() with zero Now should return the wall clock")
	}

	cfg.Now = cfg.EffectiveNow().AddDate(-1, 0, 0)
	if got := cfg.EffectiveNow(); !got.Equal(cfg.Now) {
		t.Errorf("EffectiveNow() = %v, want pinned %v", got, cfg.Now)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}
