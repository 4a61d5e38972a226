// Package testing provides utilities and helpers for testing the entity
// resolver.
package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veridata/go-entity-resolver/config"
	"github.com/veridata/go-entity-resolver/internal/resolver"
	"github.com/veridata/go-entity-resolver/model"
	"github.com/veridata/go-entity-resolver/store"
)

// FixedNow is the pinned reference timestamp used across tests so freshness
// and staleness are deterministic.
var FixedNow = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

// TestConfig returns the default configuration with the reference timestamp
// pinned to FixedNow.
func TestConfig() config.Config {
	cfg := config.Default()
	cfg.Now = FixedNow
	return cfg
}

// DaysAgo returns a pointer to a timestamp the given number of days before
// FixedNow, for building records with a known update age.
func DaysAgo(days int) *time.Time {
	t := FixedNow.AddDate(0, 0, -days)
	return &t
}

// ReferenceRecord builds a fully populated reference record with sensible
// defaults: same-country, same-city attributes, a website, and a recent
// update. Tests override individual fields as needed.
func ReferenceRecord(id, name string) model.EntityRecord {
	return model.EntityRecord{
		RowKey:      id,
		Name:        name,
		Country:     "US",
		City:        "Austin",
		Street:      "100 Congress Ave",
		Postcode:    "78701",
		CompanyType: "LLC",
		WebsiteURL:  "https://example.com",
		LastUpdated: DaysAgo(1),
	}
}

// InputRecord builds a minimal supplier intake record.
func InputRecord(key, name string) model.EntityRecord {
	return model.EntityRecord{
		RowKey:  key,
		Name:    name,
		Country: "US",
		City:    "Austin",
	}
}

// NewTestResolver wires a resolver service over the given reference records
// with the pinned test configuration.
func NewTestResolver(t *testing.T, cfg config.Config, refs ...model.EntityRecord) *resolver.Service {
	t.Helper()

	svc, err := resolver.NewService(cfg, store.NewReferenceStore(refs))
	require.NoError(t, err, "failed to create resolver service")
	return svc
}
