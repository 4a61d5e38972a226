package matching

import (
	"testing"

	"github.com/veridata/go-entity-resolver/config"
	"github.com/veridata/go-entity-resolver/model"
	"github.com/veridata/go-entity-resolver/store"
)

func newTestStore(records ...model.EntityRecord) *store.ReferenceStore {
	return store.NewReferenceStore(records)
}

func ref(id, name, country string) model.EntityRecord {
	return model.EntityRecord{RowKey: id, Name: name, Country: country}
}

func TestSelector_Best(t *testing.T) {
	t.Run("picks maximum name similarity", func(t *testing.T) {
		refs := newTestStore(
			ref("r1", "Globex Industries", "US"),
			ref("r2", "Acme Corporation", "US"),
			ref("r3", "Initech LLC", "US"),
		)
		selector := NewSelector(refs, config.Matching{})

		best, ok := selector.Best(model.EntityRecord{RowKey: "in", Name: "Acme Corp", Country: "US"})
		if !ok {
			t.Fatal("Best() ok = false, want true")
		}
		if best.Record.RowKey != "r2" {
			t.Errorf("Best() picked %s, want r2", best.Record.RowKey)
		}
		if best.NameSimilarity <= 0 || best.NameSimilarity > 1 {
			t.Errorf("NameSimilarity = %f, want value in (0,1]", best.NameSimilarity)
		}
	})

	t.Run("tie resolves to first in reference order", func(t *testing.T) {
		refs := newTestStore(
			ref("first", "Acme Corp", "US"),
			ref("second", "Acme Corp", "DE"),
			ref("third", "acme corp", "FR"),
		)
		selector := NewSelector(refs, config.Matching{})

		best, ok := selector.Best(model.EntityRecord{RowKey: "in", Name: "Acme Corp"})
		if !ok {
			t.Fatal("Best() ok = false, want true")
		}
		if best.Record.RowKey != "first" {
			t.Errorf("tie broke to %s, want first (original reference order)", best.Record.RowKey)
		}
		if best.NameSimilarity != 1.0 {
			t.Errorf("NameSimilarity = %f, want 1.0", best.NameSimilarity)
		}
	})

	t.Run("empty reference set yields no candidate", func(t *testing.T) {
		selector := NewSelector(newTestStore(), config.Matching{})

		if _, ok := selector.Best(model.EntityRecord{RowKey: "in", Name: "Anything"}); ok {
			t.Error("Best() ok = true on empty reference set, want false")
		}
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		refs := newTestStore(
			ref("r1", "Acme Corp", "US"),
			ref("r2", "Acme Group", "US"),
			ref("r3", "Acme Holdings", "US"),
		)
		selector := NewSelector(refs, config.Matching{})
		input := model.EntityRecord{RowKey: "in", Name: "Acme Corp"}

		first, _ := selector.Best(input)
		for i := 0; i < 10; i++ {
			again, _ := selector.Best(input)
			if again.Record.RowKey != first.Record.RowKey || again.NameSimilarity != first.NameSimilarity {
				t.Fatalf("Best() changed between calls: %v vs %v", again, first)
			}
		}
	})
}

func TestSelector_CountryBlocking(t *testing.T) {
	t.Run("restricts scan to the country block", func(t *testing.T) {
		// The globally best name match is in DE; blocking keeps the scan
		// inside the US block. This is the documented trade-off.
		refs := newTestStore(
			ref("us-1", "Acme Trading", "US"),
			ref("de-1", "Acme Corp", "DE"),
		)
		selector := NewSelector(refs, config.Matching{BlockByCountry: true})

		best, ok := selector.Best(model.EntityRecord{RowKey: "in", Name: "Acme Corp", Country: "US"})
		if !ok {
			t.Fatal("Best() ok = false, want true")
		}
		if best.Record.RowKey != "us-1" {
			t.Errorf("blocked scan picked %s, want us-1", best.Record.RowKey)
		}
	})

	t.Run("falls back to full scan when block is empty", func(t *testing.T) {
		refs := newTestStore(
			ref("de-1", "Acme Corp", "DE"),
			ref("fr-1", "Globex SA", "FR"),
		)
		selector := NewSelector(refs, config.Matching{BlockByCountry: true})

		best, ok := selector.Best(model.EntityRecord{RowKey: "in", Name: "Acme Corp", Country: "US"})
		if !ok {
			t.Fatal("Best() ok = false, want true")
		}
		if best.Record.RowKey != "de-1" {
			t.Errorf("fallback scan picked %s, want de-1", best.Record.RowKey)
		}
	})

	t.Run("matches exhaustive scan when best is inside block", func(t *testing.T) {
		records := []model.EntityRecord{
			ref("us-1", "Acme Corporation", "US"),
			ref("us-2", "Globex Industries", "US"),
			ref("de-1", "Initech GmbH", "DE"),
		}
		input := model.EntityRecord{RowKey: "in", Name: "Acme Corp", Country: "us"}

		exhaustive, _ := NewSelector(newTestStore(records...), config.Matching{}).Best(input)
		blocked, _ := NewSelector(newTestStore(records...), config.Matching{BlockByCountry: true}).Best(input)

		if exhaustive.Record.RowKey != blocked.Record.RowKey {
			t.Errorf("blocked pick %s differs from exhaustive pick %s",
				blocked.Record.RowKey, exhaustive.Record.RowKey)
		}
	})
}
