// Package matching implements candidate selection, weighted scoring, and
// threshold-based decision classification.
package matching

import (
	"github.com/veridata/go-entity-resolver/config"
	"github.com/veridata/go-entity-resolver/internal/similarity"
	"github.com/veridata/go-entity-resolver/model"
	"github.com/veridata/go-entity-resolver/store"
)

// Candidate is the result of a best-candidate selection: the winning
// reference record and its name similarity to the input.
type Candidate struct {
	Record         model.EntityRecord
	NameSimilarity float64
}

// Selector picks the best reference candidate for an input record by name
// similarity. The reference store is shared, read-only state; the selector
// itself carries no per-row state and is safe for concurrent use.
type Selector struct {
	refs           *store.ReferenceStore
	blockByCountry bool
}

// NewSelector creates a Selector over the given reference store.
func NewSelector(refs *store.ReferenceStore, matchingCfg config.Matching) *Selector {
	return &Selector{
		refs:           refs,
		blockByCountry: matchingCfg.BlockByCountry,
	}
}

// Best returns the reference record with the maximum name similarity to the
// input, and that similarity. When several records tie on the maximum, the
// one appearing first in the reference set's original ordering wins, so the
// result is deterministic and order-stable. ok is false when the reference
// set is empty.
//
// With country blocking enabled the scan is restricted to reference records
// sharing the input's normalized country, falling back to the full scan when
// no such block exists. Blocking can miss a best candidate that lies outside
// the block; it is an opt-in performance trade-off, not the default.
func (s *Selector) Best(input model.EntityRecord) (Candidate, bool) {
	records := s.refs.Snapshot()
	if len(records) == 0 {
		return Candidate{}, false
	}

	if s.blockByCountry {
		if block, ok := s.refs.CountryBlock(input.Country); ok {
			return s.bestOf(input, records, block), true
		}
	}

	return s.bestOf(input, records, nil), true
}

// bestOf scans the given positions (or all records when positions is nil)
// and returns the first record achieving the maximum similarity.
func (s *Selector) bestOf(input model.EntityRecord, records []model.EntityRecord, positions []int) Candidate {
	best := Candidate{NameSimilarity: -1}

	scan := func(rec model.EntityRecord) {
		// Length-based upper bound: skip the full alignment when this
		// record cannot beat the current best.
		if similarity.RatioUpperBound(input.Name, rec.Name) <= best.NameSimilarity {
			return
		}
		sim := similarity.Ratio(input.Name, rec.Name)
		if sim > best.NameSimilarity {
			best = Candidate{Record: rec, NameSimilarity: sim}
		}
	}

	if positions == nil {
		for _, rec := range records {
			scan(rec)
		}
	} else {
		for _, i := range positions {
			scan(records[i])
		}
	}
	return best
}
