// Package resolver implements the resolution orchestrator: one pass over
// the input records producing one decision record per row.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/veridata/go-entity-resolver/config"
	"github.com/veridata/go-entity-resolver/internal/features"
	"github.com/veridata/go-entity-resolver/internal/matching"
	"github.com/veridata/go-entity-resolver/internal/quality"
	"github.com/veridata/go-entity-resolver/model"
	"github.com/veridata/go-entity-resolver/services"
	"github.com/veridata/go-entity-resolver/store"
)

// Service implements the resolution pipeline for one configuration and
// reference set. It fulfills the services.Resolver interface.
//
// The reference store and configuration are shared, read-only state for the
// duration of a run; each row's decision is a pure function of that shared
// state plus its own input, so rows can be resolved in any order (or in
// parallel) with identical results.
type Service struct {
	cfg      config.Config
	refs     *store.ReferenceStore
	selector *matching.Selector
}

// NewService creates a resolver Service. The configuration must already be
// validated; background collaborators call cfg.Finalize before wiring.
func NewService(cfg config.Config, refs *store.ReferenceStore) (*Service, error) {
	if refs == nil {
		return nil, fmt.Errorf("reference store cannot be nil")
	}
	return &Service{
		cfg:      cfg,
		refs:     refs,
		selector: matching.NewSelector(refs, cfg.Matching),
	}, nil
}

// Resolve performs one sequential pass over the input records and returns a
// decision record per row, in input order. Malformed rows and an empty
// reference set are recovered locally; the run never aborts on row-level
// problems.
func (s *Service) Resolve(inputs []model.EntityRecord) services.RunResult {
	startTime := time.Now()
	now := s.cfg.EffectiveNow()

	records := make([]model.DecisionRecord, len(inputs))
	for i, input := range inputs {
		records[i] = s.resolveRow(input, now)
	}

	return services.RunResult{
		Records: records,
		Total:   len(records),
		Took:    time.Since(startTime).Milliseconds(),
		RunID:   uuid.New().String(),
	}
}

// ResolveParallel resolves rows with a bounded errgroup worker pool. Each
// worker writes to its own slot of the results slice, so the output is
// identical to the sequential pass regardless of scheduling. workers <= 1
// falls back to Resolve.
func (s *Service) ResolveParallel(ctx context.Context, inputs []model.EntityRecord, workers int) (services.RunResult, error) {
	if workers <= 1 {
		return s.Resolve(inputs), nil
	}

	startTime := time.Now()
	now := s.cfg.EffectiveNow()

	records := make([]model.DecisionRecord, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, input := range inputs {
		select {
		case <-ctx.Done():
			// Stop submitting further rows; already-scheduled rows finish.
			return services.RunResult{}, ctx.Err()
		default:
		}

		i, input := i, input
		g.Go(func() error {
			records[i] = s.resolveRow(input, now)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return services.RunResult{}, err
	}

	return services.RunResult{
		Records: records,
		Total:   len(records),
		Took:    time.Since(startTime).Milliseconds(),
		RunID:   uuid.New().String(),
	}, nil
}

// resolveRow assembles the decision record for a single input row.
func (s *Service) resolveRow(input model.EntityRecord, now time.Time) model.DecisionRecord {
	rec := model.DecisionRecord{
		InputRowKey:  input.RowKey,
		InputName:    input.Name,
		InputCountry: input.Country,
		InputCity:    input.City,
	}

	if !input.HasIdentity() {
		rec.Decision = model.DecisionUnmatched
		rec.Flags = append([]model.Flag{model.FlagMalformedInput},
			quality.Flags(input, now, s.cfg.Quality)...)
		rec.Notes = "malformed input: missing row key or company name"
		return rec
	}

	candidate, ok := s.selector.Best(input)
	if !ok {
		// Empty reference set: every row resolves to Unmatched with no
		// candidate identity. Quality flags still apply to the input side.
		rec.Decision = model.DecisionUnmatched
		rec.Flags = quality.Flags(input, now, s.cfg.Quality)
		rec.Notes = "no candidate: reference set is empty"
		return rec
	}

	fv := features.ExtractWithSimilarity(input, candidate.Record, candidate.NameSimilarity, now)
	score := matching.Score(fv, s.cfg.Weights)

	rec.CandidateID = candidate.Record.RowKey
	rec.CandidateName = candidate.Record.Name
	rec.Features = fv
	rec.MatchScore = score
	rec.Decision = matching.Classify(fv.NameSimilarity, score, s.cfg.Thresholds)
	rec.Flags = quality.Flags(candidate.Record, now, s.cfg.Quality)
	rec.Notes = decisionNotes(fv, score)

	return rec
}

// decisionNotes produces the short audit trail attached to every decided
// row, e.g. "name_sim=0.82; country✓; city✓; website✓; fresh=1.00; score=0.88".
func decisionNotes(fv model.FeatureVector, score float64) string {
	bits := []string{fmt.Sprintf("name_sim=%.2f", fv.NameSimilarity)}
	if fv.CountryMatch == 1 {
		bits = append(bits, "country✓")
	} else {
		bits = append(bits, "country✗")
	}
	if fv.CityMatch == 1 {
		bits = append(bits, "city✓")
	}
	if fv.WebsitePresent == 1 {
		bits = append(bits, "website✓")
	}
	bits = append(bits, fmt.Sprintf("fresh=%.2f", fv.Freshness))
	bits = append(bits, fmt.Sprintf("score=%.2f", score))
	return strings.Join(bits, "; ")
}
