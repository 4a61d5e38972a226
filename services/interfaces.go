package services

import (
	"context"

	"github.com/veridata/go-entity-resolver/model"
)

// RunResult represents the outcome of one resolution pass over a set of
// input records: one DecisionRecord per input row, in input order.
type RunResult struct {
	Records []model.DecisionRecord `json:"records"`
	Total   int                    `json:"total"`
	Took    int64                  `json:"took"`   // milliseconds
	RunID   string                 `json:"run_id"` // unique UUID for this resolution pass
}

// Resolver drives the full match-and-flag pass: candidate selection,
// feature extraction, scoring, classification, and quality flagging.
type Resolver interface {
	Resolve(inputs []model.EntityRecord) RunResult
	ResolveParallel(ctx context.Context, inputs []model.EntityRecord, workers int) (RunResult, error)
}

// ReferenceSink accepts replacement reference sets between runs.
type ReferenceSink interface {
	Replace(records []model.EntityRecord)
	Len() int
}

// RunManager defines operations for managing background resolution runs
type RunManager interface {
	GetRun(runID string) (*model.Run, error)
	ListRuns(status *model.RunStatus) []*model.Run
	Results(runID string) (*RunResult, error)
}
