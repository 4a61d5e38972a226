package model

import (
	"time"
)

// RunStatus represents the status of a background resolution run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run represents one background resolution pass over a set of input records
type Run struct {
	ID          string            `json:"id"`
	Status      RunStatus         `json:"status"`
	Progress    *RunProgress      `json:"progress,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// RunProgress tracks how many input rows have been resolved so far
type RunProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// GetProgressPercentage returns the progress as a percentage (0-100)
func (rp *RunProgress) GetProgressPercentage() float64 {
	if rp.Total == 0 {
		return 0
	}
	return float64(rp.Current) / float64(rp.Total) * 100
}
