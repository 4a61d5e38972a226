// Package jobs tracks background resolution runs for the HTTP server mode.
package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veridata/go-entity-resolver/internal/errors"
	"github.com/veridata/go-entity-resolver/model"
	"github.com/veridata/go-entity-resolver/services"
)

// Manager handles background run execution and tracking. Completed run
// results are kept in memory until cleaned up, so they can be fetched after
// the run finishes.
type Manager struct {
	mu       sync.RWMutex
	runs     map[string]*model.Run
	results  map[string]*services.RunResult
	workers  chan struct{} // Limits concurrent runs
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates a new run manager with the specified worker count
func NewManager(maxWorkers int) *Manager {
	return &Manager{
		runs:     make(map[string]*model.Run),
		results:  make(map[string]*services.RunResult),
		workers:  make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
	}
}

// Start begins the run manager and starts background cleanup
func (m *Manager) Start() {
	log.Printf("Run manager started with %d max workers", cap(m.workers))
	go m.cleanupRoutine()
}

// Stop gracefully shuts down the run manager
func (m *Manager) Stop() {
	close(m.stopChan)
	m.wg.Wait()
	log.Printf("Run manager stopped")
}

// CreateRun registers a new pending run and returns its ID
func (m *Manager) CreateRun(metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	run := &model.Run{
		ID:        uuid.New().String(),
		Status:    model.RunStatusPending,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.runs[run.ID] = run
	log.Printf("Created run %s", run.ID)
	return run.ID
}

// GetRun retrieves a run by ID
func (m *Manager) GetRun(runID string) (*model.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, exists := m.runs[runID]
	if !exists {
		return nil, errors.NewRunNotFoundError(runID)
	}

	// Return a copy to avoid race conditions
	runCopy := *run
	if run.Progress != nil {
		progressCopy := *run.Progress
		runCopy.Progress = &progressCopy
	}
	return &runCopy, nil
}

// ListRuns returns all runs, optionally filtered by status
func (m *Manager) ListRuns(status *model.RunStatus) []*model.Run {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Run
	for _, run := range m.runs {
		if status == nil || run.Status == *status {
			runCopy := *run
			if run.Progress != nil {
				progressCopy := *run.Progress
				runCopy.Progress = &progressCopy
			}
			result = append(result, &runCopy)
		}
	}
	return result
}

// Results returns the decision records of a completed run.
func (m *Manager) Results(runID string) (*services.RunResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, exists := m.runs[runID]
	if !exists {
		return nil, errors.NewRunNotFoundError(runID)
	}
	if run.Status != model.RunStatusCompleted {
		return nil, fmt.Errorf("run with ID '%s' has no results (status: %s)", runID, run.Status)
	}
	return m.results[runID], nil
}

// ExecuteRun starts a pending run in a goroutine with proper tracking. The
// run function returns the result to retain for later retrieval.
func (m *Manager) ExecuteRun(runID string, runFunc func(ctx context.Context, run *model.Run) (*services.RunResult, error)) error {
	m.mu.Lock()
	run, exists := m.runs[runID]
	if !exists {
		m.mu.Unlock()
		return errors.NewRunNotFoundError(runID)
	}

	if run.Status != model.RunStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("run with ID '%s' is not in pending status (current: %s)", runID, run.Status)
	}

	run.Status = model.RunStatusRunning
	now := time.Now()
	run.StartedAt = &now
	m.mu.Unlock()

	// Acquire worker slot
	select {
	case m.workers <- struct{}{}:
		// Got worker slot
	case <-m.stopChan:
		m.updateRunStatus(runID, model.RunStatusCancelled, "Run manager shutting down")
		return fmt.Errorf("run manager is shutting down")
	}

	m.wg.Add(1)
	go func() {
		defer func() {
			<-m.workers // Release worker slot
			m.wg.Done()
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		startTime := time.Now()
		result, err := runFunc(ctx, run)
		executionTime := time.Since(startTime)

		if err != nil {
			m.updateRunStatus(runID, model.RunStatusFailed, err.Error())
			log.Printf("Run %s failed after %v: %v", runID, executionTime, err)
		} else {
			m.mu.Lock()
			m.results[runID] = result
			m.mu.Unlock()
			m.updateRunStatus(runID, model.RunStatusCompleted, "")
			log.Printf("Run %s completed successfully in %v", runID, executionTime)
		}
	}()

	return nil
}

// UpdateRunProgress updates the progress of a running run
func (m *Manager) UpdateRunProgress(runID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, exists := m.runs[runID]
	if !exists {
		return
	}

	if run.Progress == nil {
		run.Progress = &model.RunProgress{}
	}

	run.Progress.Current = current
	run.Progress.Total = total
	run.Progress.Message = message
}

// updateRunStatus updates the status of a run (internal method)
func (m *Manager) updateRunStatus(runID string, status model.RunStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, exists := m.runs[runID]
	if !exists {
		return
	}

	run.Status = status
	if errorMsg != "" {
		run.Error = errorMsg
	}

	if status == model.RunStatusCompleted || status == model.RunStatusFailed || status == model.RunStatusCancelled {
		now := time.Now()
		run.CompletedAt = &now
	}
}

// CleanupOldRuns removes completed, failed, or cancelled runs (and their
// retained results) older than the given age.
func (m *Manager) CleanupOldRuns(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, run := range m.runs {
		if run.CompletedAt == nil || run.CompletedAt.After(cutoff) {
			continue
		}
		delete(m.runs, id)
		delete(m.results, id)
	}
}

// cleanupRoutine runs periodic run cleanup
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Clean up finished runs older than 24 hours
			m.CleanupOldRuns(24 * time.Hour)
		case <-m.stopChan:
			return
		}
	}
}
