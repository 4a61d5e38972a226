package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidConfig is returned when the run configuration fails validation
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMalformedRecord is returned when an input record is missing its mandatory identity fields
	ErrMalformedRecord = errors.New("malformed record")

	// ErrEmptyReferenceSet is returned when no reference records are loaded
	ErrEmptyReferenceSet = errors.New("empty reference set")

	// ErrRunNotFound is returned when a resolution run is not found
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidConfigError represents a configuration validation failure with the
// full list of violations. Configuration errors are fatal at startup and are
// surfaced before any row is processed.
type InvalidConfigError struct {
	Violations []string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Violations, "; "))
}

func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewInvalidConfigError creates a new InvalidConfigError
func NewInvalidConfigError(violations []string) *InvalidConfigError {
	return &InvalidConfigError{Violations: violations}
}

// MalformedRecordError represents a malformed input record with context.
// The orchestrator recovers these locally (flag + Unmatched) rather than
// aborting the run.
type MalformedRecordError struct {
	RowKey string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.RowKey != "" {
		return fmt.Sprintf("malformed record '%s': %s", e.RowKey, e.Reason)
	}
	return fmt.Sprintf("malformed record: %s", e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// NewMalformedRecordError creates a new MalformedRecordError
func NewMalformedRecordError(rowKey, reason string) *MalformedRecordError {
	return &MalformedRecordError{RowKey: rowKey, Reason: reason}
}

// RunNotFoundError represents a run not found error with context
type RunNotFoundError struct {
	RunID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run with ID '%s' not found", e.RunID)
}

func (e *RunNotFoundError) Is(target error) bool {
	return target == ErrRunNotFound
}

// NewRunNotFoundError creates a new RunNotFoundError
func NewRunNotFoundError(runID string) *RunNotFoundError {
	return &RunNotFoundError{RunID: runID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
