package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeRunNotFound      ErrorCode = "RUN_NOT_FOUND"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"

	// Server Error Codes (5xx)
	ErrorCodeInternalError     ErrorCode = "INTERNAL_ERROR"
	ErrorCodeResolutionFailed  ErrorCode = "RESOLUTION_FAILED"
	ErrorCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	c.JSON(statusCode, &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	})
}

// SendValidationError sends a validation error with one detail per violation
func SendValidationError(c *gin.Context, violations []string) {
	details := make([]ErrorDetail, len(violations))
	for i, v := range violations {
		details[i] = ErrorDetail{Message: v, Code: "VALIDATION_ERROR"}
	}
	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendRunNotFoundError sends a standardized run not found error
func SendRunNotFoundError(c *gin.Context, runID string) {
	SendError(c, http.StatusNotFound, ErrorCodeRunNotFound,
		"Run '"+runID+"' not found")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendResolutionError sends a standardized resolution failure error
func SendResolutionError(c *gin.Context, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeResolutionFailed,
		"Resolution failed: "+err.Error())
}

// SendPersistenceError sends a standardized persistence failure error
func SendPersistenceError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodePersistenceFailed,
		"Persistence operation failed ("+operation+"): "+err.Error())
}
