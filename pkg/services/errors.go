// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"

	"github.com/canvasflow/canvasflow/pkg/builder"
	"github.com/canvasflow/canvasflow/pkg/logicalid"
	"github.com/canvasflow/canvasflow/pkg/registry"
)

// Business logic errors. These indicate client mistakes (4xx responses).
var (
	// ErrWorkflowNil indicates a nil workflow record was supplied.
	ErrWorkflowNil = errors.New("workflow cannot be nil")

	// ErrWorkflowIDRequired indicates an empty id on an operation that
	// addresses a stored workflow.
	ErrWorkflowIDRequired = errors.New("workflow id is required")

	// ErrInvalidRequest indicates request metadata that failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSaveInFlight indicates a save was attempted while another save of
	// the same designer session is still running. Last-writer-wins
	// interleaving is never allowed; the caller retries after the in-flight
	// save returns.
	ErrSaveInFlight = errors.New("a save is already in progress")
)

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrWorkflowIDRequired) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, builder.ErrInvalidLogicalID) ||
		errors.Is(err, builder.ErrUnknownNodeType) ||
		errors.Is(err, logicalid.ErrEmptyID) ||
		errors.Is(err, logicalid.ErrInvalidFormat) ||
		errors.Is(err, logicalid.ErrDuplicateID) ||
		errors.Is(err, registry.ErrInvalidConfig) ||
		errors.Is(err, registry.ErrUnknownNodeType)
}

// IsConflictError checks if an error should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSaveInFlight)
}
