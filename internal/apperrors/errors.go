package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidTransition indicates a status change that is not permitted from the document's current status.
var ErrInvalidTransition = errors.New("status transition not permitted")

// ErrIneligibleState indicates a conversion attempted from a source document whose status disqualifies it.
var ErrIneligibleState = errors.New("document status not eligible for this operation")

// ErrAlreadyPunchedIn indicates the employee already has an open time entry.
var ErrAlreadyPunchedIn = errors.New("employee already has an open time entry")

// ErrNoOpenEntry indicates the employee has no open time entry to close.
var ErrNoOpenEntry = errors.New("no open time entry for employee")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ValidationError carries the full list of violated rules so callers can
// correct the input in one round trip. It unwraps to ErrValidation.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError wraps a non-empty list of rule violations.
func NewValidationError(violations []string) error {
	return &ValidationError{Violations: violations}
}
