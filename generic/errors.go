/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculation core never returns errors; these belong to the stores,
  the document factory and the HTTP layer around it.

ERROR CATEGORIES:
  1. Not-found errors - Missing employees, allocations, leave types, records
  2. Validation errors - Malformed dates, units or windows from clients

USAGE:
  if generic.IsNotFound(err) {
      writeError(w, http.StatusNotFound, "Allocation not found", err)
  }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrAllocationNotFound = errors.New("allocation not found")
	ErrLeaveTypeNotFound  = errors.New("leave type not found")
	ErrRecordNotFound     = errors.New("attendance record not found")

	// ErrInvalidDate is returned when a calendar date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidUnit is returned when a client sends a unit other than
	// minutes or days.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrInvalidPeriod is returned when a window ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	ErrInvalidStatus = errors.New("invalid shift status")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// DateError carries the input that failed to parse.
type DateError struct {
	Input string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q (use YYYY-MM-DD)", e.Input)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidUnit) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidStatus)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrAllocationNotFound) ||
		errors.Is(err, ErrLeaveTypeNotFound) ||
		errors.Is(err, ErrRecordNotFound)
}
