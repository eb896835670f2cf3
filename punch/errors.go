/*
errors.go - Centralized error types for the punch engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers wrap these with transport-level context.

ERROR CATEGORIES:
  1. Query validation - user-correctable input errors (hard stop)
  2. Data quality - tolerated conditions reported via Diagnostics,
     never as errors (see types.go)

USAGE:
  if errors.Is(err, punch.ErrInvalidRange) {
      // 400, surface to the user
  }

SEE ALSO:
  - filter.go: Raises ErrInvalidRange
  - types.go: Diagnostics for the non-fatal conditions
*/
package punch

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a query's dateFrom falls after its
	// dateTo. This is the only hard stop in the pipeline: the caller must
	// surface it to the user, not swallow it.
	ErrInvalidRange = errors.New("invalid range: date-from after date-to")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InvalidRangeError carries the offending bounds.
type InvalidRangeError struct {
	From time.Time
	To   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: %s after %s",
		e.From.Format(DayLayout), e.To.Format(DayLayout))
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}
