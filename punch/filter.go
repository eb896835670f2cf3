package punch

import (
	"strings"
	"time"
)

// =============================================================================
// QUERY PLANNER - Narrow a raw record set before pairing/aggregation
// =============================================================================

// Query restricts a record set. Absent criteria impose no constraint;
// supplied criteria combine with AND semantics.
type Query struct {
	// From/To bound the CALENDAR DAY of each event's canonical instant,
	// inclusive on both ends. The time portion of these bounds is ignored.
	From *time.Time
	To   *time.Time

	// EmployeeID is an exact match.
	EmployeeID EmployeeID

	// NameQuery is a case-insensitive substring match against the
	// employee display name. Events lacking a name never match a
	// non-empty query.
	NameQuery string
}

// Validate checks the range bounds. From after To is the planner's one
// hard error; callers must surface it, not swallow it.
func (q Query) Validate() error {
	if q.From != nil && q.To != nil && dayOf(*q.From).After(dayOf(*q.To)) {
		return &InvalidRangeError{From: *q.From, To: *q.To}
	}
	return nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Filter returns the subset of events matching every supplied criterion.
// Events must be normalized first: date bounds compare canonical
// instants. An unparseable event cannot be shown to lie inside a date
// bound, so date-bounded queries exclude it; unbounded queries keep it
// (flagged) for display.
func Filter(events []ClockEvent, q Query) ([]ClockEvent, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	name := strings.ToLower(strings.TrimSpace(q.NameQuery))
	out := make([]ClockEvent, 0, len(events))
	for _, e := range events {
		if q.EmployeeID != "" && e.EmployeeID != q.EmployeeID {
			continue
		}
		if name != "" {
			if e.EmployeeName == "" || !strings.Contains(strings.ToLower(e.EmployeeName), name) {
				continue
			}
		}
		if q.From != nil || q.To != nil {
			if !e.Parsed {
				continue
			}
			day := dayOf(e.At)
			if q.From != nil && day.Before(dayOf(*q.From)) {
				continue
			}
			if q.To != nil && day.After(dayOf(*q.To)) {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}
