/*
Package punch provides the core time-record reconciliation engine.

PURPOSE:
  This package contains the pure computation pipeline for attendance data:
  normalizing heterogeneous timestamp strings, pairing clock-in/clock-out
  punches into worked-time intervals, aggregating per-employee totals, and
  filtering/sorting record sets for presentation.

KEY CONCEPTS IN THIS FILE (types.go):
  - ClockEvent: One raw attendance punch, immutable once normalized
  - WorkInterval: A derived start->end span (end may be open)
  - EmployeeSummary: Aggregated worked time for one employee
  - Diagnostics: Best-effort tallies for messy input (dangling punches,
    unparseable timestamps)

DESIGN PRINCIPLES:
  1. Purity: No I/O, no shared mutable state; every query recomputes
     from raw input
  2. Leniency: One malformed record never aborts a pipeline run; it is
     flagged and excluded from the math
  3. Precision: Totals are integer seconds; decimal hours use
     decimal.Decimal to avoid floating-point drift in exports

USAGE:
  result, err := punch.Run(punch.Input{
      Events: events,
      Query:  punch.Query{NameQuery: "ana"},
      Sort:   punch.SortByInstant,
  })

SEE ALSO:
  - normalize.go: Timestamp canonicalization
  - pair.go: Interval pairing
  - aggregate.go: Totals and per-day breakdowns
  - filter.go: Query planner
  - sort.go: Comparator set
*/
package punch

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type RecordID string

// =============================================================================
// EVENT KIND - The two punch directions as they appear on the wire
// =============================================================================

type EventKind string

const (
	KindClockIn  EventKind = "entrada"
	KindClockOut EventKind = "saída"
)

// Valid reports whether k is one of the two known punch directions.
func (k EventKind) Valid() bool { return k == KindClockIn || k == KindClockOut }

// =============================================================================
// CLOCK EVENT - One raw attendance punch
// =============================================================================

// ClockEvent is one punch as received from the upstream API, after
// normalization. Events are value types: normalization returns new
// events rather than mutating in place.
type ClockEvent struct {
	RecordID     RecordID
	EmployeeID   EmployeeID
	EmployeeName string // may be empty on the wire; backfilled from the roster
	CompanyName  string // display-only
	Kind         EventKind

	// Raw is the timestamp text exactly as received. It is the display
	// fallback when parsing fails and is never rewritten.
	Raw string

	// At is the canonical instant. Only meaningful when Parsed is true.
	At     time.Time
	Parsed bool
}

// Instant returns the canonical instant used for ordering. Unparseable
// events sort as earliest-possible.
func (e ClockEvent) Instant() time.Time {
	if !e.Parsed {
		return time.Time{}
	}
	return e.At
}

// Day returns the calendar-day key ("2006-01-02") of the event, or ""
// when the timestamp never parsed.
func (e ClockEvent) Day() string {
	if !e.Parsed {
		return ""
	}
	return e.At.Format(DayLayout)
}

// DayLayout is the calendar-day key format used throughout the engine.
const DayLayout = "2006-01-02"

// =============================================================================
// WORK INTERVAL - Derived entity, recomputed from scratch on every query
// =============================================================================

// WorkInterval is one paired entrada->saída span for one employee.
// End is nil for an unfinished interval (clock-in with no matching
// clock-out before the next clock-in or end of data).
type WorkInterval struct {
	EmployeeID EmployeeID
	Start      time.Time
	End        *time.Time
}

// Closed reports whether both ends of the interval are present.
func (iv WorkInterval) Closed() bool { return iv.End != nil }

// Duration returns the worked span. Open intervals contribute zero.
func (iv WorkInterval) Duration() time.Duration {
	if iv.End == nil {
		return 0
	}
	return iv.End.Sub(iv.Start)
}

// =============================================================================
// EMPLOYEE SUMMARY - Aggregation result, lives for one render/export cycle
// =============================================================================

// DayPunch is one normalized punch inside a per-day breakdown.
type DayPunch struct {
	At   time.Time
	Kind EventKind
}

// DaySummary is the breakdown for one calendar day. WorkedSeconds
// buckets each closed interval by its *start* day: an interval spanning
// midnight is attributed entirely to the day it began on. That is a
// deliberate simplification, not a bug.
type DaySummary struct {
	WorkedSeconds int64
	Punches       []DayPunch
}

// EmployeeSummary carries the aggregated worked time for one employee
// over the queried range.
type EmployeeSummary struct {
	EmployeeID         EmployeeID
	EmployeeName       string
	TotalWorkedSeconds int64
	Intervals          []WorkInterval
	PerDay             map[string]DaySummary // keyed by DayLayout; nil unless requested
}

// FormattedTotal returns the total as HH:MM. Fractional minutes are
// truncated, not rounded, matching the displayed totals.
func (s EmployeeSummary) FormattedTotal() string {
	return FormatHHMM(s.TotalWorkedSeconds)
}

// DecimalHours returns the total as decimal hours at two places,
// for spreadsheet columns.
func (s EmployeeSummary) DecimalHours() decimal.Decimal {
	return decimal.NewFromInt(s.TotalWorkedSeconds).
		Div(decimal.NewFromInt(3600)).
		Round(2)
}

// =============================================================================
// DIAGNOSTICS - Best-effort tallies, never failures
// =============================================================================

// DanglingPunch records one unpaired punch for optional UI warnings
// ("missing clock-out for employee X on day Y").
type DanglingPunch struct {
	EmployeeID EmployeeID
	At         time.Time
	Kind       EventKind
}

// Diagnostics accumulates everything the pipeline tolerated rather than
// failed on. It never blocks aggregation of the remaining well-formed data.
type Diagnostics struct {
	UnparseableTimestamps int
	DanglingStarts        int
	DanglingEnds          int
	OpenIntervals         int
	Dangling              []DanglingPunch
}

func (d *Diagnostics) merge(other Diagnostics) {
	d.UnparseableTimestamps += other.UnparseableTimestamps
	d.DanglingStarts += other.DanglingStarts
	d.DanglingEnds += other.DanglingEnds
	d.OpenIntervals += other.OpenIntervals
	d.Dangling = append(d.Dangling, other.Dangling...)
}
