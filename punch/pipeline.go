package punch

// =============================================================================
// PIPELINE - normalize -> filter -> pair -> aggregate -> sort, one shot
// =============================================================================
//
// One Run is a pure, synchronous, re-entrant computation: no I/O, no
// cancellation primitive, no state carried between calls. Callers that
// fire overlapping runs (rapid typing in a filter box) debounce or apply
// last-request-wins on their side and discard stale results.
//
// Normalization runs before the query planner because the planner's date
// bounds compare canonical instants; the rest follows the natural order.

// Input is everything one pipeline run needs.
type Input struct {
	Events []ClockEvent
	Query  Query
	Sort   SortKey
	Desc   bool
	PerDay bool // carry per-day breakdowns in the summaries
}

// Result is one run's complete, immutable output.
type Result struct {
	// Events is the flat, normalized, filtered, sorted list for detail
	// views. Unparseable events ride along (flagged) unless a date bound
	// excluded them.
	Events []ClockEvent

	// Summaries is keyed by employee; use SortSummaries for display order.
	Summaries map[EmployeeID]EmployeeSummary

	Diagnostics Diagnostics
}

// Run executes the full pipeline. Only an invalid date range is a hard
// stop (empty result plus the error); every other data problem degrades
// to best-effort output recorded in Diagnostics.
func Run(in Input) (Result, error) {
	if err := in.Query.Validate(); err != nil {
		return Result{}, err
	}

	normalized, failed := NormalizeEvents(in.Events)

	filtered, err := Filter(normalized, in.Query)
	if err != nil {
		return Result{}, err
	}

	summaries, diag := Summarize(filtered, in.PerDay)

	// The normalizer's count is authoritative: a date-bounded filter may
	// hide unparseable events from pairing, but they still happened.
	diag.UnparseableTimestamps = failed

	return Result{
		Events:      Sort(filtered, in.Sort, in.Desc),
		Summaries:   summaries,
		Diagnostics: diag,
	}, nil
}
