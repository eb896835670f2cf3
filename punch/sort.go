package punch

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// =============================================================================
// COMPARATOR SET - Stable, reversible orderings for presentation
// =============================================================================

// SortKey names one of the presentation orderings.
type SortKey string

const (
	// SortByInstant orders by canonical instant; unparseable timestamps
	// sort as earliest-possible.
	SortByInstant SortKey = "instant"

	// SortByName orders by employee display name using pt-BR collation.
	SortByName SortKey = "name"

	// SortByKind orders lexicographically on the two wire values
	// ("entrada" < "saída"). Plain byte order, not a semantic
	// in-before-out rule; kept for parity with the reference behavior.
	SortByKind SortKey = "kind"
)

// Display names carry Portuguese accents, so byte order misplaces them.
var nameCollator = collate.New(language.BrazilianPortuguese)

// Sort orders events by the given key, in place over a copy. The sort is
// stable: equal keys preserve relative input order, in both directions.
func Sort(events []ClockEvent, key SortKey, descending bool) []ClockEvent {
	out := make([]ClockEvent, len(events))
	copy(out, events)

	var less func(i, j int) bool
	switch key {
	case SortByName:
		less = func(i, j int) bool {
			return nameCollator.CompareString(out[i].EmployeeName, out[j].EmployeeName) < 0
		}
	case SortByKind:
		less = func(i, j int) bool {
			return out[i].Kind < out[j].Kind
		}
	default: // SortByInstant
		less = func(i, j int) bool {
			return out[i].Instant().Before(out[j].Instant())
		}
	}

	if descending {
		asc := less
		less = func(i, j int) bool { return asc(j, i) }
	}
	sort.SliceStable(out, less)
	return out
}

// SortSummaries orders aggregation output for presentation, by employee
// name (pt-BR collation) with the employee ID as a stable tiebreaker.
func SortSummaries(summaries map[EmployeeID]EmployeeSummary) []EmployeeSummary {
	out := make([]EmployeeSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := nameCollator.CompareString(out[i].EmployeeName, out[j].EmployeeName); c != 0 {
			return c < 0
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}
