package punch_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/attendance-engine/punch"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// =============================================================================
// QUERY PLANNER TESTS
// =============================================================================

func TestFilter_DateBoundsInclusive(t *testing.T) {
	// GIVEN: events on March 1st, 2nd and 3rd
	// WHEN: filtering [March 1, March 2]
	// THEN: both boundary days are included, March 3rd is not

	events := []punch.ClockEvent{
		event("ana", punch.KindClockIn, time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)),
		event("ana", punch.KindClockIn, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		event("ana", punch.KindClockIn, time.Date(2024, 3, 3, 8, 0, 0, 0, time.UTC)),
	}

	got, err := punch.Filter(events, punch.Query{From: day(2024, 3, 1), To: day(2024, 3, 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}

func TestFilter_InvalidRange(t *testing.T) {
	_, err := punch.Filter(nil, punch.Query{From: day(2024, 3, 2), To: day(2024, 3, 1)})
	if !errors.Is(err, punch.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if !punch.IsClientError(err) {
		t.Error("invalid range must be a client error")
	}

	// Equal bounds are a valid one-day range.
	if _, err := punch.Filter(nil, punch.Query{From: day(2024, 3, 1), To: day(2024, 3, 1)}); err != nil {
		t.Errorf("equal bounds must be valid: %v", err)
	}
}

func TestFilter_EmployeeIDExactMatch(t *testing.T) {
	events := []punch.ClockEvent{
		event("ana", punch.KindClockIn, at(8, 0)),
		event("ana-maria", punch.KindClockIn, at(8, 0)),
	}

	got, err := punch.Filter(events, punch.Query{EmployeeID: "ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].EmployeeID != "ana" {
		t.Fatalf("expected exactly the \"ana\" event, got %+v", got)
	}
}

func TestFilter_NameQueryCaseInsensitiveSubstring(t *testing.T) {
	withName := event("e1", punch.KindClockIn, at(8, 0))
	withName.EmployeeName = "Ana Clara Souza"
	nameless := event("e2", punch.KindClockIn, at(9, 0))

	got, err := punch.Filter([]punch.ClockEvent{withName, nameless}, punch.Query{NameQuery: "cLaRa"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].EmployeeID != "e1" {
		t.Fatalf("expected only the named event, got %+v", got)
	}

	// An event lacking a name never matches a non-empty query.
	got, _ = punch.Filter([]punch.ClockEvent{nameless}, punch.Query{NameQuery: "ana"})
	if len(got) != 0 {
		t.Error("nameless event matched a name query")
	}
}

func TestFilter_CriteriaCombineWithAND(t *testing.T) {
	a := event("ana", punch.KindClockIn, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	a.EmployeeName = "Ana"
	b := event("ana", punch.KindClockIn, time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC))
	b.EmployeeName = "Ana"

	got, err := punch.Filter([]punch.ClockEvent{a, b}, punch.Query{
		EmployeeID: "ana",
		NameQuery:  "ana",
		From:       day(2024, 3, 1),
		To:         day(2024, 3, 31),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
}

func TestFilter_NoCriteria_KeepsEverything(t *testing.T) {
	bad := punch.ClockEvent{EmployeeID: "e1", Kind: punch.KindClockIn, Raw: "not-a-date"}
	events := []punch.ClockEvent{event("ana", punch.KindClockIn, at(8, 0)), bad}

	got, err := punch.Filter(events, punch.Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both events retained, got %d", len(got))
	}
}

func TestFilter_DateBoundExcludesUnparseable(t *testing.T) {
	// An unparseable timestamp cannot be shown to lie inside a date
	// bound, so a bounded query drops it (it stays in diagnostics).
	bad := punch.ClockEvent{EmployeeID: "e1", Kind: punch.KindClockIn, Raw: "not-a-date"}

	got, err := punch.Filter([]punch.ClockEvent{bad}, punch.Query{From: day(2024, 3, 1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Error("unparseable event passed a date-bounded filter")
	}
}
