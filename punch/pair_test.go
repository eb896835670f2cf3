package punch_test

import (
	"testing"
	"time"

	"github.com/warp/attendance-engine/punch"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func at(hour, min int) time.Time {
	return time.Date(2024, time.March, 1, hour, min, 0, 0, time.UTC)
}

func event(id punch.EmployeeID, kind punch.EventKind, t time.Time) punch.ClockEvent {
	return punch.ClockEvent{
		RecordID:   punch.RecordID(string(id) + "@" + t.Format(time.RFC3339)),
		EmployeeID: id,
		Kind:       kind,
		Raw:        t.Format("2006-01-02 15:04:05"),
		At:         t,
		Parsed:     true,
	}
}

// =============================================================================
// PAIRING TESTS
// =============================================================================

func TestPair_SimplePair(t *testing.T) {
	events := []punch.ClockEvent{
		event("ana", punch.KindClockIn, at(8, 0)),
		event("ana", punch.KindClockOut, at(12, 0)),
	}

	intervals, diag := punch.Pair(events)

	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(intervals))
	}
	if !intervals[0].Closed() {
		t.Fatal("expected a closed interval")
	}
	if got := intervals[0].Duration(); got != 4*time.Hour {
		t.Errorf("expected 4h, got %v", got)
	}
	if diag.DanglingStarts+diag.DanglingEnds+diag.OpenIntervals != 0 {
		t.Errorf("unexpected diagnostics: %+v", diag)
	}
}

func TestPair_DoubleClockIn_FirstDiscarded(t *testing.T) {
	// GIVEN: entrada 08:00, entrada 09:00, saída 10:00
	// WHEN: paired
	// THEN: the first entrada is a dangling start; one 09:00-10:00 interval

	events := []punch.ClockEvent{
		event("ana", punch.KindClockIn, at(8, 0)),
		event("ana", punch.KindClockIn, at(9, 0)),
		event("ana", punch.KindClockOut, at(10, 0)),
	}

	intervals, diag := punch.Pair(events)

	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(intervals))
	}
	if !intervals[0].Start.Equal(at(9, 0)) {
		t.Errorf("expected interval to start 09:00, got %v", intervals[0].Start)
	}
	if diag.DanglingStarts != 1 {
		t.Errorf("expected 1 dangling start, got %d", diag.DanglingStarts)
	}
	if len(diag.Dangling) != 1 || diag.Dangling[0].Kind != punch.KindClockIn {
		t.Errorf("expected the discarded entrada in diagnostics: %+v", diag.Dangling)
	}
}

func TestPair_StrayClockOut_Discarded(t *testing.T) {
	events := []punch.ClockEvent{
		event("ana", punch.KindClockOut, at(7, 0)),
		event("ana", punch.KindClockIn, at(8, 0)),
		event("ana", punch.KindClockOut, at(12, 0)),
	}

	intervals, diag := punch.Pair(events)

	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(intervals))
	}
	if diag.DanglingEnds != 1 {
		t.Errorf("expected 1 dangling end, got %d", diag.DanglingEnds)
	}
	// No negative-duration interval may ever be produced.
	if intervals[0].Duration() < 0 {
		t.Error("negative interval produced")
	}
}

func TestPair_TrailingClockIn_OpenInterval(t *testing.T) {
	// GIVEN: a trailing entrada with no further events
	// THEN: one open interval (nil end), recorded in diagnostics,
	//       contributing zero seconds

	events := []punch.ClockEvent{event("ana", punch.KindClockIn, at(8, 0))}

	intervals, diag := punch.Pair(events)

	if len(intervals) != 1 {
		t.Fatalf("expected 1 open interval, got %d", len(intervals))
	}
	if intervals[0].Closed() {
		t.Fatal("expected an open interval")
	}
	if intervals[0].Duration() != 0 {
		t.Error("open interval must contribute zero")
	}
	if diag.OpenIntervals != 1 {
		t.Errorf("expected 1 open interval in diagnostics, got %d", diag.OpenIntervals)
	}
}

func TestPair_SingleClockOut_NoInterval(t *testing.T) {
	events := []punch.ClockEvent{event("ana", punch.KindClockOut, at(17, 0))}

	intervals, diag := punch.Pair(events)

	if len(intervals) != 0 {
		t.Fatalf("expected no interval, got %d", len(intervals))
	}
	if diag.DanglingEnds != 1 {
		t.Errorf("expected 1 dangling end, got %d", diag.DanglingEnds)
	}
}

func TestPair_EmptyInput(t *testing.T) {
	intervals, diag := punch.Pair(nil)
	if len(intervals) != 0 {
		t.Fatalf("expected no intervals, got %d", len(intervals))
	}
	if diag.DanglingStarts+diag.DanglingEnds+diag.OpenIntervals+diag.UnparseableTimestamps != 0 {
		t.Errorf("unexpected diagnostics: %+v", diag)
	}
}

func TestPair_UnsortedInput_OrderedByInstant(t *testing.T) {
	// Events arrive out of order from the wire; pairing sorts first.
	events := []punch.ClockEvent{
		event("ana", punch.KindClockOut, at(12, 0)),
		event("ana", punch.KindClockIn, at(8, 0)),
	}

	intervals, _ := punch.Pair(events)

	if len(intervals) != 1 || !intervals[0].Closed() {
		t.Fatalf("expected one closed interval, got %+v", intervals)
	}
	if got := intervals[0].Duration(); got != 4*time.Hour {
		t.Errorf("expected 4h, got %v", got)
	}
}

func TestPair_UnparseableExcluded(t *testing.T) {
	bad := punch.ClockEvent{EmployeeID: "ana", Kind: punch.KindClockIn, Raw: "not-a-date"}
	events := []punch.ClockEvent{
		bad,
		event("ana", punch.KindClockIn, at(8, 0)),
		event("ana", punch.KindClockOut, at(12, 0)),
	}

	intervals, diag := punch.Pair(events)

	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(intervals))
	}
	if diag.UnparseableTimestamps != 1 {
		t.Errorf("expected 1 unparseable, got %d", diag.UnparseableTimestamps)
	}
}
