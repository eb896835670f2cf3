package punch_test

import (
	"testing"
	"time"

	"github.com/warp/attendance-engine/punch"
)

// =============================================================================
// TIMESTAMP NORMALIZATION TESTS
// =============================================================================

func TestNormalize_AllSupportedShapes_SameInstant(t *testing.T) {
	// GIVEN: the same wall-clock moment in every supported wire shape
	// WHEN: each is normalized
	// THEN: all yield the identical canonical instant

	want := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	inputs := []string{
		"2024-03-01T08:00:00",
		"2024-03-01 08:00:00",
		"01-03-2024 08:00:00",
		"01/03/2024 08:00:00",
	}

	for _, in := range inputs {
		got, ok := punch.NormalizeTimestamp(in)
		if !ok {
			t.Fatalf("%q: expected parse success", in)
		}
		if !got.Equal(want) {
			t.Errorf("%q: got %v, want %v", in, got, want)
		}
	}
}

func TestNormalize_ISOWithFraction(t *testing.T) {
	got, ok := punch.NormalizeTimestamp("2024-03-01T08:00:00.250000")
	if !ok {
		t.Fatal("expected parse success")
	}
	want := time.Date(2024, time.March, 1, 8, 0, 0, 250_000_000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalize_SlashDateWithoutTime_DefaultsMidnight(t *testing.T) {
	got, ok := punch.NormalizeTimestamp("01/03/2024")
	if !ok {
		t.Fatal("expected parse success")
	}
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalize_YearLastDisambiguatedByLength(t *testing.T) {
	// "05-04-2024" has the four-digit year last; it must read as
	// April 5th, never May 4th of some reordered shape.
	got, ok := punch.NormalizeTimestamp("05-04-2024 10:30:00")
	if !ok {
		t.Fatal("expected parse success")
	}
	want := time.Date(2024, time.April, 5, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalize_DigitsOnly_EpochMillis(t *testing.T) {
	got, ok := punch.NormalizeTimestamp("1709280000000")
	if !ok {
		t.Fatal("expected parse success")
	}
	want := time.UnixMilli(1709280000000).UTC()
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalize_DigitsOnly_OverflowFails(t *testing.T) {
	// GIVEN: an all-digit string too large for epoch milliseconds
	// WHEN: it is normalized
	// THEN: parsing fails instead of wrapping into a garbage instant

	if _, ok := punch.NormalizeTimestamp("9999999999999999999999999"); ok {
		t.Fatal("expected parse failure for out-of-range digit string")
	}

	events := []punch.ClockEvent{
		{RecordID: "r1", EmployeeID: "e1", Kind: punch.KindClockOut, Raw: "9999999999999999999999999"},
	}
	out, failed := punch.NormalizeEvents(events)
	if failed != 1 {
		t.Fatalf("expected 1 failure, got %d", failed)
	}
	if out[0].Parsed {
		t.Error("out-of-range digit string flagged parsed")
	}
}

func TestNormalize_RFC3339Fallback(t *testing.T) {
	got, ok := punch.NormalizeTimestamp("2024-03-01T08:00:00Z")
	if !ok {
		t.Fatal("expected parse success")
	}
	want := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalize_Garbage_FailsWithoutPanic(t *testing.T) {
	for _, in := range []string{"not-a-date", "", "   ", "32/13/2024 99:99:99"} {
		if _, ok := punch.NormalizeTimestamp(in); ok {
			t.Errorf("%q: expected parse failure", in)
		}
	}
}

func TestNormalizeEvents_KeepsRawAndFlags(t *testing.T) {
	// GIVEN: one good and one malformed event
	// WHEN: the batch is normalized
	// THEN: the malformed one keeps its raw string, is flagged, and
	//       the originals are untouched

	events := []punch.ClockEvent{
		{RecordID: "r1", EmployeeID: "e1", Kind: punch.KindClockIn, Raw: "2024-03-01 08:00:00"},
		{RecordID: "r2", EmployeeID: "e1", Kind: punch.KindClockOut, Raw: "not-a-date"},
	}

	out, failed := punch.NormalizeEvents(events)

	if failed != 1 {
		t.Fatalf("expected 1 failure, got %d", failed)
	}
	if !out[0].Parsed || out[1].Parsed {
		t.Fatalf("unexpected parsed flags: %v %v", out[0].Parsed, out[1].Parsed)
	}
	if out[1].Raw != "not-a-date" {
		t.Errorf("raw string rewritten: %q", out[1].Raw)
	}
	if events[0].Parsed {
		t.Error("input slice was mutated")
	}
}
