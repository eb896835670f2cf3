package punch

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// TIMESTAMP NORMALIZATION - Heterogeneous wire strings to one instant
// =============================================================================
//
// The upstream API emits timestamps in several shapes, depending on which
// backend path produced the record. The shapes are tried in a fixed
// priority order and the first *structural* match wins; structure is
// decided by separators and segment lengths, never by calendar validity.
//
//   1. ISO-8601 with 'T'        2024-03-01T08:00:00[.ffffff]
//   2. Space, year-first date   2024-03-01 08:00:00
//   3. Space, year-last date    01-03-2024 08:00:00
//   4. Slashes, Brazilian       01/03/2024[ 08:00:00]   (time defaults 00:00:00)
//   5. Digits only              epoch milliseconds
//   6. Fallback                 generic layouts (RFC 3339 and friends)
//
// All naive strings are interpreted as UTC so that identical wall-clock
// text always yields the identical instant.

var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123,
	time.ANSIC,
	"2006-01-02",
}

// NormalizeTimestamp parses one raw wire timestamp into a canonical
// instant. The boolean reports success; on failure the caller keeps the
// raw string for display and flags the event unparseable.
func NormalizeTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	switch {
	case strings.Contains(s, "T"):
		for _, layout := range []string{"2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, true
			}
		}

	case strings.Contains(s, " ") && strings.Contains(s, "-"):
		date, _, _ := strings.Cut(s, " ")
		segments := strings.Split(date, "-")
		if len(segments) == 3 && len(segments[0]) == 4 {
			// Year-first date segment.
			for _, layout := range []string{"2006-01-02 15:04:05.999999", "2006-01-02 15:04:05", "2006-01-02 15:04"} {
				if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
					return t, true
				}
			}
		} else if len(segments) == 3 && len(segments[2]) == 4 {
			// Year-last date segment, disambiguated by length alone.
			for _, layout := range []string{"02-01-2006 15:04:05", "02-01-2006 15:04"} {
				if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
					return t, true
				}
			}
		}

	case strings.Contains(s, "/"):
		for _, layout := range []string{"02/01/2006 15:04:05", "02/01/2006 15:04", "02/01/2006"} {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, true
			}
		}

	case isAllDigits(s):
		if millis, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(millis).UTC(), true
		}
		// Too many digits to be epoch milliseconds; not this shape.
	}

	// Fallback: generic layouts.
	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeEvents returns a new slice in which every event carries its
// canonical instant (or the unparseable flag). Input events are never
// mutated; the count of failures is returned for diagnostics.
func NormalizeEvents(events []ClockEvent) ([]ClockEvent, int) {
	out := make([]ClockEvent, len(events))
	failed := 0
	for i, e := range events {
		if e.Parsed {
			out[i] = e
			continue
		}
		t, ok := NormalizeTimestamp(e.Raw)
		e.At, e.Parsed = t, ok
		if !ok {
			failed++
		}
		out[i] = e
	}
	return out, failed
}
