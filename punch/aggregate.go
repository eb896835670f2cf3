package punch

import (
	"fmt"
	"sort"
)

// =============================================================================
// AGGREGATION - Per-employee totals and per-day breakdowns
// =============================================================================

// FormatHHMM renders a second count as "HH:MM". Fractional minutes are
// truncated (floored), never rounded, for consistency with displayed
// totals. Negative inputs clamp to "00:00" since the pairing engine
// never emits negative durations.
func FormatHHMM(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Aggregate sums one employee's intervals into a summary. Only closed
// intervals contribute to the total; an open interval contributes zero
// seconds but stays listed so callers can surface it.
//
// When withDays is true the summary carries a per-day breakdown. Each
// closed interval's seconds are bucketed by its START day, so an
// interval spanning midnight is attributed entirely to the day it began
// on; the punch sequence per day comes from the normalized events.
func Aggregate(id EmployeeID, name string, intervals []WorkInterval, events []ClockEvent, withDays bool) EmployeeSummary {
	s := EmployeeSummary{
		EmployeeID:   id,
		EmployeeName: name,
		Intervals:    intervals,
	}

	for _, iv := range intervals {
		if !iv.Closed() {
			continue
		}
		s.TotalWorkedSeconds += int64(iv.Duration().Seconds())
	}

	if !withDays {
		return s
	}

	s.PerDay = make(map[string]DaySummary)
	for _, iv := range intervals {
		if !iv.Closed() {
			continue
		}
		day := iv.Start.Format(DayLayout)
		ds := s.PerDay[day]
		ds.WorkedSeconds += int64(iv.Duration().Seconds())
		s.PerDay[day] = ds
	}
	for _, e := range events {
		if !e.Parsed || e.EmployeeID != id {
			continue
		}
		day := e.Day()
		ds := s.PerDay[day]
		ds.Punches = append(ds.Punches, DayPunch{At: e.At, Kind: e.Kind})
		s.PerDay[day] = ds
	}
	for day, ds := range s.PerDay {
		sort.SliceStable(ds.Punches, func(i, j int) bool {
			return ds.Punches[i].At.Before(ds.Punches[j].At)
		})
		s.PerDay[day] = ds
	}

	return s
}

// Summarize groups events by employee, pairs each group independently,
// and aggregates. The returned map is unordered; presentation
// ordering is the caller's job (see sort.go).
func Summarize(events []ClockEvent, withDays bool) (map[EmployeeID]EmployeeSummary, Diagnostics) {
	byEmployee := make(map[EmployeeID][]ClockEvent)
	names := make(map[EmployeeID]string)
	for _, e := range events {
		byEmployee[e.EmployeeID] = append(byEmployee[e.EmployeeID], e)
		if names[e.EmployeeID] == "" && e.EmployeeName != "" {
			names[e.EmployeeID] = e.EmployeeName
		}
	}

	var diag Diagnostics
	out := make(map[EmployeeID]EmployeeSummary, len(byEmployee))
	for id, group := range byEmployee {
		intervals, d := Pair(group)
		diag.merge(d)
		out[id] = Aggregate(id, names[id], intervals, group, withDays)
	}
	return out, diag
}
