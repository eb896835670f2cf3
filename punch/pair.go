package punch

import "sort"

// =============================================================================
// INTERVAL PAIRING - One open slot per employee, best-effort over bad data
// =============================================================================
//
// Punch devices in the field produce duplicate in-punches, missing
// out-punches, and the odd stray out-punch. The pairing walk favors a
// best-effort total over hard failure:
//
//   ClockIn  with a slot already open  -> previous open punch discarded,
//                                         recorded as a dangling start
//   ClockOut with a slot open          -> interval emitted, slot cleared
//   ClockOut with no slot open         -> discarded as a dangling end
//   End of data with a slot open       -> interval emitted with nil end
//                                         ("still clocked in")
//
// No negative-duration interval is ever produced, and the model does not
// support overlapping shifts for one employee.

// Pair consumes all events for ONE employee, already normalized, and
// produces that employee's worked-time intervals plus diagnostics.
// Unparseable events are excluded from pairing and counted separately.
func Pair(events []ClockEvent) ([]WorkInterval, Diagnostics) {
	var diag Diagnostics

	usable := make([]ClockEvent, 0, len(events))
	for _, e := range events {
		if !e.Parsed {
			diag.UnparseableTimestamps++
			continue
		}
		usable = append(usable, e)
	}

	// Ascending by instant; ties keep original input order.
	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].At.Before(usable[j].At)
	})

	var intervals []WorkInterval
	var open *ClockEvent
	for i := range usable {
		e := usable[i]
		switch e.Kind {
		case KindClockIn:
			if open != nil {
				diag.DanglingStarts++
				diag.Dangling = append(diag.Dangling, DanglingPunch{
					EmployeeID: open.EmployeeID, At: open.At, Kind: KindClockIn,
				})
			}
			open = &usable[i]
		case KindClockOut:
			if open == nil {
				diag.DanglingEnds++
				diag.Dangling = append(diag.Dangling, DanglingPunch{
					EmployeeID: e.EmployeeID, At: e.At, Kind: KindClockOut,
				})
				continue
			}
			end := e.At
			intervals = append(intervals, WorkInterval{
				EmployeeID: open.EmployeeID,
				Start:      open.At,
				End:        &end,
			})
			open = nil
		}
	}

	// A trailing open punch is an unfinished interval, never silently
	// dropped: the UI surfaces "still clocked in" / "missing clock-out".
	if open != nil {
		diag.OpenIntervals++
		intervals = append(intervals, WorkInterval{
			EmployeeID: open.EmployeeID,
			Start:      open.At,
		})
	}

	return intervals, diag
}
