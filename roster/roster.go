/*
Package roster holds the employee directory consumed by the engine.

PURPOSE:
  The upstream punch records frequently arrive without the employee
  display name. The roster backfills names before any name-based view
  or filter runs, and drives the selectable set for the employee-id
  filter in the dashboard.
*/
package roster

import (
	"sort"
	"strings"

	"github.com/warp/attendance-engine/punch"
)

// Employee is one roster entry as the upstream API describes it.
type Employee struct {
	ID      string `json:"id"`
	Nome    string `json:"nome"`
	Cargo   string `json:"cargo,omitempty"`
	FotoURL string `json:"foto_url,omitempty"`
	Empresa string `json:"empresa,omitempty"`
}

// Directory is an in-memory name index over the roster.
type Directory struct {
	byID map[punch.EmployeeID]Employee
}

// NewDirectory builds a directory from a roster listing. Later entries
// with a duplicated ID win, matching upstream update semantics.
func NewDirectory(employees []Employee) *Directory {
	d := &Directory{byID: make(map[punch.EmployeeID]Employee, len(employees))}
	for _, e := range employees {
		if strings.TrimSpace(e.ID) == "" {
			continue
		}
		d.byID[punch.EmployeeID(e.ID)] = e
	}
	return d
}

// Lookup returns the roster entry for an employee ID.
func (d *Directory) Lookup(id punch.EmployeeID) (Employee, bool) {
	e, ok := d.byID[id]
	return e, ok
}

// Backfill returns a new event slice with missing display names filled
// from the roster. Events whose name is already present, or whose ID is
// unknown, pass through unchanged. Input is never mutated.
func (d *Directory) Backfill(events []punch.ClockEvent) []punch.ClockEvent {
	out := make([]punch.ClockEvent, len(events))
	for i, e := range events {
		if e.EmployeeName == "" {
			if emp, ok := d.byID[e.EmployeeID]; ok {
				e.EmployeeName = emp.Nome
			}
		}
		out[i] = e
	}
	return out
}

// IDs returns the selectable employee-ID set, sorted for stable
// dropdown rendering.
func (d *Directory) IDs() []punch.EmployeeID {
	ids := make([]punch.EmployeeID, 0, len(d.byID))
	for id := range d.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
