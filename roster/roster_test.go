package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/attendance-engine/punch"
	"github.com/warp/attendance-engine/roster"
)

func TestBackfill_FillsOnlyMissingNames(t *testing.T) {
	dir := roster.NewDirectory([]roster.Employee{
		{ID: "e1", Nome: "Ana Clara"},
		{ID: "e2", Nome: "Bruno"},
	})

	events := []punch.ClockEvent{
		{EmployeeID: "e1", Kind: punch.KindClockIn},
		{EmployeeID: "e2", EmployeeName: "Bruno Lima", Kind: punch.KindClockIn},
		{EmployeeID: "e9", Kind: punch.KindClockIn},
	}

	out := dir.Backfill(events)

	assert.Equal(t, "Ana Clara", out[0].EmployeeName)
	assert.Equal(t, "Bruno Lima", out[1].EmployeeName, "present names must not be overwritten")
	assert.Empty(t, out[2].EmployeeName, "unknown IDs pass through")
	assert.Empty(t, events[0].EmployeeName, "input must not be mutated")
}

func TestDirectory_IDsSortedAndDeduplicated(t *testing.T) {
	dir := roster.NewDirectory([]roster.Employee{
		{ID: "e2", Nome: "Bruno"},
		{ID: "e1", Nome: "Ana"},
		{ID: "e1", Nome: "Ana Clara"}, // later entry wins
		{ID: "", Nome: "sem id"},
	})

	assert.Equal(t, []punch.EmployeeID{"e1", "e2"}, dir.IDs())

	e, ok := dir.Lookup("e1")
	assert.True(t, ok)
	assert.Equal(t, "Ana Clara", e.Nome)
}
