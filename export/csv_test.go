package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/export"
	"github.com/warp/attendance-engine/punch"
)

func TestWriteSummaryCSV(t *testing.T) {
	summaries := []punch.EmployeeSummary{
		{EmployeeID: "f-001", EmployeeName: "Ana Clara", TotalWorkedSeconds: 28800},
		{EmployeeID: "f-002", EmployeeName: "Bruno", TotalWorkedSeconds: 3599},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteSummaryCSV(&buf, summaries))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "funcionario_id,nome,total_hhmm,total_horas_decimal,total_segundos", lines[0])
	assert.Equal(t, "f-001,Ana Clara,08:00,8.00,28800", lines[1])
	assert.Equal(t, "f-002,Bruno,00:59,1.00,3599", lines[2])
}

func TestWriteEventsCSV_UnparseableKeepsRaw(t *testing.T) {
	events := []punch.ClockEvent{
		{
			RecordID: "r1", EmployeeID: "f1", EmployeeName: "Ana", Kind: punch.KindClockIn,
			Raw: "2024-03-01T08:00:00", At: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), Parsed: true,
		},
		{RecordID: "r2", EmployeeID: "f1", EmployeeName: "Ana", Kind: punch.KindClockOut, Raw: "not-a-date"},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteEventsCSV(&buf, events))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "r1,f1,Ana,entrada,2024-03-01 08:00:00,true", lines[1])
	assert.Equal(t, "r2,f1,Ana,saída,not-a-date,false", lines[2])
}

func TestWritePerDayCSV_DaysOrdered(t *testing.T) {
	s := punch.EmployeeSummary{
		EmployeeID: "f1",
		PerDay: map[string]punch.DaySummary{
			"2024-03-02": {WorkedSeconds: 7200, Punches: []punch.DayPunch{{}, {}}},
			"2024-03-01": {WorkedSeconds: 3600, Punches: []punch.DayPunch{{}, {}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WritePerDayCSV(&buf, s))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "f1,2024-03-01,01:00,2", lines[1])
	assert.Equal(t, "f1,2024-03-02,02:00,2", lines[2])
}

func TestFilename(t *testing.T) {
	day := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "espelho-ponto-2024-03-01.csv", export.Filename("espelho-ponto", day))
}
