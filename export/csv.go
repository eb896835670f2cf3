/*
Package export renders engine output for the spreadsheet collaborator.

PURPOSE:
  The dashboard's "export" button hands aggregated summaries (or the
  flat punch list) to a spreadsheet writer. The engine's only obligation
  is correctly aggregated rows with HH:MM totals; column layout and file
  naming belong to the caller. CSV is the interchange format - any
  spreadsheet tool opens it.
*/
package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/warp/attendance-engine/punch"
)

// summaryHeader matches the dashboard's summary table columns.
var summaryHeader = []string{"funcionario_id", "nome", "total_hhmm", "total_horas_decimal", "total_segundos"}

// WriteSummaryCSV writes one row per employee, ordered by display name.
func WriteSummaryCSV(w io.Writer, summaries []punch.EmployeeSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{
			string(s.EmployeeID),
			s.EmployeeName,
			s.FormattedTotal(),
			s.DecimalHours().StringFixed(2),
			strconv.FormatInt(s.TotalWorkedSeconds, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// eventsHeader matches the dashboard's detail table columns.
var eventsHeader = []string{"registro_id", "funcionario_id", "nome", "tipo", "data_hora", "valido"}

// WriteEventsCSV writes the flat punch list. Unparseable events carry
// their raw timestamp text and valido=false, exactly as displayed.
func WriteEventsCSV(w io.Writer, events []punch.ClockEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventsHeader); err != nil {
		return err
	}
	for _, e := range events {
		stamp := e.Raw
		valid := "false"
		if e.Parsed {
			stamp = e.At.Format("2006-01-02 15:04:05")
			valid = "true"
		}
		row := []string{string(e.RecordID), string(e.EmployeeID), e.EmployeeName, string(e.Kind), stamp, valid}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePerDayCSV expands one employee's per-day breakdown, days ordered.
func WritePerDayCSV(w io.Writer, s punch.EmployeeSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"funcionario_id", "dia", "horas_hhmm", "batidas"}); err != nil {
		return err
	}

	days := make([]string, 0, len(s.PerDay))
	for day := range s.PerDay {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		ds := s.PerDay[day]
		row := []string{
			string(s.EmployeeID),
			day,
			punch.FormatHHMM(ds.WorkedSeconds),
			strconv.Itoa(len(ds.Punches)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds the conventional export name for a given day.
func Filename(prefix string, day time.Time) string {
	return prefix + "-" + day.Format("2006-01-02") + ".csv"
}

