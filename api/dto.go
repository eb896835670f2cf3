/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's types from the external API contract. Field names follow
  the upstream backend's Portuguese wire vocabulary so the existing
  dashboard frontend consumes both APIs with one set of models.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

SEE ALSO:
  - handlers.go: Uses these types
  - punch/types.go: Engine types these mirror
*/
package api

import (
	"github.com/warp/attendance-engine/punch"
	"github.com/warp/attendance-engine/roster"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ClockEventDTO is one normalized punch for detail views. DataHora is
// the canonical instant when the timestamp parsed, and the raw wire
// string otherwise (Valido says which).
type ClockEventDTO struct {
	RegistroID      string `json:"registro_id"`
	FuncionarioID   string `json:"funcionario_id"`
	FuncionarioNome string `json:"funcionario_nome,omitempty"`
	EmpresaNome     string `json:"empresa_nome,omitempty"`
	Tipo            string `json:"tipo"`
	DataHora        string `json:"data_hora"`
	Valido          bool   `json:"valido"`
}

// DaySummaryDTO is one calendar day inside a per-day breakdown.
type DaySummaryDTO struct {
	HorasHHMM string     `json:"horas_hhmm"`
	Segundos  int64      `json:"segundos"`
	Batidas   []PunchDTO `json:"batidas"`
}

// PunchDTO is one punch inside a per-day breakdown.
type PunchDTO struct {
	DataHora string `json:"data_hora"`
	Tipo     string `json:"tipo"`
}

// SummaryDTO is one employee's aggregated worked time.
type SummaryDTO struct {
	FuncionarioID string                   `json:"funcionario_id"`
	Nome          string                   `json:"nome,omitempty"`
	TotalSegundos int64                    `json:"total_segundos"`
	TotalHHMM     string                   `json:"total_hhmm"`
	TotalHoras    string                   `json:"total_horas_decimal"`
	Dias          map[string]DaySummaryDTO `json:"dias,omitempty"`
}

// DiagnosticsDTO surfaces what the pipeline tolerated.
type DiagnosticsDTO struct {
	TimestampsInvalidos int `json:"timestamps_invalidos"`
	EntradasPendentes   int `json:"entradas_pendentes"`
	SaidasOrfas         int `json:"saidas_orfas"`
	IntervalosAbertos   int `json:"intervalos_abertos"`
}

// RecordsResponse is the detail-view payload.
type RecordsResponse struct {
	Registros   []ClockEventDTO `json:"registros"`
	Diagnostics DiagnosticsDTO  `json:"diagnostics"`
}

// SummaryResponse is the summary-view payload.
type SummaryResponse struct {
	Funcionarios []SummaryDTO   `json:"funcionarios"`
	Diagnostics  DiagnosticsDTO `json:"diagnostics"`
}

// RefreshResponse reports one upstream fetch.
type RefreshResponse struct {
	Registros    int `json:"registros"`
	Funcionarios int `json:"funcionarios"`
}

// ErrorResponse is the error body for every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// EmailReportRequest asks for a summary report by email. The filter
// query parameters apply the same way as on /api/summary.
type EmailReportRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
}

// =============================================================================
// MAPPING
// =============================================================================

func toEventDTOs(events []punch.ClockEvent) []ClockEventDTO {
	out := make([]ClockEventDTO, 0, len(events))
	for _, e := range events {
		dto := ClockEventDTO{
			RegistroID:      string(e.RecordID),
			FuncionarioID:   string(e.EmployeeID),
			FuncionarioNome: e.EmployeeName,
			EmpresaNome:     e.CompanyName,
			Tipo:            string(e.Kind),
			DataHora:        e.Raw,
			Valido:          e.Parsed,
		}
		if e.Parsed {
			dto.DataHora = e.At.Format("2006-01-02 15:04:05")
		}
		out = append(out, dto)
	}
	return out
}

func toSummaryDTOs(summaries []punch.EmployeeSummary) []SummaryDTO {
	out := make([]SummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dto := SummaryDTO{
			FuncionarioID: string(s.EmployeeID),
			Nome:          s.EmployeeName,
			TotalSegundos: s.TotalWorkedSeconds,
			TotalHHMM:     s.FormattedTotal(),
			TotalHoras:    s.DecimalHours().StringFixed(2),
		}
		if s.PerDay != nil {
			dto.Dias = make(map[string]DaySummaryDTO, len(s.PerDay))
			for day, ds := range s.PerDay {
				d := DaySummaryDTO{
					HorasHHMM: punch.FormatHHMM(ds.WorkedSeconds),
					Segundos:  ds.WorkedSeconds,
					Batidas:   make([]PunchDTO, 0, len(ds.Punches)),
				}
				for _, p := range ds.Punches {
					d.Batidas = append(d.Batidas, PunchDTO{
						DataHora: p.At.Format("2006-01-02 15:04:05"),
						Tipo:     string(p.Kind),
					})
				}
				dto.Dias[day] = d
			}
		}
		out = append(out, dto)
	}
	return out
}

func toDiagnosticsDTO(d punch.Diagnostics) DiagnosticsDTO {
	return DiagnosticsDTO{
		TimestampsInvalidos: d.UnparseableTimestamps,
		EntradasPendentes:   d.DanglingStarts,
		SaidasOrfas:         d.DanglingEnds,
		IntervalosAbertos:   d.OpenIntervals,
	}
}

// EmployeeDTO passes roster entries through unchanged; the roster type
// already carries the wire's JSON tags.
type EmployeeDTO = roster.Employee
