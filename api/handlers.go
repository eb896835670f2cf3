/*
handlers.go - HTTP API handlers for the attendance dashboard

PURPOSE:
  Exposes the reconciliation engine via REST. Handles HTTP
  request/response, query parsing, JSON serialization, and delegates the
  actual computation to the punch package.

ENDPOINTS:
  Queries:
    GET  /api/records              Filtered, sorted punch list (detail view)
    GET  /api/summary              Per-employee worked-time summaries
    GET  /api/employees            Cached roster (filter dropdowns)

  Data:
    POST /api/refresh              Fetch upstream, backfill names, cache

  Export / reports:
    GET  /api/export/records.csv   Detail list as CSV
    GET  /api/export/summary.csv   Summaries as CSV
    GET  /api/export/days.csv      One employee's per-day breakdown as CSV
    POST /api/reports/email        Hand a summary to the mailer stub

QUERY PARAMETERS (shared by queries and exports):
  from, to      YYYY-MM-DD, inclusive calendar-day bounds
  employee_id   exact match
  q             case-insensitive name substring
  sort          instant | name | kind (default instant)
  order         asc | desc (default asc)
  days          true to include per-day breakdowns (summary only)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid dates, invalid range (from after to), bad bodies
  - 404: nothing cached yet and no upstream configured
  - 502: upstream unavailable during refresh
  - 500: cache failures

REQUEST FLOW:
  1. Parse and validate query/body
  2. Load the cached snapshot (never a live upstream call on a query;
     /api/refresh is the only endpoint that leaves the process)
  3. Backfill names from the cached roster, run the engine
  4. Serialize

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - punch/pipeline.go: The computation this fronts
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/warp/attendance-engine/export"
	"github.com/warp/attendance-engine/punch"
	"github.com/warp/attendance-engine/report"
	"github.com/warp/attendance-engine/roster"
	"github.com/warp/attendance-engine/store"
	"github.com/warp/attendance-engine/upstream"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Upstream is the slice of the upstream client the handlers use;
// narrowed to an interface so tests inject fakes.
type Upstream interface {
	ListPunches(ctx context.Context) ([]punch.ClockEvent, upstream.DecodeStats, error)
	ListEmployees(ctx context.Context) ([]roster.Employee, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Cache    store.Snapshots
	Upstream Upstream // nil in offline mode
	Mailer   report.Mailer
	Log      *zap.Logger
}

// NewHandler creates a handler. Upstream may be nil (offline mode: the
// dashboard serves whatever is cached or seeded).
func NewHandler(cache store.Snapshots, up Upstream, mailer report.Mailer, log *zap.Logger) *Handler {
	return &Handler{Cache: cache, Upstream: up, Mailer: mailer, Log: log}
}

// =============================================================================
// QUERY ENDPOINTS
// =============================================================================

// ListRecords serves the detail view: flat, normalized, filtered, sorted.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	in, ok := h.pipelineInput(w, r)
	if !ok {
		return
	}

	result, err := punch.Run(in)
	if err != nil {
		h.writeRunError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RecordsResponse{
		Registros:   toEventDTOs(result.Events),
		Diagnostics: toDiagnosticsDTO(result.Diagnostics),
	})
}

// GetSummary serves per-employee totals, optionally with per-day detail.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	in, ok := h.pipelineInput(w, r)
	if !ok {
		return
	}
	in.PerDay = r.URL.Query().Get("days") == "true"

	result, err := punch.Run(in)
	if err != nil {
		h.writeRunError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{
		Funcionarios: toSummaryDTOs(punch.SortSummaries(result.Summaries)),
		Diagnostics:  toDiagnosticsDTO(result.Diagnostics),
	})
}

// ListEmployees serves the cached roster for the filter dropdowns,
// deduplicated and in stable ID order.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loadSnapshot(w, r)
	if err != nil {
		return
	}

	dir := roster.NewDirectory(snap.Employees)
	ids := dir.IDs()
	out := make([]roster.Employee, 0, len(ids))
	for _, id := range ids {
		if e, ok := dir.Lookup(id); ok {
			out = append(out, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// DATA ENDPOINTS
// =============================================================================

// Refresh fetches upstream, backfills names, and replaces the cache.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.Upstream == nil {
		writeError(w, http.StatusNotFound, "No upstream configured (offline mode)", nil)
		return
	}

	ctx := r.Context()
	events, _, err := h.Upstream.ListPunches(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Upstream fetch failed", err)
		return
	}
	employees, err := h.Upstream.ListEmployees(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Upstream roster fetch failed", err)
		return
	}

	dir := roster.NewDirectory(employees)
	snap := store.Snapshot{
		TakenAt:   time.Now().UTC(),
		Events:    dir.Backfill(events),
		Employees: employees,
	}
	if err := h.Cache.SaveSnapshot(ctx, snap); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to cache snapshot", err)
		return
	}

	h.Log.Info("snapshot refreshed",
		zap.Int("records", len(snap.Events)),
		zap.Int("employees", len(snap.Employees)))
	writeJSON(w, http.StatusOK, RefreshResponse{
		Registros:    len(snap.Events),
		Funcionarios: len(snap.Employees),
	})
}

// =============================================================================
// EXPORT / REPORT ENDPOINTS
// =============================================================================

// ExportRecordsCSV streams the detail view as CSV.
func (h *Handler) ExportRecordsCSV(w http.ResponseWriter, r *http.Request) {
	in, ok := h.pipelineInput(w, r)
	if !ok {
		return
	}
	result, err := punch.Run(in)
	if err != nil {
		h.writeRunError(w, err)
		return
	}

	csvHeaders(w, export.Filename("registros-ponto", time.Now().UTC()))
	if err := export.WriteEventsCSV(w, result.Events); err != nil {
		h.Log.Error("csv export failed", zap.Error(err))
	}
}

// ExportSummaryCSV streams the summaries as CSV.
func (h *Handler) ExportSummaryCSV(w http.ResponseWriter, r *http.Request) {
	in, ok := h.pipelineInput(w, r)
	if !ok {
		return
	}
	result, err := punch.Run(in)
	if err != nil {
		h.writeRunError(w, err)
		return
	}

	csvHeaders(w, export.Filename("espelho-ponto", time.Now().UTC()))
	if err := export.WriteSummaryCSV(w, punch.SortSummaries(result.Summaries)); err != nil {
		h.Log.Error("csv export failed", zap.Error(err))
	}
}

// ExportPerDayCSV streams one employee's per-day breakdown as CSV.
// Unlike the other exports it targets a single employee, so
// employee_id is mandatory here.
func (h *Handler) ExportPerDayCSV(w http.ResponseWriter, r *http.Request) {
	id := punch.EmployeeID(r.URL.Query().Get("employee_id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "Query parameter \"employee_id\" is required", nil)
		return
	}

	in, ok := h.pipelineInput(w, r)
	if !ok {
		return
	}
	in.Query.EmployeeID = id
	in.PerDay = true

	result, err := punch.Run(in)
	if err != nil {
		h.writeRunError(w, err)
		return
	}
	s, found := result.Summaries[id]
	if !found {
		writeError(w, http.StatusNotFound, "No records for employee", nil)
		return
	}

	csvHeaders(w, export.Filename("dias-"+string(id), time.Now().UTC()))
	if err := export.WritePerDayCSV(w, s); err != nil {
		h.Log.Error("csv export failed", zap.Error(err))
	}
}

// EmailReport runs the summary pipeline and hands the result to the
// mailer. Delivery is the mailer's problem; the stub just logs.
func (h *Handler) EmailReport(w http.ResponseWriter, r *http.Request) {
	var req EmailReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.To == "" {
		writeError(w, http.StatusBadRequest, "Field \"to\" is required", nil)
		return
	}
	if req.Subject == "" {
		req.Subject = "Espelho de ponto"
	}

	in, ok := h.pipelineInput(w, r)
	if !ok {
		return
	}
	result, err := punch.Run(in)
	if err != nil {
		h.writeRunError(w, err)
		return
	}

	if err := h.Mailer.SendSummary(r.Context(), req.To, req.Subject, punch.SortSummaries(result.Summaries)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send report", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// =============================================================================
// SHARED PLUMBING
// =============================================================================

// pipelineInput loads the cached snapshot and parses the shared query
// parameters. On failure it has already written the response.
func (h *Handler) pipelineInput(w http.ResponseWriter, r *http.Request) (punch.Input, bool) {
	snap, err := h.loadSnapshot(w, r)
	if err != nil {
		return punch.Input{}, false
	}

	q := r.URL.Query()
	var query punch.Query
	if from, ok, err := parseDay(q.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid \"from\" date (use YYYY-MM-DD)", err)
		return punch.Input{}, false
	} else if ok {
		query.From = &from
	}
	if to, ok, err := parseDay(q.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid \"to\" date (use YYYY-MM-DD)", err)
		return punch.Input{}, false
	} else if ok {
		query.To = &to
	}
	query.EmployeeID = punch.EmployeeID(q.Get("employee_id"))
	query.NameQuery = q.Get("q")

	sortKey := punch.SortKey(q.Get("sort"))
	switch sortKey {
	case punch.SortByInstant, punch.SortByName, punch.SortByKind:
	case "":
		sortKey = punch.SortByInstant
	default:
		writeError(w, http.StatusBadRequest, "Unknown sort key (use instant, name or kind)", nil)
		return punch.Input{}, false
	}

	dir := roster.NewDirectory(snap.Employees)
	return punch.Input{
		Events: dir.Backfill(snap.Events),
		Query:  query,
		Sort:   sortKey,
		Desc:   q.Get("order") == "desc",
	}, true
}

// loadSnapshot reads the cache; an empty cache is an empty dataset, not
// an error, so fresh deployments render empty tables instead of 500s.
func (h *Handler) loadSnapshot(w http.ResponseWriter, r *http.Request) (store.Snapshot, error) {
	snap, err := h.Cache.LoadSnapshot(r.Context())
	if errors.Is(err, store.ErrNoSnapshot) {
		return store.Snapshot{}, nil
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read cache", err)
		return store.Snapshot{}, err
	}
	return snap, nil
}

func (h *Handler) writeRunError(w http.ResponseWriter, err error) {
	if punch.IsClientError(err) {
		writeError(w, http.StatusBadRequest, "Invalid date range: \"from\" is after \"to\"", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Query failed", err)
}

func parseDay(s string) (time.Time, bool, error) {
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err := time.ParseInLocation(punch.DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func csvHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
