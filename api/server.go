/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/records, /api/summary   Query surface over the engine
  /api/employees               Roster for filter dropdowns
  /api/refresh                 Upstream fetch into the cache
  /api/export/*                CSV downloads
  /api/reports/email           Mailer stub

SECURITY NOTE:
  No authentication on this surface; the upstream credential lives
  server-side only and never reaches the browser.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/records", h.ListRecords)
		r.Get("/summary", h.GetSummary)
		r.Get("/employees", h.ListEmployees)
		r.Post("/refresh", h.Refresh)

		r.Route("/export", func(r chi.Router) {
			r.Get("/records.csv", h.ExportRecordsCSV)
			r.Get("/summary.csv", h.ExportSummaryCSV)
			r.Get("/days.csv", h.ExportPerDayCSV)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/email", h.EmailReport)
		})
	})

	return r
}
