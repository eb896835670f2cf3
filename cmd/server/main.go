/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance dashboard server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and parse command-line flags
  2. Initialize zap logging
  3. Open the SQLite snapshot cache (seed it on request)
  4. Build the upstream client when UPSTREAM_URL is set
  5. Configure the HTTP router and start with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite cache path (default: attendance.db)
           Use ":memory:" for an in-memory cache
  -seed    Load demo data into the cache on startup

ENVIRONMENT (.env supported):
  UPSTREAM_URL        Base URL of the attendance backend. Unset = offline
                      mode: the dashboard serves the cache/seed only.
  UPSTREAM_EMAIL      Login email for the backend
  UPSTREAM_PASSWORD   Login password for the backend

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the cache
  4. Exit

EXAMPLES:
  # Offline demo
  ./server -db=":memory:" -seed

  # Against a real backend
  UPSTREAM_URL=https://ponto.example.com ./server -db=./data/attendance.db

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Cache implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/report"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/upstream"
)

func main() {
	// Flags and environment
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "attendance.db", "SQLite cache path")
	seed := flag.Bool("seed", false, "load demo data into the cache on startup")
	flag.Parse()
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Snapshot cache
	cache, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to open cache", zap.Error(err))
	}
	defer cache.Close()

	if *seed {
		if err := cache.Seed(context.Background()); err != nil {
			logger.Fatal("failed to seed cache", zap.Error(err))
		}
		logger.Info("demo data seeded")
	}

	// Upstream client (optional: offline mode without it)
	var up api.Upstream
	if base := os.Getenv("UPSTREAM_URL"); base != "" {
		creds := upstream.Credentials{
			Email:    os.Getenv("UPSTREAM_EMAIL"),
			Password: os.Getenv("UPSTREAM_PASSWORD"),
		}
		up = upstream.New(base, creds, logger.Named("upstream"))
		logger.Info("upstream configured", zap.String("url", base))
	} else {
		logger.Info("no UPSTREAM_URL: running in offline mode")
	}

	handler := api.NewHandler(cache, up, report.NewLogMailer(logger.Named("report")), logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", zap.Int("port", *port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
