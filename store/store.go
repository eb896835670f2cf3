/*
Package store defines the snapshot-cache interface.

PURPOSE:
  The upstream API is the system of record; this process only caches the
  last fetch so detail views, exports and reports can be recomputed
  without another round-trip. A snapshot is replaced wholesale on every
  refresh - it is never updated incrementally.

IMPLEMENTATIONS:
  store/sqlite: durable cache for the running server
  store/memory: in-memory cache for tests and offline demos
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/warp/attendance-engine/punch"
	"github.com/warp/attendance-engine/roster"
)

// ErrNoSnapshot is returned when nothing has been cached yet.
var ErrNoSnapshot = errors.New("no snapshot cached")

// Snapshot is one complete upstream fetch: punch records plus the
// roster they were backfilled from.
type Snapshot struct {
	ID        string
	TakenAt   time.Time
	Events    []punch.ClockEvent
	Employees []roster.Employee
}

// Snapshots is the cache boundary used by the API layer.
type Snapshots interface {
	// SaveSnapshot replaces the cached snapshot wholesale.
	SaveSnapshot(ctx context.Context, snap Snapshot) error

	// LoadSnapshot returns the cached snapshot, or ErrNoSnapshot.
	LoadSnapshot(ctx context.Context) (Snapshot, error)
}
