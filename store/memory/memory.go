// Package memory provides an in-memory Snapshots implementation.
package memory

import (
	"context"
	"sync"

	"github.com/warp/attendance-engine/punch"
	"github.com/warp/attendance-engine/roster"
	"github.com/warp/attendance-engine/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	snap *store.Snapshot
}

func NewMemory() *Memory {
	return &Memory{}
}

// SaveSnapshot replaces the cached snapshot wholesale.
func (m *Memory) SaveSnapshot(_ context.Context, snap store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Deep-copy the slices so callers cannot reach into the cache.
	events := make([]punch.ClockEvent, len(snap.Events))
	copy(events, snap.Events)
	employees := make([]roster.Employee, len(snap.Employees))
	copy(employees, snap.Employees)
	snap.Events, snap.Employees = events, employees

	m.snap = &snap
	return nil
}

// LoadSnapshot returns a copy of the cached snapshot.
func (m *Memory) LoadSnapshot(_ context.Context) (store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snap == nil {
		return store.Snapshot{}, store.ErrNoSnapshot
	}

	out := *m.snap
	out.Events = make([]punch.ClockEvent, len(m.snap.Events))
	copy(out.Events, m.snap.Events)
	out.Employees = make([]roster.Employee, len(m.snap.Employees))
	copy(out.Employees, m.snap.Employees)
	return out, nil
}
