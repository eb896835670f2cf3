/*
Package sqlite provides the SQLite-backed snapshot cache.

PURPOSE:
  Durable cache of the last upstream fetch (punch records + roster) so
  the dashboard keeps serving detail views, exports and reports when the
  upstream API is slow or down. The upstream API stays the system of
  record: every save REPLACES the previous snapshot, there are no
  incremental updates and no append-only history.

KEY TABLES:
  punches:   raw punch records, timestamps stored as received (the
             engine re-normalizes on every query)
  employees: roster entries for name backfill and the ID filter
  snapshots: single-row metadata (snapshot id, taken-at)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of database/sql.

USAGE:
  cache, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer cache.Close()

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/attendance-engine/punch"
	"github.com/warp/attendance-engine/roster"
	"github.com/warp/attendance-engine/store"
)

// Store implements store.Snapshots using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite cache at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id       TEXT PRIMARY KEY,
		taken_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS punches (
		record_id     TEXT NOT NULL,
		employee_id   TEXT NOT NULL,
		employee_name TEXT NOT NULL DEFAULT '',
		company_name  TEXT NOT NULL DEFAULT '',
		kind          TEXT NOT NULL,
		raw_timestamp TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_punches_employee ON punches(employee_id);

	CREATE TABLE IF NOT EXISTS employees (
		id       TEXT PRIMARY KEY,
		nome     TEXT NOT NULL,
		cargo    TEXT NOT NULL DEFAULT '',
		foto_url TEXT NOT NULL DEFAULT '',
		empresa  TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveSnapshot replaces the cached snapshot wholesale, in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshots", "punches", "employees"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	id := snap.ID
	if id == "" {
		id = uuid.NewString()
	}
	takenAt := snap.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (id, taken_at) VALUES (?, ?)",
		id, takenAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}

	for _, e := range snap.Events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO punches (record_id, employee_id, employee_name, company_name, kind, raw_timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			string(e.RecordID), string(e.EmployeeID), e.EmployeeName, e.CompanyName, string(e.Kind), e.Raw); err != nil {
			return fmt.Errorf("failed to insert punch %s: %w", e.RecordID, err)
		}
	}

	for _, emp := range snap.Employees {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO employees (id, nome, cargo, foto_url, empresa) VALUES (?, ?, ?, ?, ?)",
			emp.ID, emp.Nome, emp.Cargo, emp.FotoURL, emp.Empresa); err != nil {
			return fmt.Errorf("failed to insert employee %s: %w", emp.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the cached snapshot, or store.ErrNoSnapshot when
// nothing has been fetched yet.
func (s *Store) LoadSnapshot(ctx context.Context) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap store.Snapshot
	var takenAt string
	err := s.db.QueryRowContext(ctx, "SELECT id, taken_at FROM snapshots LIMIT 1").
		Scan(&snap.ID, &takenAt)
	if err == sql.ErrNoRows {
		return store.Snapshot{}, store.ErrNoSnapshot
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to read snapshot metadata: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339, takenAt); perr == nil {
		snap.TakenAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT record_id, employee_id, employee_name, company_name, kind, raw_timestamp FROM punches")
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to read punches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e punch.ClockEvent
		var recordID, employeeID, kind string
		if err := rows.Scan(&recordID, &employeeID, &e.EmployeeName, &e.CompanyName, &kind, &e.Raw); err != nil {
			return store.Snapshot{}, fmt.Errorf("failed to scan punch: %w", err)
		}
		e.RecordID = punch.RecordID(recordID)
		e.EmployeeID = punch.EmployeeID(employeeID)
		e.Kind = punch.EventKind(kind)
		snap.Events = append(snap.Events, e)
	}
	if err := rows.Err(); err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to iterate punches: %w", err)
	}

	empRows, err := s.db.QueryContext(ctx,
		"SELECT id, nome, cargo, foto_url, empresa FROM employees")
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to read employees: %w", err)
	}
	defer empRows.Close()
	for empRows.Next() {
		var emp roster.Employee
		if err := empRows.Scan(&emp.ID, &emp.Nome, &emp.Cargo, &emp.FotoURL, &emp.Empresa); err != nil {
			return store.Snapshot{}, fmt.Errorf("failed to scan employee: %w", err)
		}
		snap.Employees = append(snap.Employees, emp)
	}
	if err := empRows.Err(); err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return snap, nil
}

// Seed loads a small demo roster and punch set into the cache so the
// dashboard has data to show before the first upstream refresh. The
// timestamps deliberately span every supported wire format.
func (s *Store) Seed(ctx context.Context) error {
	employees := []roster.Employee{
		{ID: "f-001", Nome: "Ana Clara Souza", Cargo: "Analista", Empresa: "Warp Ltda"},
		{ID: "f-002", Nome: "Bruno Lima", Cargo: "Técnico", Empresa: "Warp Ltda"},
		{ID: "f-003", Nome: "Ângela Prado", Cargo: "Gerente", Empresa: "Warp Ltda"},
	}
	events := []punch.ClockEvent{
		{RecordID: "r-1", EmployeeID: "f-001", Kind: punch.KindClockIn, Raw: "2024-03-01T08:00:00"},
		{RecordID: "r-2", EmployeeID: "f-001", Kind: punch.KindClockOut, Raw: "2024-03-01 12:00:00"},
		{RecordID: "r-3", EmployeeID: "f-001", Kind: punch.KindClockIn, Raw: "01/03/2024 13:00:00"},
		{RecordID: "r-4", EmployeeID: "f-001", Kind: punch.KindClockOut, Raw: "01-03-2024 17:00:00"},
		{RecordID: "r-5", EmployeeID: "f-002", Kind: punch.KindClockIn, Raw: "2024-03-01 08:30:00"},
		{RecordID: "r-6", EmployeeID: "f-002", Kind: punch.KindClockOut, Raw: "2024-03-01 12:15:00"},
		{RecordID: "r-7", EmployeeID: "f-003", Kind: punch.KindClockIn, Raw: "2024-03-01 09:00:00"},
	}
	return s.SaveSnapshot(ctx, store.Snapshot{Events: events, Employees: employees})
}
