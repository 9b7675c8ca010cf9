/*
Package sqlite provides SQLite-backed persistence for the payroll
collaborators.

PURPOSE:
  The payroll engine itself is pure: it consumes already-fetched
  in-memory collections. This package owns those collections - employee
  records, raw punches, manual payments, and the tip ledger - and hands
  them to the engine at computation time. In production the same
  patterns apply to PostgreSQL; only minor SQL dialect differences.

KEY TABLES:
  employees:       Compensation config (JSON) + lifecycle dates
  punches:         Raw, append-only clock events; never rewritten.
                   Cleanup of malformed sequences is the sequencer's
                   job at read time, not the store's at write time.
  manual_payments: Dated one-off payments (per-job contractor work)
  tip_entries:     Tips earned and tips paid out in cash, as separate
                   dated entries

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. With PostgreSQL the database's
  own concurrency control would take over.

WAL MODE:
  SQLite is opened with WAL so readers don't block during writes.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll: Consumes the fetched collections
  - api/handlers.go: Assembles engine inputs from this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements persistence for all payroll collaborators.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT '',
		email TEXT,
		compensation_json TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		deactivated_at TEXT,
		created_at TEXT NOT NULL
	);

	-- Raw clock events, append-only. The sequencer deduplicates and
	-- repairs at read time so the original stream is never lost.
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		punch_type TEXT NOT NULL,
		punch_time TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Hot path: per-employee range scans for payroll runs
	CREATE INDEX IF NOT EXISTS idx_punches_employee_time
		ON punches(employee_id, punch_time);

	CREATE TABLE IF NOT EXISTS manual_payments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		paid_on TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_manual_payments_employee_date
		ON manual_payments(employee_id, paid_on);

	-- kind is 'earned' or 'paid_out'
	CREATE TABLE IF NOT EXISTS tip_entries (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		entry_date TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('earned', 'paid_out')),
		amount_cents INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tip_entries_employee_date
		ON tip_entries(employee_id, entry_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset drops all data. Used by scenario loading in development.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"tip_entries", "manual_payments", "punches", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }
