// Package history records tool operations in a local SQLite ledger: what
// ran, with which parameters, when, and how it ended.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"toolbelt-go/internal/history/migrations"
)

// Operation is one recorded ledger entry.
type Operation struct {
	ID         string
	Name       string
	Parameters string
	Status     string // "running", "success", or "error"
	Error      string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// Clock abstracts time retrieval so ledger entries are deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// Ledger is an append-mostly log of operations. One connection, one
// session.
type Ledger struct {
	db    *sql.DB
	clock Clock
	ids   IDGenerator
}

// Open opens (or creates) the ledger database at path and migrates it to the
// latest schema. path can be ":memory:" for tests.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening ledger database %s: %w", path, err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating ledger: %w", err)
	}

	return &Ledger{db: db, clock: RealClock{}, ids: UUIDGenerator{}}, nil
}

// SetClock overrides the clock. Use in tests.
func (l *Ledger) SetClock(c Clock) { l.clock = c }

// SetIDGenerator overrides the ID generator. Use in tests.
func (l *Ledger) SetIDGenerator(g IDGenerator) { l.ids = g }

// CheckMigrations verifies the ledger schema is current.
func (l *Ledger) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(l.db)
}

// Begin records the start of an operation and returns it with status
// "running".
func (l *Ledger) Begin(ctx context.Context, name, parameters string) (*Operation, error) {
	op := &Operation{
		ID:         l.ids.New(),
		Name:       name,
		Parameters: parameters,
		Status:     "running",
		StartedAt:  l.clock.Now().UTC(),
	}
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO operations (id, name, parameters, status, started_at) VALUES (?, ?, ?, ?, ?)",
		op.ID, op.Name, op.Parameters, op.Status, op.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("recording operation start: %w", err)
	}
	return op, nil
}

// Finish marks an operation as completed. opErr of nil records "success";
// otherwise "error" with the message.
func (l *Ledger) Finish(ctx context.Context, op *Operation, opErr error) error {
	status := "success"
	errMsg := ""
	if opErr != nil {
		status = "error"
		errMsg = opErr.Error()
	}
	finishedAt := l.clock.Now().UTC()

	res, err := l.db.ExecContext(ctx,
		"UPDATE operations SET status = ?, error = ?, finished_at = ? WHERE id = ?",
		status, errMsg, finishedAt, op.ID)
	if err != nil {
		return fmt.Errorf("recording operation finish: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("operation %s not found", op.ID)
	}

	op.Status = status
	op.Error = errMsg
	op.FinishedAt = sql.NullTime{Time: finishedAt, Valid: true}
	return nil
}

// Recent returns the most recent operations, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]*Operation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		"SELECT id, name, parameters, status, error, started_at, finished_at FROM operations ORDER BY started_at DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		op := &Operation{}
		if err := rows.Scan(&op.ID, &op.Name, &op.Parameters, &op.Status, &op.Error, &op.StartedAt, &op.FinishedAt); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Get returns a single operation by ID.
func (l *Ledger) Get(ctx context.Context, id string) (*Operation, error) {
	op := &Operation{}
	row := l.db.QueryRowContext(ctx,
		"SELECT id, name, parameters, status, error, started_at, finished_at FROM operations WHERE id = ?", id)
	if err := row.Scan(&op.ID, &op.Name, &op.Parameters, &op.Status, &op.Error, &op.StartedAt, &op.FinishedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("operation %s not found", id)
		}
		return nil, fmt.Errorf("fetching operation: %w", err)
	}
	return op, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
