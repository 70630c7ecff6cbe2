// Package db is a dialect-agnostic SQL execution façade. One Manager wraps
// one native connection (MySQL or SQLite), normalizes mixed placeholder
// styles before execution, tracks nested transactions with savepoints, and
// offers schema introspection plus full-fidelity table backup/restore.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FetchMode selects the shape query results are returned in.
type FetchMode int

const (
	// FetchAssoc returns each row as a column-name keyed Row map.
	FetchAssoc FetchMode = iota
	// FetchNum returns each row as a positional []any slice ordered like
	// the select list.
	FetchNum
)

// Row is one result row in FetchAssoc mode.
type Row = map[string]any

// ErrNoTransaction is returned by Commit and Rollback when no transaction
// is active. Both are otherwise no-ops in that state.
var ErrNoTransaction = errors.New("no active transaction")

// ErrNotConnected is returned when an operation runs after Close without a
// reconnect.
var ErrNotConnected = errors.New("database is not connected")

// Logger is the minimal structured logger the façade needs. Args follow
// slog conventions: alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger discards all output. Use in tests.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

// Manager is the database access façade. It owns at most one live native
// handle; Connect on an already-connected manager disconnects first. Not
// safe for concurrent use across goroutines while a transaction is open.
type Manager struct {
	creds     *Credentials
	driver    Driver
	conn      *sql.DB
	tx        *sql.Tx
	txDepth   int
	fetchMode FetchMode
	lastError error
	logger    Logger
}

// NewManager parses the connection string and connects using the named
// driver's backend. The returned manager is ready to execute queries.
func NewManager(ctx context.Context, connString string, logger Logger) (*Manager, error) {
	creds, err := ParseCredentials(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	if logger == nil {
		logger = NopLogger{}
	}

	m := &Manager{creds: creds, fetchMode: FetchAssoc, logger: logger}
	if err := m.Connect(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Connect (re)establishes the native connection. Any previous handle is
// closed first, so at most one is live at a time.
func (m *Manager) Connect(ctx context.Context) error {
	if m.conn != nil {
		if err := m.Close(); err != nil {
			return fmt.Errorf("closing previous connection: %w", err)
		}
	}

	driver, err := NewDriver(m.creds)
	if err != nil {
		return m.fail(err)
	}

	conn, err := driver.Open(ctx, m.creds)
	if err != nil {
		return m.fail(err)
	}

	m.driver = driver
	m.conn = conn
	m.logger.Debug("connected", "driver", driver.Name(), "database", m.creds.Database)
	return nil
}

// Close rolls back any open transaction and closes the native handle.
func (m *Manager) Close() error {
	if m.tx != nil {
		m.tx.Rollback()
		m.tx = nil
		m.txDepth = 0
	}
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

// Driver returns the active driver.
func (m *Manager) Driver() Driver { return m.driver }

// Credentials returns the parsed connection credentials.
func (m *Manager) Credentials() *Credentials { return m.creds }

// SetFetchMode changes the result shape for subsequent queries.
func (m *Manager) SetFetchMode(mode FetchMode) { m.fetchMode = mode }

// LastError returns the most recent error recorded by the façade, or nil.
func (m *Manager) LastError() error { return m.lastError }

// TableName applies the configured prefix to a bare table name.
func (m *Manager) TableName(name string) string { return m.creds.TableName(name) }

// executor returns the open transaction when one is active, otherwise the
// connection.
func (m *Manager) executor() Executor {
	if m.tx != nil {
		return m.tx
	}
	return m.conn
}

// ensureConnected guards entry points against use after Close.
func (m *Manager) ensureConnected() error {
	if m.conn == nil {
		return m.fail(ErrNotConnected)
	}
	return nil
}

// Exec runs a statement that returns no rows. Placeholder styles are
// normalized and the parameter count validated before execution.
func (m *Manager) Exec(ctx context.Context, query string, params ...any) (sql.Result, error) {
	if err := m.ensureConnected(); err != nil {
		return nil, err
	}
	normalized, flat, err := NormalizeQuery(query, params...)
	if err != nil {
		return nil, m.fail(err)
	}

	res, err := m.executor().ExecContext(ctx, normalized, flat...)
	if err != nil {
		return nil, m.fail(fmt.Errorf("executing statement: %w", err))
	}
	return res, nil
}

// Query runs a statement and returns the raw rows. The caller must close
// them. Most callers want GetResults instead.
func (m *Manager) Query(ctx context.Context, query string, params ...any) (*sql.Rows, error) {
	if err := m.ensureConnected(); err != nil {
		return nil, err
	}
	normalized, flat, err := NormalizeQuery(query, params...)
	if err != nil {
		return nil, m.fail(err)
	}

	rows, err := m.executor().QueryContext(ctx, normalized, flat...)
	if err != nil {
		return nil, m.fail(fmt.Errorf("executing query: %w", err))
	}
	return rows, nil
}

// GetResults runs a query and fetches every row in the configured fetch
// mode: column-keyed Row maps in FetchAssoc, positional []any slices in
// FetchNum. Callers set the mode once and assert the matching shape.
func (m *Manager) GetResults(ctx context.Context, query string, params ...any) ([]any, error) {
	rows, err := m.Query(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []any
	cols, err := rows.Columns()
	if err != nil {
		return nil, m.fail(fmt.Errorf("reading columns: %w", err))
	}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, m.fail(fmt.Errorf("scanning row: %w", err))
		}
		for i := range values {
			values[i] = normalizeValue(values[i])
		}

		if m.fetchMode == FetchNum {
			results = append(results, values)
			continue
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, m.fail(fmt.Errorf("iterating rows: %w", err))
	}
	return results, nil
}

// GetRow returns the first row of the result set in the configured fetch
// mode (Row map or positional []any), or nil when the query matches
// nothing.
func (m *Manager) GetRow(ctx context.Context, query string, params ...any) (any, error) {
	results, err := m.GetResults(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// GetVar returns the first column of the first row, or nil when the query
// matches nothing.
func (m *Manager) GetVar(ctx context.Context, query string, params ...any) (any, error) {
	rows, err := m.Query(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var v any
	if err := rows.Scan(&v); err != nil {
		return nil, m.fail(fmt.Errorf("scanning value: %w", err))
	}
	return normalizeValue(v), nil
}

// GetCol returns the first column of every row.
func (m *Manager) GetCol(ctx context.Context, query string, params ...any) ([]any, error) {
	rows, err := m.Query(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var col []any
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, m.fail(fmt.Errorf("scanning value: %w", err))
		}
		col = append(col, normalizeValue(v))
	}
	return col, rows.Err()
}

// Begin starts a transaction. Inside an active transaction it does not open
// a second top-level one: it creates a savepoint and increments the nesting
// depth instead.
func (m *Manager) Begin(ctx context.Context) error {
	if err := m.ensureConnected(); err != nil {
		return err
	}
	if m.tx == nil {
		tx, err := m.conn.BeginTx(ctx, nil)
		if err != nil {
			return m.fail(fmt.Errorf("starting transaction: %w", err))
		}
		m.tx = tx
		m.txDepth = 1
		m.logger.Debug("transaction started")
		return nil
	}

	name := savepointName(m.txDepth)
	if _, err := m.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return m.fail(fmt.Errorf("creating savepoint %s: %w", name, err))
	}
	m.txDepth++
	m.logger.Debug("savepoint created", "name", name, "depth", m.txDepth)
	return nil
}

// Commit unwinds exactly one transaction level: the top level commits the
// native transaction, nested levels release their savepoint. With no
// active transaction it is a no-op returning ErrNoTransaction.
func (m *Manager) Commit(ctx context.Context) error {
	switch {
	case m.tx == nil:
		return ErrNoTransaction
	case m.txDepth > 1:
		name := savepointName(m.txDepth - 1)
		if _, err := m.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
			return m.fail(fmt.Errorf("releasing savepoint %s: %w", name, err))
		}
		m.txDepth--
		return nil
	default:
		err := m.tx.Commit()
		m.tx = nil
		m.txDepth = 0
		if err != nil {
			return m.fail(fmt.Errorf("committing transaction: %w", err))
		}
		m.logger.Debug("transaction committed")
		return nil
	}
}

// Rollback unwinds exactly one transaction level: nested levels roll back
// to their savepoint without touching outer work, the top level rolls back
// the native transaction. With no active transaction it is a no-op
// returning ErrNoTransaction.
func (m *Manager) Rollback(ctx context.Context) error {
	switch {
	case m.tx == nil:
		return ErrNoTransaction
	case m.txDepth > 1:
		name := savepointName(m.txDepth - 1)
		if _, err := m.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
			return m.fail(fmt.Errorf("rolling back to savepoint %s: %w", name, err))
		}
		m.txDepth--
		return nil
	default:
		err := m.tx.Rollback()
		m.tx = nil
		m.txDepth = 0
		if err != nil {
			return m.fail(fmt.Errorf("rolling back transaction: %w", err))
		}
		m.logger.Debug("transaction rolled back")
		return nil
	}
}

// InTransaction reports whether a transaction is active.
func (m *Manager) InTransaction() bool { return m.tx != nil }

// TransactionDepth returns the current nesting depth (0 when idle).
func (m *Manager) TransactionDepth() int { return m.txDepth }

// TableExists reports whether the (prefixed) table exists.
func (m *Manager) TableExists(ctx context.Context, table string) (bool, error) {
	if err := m.ensureConnected(); err != nil {
		return false, err
	}
	ok, err := m.driver.TableExists(ctx, m.executor(), m.TableName(table))
	if err != nil {
		return false, m.fail(err)
	}
	return ok, nil
}

// ListTables returns all base table names in the connected database.
func (m *Manager) ListTables(ctx context.Context) ([]string, error) {
	if err := m.ensureConnected(); err != nil {
		return nil, err
	}
	tables, err := m.driver.ListTables(ctx, m.executor())
	if err != nil {
		return nil, m.fail(err)
	}
	return tables, nil
}

// ColumnNames returns the (prefixed) table's columns in ordinal position.
func (m *Manager) ColumnNames(ctx context.Context, table string) ([]string, error) {
	if err := m.ensureConnected(); err != nil {
		return nil, err
	}
	cols, err := m.driver.ColumnNames(ctx, m.executor(), m.TableName(table))
	if err != nil {
		return nil, m.fail(err)
	}
	return cols, nil
}

// ShowCreateTable returns the exact DDL that recreates the (prefixed)
// table.
func (m *Manager) ShowCreateTable(ctx context.Context, table string) (string, error) {
	if err := m.ensureConnected(); err != nil {
		return "", err
	}
	ddl, err := m.driver.CreateTableSQL(ctx, m.executor(), m.TableName(table))
	if err != nil {
		return "", m.fail(err)
	}
	return ddl, nil
}

// fail records err as the last error and returns it.
func (m *Manager) fail(err error) error {
	m.lastError = err
	m.logger.Error("database error", "error", err)
	return err
}

func savepointName(level int) string {
	return fmt.Sprintf("sp_%d", level)
}

// normalizeValue converts driver byte slices to strings and leaves
// everything else untouched, so both backends return comparable shapes.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t
	default:
		return v
	}
}
