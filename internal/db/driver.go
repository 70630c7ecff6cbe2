package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Executor is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Façade operations run against whichever of the two is active.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Driver is the capability interface implemented once per backend. It
// replaces string-compared driver branching: dialect differences live
// behind these methods and are selected at construction.
type Driver interface {
	// Name returns the façade driver name (mysql or sqlite).
	Name() string

	// Open establishes the native connection and verifies it with a ping.
	Open(ctx context.Context, creds *Credentials) (*sql.DB, error)

	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(name string) string

	// CreateTableSQL returns the exact DDL that recreates the table,
	// including indexes, constraints, engine and charset.
	CreateTableSQL(ctx context.Context, ex Executor, table string) (string, error)

	// ListTables returns the base table names in the connected database.
	ListTables(ctx context.Context, ex Executor) ([]string, error)

	// TableExists reports whether the table exists.
	TableExists(ctx context.Context, ex Executor, table string) (bool, error)

	// ColumnNames returns the table's column names in ordinal position.
	ColumnNames(ctx context.Context, ex Executor, table string) ([]string, error)

	// SetForeignKeyChecks toggles FK enforcement for the session. SQLite
	// cannot toggle it inside a transaction, so callers flip it before
	// starting one.
	SetForeignKeyChecks(ctx context.Context, ex Executor, enabled bool) error

	// CreateTableSuffix returns the dialect clause appended after the
	// column list of CREATE TABLE (engine/charset/collation for MySQL,
	// empty for SQLite).
	CreateTableSuffix(creds *Credentials) string

	// IDColumn returns the column definition for an auto-incrementing
	// primary key. inlinePK reports whether the definition already carries
	// the PRIMARY KEY clause; when false the builder emits a separate
	// PRIMARY KEY (name) constraint.
	IDColumn(name string) (definition string, inlinePK bool)

	// IndexDDL returns either an inline index clause for the CREATE TABLE
	// column list (inline true) or a standalone CREATE INDEX statement to
	// run once the table exists (inline false). cols are already quoted.
	IndexDDL(table, name string, unique bool, cols []string) (ddl string, inline bool)

	// SupportsAlterAddConstraints reports whether ALTER TABLE can add
	// indexes and foreign key constraints.
	SupportsAlterAddConstraints() bool
}

// NewDriver returns the Driver implementation for the credentials' driver
// name.
func NewDriver(creds *Credentials) (Driver, error) {
	switch creds.Driver {
	case DriverMySQL:
		return &mysqlDriver{}, nil
	case DriverSQLite:
		return &sqliteDriver{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", creds.Driver)
	}
}
