package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// sqliteDriver implements Driver over mattn/go-sqlite3. The credentials'
// dbname holds the database file path or ":memory:".
type sqliteDriver struct{}

var _ Driver = (*sqliteDriver)(nil)

func (d *sqliteDriver) Name() string { return DriverSQLite }

func (d *sqliteDriver) Open(ctx context.Context, creds *Credentials) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", creds.Database)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One connection, one session: keeps PRAGMA changes on the session that
	// runs the queries, and keeps :memory: databases from vanishing between
	// pooled connections.
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening sqlite database %s: %w", creds.Database, err)
	}
	// Foreign keys default to OFF in SQLite.
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return conn, nil
}

func (d *sqliteDriver) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTableSQL reads the original DDL from sqlite_master and appends the
// DDL of the table's explicit indexes, so a restore reproduces both.
func (d *sqliteDriver) CreateTableSQL(ctx context.Context, ex Executor, table string) (string, error) {
	var ddl string
	row := ex.QueryRowContext(ctx,
		"SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	if err := row.Scan(&ddl); err != nil {
		return "", fmt.Errorf("reading DDL for %s: %w", table, err)
	}

	rows, err := ex.QueryContext(ctx,
		"SELECT sql FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND sql IS NOT NULL", table)
	if err != nil {
		return "", fmt.Errorf("reading index DDL for %s: %w", table, err)
	}
	defer rows.Close()

	var parts []string
	parts = append(parts, ddl)
	for rows.Next() {
		var idx string
		if err := rows.Scan(&idx); err != nil {
			return "", err
		}
		parts = append(parts, idx)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return strings.Join(parts, ";\n"), nil
}

func (d *sqliteDriver) ListTables(ctx context.Context, ex Executor) ([]string, error) {
	rows, err := ex.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (d *sqliteDriver) TableExists(ctx context.Context, ex Executor, table string) (bool, error) {
	var count int
	row := ex.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return count > 0, nil
}

func (d *sqliteDriver) ColumnNames(ctx context.Context, ex Executor, table string) ([]string, error) {
	rows, err := ex.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", d.QuoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func (d *sqliteDriver) SetForeignKeyChecks(ctx context.Context, ex Executor, enabled bool) error {
	v := "OFF"
	if enabled {
		v = "ON"
	}
	if _, err := ex.ExecContext(ctx, "PRAGMA foreign_keys = "+v); err != nil {
		return fmt.Errorf("setting foreign keys pragma: %w", err)
	}
	return nil
}

func (d *sqliteDriver) CreateTableSuffix(*Credentials) string { return "" }

func (d *sqliteDriver) IDColumn(name string) (string, bool) {
	return d.QuoteIdentifier(name) + " INTEGER PRIMARY KEY AUTOINCREMENT", true
}

// IndexDDL always returns a standalone statement: SQLite has no inline
// named-index syntax in CREATE TABLE.
func (d *sqliteDriver) IndexDDL(table, name string, unique bool, cols []string) (string, bool) {
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)",
		kind, d.QuoteIdentifier(name), d.QuoteIdentifier(table), strings.Join(cols, ", ")), false
}

func (d *sqliteDriver) SupportsAlterAddConstraints() bool { return false }
