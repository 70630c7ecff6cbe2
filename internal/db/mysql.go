package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// mysqlDriver implements Driver over go-sql-driver/mysql.
type mysqlDriver struct{}

var _ Driver = (*mysqlDriver)(nil)

func (d *mysqlDriver) Name() string { return DriverMySQL }

func (d *mysqlDriver) Open(ctx context.Context, creds *Credentials) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = creds.Username
	cfg.Passwd = creds.Password
	cfg.DBName = creds.Database
	cfg.ParseTime = true

	if creds.Socket != "" {
		cfg.Net = "unix"
		cfg.Addr = creds.Socket
	} else {
		cfg.Net = "tcp"
		addr := creds.Host
		if creds.Port > 0 {
			addr = fmt.Sprintf("%s:%d", creds.Host, creds.Port)
		}
		cfg.Addr = addr
	}

	if creds.Charset != "" {
		cfg.Params = map[string]string{"charset": creds.Charset}
	}
	if creds.Collation != "" {
		cfg.Collation = creds.Collation
	}
	for k, v := range creds.Params {
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params[k] = v
	}

	conn, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening mysql connection: %w", err)
	}
	// One connection, one session: SET FOREIGN_KEY_CHECKS and friends are
	// session-scoped and must land on the session running the queries.
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to mysql at %s: %w", cfg.Addr, err)
	}
	return conn, nil
}

func (d *mysqlDriver) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *mysqlDriver) CreateTableSQL(ctx context.Context, ex Executor, table string) (string, error) {
	var name, ddl string
	row := ex.QueryRowContext(ctx, "SHOW CREATE TABLE "+d.QuoteIdentifier(table))
	if err := row.Scan(&name, &ddl); err != nil {
		return "", fmt.Errorf("SHOW CREATE TABLE %s: %w", table, err)
	}
	return ddl, nil
}

func (d *mysqlDriver) ListTables(ctx context.Context, ex Executor) ([]string, error) {
	rows, err := ex.QueryContext(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name")
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

func (d *mysqlDriver) TableExists(ctx context.Context, ex Executor, table string) (bool, error) {
	var count int
	row := ex.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", table)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return count > 0, nil
}

func (d *mysqlDriver) ColumnNames(ctx context.Context, ex Executor, table string) ([]string, error) {
	rows, err := ex.QueryContext(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position", table)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (d *mysqlDriver) SetForeignKeyChecks(ctx context.Context, ex Executor, enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	if _, err := ex.ExecContext(ctx, fmt.Sprintf("SET FOREIGN_KEY_CHECKS = %d", v)); err != nil {
		return fmt.Errorf("setting foreign key checks: %w", err)
	}
	return nil
}

func (d *mysqlDriver) CreateTableSuffix(creds *Credentials) string {
	engine := creds.MySQLEngine
	if engine == "" {
		engine = "InnoDB"
	}
	suffix := fmt.Sprintf(" ENGINE=%s", engine)
	if creds.Charset != "" {
		suffix += fmt.Sprintf(" DEFAULT CHARSET=%s", creds.Charset)
	}
	if creds.Collation != "" {
		suffix += fmt.Sprintf(" COLLATE=%s", creds.Collation)
	}
	return suffix
}

func (d *mysqlDriver) IDColumn(name string) (string, bool) {
	return d.QuoteIdentifier(name) + " BIGINT UNSIGNED NOT NULL AUTO_INCREMENT", false
}

func (d *mysqlDriver) IndexDDL(_, name string, unique bool, cols []string) (string, bool) {
	kind := "KEY"
	if unique {
		kind = "UNIQUE KEY"
	}
	return fmt.Sprintf("%s %s (%s)", kind, d.QuoteIdentifier(name), strings.Join(cols, ", ")), true
}

func (d *mysqlDriver) SupportsAlterAddConstraints() bool { return true }
