package db

import (
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"io"
	"strings"
	"time"
)

// Value is one column value in a snapshot row. NULLs are carried explicitly
// so they survive serialization.
type Value struct {
	Data []byte
	Null bool
}

// Snapshot captures one table with full fidelity: the exact DDL returned by
// the driver (indexes, constraints, engine, charset included) plus every
// row.
type Snapshot struct {
	TableName       string
	CreateSQL       string
	Columns         []string
	Rows            [][]Value
	BackupTimestamp time.Time
	RowCount        int
}

// ArchiveMetadata describes the archive as a whole.
type ArchiveMetadata struct {
	Driver    string
	Database  string
	CreatedAt time.Time
}

// Archive is a serializable collection of table snapshots.
type Archive struct {
	Tables   map[string]*Snapshot
	Metadata ArchiveMetadata
}

// RestoreOptions control how snapshots are restored.
type RestoreOptions struct {
	// Drop removes an existing table before recreating it.
	Drop bool
}

// BackupTable snapshots one (prefixed) table: its exact CREATE DDL and all
// rows.
func (m *Manager) BackupTable(ctx context.Context, table string) (*Snapshot, error) {
	if err := m.ensureConnected(); err != nil {
		return nil, err
	}
	name := m.TableName(table)

	ddl, err := m.driver.CreateTableSQL(ctx, m.executor(), name)
	if err != nil {
		return nil, m.fail(fmt.Errorf("capturing DDL for %s: %w", name, err))
	}

	rows, err := m.executor().QueryContext(ctx, "SELECT * FROM "+m.driver.QuoteIdentifier(name))
	if err != nil {
		return nil, m.fail(fmt.Errorf("reading rows of %s: %w", name, err))
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, m.fail(fmt.Errorf("reading columns of %s: %w", name, err))
	}

	snap := &Snapshot{
		TableName:       name,
		CreateSQL:       ddl,
		Columns:         cols,
		BackupTimestamp: time.Now().UTC(),
	}

	for rows.Next() {
		raw := make([]sql.RawBytes, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, m.fail(fmt.Errorf("scanning row of %s: %w", name, err))
		}

		row := make([]Value, len(cols))
		for i, rb := range raw {
			if rb == nil {
				row[i] = Value{Null: true}
			} else {
				data := make([]byte, len(rb))
				copy(data, rb)
				row[i] = Value{Data: data}
			}
		}
		snap.Rows = append(snap.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, m.fail(fmt.Errorf("iterating rows of %s: %w", name, err))
	}

	snap.RowCount = len(snap.Rows)
	m.logger.Info("table backed up", "table", name, "rows", snap.RowCount)
	return snap, nil
}

// BackupDB snapshots the given tables, or every base table when none are
// named.
func (m *Manager) BackupDB(ctx context.Context, tables ...string) (*Archive, error) {
	if len(tables) == 0 {
		all, err := m.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		tables = all
	}

	archive := &Archive{
		Tables: make(map[string]*Snapshot, len(tables)),
		Metadata: ArchiveMetadata{
			Driver:    m.driver.Name(),
			Database:  m.creds.Database,
			CreatedAt: time.Now().UTC(),
		},
	}
	for _, t := range tables {
		snap, err := m.BackupTable(ctx, t)
		if err != nil {
			return nil, err
		}
		archive.Tables[snap.TableName] = snap
	}
	return archive, nil
}

// RestoreTable recreates one table from its snapshot. Foreign key checks
// are disabled for the session during the bulk insert, and the whole
// operation runs in one transaction: any row failure rolls everything back.
func (m *Manager) RestoreTable(ctx context.Context, snap *Snapshot, opts RestoreOptions) error {
	archive := &Archive{Tables: map[string]*Snapshot{snap.TableName: snap}}
	return m.RestoreArchive(ctx, archive, opts)
}

// RestoreArchive recreates every table in the archive. FK enforcement is
// toggled off before the transaction starts (SQLite cannot change it
// mid-transaction) and restored afterwards.
func (m *Manager) RestoreArchive(ctx context.Context, archive *Archive, opts RestoreOptions) error {
	if err := m.ensureConnected(); err != nil {
		return err
	}
	if len(archive.Tables) == 0 {
		return fmt.Errorf("archive contains no tables")
	}
	// The restore owns its transaction, and the FK toggle below would
	// deadlock against one already holding the single pooled connection.
	if m.tx != nil {
		return m.fail(fmt.Errorf("cannot restore inside an open transaction"))
	}

	if err := m.driver.SetForeignKeyChecks(ctx, m.conn, false); err != nil {
		return m.fail(err)
	}
	defer func() {
		if err := m.driver.SetForeignKeyChecks(ctx, m.conn, true); err != nil {
			m.logger.Warn("re-enabling foreign key checks failed", "error", err)
		}
	}()

	if err := m.Begin(ctx); err != nil {
		return err
	}

	for _, snap := range archive.Tables {
		if err := m.restoreOne(ctx, snap, opts); err != nil {
			if rbErr := m.Rollback(ctx); rbErr != nil && rbErr != ErrNoTransaction {
				m.logger.Warn("rollback after failed restore", "error", rbErr)
			}
			return err
		}
	}

	if err := m.Commit(ctx); err != nil {
		return err
	}
	m.logger.Info("archive restored", "tables", len(archive.Tables))
	return nil
}

func (m *Manager) restoreOne(ctx context.Context, snap *Snapshot, opts RestoreOptions) error {
	ex := m.executor()

	if opts.Drop {
		if _, err := ex.ExecContext(ctx, "DROP TABLE IF EXISTS "+m.driver.QuoteIdentifier(snap.TableName)); err != nil {
			return m.fail(fmt.Errorf("dropping table %s: %w", snap.TableName, err))
		}
	}

	// SQLite snapshots may carry index DDL after the table DDL.
	for _, stmt := range strings.Split(snap.CreateSQL, ";\n") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			return m.fail(fmt.Errorf("recreating table %s: %w", snap.TableName, err))
		}
	}

	if len(snap.Rows) == 0 {
		return nil
	}

	quoted := make([]string, len(snap.Columns))
	marks := make([]string, len(snap.Columns))
	for i, c := range snap.Columns {
		quoted[i] = m.driver.QuoteIdentifier(c)
		marks[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		m.driver.QuoteIdentifier(snap.TableName),
		strings.Join(quoted, ", "), strings.Join(marks, ", "))

	for i, row := range snap.Rows {
		args := make([]any, len(row))
		for j, v := range row {
			if v.Null {
				args[j] = nil
			} else {
				// Bind as text so SQLite column affinity applies; MySQL
				// converts string forms for every column type.
				args[j] = string(v.Data)
			}
		}
		if _, err := ex.ExecContext(ctx, insert, args...); err != nil {
			return m.fail(fmt.Errorf("inserting row %d into %s: %w", i+1, snap.TableName, err))
		}
	}
	return nil
}

// WriteArchive gob-encodes the archive to w.
func WriteArchive(w io.Writer, archive *Archive) error {
	if err := gob.NewEncoder(w).Encode(archive); err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}
	return nil
}

// ReadArchiveFile gob-decodes an archive from r.
func ReadArchiveFile(r io.Reader) (*Archive, error) {
	var archive Archive
	if err := gob.NewDecoder(r).Decode(&archive); err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	return &archive, nil
}
