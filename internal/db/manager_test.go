package db

import (
	"context"
	"testing"
)

// newTestManager connects to a fresh in-memory SQLite database.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), "sqlite:dbname=:memory:", nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestNewManager_BadCredentials(t *testing.T) {
	tests := []string{
		"",
		"mysql:host=localhost",
		"nosql:dbname=t",
		"mysql:dbname=t;username=u", // missing password
	}
	for _, conn := range tests {
		if _, err := NewManager(context.Background(), conn, nil); err == nil {
			t.Errorf("NewManager(%q) succeeded, want credential error", conn)
		}
	}
}

func TestManager_DirectQuery(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	rows, err := m.GetResults(ctx, "SELECT 1")
	if err != nil {
		t.Fatalf("GetResults(SELECT 1) error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	row, ok := rows[0].(Row)
	if !ok {
		t.Fatalf("rows[0] is %T, want Row in FetchAssoc mode", rows[0])
	}
	if v, ok := row["1"]; !ok || v != int64(1) {
		t.Errorf("rows[0] = %v, want map with 1 -> 1", row)
	}
}

func TestManager_PlaceholderQuery(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	mustExec(t, m, "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT, qty INTEGER)")
	mustExec(t, m, "INSERT INTO items (name, qty) VALUES (?, ?)", "bolt", 10)
	mustExec(t, m, "INSERT INTO items (name, qty) VALUES (:name, :qty)", "nut", 20)
	mustExec(t, m, "INSERT INTO items (name, qty) VALUES (%s, %d)", "washer", 30)

	rows, err := m.GetResults(ctx, "SELECT name, qty FROM items WHERE qty > ? ORDER BY qty", 5)
	if err != nil {
		t.Fatalf("GetResults() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	first := rows[0].(Row)
	if first["name"] != "bolt" || first["qty"] != int64(10) {
		t.Errorf("rows[0] = %v", first)
	}
	if rows[2].(Row)["name"] != "washer" {
		t.Errorf("rows[2] = %v", rows[2])
	}
}

func TestManager_MismatchDoesNotExecute(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	mustExec(t, m, "CREATE TABLE t (a INTEGER)")

	// A mismatched insert must fail before touching the database.
	if _, err := m.Exec(ctx, "INSERT INTO t (a) VALUES (?)", 1, 2); err == nil {
		t.Fatal("expected placeholder mismatch error")
	}
	if m.LastError() == nil {
		t.Error("LastError() not recorded")
	}

	n, err := m.GetVar(ctx, "SELECT COUNT(*) FROM t")
	if err != nil {
		t.Fatalf("GetVar() error = %v", err)
	}
	if n != int64(0) {
		t.Errorf("row count after failed insert = %v, want 0", n)
	}
}

func TestManager_GetRowGetVarGetCol(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	mustExec(t, m, "CREATE TABLE t (a INTEGER, b TEXT)")
	mustExec(t, m, "INSERT INTO t VALUES (1, 'x'), (2, 'y')")

	row, err := m.GetRow(ctx, "SELECT * FROM t WHERE a = ?", 2)
	if err != nil {
		t.Fatalf("GetRow() error = %v", err)
	}
	if row.(Row)["b"] != "y" {
		t.Errorf("GetRow() = %v", row)
	}

	missing, err := m.GetRow(ctx, "SELECT * FROM t WHERE a = ?", 99)
	if err != nil {
		t.Fatalf("GetRow(miss) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetRow(miss) = %v, want nil", missing)
	}

	v, err := m.GetVar(ctx, "SELECT b FROM t WHERE a = ?", 1)
	if err != nil {
		t.Fatalf("GetVar() error = %v", err)
	}
	if v != "x" {
		t.Errorf("GetVar() = %v, want x", v)
	}

	col, err := m.GetCol(ctx, "SELECT b FROM t ORDER BY a")
	if err != nil {
		t.Fatalf("GetCol() error = %v", err)
	}
	if len(col) != 2 || col[0] != "x" || col[1] != "y" {
		t.Errorf("GetCol() = %v", col)
	}
}

func TestManager_TransactionNesting(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	mustExec(t, m, "CREATE TABLE t (a INTEGER)")

	if err := m.Begin(ctx); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if m.TransactionDepth() != 1 {
		t.Fatalf("depth = %d, want 1", m.TransactionDepth())
	}
	mustExec(t, m, "INSERT INTO t VALUES (1)")

	// Nested begin: depth increments, no second top-level transaction.
	if err := m.Begin(ctx); err != nil {
		t.Fatalf("nested Begin() error = %v", err)
	}
	if m.TransactionDepth() != 2 {
		t.Fatalf("depth = %d, want 2", m.TransactionDepth())
	}
	mustExec(t, m, "INSERT INTO t VALUES (2)")

	// Rolling back the inner level discards only the inner insert.
	if err := m.Rollback(ctx); err != nil {
		t.Fatalf("inner Rollback() error = %v", err)
	}
	if m.TransactionDepth() != 1 {
		t.Fatalf("depth after inner rollback = %d, want 1", m.TransactionDepth())
	}

	if err := m.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if m.InTransaction() {
		t.Error("still in transaction after final commit")
	}

	col, err := m.GetCol(ctx, "SELECT a FROM t ORDER BY a")
	if err != nil {
		t.Fatalf("GetCol() error = %v", err)
	}
	if len(col) != 1 || col[0] != int64(1) {
		t.Errorf("surviving rows = %v, want [1]", col)
	}
}

func TestManager_NestedCommitUnwindOneLevel(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	mustExec(t, m, "CREATE TABLE t (a INTEGER)")

	if err := m.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	mustExec(t, m, "INSERT INTO t VALUES (1)")

	// Inner commit releases the savepoint but the outer transaction is
	// still open and can discard everything.
	if err := m.Commit(ctx); err != nil {
		t.Fatalf("inner Commit() error = %v", err)
	}
	if !m.InTransaction() || m.TransactionDepth() != 1 {
		t.Fatalf("depth after inner commit = %d, want 1", m.TransactionDepth())
	}
	if err := m.Rollback(ctx); err != nil {
		t.Fatalf("outer Rollback() error = %v", err)
	}

	n, err := m.GetVar(ctx, "SELECT COUNT(*) FROM t")
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(0) {
		t.Errorf("row count = %v, want 0 (outer rollback discards inner commit)", n)
	}
}

func TestManager_CommitRollbackWithoutTransaction(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if err := m.Commit(ctx); err != ErrNoTransaction {
		t.Errorf("Commit() = %v, want ErrNoTransaction", err)
	}
	if err := m.Rollback(ctx); err != ErrNoTransaction {
		t.Errorf("Rollback() = %v, want ErrNoTransaction", err)
	}
}

func TestManager_Introspection(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	mustExec(t, m, "CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT NOT NULL)")

	ok, err := m.TableExists(ctx, "books")
	if err != nil {
		t.Fatalf("TableExists() error = %v", err)
	}
	if !ok {
		t.Error("TableExists(books) = false")
	}
	ok, err = m.TableExists(ctx, "missing")
	if err != nil {
		t.Fatalf("TableExists(missing) error = %v", err)
	}
	if ok {
		t.Error("TableExists(missing) = true")
	}

	tables, err := m.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if len(tables) != 1 || tables[0] != "books" {
		t.Errorf("ListTables() = %v", tables)
	}

	cols, err := m.ColumnNames(ctx, "books")
	if err != nil {
		t.Fatalf("ColumnNames() error = %v", err)
	}
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "title" {
		t.Errorf("ColumnNames() = %v", cols)
	}

	ddl, err := m.ShowCreateTable(ctx, "books")
	if err != nil {
		t.Fatalf("ShowCreateTable() error = %v", err)
	}
	if ddl == "" {
		t.Error("ShowCreateTable() returned empty DDL")
	}
}

func TestManager_TablePrefix(t *testing.T) {
	m, err := NewManager(context.Background(), "sqlite:dbname=:memory:;prefix=app_", nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer m.Close()
	ctx := context.Background()

	mustExec(t, m, "CREATE TABLE app_users (id INTEGER PRIMARY KEY)")

	ok, err := m.TableExists(ctx, "users")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("TableExists(users) should resolve through the prefix")
	}
}

func TestManager_FetchModes(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	mustExec(t, m, "CREATE TABLE t (a INTEGER, b TEXT)")
	mustExec(t, m, "INSERT INTO t VALUES (1, 'x'), (2, 'y')")

	m.SetFetchMode(FetchNum)
	rows, err := m.GetResults(ctx, "SELECT a, b FROM t ORDER BY a")
	if err != nil {
		t.Fatalf("GetResults() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	first, ok := rows[0].([]any)
	if !ok {
		t.Fatalf("rows[0] is %T, want []any in FetchNum mode", rows[0])
	}
	if len(first) != 2 || first[0] != int64(1) || first[1] != "x" {
		t.Errorf("rows[0] = %v, want [1 x]", first)
	}

	row, err := m.GetRow(ctx, "SELECT a, b FROM t WHERE a = ?", 2)
	if err != nil {
		t.Fatalf("GetRow() error = %v", err)
	}
	vals, ok := row.([]any)
	if !ok {
		t.Fatalf("GetRow() is %T, want []any in FetchNum mode", row)
	}
	if vals[0] != int64(2) || vals[1] != "y" {
		t.Errorf("GetRow() = %v, want [2 y]", vals)
	}

	// Switching back restores column-keyed maps.
	m.SetFetchMode(FetchAssoc)
	row, err = m.GetRow(ctx, "SELECT a, b FROM t WHERE a = ?", 1)
	if err != nil {
		t.Fatalf("GetRow() error = %v", err)
	}
	assoc, ok := row.(Row)
	if !ok {
		t.Fatalf("GetRow() is %T, want Row in FetchAssoc mode", row)
	}
	if assoc["b"] != "x" {
		t.Errorf("GetRow() = %v", assoc)
	}
}

func TestManager_UseAfterClose(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := m.Exec(ctx, "CREATE TABLE t (a INTEGER)"); err != ErrNotConnected {
		t.Errorf("Exec() after close = %v, want ErrNotConnected", err)
	}
	if _, err := m.GetResults(ctx, "SELECT 1"); err != ErrNotConnected {
		t.Errorf("GetResults() after close = %v, want ErrNotConnected", err)
	}
	if err := m.Begin(ctx); err != ErrNotConnected {
		t.Errorf("Begin() after close = %v, want ErrNotConnected", err)
	}
	if _, err := m.ListTables(ctx); err != ErrNotConnected {
		t.Errorf("ListTables() after close = %v, want ErrNotConnected", err)
	}

	// Reconnecting brings the manager back.
	if err := m.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if _, err := m.Exec(ctx, "CREATE TABLE t (a INTEGER)"); err != nil {
		t.Errorf("Exec() after reconnect error = %v", err)
	}
}

func mustExec(t *testing.T, m *Manager, query string, params ...any) {
	t.Helper()
	if _, err := m.Exec(context.Background(), query, params...); err != nil {
		t.Fatalf("Exec(%q) error = %v", query, err)
	}
}
