package db

import (
	"context"
	"testing"
)

func TestTableBuilder_CreateTable(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	b := NewTableBuilder(m)

	if err := b.NewTable("posts"); err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	if err := b.SetID("id"); err != nil {
		t.Fatalf("SetID() error = %v", err)
	}
	if err := b.AddVarchar("title", 200, FieldOptions{NotNull: true}); err != nil {
		t.Fatalf("AddVarchar() error = %v", err)
	}
	if err := b.AddInt("views", FieldOptions{NotNull: true, Default: "0", DefaultRaw: true}); err != nil {
		t.Fatalf("AddInt() error = %v", err)
	}
	if err := b.AddText("body", FieldOptions{}); err != nil {
		t.Fatalf("AddText() error = %v", err)
	}
	if err := b.AddIndex(false, "title"); err != nil {
		t.Fatalf("AddIndex() error = %v", err)
	}
	if err := b.AddTimestamps(); err != nil {
		t.Fatalf("AddTimestamps() error = %v", err)
	}
	if err := b.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}

	ok, err := m.TableExists(ctx, "posts")
	if err != nil || !ok {
		t.Fatalf("TableExists(posts) = %v, %v", ok, err)
	}

	cols, err := m.ColumnNames(ctx, "posts")
	if err != nil {
		t.Fatalf("ColumnNames() error = %v", err)
	}
	want := []string{"id", "title", "views", "body", "created_at", "updated_at"}
	if len(cols) != len(want) {
		t.Fatalf("columns = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, cols[i], want[i])
		}
	}

	mustExec(t, m, "INSERT INTO posts (title, body) VALUES (?, ?)", "hello", "world")
	v, err := m.GetVar(ctx, "SELECT views FROM posts WHERE title = ?", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if v != int64(0) {
		t.Errorf("default views = %v, want 0", v)
	}
}

func TestTableBuilder_DoubleCreateFails(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	b := NewTableBuilder(m)

	if err := b.NewTable("once"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetID("id"); err != nil {
		t.Fatal(err)
	}
	if err := b.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}

	// The session is consumed; flushing again without NewTable must fail.
	if err := b.CreateTable(ctx); err == nil {
		t.Error("second CreateTable() succeeded, want session error")
	}
}

func TestTableBuilder_DoubleSessionFails(t *testing.T) {
	b := NewTableBuilder(newTestManager(t))

	if err := b.NewTable("a"); err != nil {
		t.Fatal(err)
	}
	if err := b.NewTable("b"); err == nil {
		t.Error("second NewTable() succeeded, want open-session error")
	}
	if err := b.AlterTable("c"); err == nil {
		t.Error("AlterTable() during open session succeeded")
	}
}

func TestTableBuilder_ValidationLeavesAccumulatorUnchanged(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	b := NewTableBuilder(m)

	if err := b.NewTable("clean"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetID("id"); err != nil {
		t.Fatal(err)
	}

	// Each invalid call must be rejected without appending a fragment.
	if err := b.AddField("bad name", "TEXT", "", FieldOptions{}); err == nil {
		t.Error("AddField with invalid name succeeded")
	}
	if err := b.AddField("col", "GEOMETRY", "", FieldOptions{}); err == nil {
		t.Error("AddField with unsupported type succeeded")
	}
	if err := b.AddVarchar("v", 0, FieldOptions{}); err == nil {
		t.Error("AddVarchar with zero length succeeded")
	}
	if err := b.AddIndex(false); err == nil {
		t.Error("AddIndex with no columns succeeded")
	}
	if err := b.SetID("second"); err == nil {
		t.Error("second SetID succeeded")
	}

	if err := b.AddVarchar("name", 50, FieldOptions{}); err != nil {
		t.Fatalf("valid AddVarchar() error = %v", err)
	}
	if err := b.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}

	cols, err := m.ColumnNames(ctx, "clean")
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "name" {
		t.Errorf("columns = %v, want [id name] (no fragment from failed calls)", cols)
	}
}

func TestTableBuilder_SinglePrimaryKey(t *testing.T) {
	b := NewTableBuilder(newTestManager(t))

	if err := b.NewTable("t"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetPrimaryKey("a", "b"); err != nil {
		t.Fatalf("SetPrimaryKey() error = %v", err)
	}
	if err := b.SetPrimaryKey("c"); err == nil {
		t.Error("second SetPrimaryKey succeeded")
	}
	if err := b.SetID("id"); err == nil {
		t.Error("SetID after SetPrimaryKey succeeded")
	}
}

func TestTableBuilder_ForeignKey(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	b := NewTableBuilder(m)

	if err := b.NewTable("authors"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetID("id"); err != nil {
		t.Fatal(err)
	}
	if err := b.AddVarchar("name", 100, FieldOptions{NotNull: true}); err != nil {
		t.Fatal(err)
	}
	if err := b.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable(authors) error = %v", err)
	}

	if err := b.NewTable("books"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetID("id"); err != nil {
		t.Fatal(err)
	}
	if err := b.AddVarchar("title", 100, FieldOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := b.ReferenceTable("authors", ReferenceOptions{OnDelete: "CASCADE"}); err != nil {
		t.Fatalf("ReferenceTable() error = %v", err)
	}
	if err := b.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable(books) error = %v", err)
	}

	mustExec(t, m, "INSERT INTO authors (name) VALUES (?)", "someone")
	mustExec(t, m, "INSERT INTO books (title, authors_id) VALUES (?, ?)", "a book", 1)

	// FK enforcement: inserting a book for a missing author fails.
	if _, err := m.Exec(ctx, "INSERT INTO books (title, authors_id) VALUES (?, ?)", "ghost", 99); err == nil {
		t.Error("insert with dangling foreign key succeeded")
	}

	// ON DELETE CASCADE removes dependent rows.
	mustExec(t, m, "DELETE FROM authors WHERE id = ?", 1)
	n, err := m.GetVar(ctx, "SELECT COUNT(*) FROM books")
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(0) {
		t.Errorf("books after cascade delete = %v, want 0", n)
	}
}

func TestTableBuilder_ReferenceOptionsValidation(t *testing.T) {
	b := NewTableBuilder(newTestManager(t))

	if err := b.NewTable("t"); err != nil {
		t.Fatal(err)
	}
	if err := b.ReferenceTable("other", ReferenceOptions{OnDelete: "EXPLODE"}); err == nil {
		t.Error("invalid referential action accepted")
	}
	if err := b.ReferenceTable("bad name", ReferenceOptions{}); err == nil {
		t.Error("invalid referenced table name accepted")
	}
}

func TestTableBuilder_NoSession(t *testing.T) {
	b := NewTableBuilder(newTestManager(t))

	if err := b.AddVarchar("x", 10, FieldOptions{}); err == nil {
		t.Error("AddVarchar without session succeeded")
	}
	if err := b.CreateTable(context.Background()); err == nil {
		t.Error("CreateTable without session succeeded")
	}
	if err := b.UpdateTable(context.Background()); err == nil {
		t.Error("UpdateTable without session succeeded")
	}
}

func TestTableBuilder_AlterTable(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	b := NewTableBuilder(m)

	if err := b.NewTable("evolving"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetID("id"); err != nil {
		t.Fatal(err)
	}
	if err := b.CreateTable(ctx); err != nil {
		t.Fatal(err)
	}

	if err := b.AlterTable("evolving"); err != nil {
		t.Fatalf("AlterTable() error = %v", err)
	}
	if err := b.AddVarchar("label", 40, FieldOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := b.UpdateTable(ctx); err != nil {
		t.Fatalf("UpdateTable() error = %v", err)
	}

	cols, err := m.ColumnNames(ctx, "evolving")
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 2 || cols[1] != "label" {
		t.Errorf("columns after alter = %v", cols)
	}

	// SQLite cannot add foreign keys through ALTER TABLE.
	if err := b.AlterTable("evolving"); err != nil {
		t.Fatal(err)
	}
	if err := b.ReferenceTable("other", ReferenceOptions{}); err == nil {
		t.Error("ReferenceTable in sqlite alter session succeeded")
	}
	b.Abort()
}
