package vault

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemStore(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		tmpDir := t.TempDir()
		root := filepath.Join(tmpDir, "vault")

		v, err := NewFileSystemStore("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "snapshots")); err != nil {
			t.Errorf("snapshots directory not created: %v", err)
		}
		if v.name != "test" {
			t.Errorf("name = %q, want %q", v.name, "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		if _, err := NewFileSystemStore("test", tmpDir); err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
	})
}

func TestFileSystemStore_PutAndGetSnapshot(t *testing.T) {
	store, err := NewFileSystemStore("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	ctx := context.Background()
	content := "archive payload"

	if err := store.PutSnapshot(ctx, "snap-1", strings.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("PutSnapshot() error: %v", err)
	}

	var buf bytes.Buffer
	if err := store.GetSnapshot(ctx, "snap-1", &buf); err != nil {
		t.Fatalf("GetSnapshot() error: %v", err)
	}
	if buf.String() != content {
		t.Errorf("GetSnapshot() = %q, want %q", buf.String(), content)
	}
}

func TestFileSystemStore_PutSnapshotSizeMismatch(t *testing.T) {
	store, err := NewFileSystemStore("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	ctx := context.Background()

	if err := store.PutSnapshot(ctx, "bad", strings.NewReader("short"), 100); err == nil {
		t.Fatal("PutSnapshot() expected size mismatch error")
	}

	// The failed write must not leave a snapshot or temp file behind.
	names, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("ListSnapshots() = %v, want empty", names)
	}
	entries, err := os.ReadDir(store.snapshotDir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("snapshot directory not empty after failed put: %v", entries)
	}
}

func TestFileSystemStore_RejectsBadNames(t *testing.T) {
	store, err := NewFileSystemStore("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	ctx := context.Background()

	for _, name := range []string{"", "a/b", `a\b`, "../escape"} {
		if err := store.PutSnapshot(ctx, name, strings.NewReader("x"), 1); err == nil {
			t.Errorf("PutSnapshot(%q) expected error", name)
		}
	}
}

func TestFileSystemStore_ListAndDelete(t *testing.T) {
	store, err := NewFileSystemStore("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	ctx := context.Background()

	for _, name := range []string{"b-snap", "a-snap"} {
		if err := store.PutSnapshot(ctx, name, strings.NewReader("x"), 1); err != nil {
			t.Fatalf("PutSnapshot(%s) error: %v", name, err)
		}
	}

	names, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots() error: %v", err)
	}
	if len(names) != 2 || names[0] != "a-snap" || names[1] != "b-snap" {
		t.Errorf("ListSnapshots() = %v, want sorted [a-snap b-snap]", names)
	}

	if err := store.DeleteSnapshot(ctx, "a-snap"); err != nil {
		t.Fatalf("DeleteSnapshot() error: %v", err)
	}
	if err := store.DeleteSnapshot(ctx, "a-snap"); err == nil {
		t.Fatal("DeleteSnapshot() expected error for missing snapshot")
	}
}

func TestFileSystemStore_ValidateSetup(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileSystemStore("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	ctx := context.Background()

	if err := store.ValidateSetup(ctx); err != nil {
		t.Errorf("ValidateSetup() error: %v", err)
	}

	if err := os.RemoveAll(filepath.Join(root, "snapshots")); err != nil {
		t.Fatalf("RemoveAll() error: %v", err)
	}
	if err := store.ValidateSetup(ctx); err == nil {
		t.Error("ValidateSetup() expected error after removing snapshot directory")
	}
}
