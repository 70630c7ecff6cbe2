package vault

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSystemStore is a filesystem-based implementation of the Store
// interface. Snapshots live as individual files:
//
//	<root>/
//	  snapshots/
//	    <name>
type FileSystemStore struct {
	name        string
	root        string
	snapshotDir string
}

var _ Store = (*FileSystemStore)(nil)

// NewFileSystemStore creates a new filesystem store rooted at the given path.
func NewFileSystemStore(name, root string) (*FileSystemStore, error) {
	snapshotDir := filepath.Join(root, "snapshots")
	if err := os.MkdirAll(snapshotDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileSystemStore{
		name:        name,
		root:        root,
		snapshotDir: snapshotDir,
	}, nil
}

func (v *FileSystemStore) snapshotPath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("invalid snapshot name %q", name)
	}
	return filepath.Join(v.snapshotDir, name), nil
}

// PutSnapshot stores a snapshot atomically: the data lands in a temp file
// which is renamed into place only after the size check passes.
func (v *FileSystemStore) PutSnapshot(_ context.Context, name string, r io.Reader, size int64) error {
	destPath, err := v.snapshotPath(name)
	if err != nil {
		return err
	}
	return v.writeFile(destPath, r, size)
}

func (v *FileSystemStore) GetSnapshot(_ context.Context, name string, w io.Writer) error {
	srcPath, err := v.snapshotPath(name)
	if err != nil {
		return err
	}

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("snapshot not found: %s", name)
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	return nil
}

func (v *FileSystemStore) ListSnapshots(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(v.snapshotDir)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (v *FileSystemStore) DeleteSnapshot(_ context.Context, name string) error {
	path, err := v.snapshotPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("snapshot not found: %s", name)
		}
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the store directories are accessible.
func (v *FileSystemStore) ValidateSetup(context.Context) error {
	for _, dir := range []string{v.root, v.snapshotDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("store directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write
// (temp file + rename).
func (v *FileSystemStore) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
