// Package vault stores database snapshot archives in a pluggable backend:
// local filesystem, in-memory (for tests), or S3.
package vault

import (
	"context"
	"io"
)

// Store persists named snapshot archives. All operations stream through
// io.Reader/io.Writer so large archives never need to fit in memory.
type Store interface {
	// PutSnapshot stores a snapshot under name, overwriting any previous
	// snapshot with the same name. size is the number of bytes that will
	// be read from r.
	PutSnapshot(ctx context.Context, name string, r io.Reader, size int64) error

	// GetSnapshot retrieves a snapshot by name and writes it to w.
	GetSnapshot(ctx context.Context, name string, w io.Writer) error

	// ListSnapshots returns the stored snapshot names in sorted order.
	ListSnapshots(ctx context.Context) ([]string, error)

	// DeleteSnapshot removes a snapshot. Deleting a missing snapshot is an
	// error.
	DeleteSnapshot(ctx context.Context, name string) error

	// ValidateSetup verifies that the store is accessible and properly
	// configured.
	ValidateSetup(ctx context.Context) error
}
