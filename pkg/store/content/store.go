// Package content defines the storage abstraction file bytes live behind.
//
// A tree only holds handles; the actual bytes sit in a ContentStore keyed by
// an opaque ContentID. Implementations exist for memory, the local
// filesystem, S3-compatible object storage and Badger. The source.go glue
// adapts a store to the byte-source and writer collaborators the tree layer
// consumes, so any backend can feed part streaming or receive a
// reconstructed tree.
package content

import (
	"context"
	"io"
)

// ContentID is an opaque identifier for stored content.
//
// The format is implementation-defined. The glue in this package uses the
// slash-joined tree path of a file (e.g. "root/docs/report.pdf"), which is
// filesystem- and object-key-safe and keeps store contents inspectable.
// Callers must treat the ID as opaque.
type ContentID string

// ContentStore provides read access to stored content.
//
// Implementations must be safe for concurrent use. All operations check the
// context before touching storage; long reads should be consumed with
// periodic context checks by the caller.
type ContentStore interface {
	// ReadContent returns a reader over the content for id. The caller
	// closes the reader. Missing content fails with ErrContentNotFound.
	ReadContent(ctx context.Context, id ContentID) (io.ReadCloser, error)

	// GetContentSize returns the content's size in bytes without reading
	// the data. Missing content fails with ErrContentNotFound.
	GetContentSize(ctx context.Context, id ContentID) (uint64, error)

	// ContentExists reports whether content for id exists. A missing id is
	// (false, nil), not an error; errors are reserved for storage failures
	// and cancellation.
	ContentExists(ctx context.Context, id ContentID) (bool, error)

	// GetStorageStats returns capacity and usage information. Backends
	// that cannot answer a field cheaply set it to zero.
	GetStorageStats(ctx context.Context) (*StorageStats, error)
}

// WritableContentStore extends ContentStore with mutation.
//
// Concurrent writes to the same ContentID are last-write-wins at best;
// callers needing stronger guarantees synchronize externally.
type WritableContentStore interface {
	ContentStore

	// WriteContent stores data under id, replacing any existing content.
	WriteContent(ctx context.Context, id ContentID, data []byte) error

	// Delete removes the content for id. Deleting a missing id succeeds,
	// which keeps retries and concurrent cleanup simple.
	Delete(ctx context.Context, id ContentID) error
}

// StorageStats describes a store's capacity and usage.
//
// Unlimited backends report ^uint64(0) for TotalSize and AvailableSize;
// backends that would need a scan to answer report zero.
type StorageStats struct {
	// TotalSize is the total capacity in bytes.
	TotalSize uint64

	// UsedSize is the space consumed by stored content in bytes.
	UsedSize uint64

	// AvailableSize is the remaining space in bytes.
	AvailableSize uint64

	// ContentCount is the number of stored items.
	ContentCount uint64

	// AverageSize is UsedSize / ContentCount, zero when empty.
	AverageSize uint64
}
