package vtree

import (
	"bytes"
	"context"
	"io"
)

// ============================================================================
// Byte Source Contract
// ============================================================================

// ByteSource supplies the content of a single file.
//
// This is the narrow contract between the tree and whatever actually holds
// bytes (memory, local disk, object storage, a remote peer). The tree never
// assumes a particular medium: it only needs an intrinsic length and a way
// to obtain a single-pass readable stream.
//
// Implementations must be safe to Open more than once; each Open returns an
// independent reader positioned at the start of the content.
type ByteSource interface {
	// Size returns the intrinsic byte length of the content.
	Size() uint64

	// Open returns a single-pass reader over the content.
	//
	// The context is checked before any I/O is started. The caller owns
	// the returned reader and must close it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileWriter persists the content of one reconstructed file.
//
// FromParts invokes it exactly once per file, strictly sequentially and in
// traversal order. pathPrefix holds the names of the folders from the root
// down to (and including) the file's parent; name is the file's own name.
// The returned ByteSource becomes the file's content handle, so it must
// serve back exactly the bytes it was handed. The data slice is only valid
// for the duration of the call; a writer that retains bytes must copy them.
type FileWriter func(ctx context.Context, pathPrefix []string, name string, data []byte) (ByteSource, error)

// ============================================================================
// In-Memory Source
// ============================================================================

// BytesSource is a ByteSource over an in-memory byte slice.
//
// The slice is not copied; callers must not mutate it after handing it to
// the tree. Useful for tests, small files, and as the write-back handle of
// memory-backed reconstruction.
type BytesSource struct {
	data []byte
}

// NewBytesSource wraps data in a ByteSource.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

// Size returns the length of the wrapped slice.
func (s *BytesSource) Size() uint64 {
	return uint64(len(s.data))
}

// Open returns a reader over the wrapped slice.
func (s *BytesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

// MemoryWriter returns a FileWriter that keeps reconstructed content in
// memory. Each file's bytes are copied into a fresh slice, so the part
// buffer handed in by FromParts is never aliased.
func MemoryWriter() FileWriter {
	return func(ctx context.Context, _ []string, _ string, data []byte) (ByteSource, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		owned := make([]byte, len(data))
		copy(owned, data)
		return NewBytesSource(owned), nil
	}
}
