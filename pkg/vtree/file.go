package vtree

import (
	"context"
	"fmt"
)

// VirtualFile is a leaf node wrapping an opaque byte source.
//
// A file knows its name, declared byte count, content type and parent. The
// byte count is authoritative for the streaming protocol: it is what the
// metadata skeleton records, and what reconstruction slices out of the part
// stream. For a freshly wrapped source it equals the source's intrinsic
// size; after SetSource it equals the explicitly supplied count, which the
// tree trusts without validation (the source is a trust boundary).
type VirtualFile struct {
	nodeBase

	byteCount   uint64
	contentType string

	// source is the lazily materialized content handle. It is nil for a
	// skeleton file created during reconstruction before the writer has
	// supplied real bytes.
	source ByteSource
}

// NewFile creates a file wrapping an existing byte source. The declared
// byte count is taken from the source's intrinsic size.
func NewFile(name, contentType string, source ByteSource) *VirtualFile {
	f := &VirtualFile{
		nodeBase:    newNodeBase(name),
		contentType: contentType,
	}
	if source != nil {
		f.source = source
		f.byteCount = source.Size()
	}
	return f
}

// newSkeletonFile creates a content-less file for reconstruction. The byte
// count comes from metadata; the source is attached later via SetSource.
func newSkeletonFile(name string, byteCount uint64) *VirtualFile {
	return &VirtualFile{
		nodeBase:  newNodeBase(name),
		byteCount: byteCount,
	}
}

// ContentType returns the file's MIME type (may be empty).
func (f *VirtualFile) ContentType() string {
	return f.contentType
}

// SetContentType overwrites the file's MIME type.
func (f *VirtualFile) SetContentType(contentType string) {
	f.contentType = contentType
}

// ByteCount returns the declared content size.
//
// The context is accepted for interface symmetry with folders; the read
// itself performs no I/O.
func (f *VirtualFile) ByteCount(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return f.byteCount, nil
}

// Source returns the file's content handle without reading it.
//
// Cancellation is checked before returning. The handle is lazy: no bytes
// are read until the caller opens it. Returns ErrNoContent for a skeleton
// file that has not been materialized yet.
func (f *VirtualFile) Source(ctx context.Context) (ByteSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.source == nil {
		return nil, fmt.Errorf("file %q: %w", f.name, ErrNoContent)
	}
	return f.source, nil
}

// SetSource replaces the content handle and declared byte count.
//
// This is how reconstruction attaches real content to a skeleton file. The
// supplied byte count may legitimately differ from the stream's eventual
// length if the caller lies; that is not validated here. The source is
// probed with a single Open/Close so that an unusable collaborator is
// reported now, attached to this file's identity, instead of surfacing
// later in the middle of a stream.
//
// On any failure the file keeps its previous handle and count.
func (f *VirtualFile) SetSource(ctx context.Context, source ByteSource, byteCount uint64) error {
	// ========================================================================
	// Step 1: Check cancellation before touching the collaborator
	// ========================================================================

	if err := ctx.Err(); err != nil {
		return err
	}

	// ========================================================================
	// Step 2: Probe the source so failures carry this file's identity
	// ========================================================================

	rc, err := source.Open(ctx)
	if err != nil {
		return fmt.Errorf("file %q: open source: %w", f.name, err)
	}
	if err := rc.Close(); err != nil {
		return fmt.Errorf("file %q: close source probe: %w", f.name, err)
	}

	// ========================================================================
	// Step 3: Swap handle and count together
	// ========================================================================

	f.source = source
	f.byteCount = byteCount
	return nil
}

// Hash is a reserved extension point for streaming content hashing.
// It always returns ErrHashNotSupported.
func (f *VirtualFile) Hash(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("file %q: %w", f.name, ErrHashNotSupported)
}

// Metadata returns the file's content-free description.
func (f *VirtualFile) Metadata(ctx context.Context) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Metadata{
		Kind:      MetadataFile,
		Name:      f.name,
		ByteCount: f.byteCount,
	}, nil
}
