package vtree

import (
	"context"
	"fmt"
	"io"
)

// readChunkSize is the granularity of reads against a file's byte stream.
// Source chunk boundaries never influence part boundaries: incoming chunks
// are re-split at exact part-size offsets regardless of how reads fall.
const readChunkSize = 32 * 1024

// PartSource is an ordered sequence of binary parts.
//
// Next returns the next part, or io.EOF when the sequence is cleanly
// exhausted. A cancelled context surfaces as the context's error. Both
// PartIterator (the producing side) and transport readers implement this,
// which is what lets FromParts consume either directly.
type PartSource interface {
	Next(ctx context.Context) ([]byte, error)
}

// PartIterator streams a folder subtree's aggregate content as parts.
//
// Every yielded part has length exactly maxBytesPerPart except possibly the
// final one, and the concatenation of all parts in yield order equals the
// concatenation of all descendant file contents in canonical traversal
// order, with no byte lost, duplicated or reordered. Memory stays bounded
// by one part plus one read chunk regardless of tree size.
//
// The iterator is single-pass and not safe for concurrent use. On
// cancellation it stops promptly; on any error the iterator is dead and
// further Next calls return the same error.
type PartIterator struct {
	maxBytes uint64

	// files is the remaining traversal, canonical order. paths are kept
	// alongside purely for error reporting.
	files []*VirtualFile
	paths []string

	// current is the open stream of files[0]'s predecessor chain; nil
	// between files.
	current io.ReadCloser
	// currentPath identifies the open stream in error messages.
	currentPath string

	// pending accumulates raw byte pieces for the part under assembly;
	// pendingSize is their total length, always < maxBytes between calls.
	pending     [][]byte
	pendingSize uint64

	// carry holds the overflow remainder of a read chunk that crossed a
	// part boundary; it is consumed before any further stream reads.
	carry []byte

	done bool
	err  error
}

// Parts returns an iterator over the subtree's content split into parts of
// at most maxBytesPerPart bytes.
//
// The traversal snapshot is taken here: structural mutations made after
// this call are not observed by the iterator. An empty subtree (no files,
// or only zero-byte files) yields no parts at all.
func (f *VirtualFolder) Parts(ctx context.Context, maxBytesPerPart uint64) (*PartIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxBytesPerPart == 0 {
		return nil, ErrInvalidPartSize
	}

	files, paths, err := f.filesWithPaths(ctx)
	if err != nil {
		return nil, err
	}

	return &PartIterator{
		maxBytes: maxBytesPerPart,
		files:    files,
		paths:    paths,
	}, nil
}

// filesWithPaths collects the subtree's files in canonical traversal order
// together with their slash-joined paths (ancestor folder names included,
// root first). FromParts performs the identical walk on the reconstructed
// skeleton; keeping both sides on this one ordering is what makes the
// protocol round-trip.
func (f *VirtualFolder) filesWithPaths(ctx context.Context) ([]*VirtualFile, []string, error) {
	var files []*VirtualFile
	var paths []string

	type frame struct {
		folder *VirtualFolder
		path   string
	}

	queue := []frame{{folder: f, path: f.name}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		current := queue[0]
		queue = queue[1:]

		for _, child := range current.folder.children {
			switch c := child.(type) {
			case *VirtualFile:
				files = append(files, c)
				paths = append(paths, current.path+"/"+c.name)
			case *VirtualFolder:
				queue = append(queue, frame{folder: c, path: current.path + "/" + c.name})
			}
		}
	}
	return files, paths, nil
}

// Next assembles and returns the next part, or io.EOF after the final one.
//
// Cancellation is checked on entry and before every stream acquisition and
// read; a cancelled iteration surfaces the context's error and leaves the
// iterator unusable.
func (it *PartIterator) Next(ctx context.Context) ([]byte, error) {
	if it.err != nil {
		return nil, it.err
	}
	if it.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, it.fail(err)
	}

	for {
		// ====================================================================
		// Step 1: Drain any carried overflow from the previous boundary
		// ====================================================================

		if len(it.carry) > 0 {
			if part := it.absorb(it.carry); part != nil {
				return part, nil
			}
			it.carry = nil
		}

		// ====================================================================
		// Step 2: Ensure a stream is open for the current file
		// ====================================================================

		if it.current == nil {
			if len(it.files) == 0 {
				// All files exhausted: flush the undersized tail, if any.
				it.done = true
				if it.pendingSize > 0 {
					return it.flush(), nil
				}
				return nil, io.EOF
			}

			if err := ctx.Err(); err != nil {
				return nil, it.fail(err)
			}

			file := it.files[0]
			path := it.paths[0]
			it.files = it.files[1:]
			it.paths = it.paths[1:]

			source, err := file.Source(ctx)
			if err != nil {
				return nil, it.fail(fmt.Errorf("stream %s: %w", path, err))
			}
			rc, err := source.Open(ctx)
			if err != nil {
				return nil, it.fail(fmt.Errorf("stream %s: %w", path, err))
			}
			it.current = rc
			it.currentPath = path
		}

		// ====================================================================
		// Step 3: Read one chunk and fold it into the pending part
		// ====================================================================

		if err := ctx.Err(); err != nil {
			return nil, it.fail(err)
		}

		buf := make([]byte, readChunkSize)
		n, err := it.current.Read(buf)

		if n > 0 {
			if part := it.absorb(buf[:n]); part != nil {
				return part, nil
			}
		}

		if err == io.EOF {
			if cerr := it.current.Close(); cerr != nil {
				return nil, it.fail(fmt.Errorf("stream %s: close: %w", it.currentPath, cerr))
			}
			it.current = nil
			continue
		}
		if err != nil {
			it.current.Close()
			return nil, it.fail(fmt.Errorf("stream %s: read: %w", it.currentPath, err))
		}
	}
}

// absorb folds chunk into the pending buffer. When the running size reaches
// or exceeds the part boundary, the chunk is split at the exact offset, the
// completed part is returned, and the remainder is carried into the next
// part's buffer. Returns nil while the part is still under-full.
func (it *PartIterator) absorb(chunk []byte) []byte {
	if it.pendingSize+uint64(len(chunk)) < it.maxBytes {
		owned := make([]byte, len(chunk))
		copy(owned, chunk)
		it.pending = append(it.pending, owned)
		it.pendingSize += uint64(len(chunk))
		return nil
	}

	// Exact-boundary split: take just enough to complete the part and
	// carry the rest.
	need := it.maxBytes - it.pendingSize
	head := make([]byte, need)
	copy(head, chunk[:need])
	it.pending = append(it.pending, head)
	it.pendingSize += need

	rest := chunk[need:]
	if len(rest) > 0 {
		owned := make([]byte, len(rest))
		copy(owned, rest)
		it.carry = owned
	} else {
		it.carry = nil
	}

	return it.flush()
}

// flush concatenates the pending pieces into one part and resets the buffer.
func (it *PartIterator) flush() []byte {
	part := make([]byte, 0, it.pendingSize)
	for _, piece := range it.pending {
		part = append(part, piece...)
	}
	it.pending = nil
	it.pendingSize = 0
	return part
}

// fail closes any open stream and latches the iterator into the error state.
func (it *PartIterator) fail(err error) error {
	if it.current != nil {
		it.current.Close()
		it.current = nil
	}
	it.err = err
	return err
}
