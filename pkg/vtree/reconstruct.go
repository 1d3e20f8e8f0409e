package vtree

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// FromParts rebuilds a live, byte-backed tree from a metadata skeleton and
// the part sequence a compatible producer emitted for it.
//
// The rebuild happens in two phases:
//
//  1. The whole skeleton is materialized content-free via FromMetadata,
//     preserving child order exactly as recorded.
//  2. The skeleton's files are walked in the canonical traversal order
//     (the same order Parts uses), and each file's declared byte count is
//     sliced off the front of an accumulating part buffer and handed to
//     the injected writer. The writer's ByteSource becomes the file's
//     content handle.
//
// Parts are pulled from the source only when the buffer cannot satisfy the
// current file, so memory stays bounded by one part plus one file's slack.
//
// Protocol violations are reported explicitly: a source exhausted before
// the tree's total byte count is satisfied fails with ErrTooFewParts, and
// residual data after the last file fails with ErrTooManyParts. In both
// cases the error identifies where the mismatch was detected and no partial
// tree is returned.
//
// The writer is the only external mutable resource touched here; it is
// invoked exactly once per file, strictly sequentially.
func FromParts(ctx context.Context, parts PartSource, meta *Metadata, write FileWriter) (*VirtualFolder, error) {
	// ========================================================================
	// Step 1: Materialize the content-free skeleton
	// ========================================================================

	root, err := FromMetadata(ctx, meta)
	if err != nil {
		return nil, err
	}

	files, paths, err := root.filesWithPaths(ctx)
	if err != nil {
		return nil, err
	}

	// ========================================================================
	// Step 2: Attach content file by file, slicing the part stream
	// ========================================================================

	var buf []byte

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		need := int(file.byteCount)

		// Pull parts until the buffer covers this file's declared size.
		for len(buf) < need {
			part, err := parts.Next(ctx)
			if err == io.EOF {
				return nil, fmt.Errorf("file %s needs %d more bytes: %w",
					paths[i], need-len(buf), ErrTooFewParts)
			}
			if err != nil {
				return nil, fmt.Errorf("file %s: pull part: %w", paths[i], err)
			}
			buf = append(buf, part...)
		}

		data := buf[:need:need]
		buf = buf[need:]

		// The path accumulator excludes the file's own name; the writer
		// receives the folder chain and the name separately.
		prefix := strings.Split(paths[i], "/")
		prefix = prefix[:len(prefix)-1]

		source, err := write(ctx, prefix, file.name, data)
		if err != nil {
			return nil, fmt.Errorf("file %s: write back: %w", paths[i], err)
		}

		if err := file.SetSource(ctx, source, uint64(need)); err != nil {
			return nil, err
		}
	}

	// ========================================================================
	// Step 3: Verify the sequence is fully consumed
	// ========================================================================

	if len(buf) > 0 {
		return nil, fmt.Errorf("%d residual buffered bytes: %w", len(buf), ErrTooManyParts)
	}

	if _, err := parts.Next(ctx); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("trailing part after last file: %w", ErrTooManyParts)
		}
		return nil, fmt.Errorf("drain part source: %w", err)
	}

	return root, nil
}
