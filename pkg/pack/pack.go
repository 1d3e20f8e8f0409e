// Package pack serializes a virtual tree into a single self-describing
// container stream and reads it back.
//
// The container is XDR-framed (RFC 4506): a fixed header carrying the magic
// number, format version, part size and the JSON-encoded metadata skeleton,
// followed by the tree's content parts as variable-length opaques, terminated
// by a single zero-length opaque. Parts are never empty, so the terminator is
// unambiguous.
package pack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	xdr "github.com/rasky/go-xdr/xdr2"

	"github.com/marmos91/treepack/pkg/vtree"
)

const (
	// Magic spells "TPK1" in big-endian ASCII.
	Magic uint32 = 0x54504B31

	// Version is the current container format version.
	Version uint32 = 1
)

// header is the XDR-encoded preamble of every pack stream.
type header struct {
	Magic    uint32
	Version  uint32
	PartSize uint64
	Skeleton []byte
}

// frame wraps one content part as an XDR opaque. A zero-length Data marks
// the end of the part sequence.
type frame struct {
	Data []byte
}

// Pack writes root and its content to w as a single container stream,
// splitting the content into parts of at most partSize bytes.
//
// The skeleton is captured before any content is read, so a tree mutated
// concurrently with Pack produces an undefined stream; callers own that
// synchronization.
func Pack(ctx context.Context, w io.Writer, root *vtree.VirtualFolder, partSize uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// ========================================================================
	// Step 1: Snapshot the skeleton and write the header
	// ========================================================================

	meta, err := root.Metadata(ctx)
	if err != nil {
		return fmt.Errorf("capture skeleton: %w", err)
	}

	skeleton, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode skeleton: %w", err)
	}

	hdr := header{
		Magic:    Magic,
		Version:  Version,
		PartSize: partSize,
		Skeleton: skeleton,
	}

	if _, err := xdr.Marshal(w, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// ========================================================================
	// Step 2: Stream the parts
	// ========================================================================

	parts, err := root.Parts(ctx, partSize)
	if err != nil {
		return err
	}

	for {
		part, err := parts.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("next part: %w", err)
		}

		if _, err := xdr.Marshal(w, &frame{Data: part}); err != nil {
			return fmt.Errorf("write part: %w", err)
		}
	}

	// ========================================================================
	// Step 3: Terminate the sequence
	// ========================================================================

	if _, err := xdr.Marshal(w, &frame{}); err != nil {
		return fmt.Errorf("write terminator: %w", err)
	}

	return nil
}
