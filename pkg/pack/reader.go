package pack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	xdr "github.com/rasky/go-xdr/xdr2"

	"github.com/marmos91/treepack/pkg/vtree"
)

// Reader decodes a pack stream produced by Pack.
//
// The header is consumed eagerly by NewReader so the skeleton and part size
// are available before any parts are pulled. Next satisfies
// vtree.PartSource, so a Reader can be handed directly to vtree.FromParts.
type Reader struct {
	r        io.Reader
	partSize uint64
	skeleton *vtree.Metadata
	done     bool
}

// NewReader reads and validates the container header from r.
func NewReader(r io.Reader) (*Reader, error) {
	var hdr header
	if _, err := xdr.Unmarshal(r, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if hdr.Magic != Magic {
		return nil, fmt.Errorf("magic 0x%08X: %w", hdr.Magic, ErrBadMagic)
	}
	if hdr.Version != Version {
		return nil, fmt.Errorf("version %d: %w", hdr.Version, ErrUnsupportedVersion)
	}
	if hdr.PartSize == 0 {
		return nil, fmt.Errorf("zero part size: %w", ErrBadHeader)
	}

	meta := &vtree.Metadata{}
	if err := json.Unmarshal(hdr.Skeleton, meta); err != nil {
		return nil, fmt.Errorf("decode skeleton: %w", err)
	}

	return &Reader{r: r, partSize: hdr.PartSize, skeleton: meta}, nil
}

// Skeleton returns the metadata tree recorded in the header.
func (r *Reader) Skeleton() *vtree.Metadata {
	return r.skeleton
}

// PartSize returns the part size the producer declared.
func (r *Reader) PartSize() uint64 {
	return r.partSize
}

// Next returns the next content part, or io.EOF once the terminator frame
// has been read. Reading past the terminator keeps returning io.EOF.
func (r *Reader) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.done {
		return nil, io.EOF
	}

	var f frame
	if _, err := xdr.Unmarshal(r.r, &f); err != nil {
		return nil, fmt.Errorf("read part: %w", err)
	}

	if len(f.Data) == 0 {
		r.done = true
		return nil, io.EOF
	}

	return f.Data, nil
}

// Unpack reads an entire pack stream from r and rebuilds the live tree,
// handing each file's bytes to write.
func Unpack(ctx context.Context, r io.Reader, write vtree.FileWriter) (*vtree.VirtualFolder, error) {
	pr, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	return vtree.FromParts(ctx, pr, pr.Skeleton(), write)
}
