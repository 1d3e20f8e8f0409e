package content

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/marmos91/treepack/pkg/vtree"
)

// storeSource adapts stored content to the byte-source handle a file in a
// tree carries. Opening it reads through to the store every time, so the
// handle stays valid as long as the content does.
type storeSource struct {
	store ContentStore
	id    ContentID
	size  uint64
}

// NewStoreSource wraps the content stored under id as a vtree.ByteSource.
//
// The declared size is carried as given rather than looked up, so a handle
// can be built without touching storage. A size that disagrees with the
// stored bytes surfaces when the stream is consumed.
func NewStoreSource(store ContentStore, id ContentID, size uint64) vtree.ByteSource {
	return &storeSource{store: store, id: id, size: size}
}

func (s *storeSource) Size() uint64 {
	return s.size
}

func (s *storeSource) Open(ctx context.Context) (io.ReadCloser, error) {
	rc, err := s.store.ReadContent(ctx, s.id)
	if err != nil {
		return nil, fmt.Errorf("open content %s: %w", s.id, err)
	}
	return rc, nil
}

// NewStoreWriter returns a vtree.FileWriter that persists every file handed
// to it into store, keyed by the file's slash-joined tree path.
//
// This is the bridge between reconstruction and a real backend: handing the
// returned writer to vtree.FromParts materializes the rebuilt tree's bytes
// in the store, and the sources it returns read through to them.
func NewStoreWriter(store WritableContentStore) vtree.FileWriter {
	return func(ctx context.Context, pathPrefix []string, name string, data []byte) (vtree.ByteSource, error) {
		parts := append(append([]string{}, pathPrefix...), name)
		id := ContentID(strings.Join(parts, "/"))

		if err := store.WriteContent(ctx, id, data); err != nil {
			return nil, fmt.Errorf("persist %s: %w", id, err)
		}

		return NewStoreSource(store, id, uint64(len(data))), nil
	}
}
