// This file contains write operations for the memory content store.
package memory

import (
	"context"

	"github.com/marmos91/treepack/pkg/store/content"
)

// WriteContent stores data under id, replacing any existing content.
//
// The data is copied before it enters the map, so the caller's buffer can
// be reused immediately after the call returns.
func (s *MemoryContentStore) WriteContent(ctx context.Context, id content.ContentID, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[id] = dataCopy
	return nil
}

// Delete removes content from the store. Deleting a missing id succeeds.
func (s *MemoryContentStore) Delete(ctx context.Context, id content.ContentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, id)
	return nil
}
