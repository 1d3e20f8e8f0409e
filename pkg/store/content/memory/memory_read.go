// This file contains read operations for the memory content store.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/marmos91/treepack/pkg/store/content"
)

// ReadContent returns a reader for the content identified by the given ID.
//
// The reader operates on a copy of the stored bytes, so later writes to the
// same ID cannot race with an in-flight read.
func (s *MemoryContentStore) ReadContent(ctx context.Context, id content.ContentID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.data[id]
	if !exists {
		return nil, fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	return io.NopCloser(bytes.NewReader(dataCopy)), nil
}

// GetContentSize returns the size of the content in bytes.
func (s *MemoryContentStore) GetContentSize(ctx context.Context, id content.ContentID) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.data[id]
	if !exists {
		return 0, fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
	}

	return uint64(len(data)), nil
}

// ContentExists checks if content with the given ID exists.
func (s *MemoryContentStore) ContentExists(ctx context.Context, id content.ContentID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.data[id]
	return exists, nil
}
