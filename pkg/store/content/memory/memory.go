// Package memory implements in-memory content storage.
//
// This file contains the store type, constructor and storage statistics.
package memory

import (
	"context"
	"sync"

	"github.com/marmos91/treepack/pkg/store/content"
)

// MemoryContentStore implements WritableContentStore using a map.
//
// Designed for tests, development and ephemeral runs. All data lives in RAM
// and is lost when the process exits.
//
// Thread Safety:
// All operations are protected by a sync.RWMutex. Data is copied on both
// write and read so caller-owned buffers never alias store state.
type MemoryContentStore struct {
	// data holds the content bytes keyed by ContentID
	data map[content.ContentID][]byte

	// mu protects concurrent access to data
	mu sync.RWMutex
}

// NewMemoryContentStore creates an empty in-memory content store.
func NewMemoryContentStore(ctx context.Context) (*MemoryContentStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &MemoryContentStore{
		data: make(map[content.ContentID][]byte),
	}, nil
}

// GetStorageStats returns statistics computed from the current map state.
//
// TotalSize and AvailableSize report unlimited (^uint64(0)) since the only
// real bound is available RAM.
func (s *MemoryContentStore) GetStorageStats(ctx context.Context) (*content.StorageStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	usedSize := uint64(0)
	for _, data := range s.data {
		usedSize += uint64(len(data))
	}

	contentCount := uint64(len(s.data))

	averageSize := uint64(0)
	if contentCount > 0 {
		averageSize = usedSize / contentCount
	}

	return &content.StorageStats{
		TotalSize:     ^uint64(0),
		UsedSize:      usedSize,
		AvailableSize: ^uint64(0),
		ContentCount:  contentCount,
		AverageSize:   averageSize,
	}, nil
}
