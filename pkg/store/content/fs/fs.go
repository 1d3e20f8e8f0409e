// Package fs implements filesystem-based content storage.
//
// This file contains the store type, constructor and path mapping.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marmos91/treepack/pkg/store/content"
)

// FSContentStore implements WritableContentStore on the local filesystem.
//
// Content is stored in regular files under a base directory, using the
// ContentID directly as the relative path. IDs produced by the tree layer
// are slash-joined paths, so the directory layout under basePath mirrors
// the tree and stays human-inspectable.
//
// Thread Safety:
// Individual filesystem operations are safe at the OS level. Concurrent
// writes to the same ContentID can interleave; callers synchronize when
// that matters.
type FSContentStore struct {
	basePath string
}

// NewFSContentStore creates a filesystem-based content store rooted at
// basePath, creating the directory if needed.
func NewFSContentStore(ctx context.Context, basePath string) (*FSContentStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}

	return &FSContentStore{basePath: basePath}, nil
}

// getFilePath maps a ContentID to its location on disk.
//
// The ID is used as a relative path under basePath. IDs are produced by
// this module's own writers and are always slash-separated relative paths,
// so a plain join is sufficient.
func (s *FSContentStore) getFilePath(id content.ContentID) string {
	return filepath.Join(s.basePath, filepath.FromSlash(string(id)))
}

// GetStorageStats reports placeholder statistics.
//
// Accurate filesystem stats need platform-specific syscalls (statfs and
// friends) plus a directory walk for item counts. All fields are zero
// until that exists; callers treat zero as "unknown".
func (s *FSContentStore) GetStorageStats(ctx context.Context) (*content.StorageStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &content.StorageStats{}, nil
}
