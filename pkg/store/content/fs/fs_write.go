// This file contains write operations for the filesystem content store.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marmos91/treepack/pkg/store/content"
)

// WriteContent stores data under id, creating parent directories as needed.
//
// The write goes through a temp file in the same directory followed by a
// rename, so readers never observe a half-written file.
func (s *FSContentStore) WriteContent(ctx context.Context, id content.ContentID, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.getFilePath(id)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".write-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", id, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write content %s: %w", id, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file for %s: %w", id, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit content %s: %w", id, err)
	}

	return nil
}

// Delete removes the backing file. Deleting a missing id succeeds.
//
// Parent directories left empty by the deletion are kept; they cost
// nothing and removing them would race with concurrent writes.
func (s *FSContentStore) Delete(ctx context.Context, id content.ContentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.getFilePath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete content %s: %w", id, err)
	}

	return nil
}
