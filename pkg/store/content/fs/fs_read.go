// This file contains read operations for the filesystem content store.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/marmos91/treepack/pkg/store/content"
)

// ReadContent opens the backing file for sequential reading.
//
// The returned file is independent of the context; a caller that needs
// responsive cancellation closes the reader itself.
func (s *FSContentStore) ReadContent(ctx context.Context, id content.ContentID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.getFilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
		}
		return nil, fmt.Errorf("open content %s: %w", id, err)
	}

	return file, nil
}

// GetContentSize stats the backing file without opening it.
func (s *FSContentStore) GetContentSize(ctx context.Context, id content.ContentID) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := os.Stat(s.getFilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
		}
		return 0, fmt.Errorf("stat content %s: %w", id, err)
	}

	return uint64(info.Size()), nil
}

// ContentExists checks for the backing file.
func (s *FSContentStore) ContentExists(ctx context.Context, id content.ContentID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(s.getFilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat content %s: %w", id, err)
	}

	return true, nil
}
