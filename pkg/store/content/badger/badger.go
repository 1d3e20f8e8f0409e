// Package badger implements content storage on BadgerDB, an embedded
// key-value store with WAL-based crash recovery.
//
// Suitable when content must survive restarts without an external service:
// single-binary deployments, local caches, test fixtures that persist.
package badger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/marmos91/treepack/pkg/store/content"
)

// BadgerContentStore implements WritableContentStore on a Badger database.
//
// Each content item is a single key-value pair keyed by the raw ContentID
// bytes. Badger keeps values in a log and large values out of the LSM tree,
// so multi-megabyte blobs are fine.
//
// Thread Safety:
// Badger transactions are safe for concurrent use. The store-level mutex
// only guards the closed flag.
type BadgerContentStore struct {
	db *badger.DB

	mu     sync.RWMutex
	closed bool
}

// BadgerContentStoreConfig contains configuration for the Badger store.
type BadgerContentStoreConfig struct {
	// DBPath is the directory holding the database files. Ignored when
	// InMemory is set.
	DBPath string

	// InMemory runs the database without touching disk. Data is lost on
	// Close. Useful for tests.
	InMemory bool
}

// NewBadgerContentStore opens (or creates) a Badger database for content.
func NewBadgerContentStore(ctx context.Context, config BadgerContentStoreConfig) (*BadgerContentStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var opts badger.Options
	if config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(config.DBPath)
	}

	// Content blobs are opaque; compression rarely pays for its CPU here
	opts = opts.WithLoggingLevel(badger.WARNING)
	opts = opts.WithCompression(options.None)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", config.DBPath, err)
	}

	return &BadgerContentStore{db: db}, nil
}

// Close releases the database. The store must not be used afterwards.
func (s *BadgerContentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

// guard checks the context and the closed flag before an operation.
func (s *BadgerContentStore) guard(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return content.ErrStoreClosed
	}
	return nil
}

// ReadContent returns a reader over a copy of the stored value.
//
// The copy is taken inside the transaction, so the reader is valid after
// the transaction ends and never aliases Badger's internal buffers.
func (s *BadgerContentStore) ReadContent(ctx context.Context, id content.ContentID) (io.ReadCloser, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
		}
		if err != nil {
			return fmt.Errorf("get content %s: %w", id, err)
		}

		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// GetContentSize returns the stored value's size without copying it.
func (s *BadgerContentStore) GetContentSize(ctx context.Context, id content.ContentID) (uint64, error) {
	if err := s.guard(ctx); err != nil {
		return 0, err
	}

	var size uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
		}
		if err != nil {
			return fmt.Errorf("get content %s: %w", id, err)
		}

		size = uint64(item.ValueSize())
		return nil
	})
	if err != nil {
		return 0, err
	}

	return size, nil
}

// ContentExists checks for the key without reading its value.
func (s *BadgerContentStore) ContentExists(ctx context.Context, id content.ContentID) (bool, error) {
	if err := s.guard(ctx); err != nil {
		return false, err
	}

	exists := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get content %s: %w", id, err)
		}

		exists = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}

// GetStorageStats scans the keyspace and sums value sizes.
//
// This iterates every key (values stay on disk), so cost grows with item
// count. Fine for the store sizes this backend targets.
func (s *BadgerContentStore) GetStorageStats(ctx context.Context) (*content.StorageStats, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	stats := &content.StorageStats{
		TotalSize:     ^uint64(0),
		AvailableSize: ^uint64(0),
	}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats.ContentCount++
			stats.UsedSize += uint64(it.Item().ValueSize())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stats.ContentCount > 0 {
		stats.AverageSize = stats.UsedSize / stats.ContentCount
	}

	return stats, nil
}

// WriteContent stores data under id in a single transaction.
func (s *BadgerContentStore) WriteContent(ctx context.Context, id content.ContentID, data []byte) error {
	if err := s.guard(ctx); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(id), data)
	})
	if err != nil {
		return fmt.Errorf("write content %s: %w", id, err)
	}

	return nil
}

// Delete removes the key. Deleting a missing id succeeds.
func (s *BadgerContentStore) Delete(ctx context.Context, id content.ContentID) error {
	if err := s.guard(ctx); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("delete content %s: %w", id, err)
	}

	return nil
}
