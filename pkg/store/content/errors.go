package content

import "errors"

// Implementations wrap these sentinels with the offending ContentID:
//
//	return fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
//
// so callers can both errors.Is on the condition and log the full chain.

var (
	// ErrContentNotFound indicates the requested content does not exist.
	// Returned by ReadContent and GetContentSize; ContentExists reports a
	// missing id as (false, nil) instead.
	ErrContentNotFound = errors.New("content not found")

	// ErrStoreClosed indicates an operation was attempted after Close.
	// Only backends holding real resources (Badger, file descriptors)
	// return it; map-backed stores have nothing to close.
	ErrStoreClosed = errors.New("content store closed")
)
