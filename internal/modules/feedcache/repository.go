package feedcache

import (
	"context"
	"time"
)

// Repository defines feed cache storage. Implementations must make Put an
// atomic upsert per (shop, format) key; concurrent writers race and last
// write wins, which is acceptable because feeds are idempotently
// regenerable.
type Repository interface {
	// Get returns the entry for (shop, format) if it is younger than
	// maxAge (zero means DefaultMaxAge); otherwise ErrCacheMiss.
	Get(ctx context.Context, shop, format string, maxAge time.Duration) (*Entry, error)
	// Put upserts the entry, replacing any prior one for its key.
	Put(ctx context.Context, e *Entry) error
	// Invalidate deletes every entry for the shop.
	Invalidate(ctx context.Context, shop string) error
	// ListAll returns the shop's entries, newest first.
	ListAll(ctx context.Context, shop string) ([]Entry, error)
}
