package feedcache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is a thread-safe in-memory cache. It backs tests and
// serves as a degraded fallback when no persistent store is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]Entry // keyed by shop + "\x00" + format
}

// NewMemoryRepository returns an empty in-memory cache.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]Entry)}
}

func memKey(shop, format string) string { return shop + "\x00" + format }

func (r *MemoryRepository) Get(_ context.Context, shop, format string, maxAge time.Duration) (*Entry, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[memKey(shop, format)]
	if !ok || time.Since(e.CreatedAt) > maxAge {
		return nil, ErrCacheMiss
	}
	out := e
	return &out, nil
}

func (r *MemoryRepository) Put(_ context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[memKey(e.Shop, e.Format)] = *e
	return nil
}

func (r *MemoryRepository) Invalidate(_ context.Context, shop string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, e := range r.entries {
		if e.Shop == shop {
			delete(r.entries, key)
		}
	}
	return nil
}

func (r *MemoryRepository) ListAll(_ context.Context, shop string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []Entry
	for _, e := range r.entries {
		if e.Shop == shop {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
