package feedcache

import (
	"errors"
	"time"
)

// ErrCacheMiss is returned when no entry exists for a key or the entry is
// older than the freshness window.
var ErrCacheMiss = errors.New("feed cache miss")

// DefaultMaxAge is the freshness window applied when callers pass zero.
const DefaultMaxAge = 6 * time.Hour

// Entry is one cached rendered feed. At most one live entry exists per
// (shop, format) pair; a Put replaces any prior entry.
type Entry struct {
	Shop          string    `json:"shop"`
	Format        string    `json:"format"`
	Content       string    `json:"content"`
	ProductsCount int       `json:"products_count"`
	VariantsCount int       `json:"variants_count"`
	CreatedAt     time.Time `json:"created_at"`
}
