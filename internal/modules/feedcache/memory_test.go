package feedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPutGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	entry := &Entry{
		Shop:          "demo.myshopify.com",
		Format:        "google-shopping",
		Content:       "<rss/>",
		ProductsCount: 3,
		VariantsCount: 7,
	}
	require.NoError(t, repo.Put(ctx, entry))
	assert.False(t, entry.CreatedAt.IsZero(), "Put stamps CreatedAt when unset")

	got, err := repo.Get(ctx, "demo.myshopify.com", "google-shopping", 0)
	require.NoError(t, err)
	assert.Equal(t, entry.Content, got.Content)
	assert.Equal(t, 3, got.ProductsCount)
	assert.Equal(t, 7, got.VariantsCount)
}

func TestMemoryGetMissOnUnknownKey(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Get(ctx, "demo.myshopify.com", "google-shopping", 0)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, repo.Put(ctx, &Entry{Shop: "demo.myshopify.com", Format: "google-shopping", Content: "x"}))
	_, err = repo.Get(ctx, "demo.myshopify.com", "ceneo", 0)
	assert.ErrorIs(t, err, ErrCacheMiss, "a different format is a different key")
	_, err = repo.Get(ctx, "other.myshopify.com", "google-shopping", 0)
	assert.ErrorIs(t, err, ErrCacheMiss, "a different shop is a different key")
}

func TestMemoryGetMissWhenStale(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.Put(ctx, &Entry{
		Shop:      "demo.myshopify.com",
		Format:    "google-shopping",
		Content:   "<rss/>",
		CreatedAt: time.Now().Add(-7 * time.Hour),
	}))

	_, err := repo.Get(ctx, "demo.myshopify.com", "google-shopping", 0)
	assert.ErrorIs(t, err, ErrCacheMiss, "entry older than the default window is stale")

	got, err := repo.Get(ctx, "demo.myshopify.com", "google-shopping", 8*time.Hour)
	require.NoError(t, err, "a wider window accepts the same entry")
	assert.Equal(t, "<rss/>", got.Content)
}

func TestMemoryPutReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.Put(ctx, &Entry{Shop: "s", Format: "f", Content: "old"}))
	require.NoError(t, repo.Put(ctx, &Entry{Shop: "s", Format: "f", Content: "new"}))

	got, err := repo.Get(ctx, "s", "f", 0)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)

	entries, err := repo.ListAll(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "Put is an upsert, not an append")
}

func TestMemoryInvalidate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.Put(ctx, &Entry{Shop: "a", Format: "google-shopping", Content: "x"}))
	require.NoError(t, repo.Put(ctx, &Entry{Shop: "a", Format: "ceneo", Content: "y"}))
	require.NoError(t, repo.Put(ctx, &Entry{Shop: "b", Format: "google-shopping", Content: "z"}))

	require.NoError(t, repo.Invalidate(ctx, "a"))

	_, err := repo.Get(ctx, "a", "google-shopping", 0)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = repo.Get(ctx, "a", "ceneo", 0)
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err := repo.Get(ctx, "b", "google-shopping", 0)
	require.NoError(t, err, "other shops are untouched")
	assert.Equal(t, "z", got.Content)
}

func TestMemoryListAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	now := time.Now()

	require.NoError(t, repo.Put(ctx, &Entry{Shop: "s", Format: "ceneo", Content: "1", CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, repo.Put(ctx, &Entry{Shop: "s", Format: "google-shopping", Content: "2", CreatedAt: now}))
	require.NoError(t, repo.Put(ctx, &Entry{Shop: "s", Format: "yandex-yml", Content: "3", CreatedAt: now.Add(-1 * time.Hour)}))
	require.NoError(t, repo.Put(ctx, &Entry{Shop: "other", Format: "ceneo", Content: "4", CreatedAt: now}))

	entries, err := repo.ListAll(ctx, "s")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "google-shopping", entries[0].Format)
	assert.Equal(t, "yandex-yml", entries[1].Format)
	assert.Equal(t, "ceneo", entries[2].Format)
}
