package feedcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisNamespace = "feedbuilder:feedcache"

// Entries are kept well past the freshness window so a stale read can still
// be distinguished from a missing one; the window itself is enforced on Get.
const redisRetention = 48 * time.Hour

type redisRepo struct{ client *redis.Client }

// NewRedisRepository connects to redisURL and verifies the connection.
func NewRedisRepository(ctx context.Context, redisURL string) (Repository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisRepo{client: client}, nil
}

func entryKey(shop, format string) string {
	return fmt.Sprintf("%s:%s:%s", redisNamespace, shop, format)
}

func indexKey(shop string) string {
	return fmt.Sprintf("%s:index:%s", redisNamespace, shop)
}

func (r *redisRepo) Get(ctx context.Context, shop, format string, maxAge time.Duration) (*Entry, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	raw, err := r.client.Get(ctx, entryKey(shop, format)).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, err
	}
	if time.Since(e.CreatedAt) > maxAge {
		return nil, ErrCacheMiss
	}
	return &e, nil
}

func (r *redisRepo) Put(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, entryKey(e.Shop, e.Format), raw, redisRetention)
	pipe.SAdd(ctx, indexKey(e.Shop), e.Format)
	pipe.Expire(ctx, indexKey(e.Shop), redisRetention)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepo) Invalidate(ctx context.Context, shop string) error {
	formats, err := r.client.SMembers(ctx, indexKey(shop)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	keys := make([]string, 0, len(formats)+1)
	for _, f := range formats {
		keys = append(keys, entryKey(shop, f))
	}
	keys = append(keys, indexKey(shop))
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisRepo) ListAll(ctx context.Context, shop string) ([]Entry, error) {
	formats, err := r.client.SMembers(ctx, indexKey(shop)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	var entries []Entry
	for _, f := range formats {
		raw, err := r.client.Get(ctx, entryKey(shop, f)).Result()
		if err == redis.Nil {
			continue // expired underneath the index
		}
		if err != nil {
			return nil, err
		}
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
