package updater

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/feed"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/feedcache"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/session"
)

type stubSessions struct {
	shops []string
	err   error
}

func (s *stubSessions) Get(context.Context, string) (*session.Session, error) {
	return nil, session.ErrShopNotFound
}
func (s *stubSessions) Save(context.Context, *session.Session) error { return nil }
func (s *stubSessions) Delete(context.Context, string) error         { return nil }
func (s *stubSessions) AllShops(context.Context) ([]string, error)   { return s.shops, s.err }

type recordingFeeds struct {
	mu        sync.Mutex
	refreshed []string // "shop/format"
	failFor   map[string]error
}

func (r *recordingFeeds) Generate(context.Context, feed.Request) (*feed.Result, error) {
	return nil, errors.New("not used by the updater")
}

func (r *recordingFeeds) Refresh(_ context.Context, shop, format string) (*feed.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failFor[shop]; ok {
		return nil, err
	}
	r.refreshed = append(r.refreshed, shop+"/"+format)
	return &feed.Result{Shop: shop, Format: format}, nil
}

func (r *recordingFeeds) ListCached(context.Context, string) ([]feedcache.Entry, error) {
	return nil, nil
}

func (r *recordingFeeds) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refreshed)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweepRefreshesEveryShopFormatPair(t *testing.T) {
	feeds := &recordingFeeds{}
	u := New(&stubSessions{shops: []string{"a.myshopify.com", "b.myshopify.com"}}, feeds, time.Second, testLogger())

	u.Sweep()

	want := 2 * len(feed.Implemented())
	assert.Equal(t, want, feeds.count())
}

func TestSweepFailuresDoNotAbort(t *testing.T) {
	feeds := &recordingFeeds{failFor: map[string]error{
		"broken.myshopify.com": errors.New("upstream down"),
	}}
	u := New(&stubSessions{shops: []string{"broken.myshopify.com", "healthy.myshopify.com"}}, feeds, time.Second, testLogger())

	u.Sweep()

	assert.Equal(t, len(feed.Implemented()), feeds.count(),
		"the healthy shop must be fully refreshed despite the broken one")
}

func TestSweepSkipsWhenAlreadyRunning(t *testing.T) {
	feeds := &recordingFeeds{}
	u := New(&stubSessions{shops: []string{"a.myshopify.com"}}, feeds, time.Second, testLogger())

	u.running.Store(true)
	u.Sweep()
	assert.Zero(t, feeds.count(), "an overlapping trigger is skipped, not queued")

	u.running.Store(false)
	u.Sweep()
	assert.Equal(t, len(feed.Implemented()), feeds.count())
}

func TestSweepAbortsWhenShopListingFails(t *testing.T) {
	feeds := &recordingFeeds{}
	u := New(&stubSessions{err: errors.New("database down")}, feeds, time.Second, testLogger())

	u.Sweep()
	assert.Zero(t, feeds.count())
	assert.False(t, u.running.Load(), "the guard must be released after an aborted sweep")
}

func TestRunNowRefreshesOneShop(t *testing.T) {
	feeds := &recordingFeeds{}
	u := New(&stubSessions{shops: []string{"a.myshopify.com", "b.myshopify.com"}}, feeds, time.Second, testLogger())

	u.RunNow("a.myshopify.com")

	assert.Equal(t, len(feed.Implemented()), feeds.count())
	feeds.mu.Lock()
	defer feeds.mu.Unlock()
	for _, pair := range feeds.refreshed {
		assert.Contains(t, pair, "a.myshopify.com/")
	}
}
