package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/billing"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/feedcache"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/session"
)

type stubSessions struct {
	deleted []string
}

func (s *stubSessions) Get(context.Context, string) (*session.Session, error) {
	return nil, session.ErrShopNotFound
}
func (s *stubSessions) Save(context.Context, *session.Session) error { return nil }
func (s *stubSessions) AllShops(context.Context) ([]string, error)   { return nil, nil }

func (s *stubSessions) Delete(_ context.Context, shop string) error {
	s.deleted = append(s.deleted, shop)
	return nil
}

type stubSubs struct {
	deleted []string
}

func (s *stubSubs) GetByShop(context.Context, string) (*billing.Subscription, error) {
	return nil, billing.ErrNoSubscription
}
func (s *stubSubs) Save(context.Context, *billing.Subscription) error { return nil }

func (s *stubSubs) Delete(_ context.Context, shop string) error {
	s.deleted = append(s.deleted, shop)
	return nil
}

type stubRefresher struct {
	ran chan string
}

func (r *stubRefresher) RunNow(shop string) { r.ran <- shop }

type fixture struct {
	router    *chi.Mux
	cache     *feedcache.MemoryRepository
	sessions  *stubSessions
	subs      *stubSubs
	refresher *stubRefresher
}

func newFixture() *fixture {
	f := &fixture{
		router:    chi.NewRouter(),
		cache:     feedcache.NewMemoryRepository(),
		sessions:  &stubSessions{},
		subs:      &stubSubs{},
		refresher: &stubRefresher{ran: make(chan string, 1)},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	NewHandler(f.cache, f.sessions, f.subs, f.refresher, logger).RegisterRoutes(f.router)
	return f
}

func (f *fixture) post(path, shopHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if shopHeader != "" {
		req.Header.Set("X-Shopify-Shop-Domain", shopHeader)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func seedCache(t *testing.T, cache *feedcache.MemoryRepository, shop string) {
	t.Helper()
	require.NoError(t, cache.Put(context.Background(), &feedcache.Entry{
		Shop: shop, Format: "google-shopping", Content: "<rss/>",
	}))
}

func TestProductsUpdateInvalidatesCache(t *testing.T) {
	f := newFixture()
	seedCache(t, f.cache, "demo.myshopify.com")

	rec := f.post("/webhooks/products/update", "demo.myshopify.com")

	assert.Equal(t, http.StatusOK, rec.Code)
	_, err := f.cache.Get(context.Background(), "demo.myshopify.com", "google-shopping", 0)
	assert.ErrorIs(t, err, feedcache.ErrCacheMiss)
}

func TestProductsUpdateWithoutShopHeaderStillAcks(t *testing.T) {
	f := newFixture()
	rec := f.post("/webhooks/products/update", "")
	assert.Equal(t, http.StatusOK, rec.Code, "webhook deliveries are always acknowledged")
}

func TestAppUninstalledCleansUp(t *testing.T) {
	f := newFixture()
	seedCache(t, f.cache, "demo.myshopify.com")

	rec := f.post("/webhooks/app/uninstalled", "demo.myshopify.com")

	assert.Equal(t, http.StatusOK, rec.Code)
	_, err := f.cache.Get(context.Background(), "demo.myshopify.com", "google-shopping", 0)
	assert.ErrorIs(t, err, feedcache.ErrCacheMiss)
	assert.Equal(t, []string{"demo.myshopify.com"}, f.subs.deleted)
	assert.Equal(t, []string{"demo.myshopify.com"}, f.sessions.deleted)
}

func TestRegenerateRequiresShop(t *testing.T) {
	f := newFixture()
	rec := f.post("/admin/regenerate", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegenerateInvalidatesAndKicksRefresh(t *testing.T) {
	f := newFixture()
	seedCache(t, f.cache, "demo.myshopify.com")

	rec := f.post("/admin/regenerate?shop=demo.myshopify.com", "")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	_, err := f.cache.Get(context.Background(), "demo.myshopify.com", "google-shopping", 0)
	assert.ErrorIs(t, err, feedcache.ErrCacheMiss)

	select {
	case shop := <-f.refresher.ran:
		assert.Equal(t, "demo.myshopify.com", shop)
	case <-time.After(time.Second):
		t.Fatal("regenerate must kick a background refresh")
	}
}
