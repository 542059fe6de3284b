package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/billing"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/catalog"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/feedcache"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/session"
)

// Service is the feed generation entry point.
type Service interface {
	// Generate runs the full request path: credentials, subscription, live
	// catalog fetch, plan gate, cache, render, write-through.
	Generate(ctx context.Context, req Request) (*Result, error)
	// Refresh regenerates one (shop, format) unconditionally and writes the
	// cache. Used by the background updater and manual regeneration.
	Refresh(ctx context.Context, shop, format string) (*Result, error)
	// ListCached returns the shop's cache entries, newest first.
	ListCached(ctx context.Context, shop string) ([]feedcache.Entry, error)
}

type service struct {
	sessions session.Repository
	subs     billing.Repository
	source   catalog.Source
	cache    feedcache.Repository
	maxAge   time.Duration
	logger   *slog.Logger
}

// NewService wires the orchestrator. maxAge zero means the default
// freshness window.
func NewService(sessions session.Repository, subs billing.Repository, source catalog.Source, cache feedcache.Repository, maxAge time.Duration, logger *slog.Logger) Service {
	return &service{
		sessions: sessions,
		subs:     subs,
		source:   source,
		cache:    cache,
		maxAge:   maxAge,
		logger:   logger,
	}
}

func (s *service) Generate(ctx context.Context, req Request) (*Result, error) {
	sess, err := s.sessions.Get(ctx, req.Shop)
	if err != nil {
		return nil, err
	}
	sub, err := s.subs.GetByShop(ctx, req.Shop)
	if err != nil {
		return nil, err
	}

	// The catalog is fetched before the cache lookup so the plan gate
	// always sees the live product count, never a stale cached one.
	products, err := s.fetchCatalog(ctx, req.Shop, sess.AccessToken)
	if err != nil {
		return nil, err
	}

	plan, ok := billing.Plans[sub.PlanName]
	if !ok {
		plan = billing.Plans[billing.PlanFree]
	}
	if err := billing.Check(plan, req.Format, len(products)); err != nil {
		return nil, err
	}

	if !req.ForceRefresh {
		entry, err := s.cache.Get(ctx, req.Shop, req.Format, s.maxAge)
		if err == nil {
			s.logger.Info("feed served from cache",
				"shop", req.Shop, "format", req.Format,
				"age", time.Since(entry.CreatedAt).Round(time.Second))
			return &Result{
				Shop:          entry.Shop,
				Format:        entry.Format,
				Content:       entry.Content,
				ProductsCount: entry.ProductsCount,
				VariantsCount: entry.VariantsCount,
				GeneratedAt:   entry.CreatedAt,
				FromCache:     true,
			}, nil
		}
		if !errors.Is(err, feedcache.ErrCacheMiss) {
			// Cache is an optimization, not a correctness dependency;
			// a broken store degrades to regenerate-and-serve.
			s.logger.Warn("cache read failed, regenerating",
				"shop", req.Shop, "format", req.Format, "error", err)
		}
	}

	return s.render(ctx, req, products)
}

func (s *service) Refresh(ctx context.Context, shop, format string) (*Result, error) {
	sess, err := s.sessions.Get(ctx, shop)
	if err != nil {
		return nil, err
	}
	products, err := s.fetchCatalog(ctx, shop, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	req := Request{
		Shop:            shop,
		Format:          format,
		Title:           fmt.Sprintf("%s Product Feed", shop),
		Currency:        "USD",
		FilterByStatus:  true,
		IncludeVariants: true,
	}
	return s.render(ctx, req, products)
}

func (s *service) ListCached(ctx context.Context, shop string) ([]feedcache.Entry, error) {
	return s.cache.ListAll(ctx, shop)
}

func (s *service) fetchCatalog(ctx context.Context, shop, token string) ([]catalog.Product, error) {
	pages, err := s.source.FetchAll(ctx, shop, token)
	if err != nil {
		return nil, err
	}
	return catalog.Normalize(pages)
}

// render runs the pure renderer and writes through to the cache. A render
// failure produces no cache write; a cache write failure still serves the
// fresh content.
func (s *service) render(ctx context.Context, req Request, products []catalog.Product) (*Result, error) {
	renderFeed, err := Resolve(req.Format)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	content, productsCount, variantsCount, err := renderFeed(products, req)
	if err != nil {
		return nil, fmt.Errorf("render %s for %s: %w", req.Format, req.Shop, err)
	}

	entry := &feedcache.Entry{
		Shop:          req.Shop,
		Format:        req.Format,
		Content:       content,
		ProductsCount: productsCount,
		VariantsCount: variantsCount,
		CreatedAt:     time.Now(),
	}
	if err := s.cache.Put(ctx, entry); err != nil {
		s.logger.Error("cache write failed",
			"shop", req.Shop, "format", req.Format, "error", err)
	}

	s.logger.Info("feed generated",
		"shop", req.Shop, "format", req.Format,
		"products", productsCount, "variants", variantsCount,
		"duration", time.Since(started).Round(time.Millisecond))

	return &Result{
		Shop:          req.Shop,
		Format:        req.Format,
		Content:       content,
		ProductsCount: productsCount,
		VariantsCount: variantsCount,
		GeneratedAt:   entry.CreatedAt,
	}, nil
}
