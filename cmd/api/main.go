package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/billing"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/catalog"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/feed"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/feedcache"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/session"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/updater"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/webhook"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	if err := initSchema(db); err != nil {
		log.Fatal(err)
	}
	logger.Info("database ready")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Storage ─────────────────────────────────────────────
	sessionRepo := session.NewPostgresRepository(db)
	subscriptionRepo := billing.NewPostgresRepository(db)
	cacheRepo := newCacheRepository(db, logger)

	// ── Catalog source ──────────────────────────────────────
	apiVersion := envOr("CATALOG_API_VERSION", "2024-10")
	fetchTimeout := envSeconds("FETCH_TIMEOUT_SECONDS", 30)
	source := catalog.NewClient(apiVersion, fetchTimeout, logger)

	// ── Feed generation ─────────────────────────────────────
	maxAge := envSeconds("CACHE_MAX_AGE_SECONDS", int(feedcache.DefaultMaxAge.Seconds()))
	feedService := feed.NewService(sessionRepo, subscriptionRepo, source, cacheRepo, maxAge, logger)
	feed.NewHandler(feedService).RegisterRoutes(router)

	// ── Background updater ──────────────────────────────────
	refreshTimeout := envSeconds("REFRESH_TIMEOUT_SECONDS", 300)
	feedUpdater := updater.New(sessionRepo, feedService, refreshTimeout, logger)
	if err := feedUpdater.Start(); err != nil {
		log.Fatal(err)
	}
	defer feedUpdater.Stop()

	// ── Webhooks & admin ────────────────────────────────────
	webhook.NewHandler(cacheRepo, sessionRepo, subscriptionRepo, feedUpdater, logger).RegisterRoutes(router)

	// ── Start server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("feedbuilder API server starting", "port", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

// newCacheRepository picks the cache backend: Redis when REDIS_URL is set,
// otherwise Postgres.
func newCacheRepository(db *sql.DB, logger *slog.Logger) feedcache.Repository {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return feedcache.NewPostgresRepository(db)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	repo, err := feedcache.NewRedisRepository(ctx, redisURL)
	if err != nil {
		log.Fatal(fmt.Errorf("redis cache: %w", err))
	}
	logger.Info("feed cache backed by redis")
	return repo
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
		  id TEXT PRIMARY KEY,
		  shop TEXT NOT NULL UNIQUE,
		  access_token TEXT NOT NULL,
		  scopes TEXT NOT NULL DEFAULT '',
		  is_online BOOLEAN NOT NULL DEFAULT FALSE,
		  expires_at TIMESTAMPTZ,
		  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_shop ON sessions(shop);

		CREATE TABLE IF NOT EXISTS subscriptions (
		  id UUID PRIMARY KEY,
		  shop TEXT NOT NULL UNIQUE,
		  plan_name TEXT NOT NULL DEFAULT 'free',
		  status TEXT NOT NULL DEFAULT 'active',
		  charge_id TEXT,
		  activated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		  expires_at TIMESTAMPTZ,
		  trial_ends_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS feed_cache (
		  shop TEXT NOT NULL,
		  format TEXT NOT NULL,
		  content TEXT NOT NULL,
		  products_count INTEGER NOT NULL DEFAULT 0,
		  variants_count INTEGER NOT NULL DEFAULT 0,
		  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		  PRIMARY KEY (shop, format)
		);
		CREATE INDEX IF NOT EXISTS idx_feed_cache_created_at ON feed_cache(created_at);
	`)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envSeconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
