package updater

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/feed"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/session"
)

// Schedule for the full sweep: every 6 hours, matching the default cache
// freshness window.
const sweepSchedule = "0 */6 * * *"

// Updater eagerly regenerates every implemented feed for every known shop
// on a fixed schedule, independent of request traffic.
type Updater struct {
	sessions session.Repository
	feeds    feed.Service
	timeout  time.Duration
	logger   *slog.Logger

	cron    *cron.Cron
	running atomic.Bool
}

// New returns an Updater. timeout bounds each (shop, format) refresh.
func New(sessions session.Repository, feeds feed.Service, timeout time.Duration, logger *slog.Logger) *Updater {
	return &Updater{
		sessions: sessions,
		feeds:    feeds,
		timeout:  timeout,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start registers the cron schedule and starts the scheduler.
func (u *Updater) Start() error {
	if _, err := u.cron.AddFunc(sweepSchedule, u.Sweep); err != nil {
		return err
	}
	u.cron.Start()
	u.logger.Info("feed updater started", "schedule", sweepSchedule)
	return nil
}

// Stop halts the scheduler; a sweep already in flight finishes.
func (u *Updater) Stop() {
	u.cron.Stop()
}

// Sweep refreshes every implemented format for every known shop. At most
// one sweep runs at a time; a trigger arriving mid-sweep is skipped, not
// queued. Per-(shop, format) failures are logged and counted but never
// abort the rest of the sweep.
func (u *Updater) Sweep() {
	if !u.running.CompareAndSwap(false, true) {
		u.logger.Info("feed sweep already running, skipping")
		return
	}
	defer u.running.Store(false)

	started := time.Now()
	shops, err := u.sessions.AllShops(context.Background())
	if err != nil {
		u.logger.Error("feed sweep aborted, cannot list shops", "error", err)
		return
	}

	formats := feed.Implemented()
	u.logger.Info("feed sweep started", "shops", len(shops), "formats", len(formats))

	succeeded := 0
	failed := 0
	for _, shop := range shops {
		for _, format := range formats {
			if err := u.refreshOne(shop, format); err != nil {
				failed++
				u.logger.Error("feed refresh failed", "shop", shop, "format", format, "error", err)
				continue
			}
			succeeded++
		}
	}

	u.logger.Info("feed sweep completed",
		"succeeded", succeeded, "failed", failed,
		"duration", time.Since(started).Round(time.Second))
}

// RunNow refreshes every implemented format for a single shop. Used by the
// manual regenerate trigger; independent of the sweep guard.
func (u *Updater) RunNow(shop string) {
	for _, format := range feed.Implemented() {
		if err := u.refreshOne(shop, format); err != nil {
			u.logger.Error("feed refresh failed", "shop", shop, "format", format, "error", err)
		}
	}
}

func (u *Updater) refreshOne(shop, format string) error {
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	result, err := u.feeds.Refresh(ctx, shop, format)
	if err != nil {
		return err
	}
	u.logger.Info("feed refreshed",
		"shop", shop, "format", format,
		"products", result.ProductsCount, "variants", result.VariantsCount)
	return nil
}
