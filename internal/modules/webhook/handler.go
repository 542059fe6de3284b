package webhook

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/billing"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/feedcache"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/session"
)

// Refresher regenerates every implemented feed for one shop in the
// background; the updater satisfies it.
type Refresher interface {
	RunNow(shop string)
}

// Handler exposes cache invalidation surfaces: upstream webhooks and the
// manual regenerate trigger.
type Handler struct {
	cache     feedcache.Repository
	sessions  session.Repository
	subs      billing.Repository
	refresher Refresher
	logger    *slog.Logger
}

func NewHandler(cache feedcache.Repository, sessions session.Repository, subs billing.Repository, refresher Refresher, logger *slog.Logger) *Handler {
	return &Handler{cache: cache, sessions: sessions, subs: subs, refresher: refresher, logger: logger}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/webhooks/products/update", h.productsUpdate)
	r.Post("/webhooks/app/uninstalled", h.appUninstalled)
	r.Post("/admin/regenerate", h.regenerate)
}

// productsUpdate handles the catalog-changed signal. Webhook deliveries are
// acknowledged unconditionally; a failed invalidation only means one stale
// window until the next sweep.
func (h *Handler) productsUpdate(w http.ResponseWriter, r *http.Request) {
	shop := r.Header.Get("X-Shopify-Shop-Domain")
	if shop == "" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := h.cache.Invalidate(r.Context(), shop); err != nil {
		h.logger.Error("cache invalidation failed", "shop", shop, "error", err)
	} else {
		h.logger.Info("cache invalidated on catalog change", "shop", shop)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) appUninstalled(w http.ResponseWriter, r *http.Request) {
	shop := r.Header.Get("X-Shopify-Shop-Domain")
	if shop == "" {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	if err := h.cache.Invalidate(ctx, shop); err != nil {
		h.logger.Error("cache invalidation failed", "shop", shop, "error", err)
	}
	if err := h.subs.Delete(ctx, shop); err != nil {
		h.logger.Error("subscription cleanup failed", "shop", shop, "error", err)
	}
	if err := h.sessions.Delete(ctx, shop); err != nil {
		h.logger.Error("session cleanup failed", "shop", shop, "error", err)
	}
	h.logger.Info("shop uninstalled", "shop", shop)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) regenerate(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	if shop == "" {
		respond(w, http.StatusBadRequest, map[string]string{
			"error":   "Missing shop",
			"message": "Pass ?shop=<shop-domain>",
		})
		return
	}
	if err := h.cache.Invalidate(r.Context(), shop); err != nil {
		h.logger.Error("cache invalidation failed", "shop", shop, "error", err)
	}
	go h.refresher.RunNow(shop)
	respond(w, http.StatusAccepted, map[string]string{"status": "regenerating", "shop": shop})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
