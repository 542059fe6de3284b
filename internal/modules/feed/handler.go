package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/billing"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/catalog"
	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/session"
)

// Handler exposes the feed HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/feed/{shop}/{format}", h.getFeed)
	r.Get("/api/formats", h.listFormats)
	r.Get("/api/feeds/{shop}", h.listCached)
	r.Get("/ping", h.ping)
}

func (h *Handler) getFeed(w http.ResponseWriter, r *http.Request) {
	shop := chi.URLParam(r, "shop")
	format := chi.URLParam(r, "format")

	req := Request{
		Shop:                 shop,
		Format:               format,
		Title:                fmt.Sprintf("%s Product Feed", shop),
		Currency:             "USD",
		FilterByAvailability: r.URL.Query().Get("available") == "true",
		FilterByStatus:       true,
		IncludeVariants:      true,
		ForceRefresh:         r.URL.Query().Get("refresh") == "true",
	}

	result, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.respondError(w, shop, format, err)
		return
	}

	contentType := "application/xml"
	if IsDelimited(format) {
		contentType = "text/csv"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=21600")
	w.Header().Set("X-Products-Count", strconv.Itoa(result.ProductsCount))
	w.Header().Set("X-Generated-At", result.GeneratedAt.UTC().Format(time.RFC3339))
	if result.FromCache {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
		w.Header().Set("X-Variants-Count", strconv.Itoa(result.VariantsCount))
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(result.Content))
}

func (h *Handler) respondError(w http.ResponseWriter, shop, format string, err error) {
	var unimplemented *UnimplementedFormatError
	var limit *billing.LimitError
	var catalogErr *catalog.FormatError

	switch {
	case errors.As(err, &unimplemented):
		respond(w, http.StatusBadRequest, map[string]interface{}{
			"error":           "Invalid or not yet implemented format",
			"message":         fmt.Sprintf("Currently supported formats: %s", strings.Join(unimplemented.Implemented, ", ")),
			"requestedFormat": unimplemented.Format,
		})
	case errors.Is(err, session.ErrShopNotFound):
		respond(w, http.StatusNotFound, map[string]interface{}{
			"error":   "Shop not found",
			"message": "This shop has not installed the app yet",
		})
	case errors.Is(err, billing.ErrNoSubscription):
		respond(w, http.StatusNotFound, map[string]interface{}{
			"error":   "Subscription not found",
			"message": "Please contact support",
		})
	case errors.As(err, &limit):
		respond(w, http.StatusForbidden, map[string]interface{}{
			"error":       "Plan limit exceeded",
			"message":     limit.Reason,
			"currentPlan": limit.Plan,
			"upgradeUrl":  fmt.Sprintf("/billing/pricing?shop=%s", shop),
			"details": map[string]interface{}{
				"format":        format,
				"productsCount": limit.ProductsCount,
				"maxProducts":   limit.MaxProducts,
			},
		})
	case errors.As(err, &catalogErr):
		// Never leak upstream payload details to feed consumers.
		respond(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "Feed generation failed",
			"message": "The product catalog could not be read. Please try again later.",
		})
	default:
		respond(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "Feed generation failed",
			"message": "Please try again later.",
		})
	}
}

func (h *Handler) listFormats(w http.ResponseWriter, r *http.Request) {
	implemented := Implemented()
	respond(w, http.StatusOK, map[string]interface{}{
		"totalFormats":       TotalFormats(),
		"implementedFormats": implemented,
		"implementedCount":   len(implemented),
		"categories":         Categories(),
		"message":            "Use GET /feed/:shop/:format to generate a feed",
	})
}

func (h *Handler) listCached(w http.ResponseWriter, r *http.Request) {
	shop := chi.URLParam(r, "shop")
	entries, err := h.service.ListCached(r.Context(), shop)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "Cache listing failed",
			"message": "Please try again later.",
		})
		return
	}

	type cachedFeed struct {
		Format        string    `json:"format"`
		ProductsCount int       `json:"products_count"`
		VariantsCount int       `json:"variants_count"`
		SizeBytes     int       `json:"size_bytes"`
		CreatedAt     time.Time `json:"created_at"`
	}
	feeds := make([]cachedFeed, 0, len(entries))
	for _, e := range entries {
		feeds = append(feeds, cachedFeed{
			Format:        e.Format,
			ProductsCount: e.ProductsCount,
			VariantsCount: e.VariantsCount,
			SizeBytes:     len(e.Content),
			CreatedAt:     e.CreatedAt,
		})
	}
	respond(w, http.StatusOK, map[string]interface{}{"shop": shop, "feeds": feeds})
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
