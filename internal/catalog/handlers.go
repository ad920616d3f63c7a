package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/genesis-wellness/storefront-api/internal/common"
)

// HandlerConfig wires the catalog HTTP handler.
type HandlerConfig struct {
	Service *Service
}

// Handler exposes read-only catalog endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs the catalog handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{svc: cfg.Service}
}

// List returns products, optionally filtered by category, featured flag and
// destination country availability.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	query := ListQuery{Country: strings.TrimSpace(r.URL.Query().Get("country"))}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, ok := ParseCategory(raw)
		if !ok {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown category", nil)
			return
		}
		query.Category = category
	}
	query.Featured = parseBoolParam(r.URL.Query().Get("featured"))

	products := h.svc.List(r.Context(), query)
	common.JSON(w, http.StatusOK, map[string]any{"data": products})
}

// Get returns a single product by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	product, ok := h.svc.ProductByID(chi.URLParam(r, "id"))
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": product})
}

// Categories returns per-category product counts.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.svc.CategorySummaries()})
}

// Bundles returns the configured bundle offers.
func (h *Handler) Bundles(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.svc.Bundles()})
}

func parseBoolParam(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
