package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
	"github.com/genesis-wellness/storefront-api/internal/common"
	"github.com/genesis-wellness/storefront-api/internal/events"
	"github.com/genesis-wellness/storefront-api/internal/pricing"
	"github.com/genesis-wellness/storefront-api/internal/promo"
)

// Handler wires cart storage, the catalog and the promotion ledger to HTTP.
type Handler struct {
	Svc     *Service
	Catalog *catalog.Service
	Promos  *promo.Registrar
	Events  *events.Bus
}

func (h *Handler) resolve(id string) bool {
	_, ok := h.Catalog.ProductByID(id)
	return ok
}

func (h *Handler) priceLookup(id string) (pricing.Money, bool) {
	product, ok := h.Catalog.ProductByID(id)
	if !ok {
		return 0, false
	}
	return product.Price, true
}

// Create allocates a new cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID, err := h.Svc.Create(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to create cart", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"cartId": cartID}})
}

type cartLineView struct {
	ProductID string        `json:"productId"`
	Name      string        `json:"name"`
	Quantity  int           `json:"quantity"`
	UnitPrice pricing.Money `json:"unitPrice"`
	LineTotal pricing.Money `json:"lineTotal"`
}

// Get returns cart contents with a pricing preview.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	lines, err := h.Svc.Lines(r.Context(), cartID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	promotions, err := h.Promos.Active(r.Context(), cartID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load promotions", nil)
		return
	}
	result := pricing.Compute(lines, h.priceLookup, promotions)

	views := make([]cartLineView, 0, len(lines))
	for _, line := range lines {
		product, ok := h.Catalog.ProductByID(line.ProductID)
		if !ok {
			continue
		}
		views = append(views, cartLineView{
			ProductID: line.ProductID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			LineTotal: product.Price * pricing.Money(line.Quantity),
		})
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"cartId":  cartID,
			"items":   views,
			"pricing": result,
		},
	})
}

type addItemsRequest struct {
	ProductIDs []string `json:"productIds"`
	Quantity   int      `json:"quantity"`
}

// AddItems inserts or increments lines.
func (h *Handler) AddItems(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	var req addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if len(req.ProductIDs) == 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productIds is required", nil)
		return
	}
	if err := h.Svc.AddItems(r.Context(), cartID, req.ProductIDs, req.Quantity, h.resolve); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem replaces a line quantity; zero removes the line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	productID := chi.URLParam(r, "productId")
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Svc.SetQuantity(r.Context(), cartID, productID, req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// RemoveItem drops a line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	if err := h.Svc.Remove(r.Context(), cartID, chi.URLParam(r, "productId")); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// Clear empties the cart and its promotion ledger.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	if err := h.Svc.Clear(r.Context(), cartID); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Promos.Clear(r.Context(), cartID); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to clear promotions", nil)
		return
	}
	if h.Events != nil {
		h.Events.Emit(r.Context(), events.TopicCartCleared, map[string]any{"cartId": cartID})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"cartId": cartID, "items": []any{}}})
}

type acceptStackRequest struct {
	ProductIDs  []string `json:"productIds"`
	DiscountPct float64  `json:"discountPct"`
}

// AcceptStack adds a recommended stack to the cart and registers its
// promotion. Ineligible stacks still add their items; the discount is a no-op.
func (h *Handler) AcceptStack(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	var req acceptStackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if len(req.ProductIDs) == 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productIds is required", nil)
		return
	}
	if err := h.Svc.AddItems(r.Context(), cartID, req.ProductIDs, 1, h.resolve); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := h.Promos.RegisterStack(r.Context(), cartID, req.ProductIDs, req.DiscountPct); err != nil && !errors.Is(err, promo.ErrNotEligible) {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to register promotion", nil)
		return
	}
	h.Get(w, r)
}

type acceptBundleRequest struct {
	BundleID string `json:"bundleId"`
}

// AcceptBundle adds a bundle's items to the cart and registers its promotion.
func (h *Handler) AcceptBundle(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	var req acceptBundleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	bundle, ok := h.Catalog.BundleByID(req.BundleID)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "bundle not found", nil)
		return
	}
	if err := h.Svc.AddItems(r.Context(), cartID, bundle.ItemIDs, 1, h.resolve); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := h.Promos.RegisterBundle(r.Context(), cartID, bundle); err != nil && !errors.Is(err, promo.ErrNotEligible) {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to register promotion", nil)
		return
	}
	h.Get(w, r)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid input", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart operation failed", nil)
	}
}
