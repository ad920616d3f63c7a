package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/genesis-wellness/storefront-api/internal/cart"
	"github.com/genesis-wellness/storefront-api/internal/common"
	"github.com/genesis-wellness/storefront-api/internal/shipping"
)

// Handler exposes the checkout summary endpoint.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type summaryRequest struct {
	CartID       string `json:"cartId" validate:"required"`
	Country      string `json:"country" validate:"max=64"`
	CityRegion   string `json:"cityRegion" validate:"max=128"`
	USRegionMode string `json:"usRegionMode" validate:"omitempty,oneof=auto lower-48 alaska-hawaii"`
	Service      string `json:"service" validate:"omitempty,oneof=regular express"`
}

// Summary computes the checkout total for a cart and destination.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid summary request", err.Error())
			return
		}
	}

	summary, err := h.Svc.Summarize(r.Context(), req.CartID, shipping.Destination{
		Country:      req.Country,
		CityRegion:   req.CityRegion,
		USRegionMode: req.USRegionMode,
		Service:      req.Service,
	})
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to build summary", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}
