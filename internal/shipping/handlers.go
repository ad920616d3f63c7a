package shipping

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
	"github.com/genesis-wellness/storefront-api/internal/common"
	"github.com/genesis-wellness/storefront-api/internal/events"
	"github.com/genesis-wellness/storefront-api/internal/pricing"
)

// Handler exposes the shipping quote endpoint.
type Handler struct {
	Catalog  *catalog.Service
	Zones    ZoneLookup
	Validate *validator.Validate
	Events   *events.Bus
}

type quoteRequest struct {
	Lines        []pricing.Line `json:"lines" validate:"dive"`
	Country      string         `json:"country" validate:"max=64"`
	CityRegion   string         `json:"cityRegion" validate:"max=128"`
	USRegionMode string         `json:"usRegionMode" validate:"omitempty,oneof=auto lower-48 alaska-hawaii"`
	Service      string         `json:"service" validate:"omitempty,oneof=regular express"`
}

// Quote rates the submitted cart lines against the destination.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil || h.Zones == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "shipping calculator not configured", nil)
		return
	}
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid quote request", err.Error())
			return
		}
	}

	quote := Calculate(req.Lines, Destination{
		Country:      req.Country,
		CityRegion:   req.CityRegion,
		USRegionMode: req.USRegionMode,
		Service:      req.Service,
	}, h.Catalog.ProductByID, h.Zones)

	if h.Events != nil {
		h.Events.Emit(r.Context(), events.TopicShippingQuoteBuilt, map[string]any{
			"status":   string(quote.Status),
			"zone":     string(quote.Zone),
			"amount":   quote.Amount,
			"weightLb": quote.WeightLb,
		})
	}

	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}
