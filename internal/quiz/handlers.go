package quiz

import (
	"encoding/json"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
	"github.com/genesis-wellness/storefront-api/internal/common"
	"github.com/genesis-wellness/storefront-api/internal/events"
)

// Handler exposes the quiz recommendation endpoint.
type Handler struct {
	Catalog  *catalog.Service
	Validate *validator.Validate
	Events   *events.Bus
}

type recommendRequest struct {
	Goal       string `json:"goal" validate:"max=32"`
	Stress     string `json:"stress" validate:"max=32"`
	Sleep      string `json:"sleep" validate:"max=32"`
	Training   string `json:"training" validate:"max=32"`
	Foundation string `json:"foundation" validate:"max=32"`
	Country    string `json:"country" validate:"max=64"`
}

// Recommend scores the submitted answers against the deliverable catalog and
// returns the recommended stack.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid answers", err.Error())
			return
		}
	}

	products := h.Catalog.Products()
	if country := strings.TrimSpace(req.Country); country != "" {
		deliverable := products[:0]
		for _, p := range products {
			if p.AvailableFor(country) {
				deliverable = append(deliverable, p)
			}
		}
		products = deliverable
	}

	rec := RecommendStack(products, Answers{
		Goal:       req.Goal,
		Stress:     req.Stress,
		Sleep:      req.Sleep,
		Training:   req.Training,
		Foundation: req.Foundation,
	})

	if h.Events != nil {
		h.Events.Emit(r.Context(), events.TopicStackRecommended, map[string]any{
			"productIds": rec.ProductIDs,
			"stackSize":  rec.Rationale.StackSize,
			"goal":       rec.Answers.Goal,
		})
	}

	common.JSON(w, http.StatusOK, map[string]any{"data": rec})
}
