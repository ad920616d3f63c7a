package checkout

import (
	"context"
	"errors"

	"github.com/genesis-wellness/storefront-api/internal/cart"
	"github.com/genesis-wellness/storefront-api/internal/catalog"
	"github.com/genesis-wellness/storefront-api/internal/events"
	"github.com/genesis-wellness/storefront-api/internal/pricing"
	"github.com/genesis-wellness/storefront-api/internal/promo"
	"github.com/genesis-wellness/storefront-api/internal/shipping"
)

// Summary is what the checkout UI renders and what the (external) payment
// collaborator charges. Total only includes shipping when a rate was found.
type Summary struct {
	CartID     string         `json:"cartId"`
	Pricing    pricing.Result `json:"pricing"`
	Shipping   shipping.Quote `json:"shipping"`
	Total      pricing.Money  `json:"total"`
	Chargeable bool           `json:"chargeable"`
}

// Service composes the pricing engine and the shipping calculator into a
// checkout total.
type Service struct {
	Cart    *cart.Service
	Catalog *catalog.Service
	Promos  *promo.Registrar
	Zones   shipping.ZoneLookup
	Events  *events.Bus
}

// Summarize computes the current checkout state for a cart and destination.
// An empty cart yields the "empty" shipping placeholder; every other
// non-success shipping state passes through untouched for the UI to render.
func (s *Service) Summarize(ctx context.Context, cartID string, dest shipping.Destination) (Summary, error) {
	if s == nil || s.Cart == nil || s.Catalog == nil {
		return Summary{}, errors.New("checkout service not configured")
	}
	lines, err := s.Cart.Lines(ctx, cartID)
	if err != nil {
		return Summary{}, err
	}

	promotions, err := s.Promos.Active(ctx, cartID)
	if err != nil {
		return Summary{}, err
	}
	priced := pricing.Compute(lines, s.priceLookup, promotions)

	var quote shipping.Quote
	if len(lines) == 0 {
		quote = shipping.EmptyQuote()
	} else {
		quote = shipping.Calculate(lines, dest, s.Catalog.ProductByID, s.Zones)
	}

	summary := Summary{
		CartID:   cartID,
		Pricing:  priced,
		Shipping: quote,
		Total:    priced.Subtotal,
	}
	if quote.Status == shipping.StatusOK {
		summary.Total += quote.Amount
		summary.Chargeable = true
	}

	if s.Events != nil {
		s.Events.Emit(ctx, events.TopicCheckoutSummaryBuilt, map[string]any{
			"cartId":         cartID,
			"total":          summary.Total,
			"shippingStatus": string(quote.Status),
		})
	}
	return summary, nil
}

func (s *Service) priceLookup(id string) (pricing.Money, bool) {
	product, ok := s.Catalog.ProductByID(id)
	if !ok {
		return 0, false
	}
	return product.Price, true
}
