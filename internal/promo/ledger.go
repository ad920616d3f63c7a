package promo

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
	"github.com/genesis-wellness/storefront-api/internal/events"
	"github.com/genesis-wellness/storefront-api/internal/pricing"
)

// ErrNotEligible is returned when a promotion registration resolves to fewer
// than two catalog items or a non-positive discount.
var ErrNotEligible = errors.New("promotion not eligible")

// DefaultMaxRecords caps the ledger length; the oldest records are discarded.
const DefaultMaxRecords = 60

// DefaultStackDiscountPct is applied when a stack registration does not carry
// a usable percentage.
const DefaultStackDiscountPct = 10.0

// Sanitize filters a stored ledger against the catalog. Records with no
// resolvable items or a non-positive discount are dropped silently, matching
// the contract that malformed ledger entries never surface as errors.
func Sanitize(records []pricing.Promotion, resolve func(string) bool, max int) []pricing.Promotion {
	if max <= 0 {
		max = DefaultMaxRecords
	}
	out := make([]pricing.Promotion, 0, len(records))
	for _, record := range records {
		ids := dedupeResolvable(record.ItemIDs, resolve)
		if len(ids) == 0 || record.DiscountAmount <= 0 {
			continue
		}
		record.ItemIDs = ids
		if record.ID == "" {
			record.ID = "promo-" + uuid.NewString()
		}
		if record.Type == "" {
			record.Type = "stack"
		}
		if record.Label == "" {
			record.Label = "Stack savings"
		}
		out = append(out, record)
	}
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}

func dedupeResolvable(ids []string, resolve func(string) bool) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if resolve == nil || resolve(id) {
			out = append(out, id)
		}
	}
	return out
}

// Registrar appends stack and bundle promotions to a per-cart ledger.
type Registrar struct {
	Store            Store
	Catalog          *catalog.Service
	StackDiscountPct float64
	MaxRecords       int
	Events           *events.Bus
	Now              func() time.Time
}

func (r *Registrar) now() time.Time {
	if r != nil && r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

func (r *Registrar) maxRecords() int {
	if r == nil || r.MaxRecords <= 0 {
		return DefaultMaxRecords
	}
	return r.MaxRecords
}

func (r *Registrar) resolve(id string) bool {
	_, ok := r.Catalog.ProductByID(id)
	return ok
}

// compareAtTotal sums unit prices for the given product ids.
func (r *Registrar) compareAtTotal(ids []string) pricing.Money {
	var total pricing.Money
	for _, id := range ids {
		if p, ok := r.Catalog.ProductByID(id); ok {
			total += p.Price
		}
	}
	return total
}

// RegisterStack records a quiz-stack promotion: a percentage discount off the
// combined compare-at price of the stack items.
func (r *Registrar) RegisterStack(ctx context.Context, cartID string, itemIDs []string, discountPct float64) (pricing.Promotion, error) {
	if r == nil || r.Store == nil || r.Catalog == nil {
		return pricing.Promotion{}, errors.New("promo: registrar not configured")
	}
	ids := dedupeResolvable(itemIDs, r.resolve)
	if len(ids) < 2 {
		return pricing.Promotion{}, ErrNotEligible
	}
	compareAt := r.compareAtTotal(ids)
	if compareAt <= 0 {
		return pricing.Promotion{}, ErrNotEligible
	}

	pct := discountPct
	if !(pct > 0 && pct < 100) {
		pct = r.StackDiscountPct
	}
	if !(pct > 0 && pct < 100) {
		pct = DefaultStackDiscountPct
	}
	discounted := pricing.Money(math.Round(float64(compareAt) * (1 - pct/100)))
	discount := compareAt - discounted
	if discount <= 0 {
		return pricing.Promotion{}, ErrNotEligible
	}

	record := pricing.Promotion{
		ID:             "stack-" + uuid.NewString(),
		Type:           "stack",
		SourceID:       "quiz-stack",
		Label:          "Recommended stack",
		ItemIDs:        ids,
		DiscountAmount: discount,
		CreatedAt:      r.now(),
	}
	return record, r.append(ctx, cartID, record)
}

// RegisterBundle records a bundle promotion. The discount is the gap between
// the compare-at total and the bundle's target price, falling back to the
// bundle's percentage when no usable target price is set.
func (r *Registrar) RegisterBundle(ctx context.Context, cartID string, bundle catalog.Bundle) (pricing.Promotion, error) {
	if r == nil || r.Store == nil || r.Catalog == nil {
		return pricing.Promotion{}, errors.New("promo: registrar not configured")
	}
	ids := dedupeResolvable(bundle.ItemIDs, r.resolve)
	if len(ids) < 2 {
		return pricing.Promotion{}, ErrNotEligible
	}
	compareAt := r.compareAtTotal(ids)
	if compareAt <= 0 {
		return pricing.Promotion{}, ErrNotEligible
	}

	target := bundle.Price
	if !(target > 0 && target < compareAt) {
		target = pricing.Money(math.Round(float64(compareAt) * (1 - bundle.DiscountPct/100)))
	}
	discount := compareAt - target
	if discount <= 0 {
		return pricing.Promotion{}, ErrNotEligible
	}

	label := bundle.Name
	if label == "" {
		label = "Bundle savings"
	}
	record := pricing.Promotion{
		ID:             "bundle-" + bundle.ID + "-" + uuid.NewString(),
		Type:           "bundle",
		SourceID:       bundle.ID,
		Label:          label,
		ItemIDs:        ids,
		DiscountAmount: discount,
		CreatedAt:      r.now(),
	}
	return record, r.append(ctx, cartID, record)
}

// Active loads and sanitizes the ledger for a cart.
func (r *Registrar) Active(ctx context.Context, cartID string) ([]pricing.Promotion, error) {
	if r == nil || r.Store == nil {
		return nil, nil
	}
	records, err := r.Store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return Sanitize(records, r.resolve, r.maxRecords()), nil
}

// Clear drops every ledger record for a cart.
func (r *Registrar) Clear(ctx context.Context, cartID string) error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Clear(ctx, cartID)
}

func (r *Registrar) append(ctx context.Context, cartID string, record pricing.Promotion) error {
	records, err := r.Store.Load(ctx, cartID)
	if err != nil {
		return err
	}
	records = append(records, record)
	if max := r.maxRecords(); len(records) > max {
		records = records[len(records)-max:]
	}
	if err := r.Store.Save(ctx, cartID, records); err != nil {
		return err
	}
	if r.Events != nil {
		r.Events.Emit(ctx, events.TopicPromotionRegistered, map[string]any{
			"cartId":   cartID,
			"promoId":  record.ID,
			"type":     record.Type,
			"discount": record.DiscountAmount,
		})
	}
	return nil
}
