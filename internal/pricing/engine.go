package pricing

import "time"

// Money represents a monetary value stored in minor units.
type Money = int64

// Line is a single cart entry. Quantities for the same product accumulate.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Promotion is a flat set discount over a group of distinct products. One
// "set" requires one unit of every item id; the discount applies once per
// complete set present in the cart.
type Promotion struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	SourceID       string    `json:"sourceId"`
	Label          string    `json:"label"`
	ItemIDs        []string  `json:"itemIds"`
	DiscountAmount Money     `json:"discountAmount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AppliedPromotion records one promotion's contribution to the discount.
type AppliedPromotion struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	SourceID string `json:"sourceId"`
	SetCount int    `json:"setCount"`
	Discount Money  `json:"discount"`
}

// Result aggregates computed pricing components.
type Result struct {
	BaseSubtotal  Money              `json:"baseSubtotal"`
	PromoDiscount Money              `json:"promoDiscount"`
	Subtotal      Money              `json:"subtotal"`
	Applied       []AppliedPromotion `json:"appliedPromotions"`
}

// PriceLookup resolves a product id to its unit price. Unresolvable ids
// contribute nothing to the subtotal or to promotion matching.
type PriceLookup func(productID string) (Money, bool)

// Compute calculates cart totals. Promotions are evaluated in ledger order;
// earlier promotions claim matching cart quantity first, and the combined
// discount never exceeds the base subtotal.
func Compute(lines []Line, lookup PriceLookup, promotions []Promotion) Result {
	var baseSubtotal Money
	available := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 || line.ProductID == "" {
			continue
		}
		available[line.ProductID] += line.Quantity
		if price, ok := lookup(line.ProductID); ok {
			baseSubtotal += price * Money(line.Quantity)
		}
	}

	var promoDiscount Money
	applied := make([]AppliedPromotion, 0, len(promotions))
	for _, promo := range promotions {
		if len(promo.ItemIDs) == 0 {
			continue
		}
		setCount := -1
		for _, itemID := range promo.ItemIDs {
			qty := available[itemID]
			if setCount < 0 || qty < setCount {
				setCount = qty
			}
		}
		if setCount <= 0 {
			continue
		}
		discount := promo.DiscountAmount * Money(setCount)
		if discount <= 0 {
			continue
		}
		for _, itemID := range promo.ItemIDs {
			if remaining := available[itemID] - setCount; remaining > 0 {
				available[itemID] = remaining
			} else {
				available[itemID] = 0
			}
		}
		promoDiscount += discount
		applied = append(applied, AppliedPromotion{
			ID:       promo.ID,
			Label:    promo.Label,
			Type:     promo.Type,
			SourceID: promo.SourceID,
			SetCount: setCount,
			Discount: discount,
		})
	}

	if promoDiscount > baseSubtotal {
		promoDiscount = baseSubtotal
	}

	return Result{
		BaseSubtotal:  baseSubtotal,
		PromoDiscount: promoDiscount,
		Subtotal:      baseSubtotal - promoDiscount,
		Applied:       applied,
	}
}
