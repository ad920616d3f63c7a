package catalog

import "strings"

// Category is one of the seven fixed product groupings.
type Category string

const (
	CategoryFoundational Category = "Foundational"
	CategoryFocus        Category = "Focus"
	CategoryEnergy       Category = "Energy"
	CategorySleep        Category = "Sleep"
	CategoryRecovery     Category = "Recovery"
	CategoryPerformance  Category = "Performance"
	CategoryImmunity     Category = "Immunity"
)

// Categories returns every category in canonical order. The order is load-bearing:
// the quiz engine breaks equal-score ties by this enumeration order.
func Categories() []Category {
	return []Category{
		CategoryFoundational,
		CategoryFocus,
		CategoryEnergy,
		CategorySleep,
		CategoryRecovery,
		CategoryPerformance,
		CategoryImmunity,
	}
}

// ParseCategory resolves a case-insensitive category name.
func ParseCategory(value string) (Category, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), strings.TrimSpace(value)) {
			return c, true
		}
	}
	return "", false
}

// ShippingScope restricts where a product may be delivered.
type ShippingScope string

const (
	// ScopeUSOnly marks products that can only ship to the United States.
	ScopeUSOnly ShippingScope = "US_ONLY"
	// ScopeAllDestinations marks products deliverable to every supported zone.
	ScopeAllDestinations ShippingScope = "ALL_SUPPORTED_DESTINATIONS"
)

// DomesticCountry is the destination name that unlocks US-only products.
const DomesticCountry = "United States"

// Product is a single catalog entry. Prices are stored in minor units (cents).
type Product struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      Category      `json:"category"`
	Price         int64         `json:"price"`
	Servings      int           `json:"servings"`
	Format        string        `json:"format"`
	ShippingScope ShippingScope `json:"shippingScope"`
	Ingredients   string        `json:"ingredients"`
	Featured      bool          `json:"featured"`
}

// AvailableFor reports whether the product can be delivered to the given country.
// An empty country means the destination is not yet known and nothing is excluded.
func (p Product) AvailableFor(country string) bool {
	target := strings.TrimSpace(country)
	if p.ShippingScope != ScopeUSOnly {
		return true
	}
	return target == "" || target == DomesticCountry
}

// Bundle is a curated multi-product offer. Either Price (a target bundle price
// in cents) or DiscountPct drives the promotion discount when accepted.
type Bundle struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	DiscountPct float64  `json:"discountPct"`
	ItemIDs     []string `json:"itemIds"`
}
