package shipping

import (
	"math"
	"strings"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
	"github.com/genesis-wellness/storefront-api/internal/pricing"
)

// UnitWeightLb infers a single unit's parcel weight from the product format,
// with a tiered bonus for large serving counts.
func UnitWeightLb(p catalog.Product) float64 {
	format := strings.ToLower(p.Format)
	base := 0.3

	switch {
	case strings.Contains(format, "powder"):
		base = 1.0
	case strings.Contains(format, "liquid"):
		base = 0.85
	case strings.Contains(format, "gumm"):
		base = 0.5
	case strings.Contains(format, "tea"):
		base = 0.15
	case strings.Contains(format, "caps"),
		strings.Contains(format, "softgel"),
		strings.Contains(format, "tablet"),
		strings.Contains(format, "chew"):
		base = 0.25
	}

	if p.Servings >= 90 {
		base += 0.1
	}
	if p.Servings >= 120 {
		base += 0.1
	}

	return round2(base)
}

// ParcelWeightLb estimates the total parcel weight for a cart. Lines whose
// product id does not resolve contribute nothing.
func ParcelWeightLb(lines []pricing.Line, lookup func(string) (catalog.Product, bool)) float64 {
	var total float64
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		product, ok := lookup(line.ProductID)
		if !ok {
			continue
		}
		total += UnitWeightLb(product) * float64(line.Quantity)
	}
	return round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
