package shipping

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
	"github.com/genesis-wellness/storefront-api/internal/pricing"
)

func TestUnitWeightByFormat(t *testing.T) {
	cases := []struct {
		format   string
		servings int
		want     float64
	}{
		{"Powder", 30, 1.0},
		{"Liquid", 30, 0.85},
		{"Gummies", 30, 0.5},
		{"Tea Bags", 20, 0.15},
		{"Capsules", 30, 0.25},
		{"Softgels", 30, 0.25},
		{"Tablets", 30, 0.25},
		{"Chewables", 30, 0.25},
		{"Sachets", 30, 0.3},
	}
	for _, tc := range cases {
		got := UnitWeightLb(catalog.Product{Format: tc.format, Servings: tc.servings})
		require.Equal(t, tc.want, got, "format %s", tc.format)
	}
}

func TestUnitWeightServingsBonus(t *testing.T) {
	require.Equal(t, 0.35, UnitWeightLb(catalog.Product{Format: "Capsules", Servings: 90}))
	require.Equal(t, 0.45, UnitWeightLb(catalog.Product{Format: "Capsules", Servings: 120}))
	require.Equal(t, 1.2, UnitWeightLb(catalog.Product{Format: "Powder", Servings: 150}))
}

func TestParcelWeightSkipsUnknownProducts(t *testing.T) {
	products := map[string]catalog.Product{
		"powder": {ID: "powder", Format: "Powder", Servings: 30},
		"caps":   {ID: "caps", Format: "Capsules", Servings: 30},
	}
	lookup := func(id string) (catalog.Product, bool) {
		p, ok := products[id]
		return p, ok
	}
	lines := []pricing.Line{
		{ProductID: "powder", Quantity: 2},
		{ProductID: "caps", Quantity: 1},
		{ProductID: "ghost", Quantity: 5},
		{ProductID: "powder", Quantity: 0},
	}

	require.Equal(t, 2.25, ParcelWeightLb(lines, lookup))
}

func TestParcelWeightRounding(t *testing.T) {
	lookup := func(string) (catalog.Product, bool) {
		return catalog.Product{Format: "Tea Bags", Servings: 20}, true
	}
	lines := []pricing.Line{{ProductID: "tea", Quantity: 3}}

	require.Equal(t, 0.45, ParcelWeightLb(lines, lookup))
}
