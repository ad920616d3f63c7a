package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDropsMalformedEntries(t *testing.T) {
	doc := []byte(`{
		"products": [
			{"id": "multi", "name": "Daily Multivitamin", "category": "Foundational", "price": 1999, "servings": 60},
			{"id": "multi", "name": "Duplicate", "category": "Foundational", "price": 1999, "servings": 60},
			{"id": "", "name": "No ID", "category": "Foundational", "price": 1999, "servings": 60},
			{"id": "bad-cat", "name": "Bad Category", "category": "Mystery", "price": 1999, "servings": 60},
			{"id": "neg", "name": "Negative Price", "category": "Sleep", "price": -1, "servings": 60},
			{"id": "zero-serv", "name": "Zero Servings", "category": "Sleep", "price": 999, "servings": 0},
			{"id": "melatonin", "name": "Melatonin 5mg", "category": "sleep", "price": 1299, "servings": 90}
		],
		"bundles": []
	}`)

	products, bundles, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "multi", products[0].ID)
	require.Equal(t, "Daily Multivitamin", products[0].Name)
	require.Equal(t, CategorySleep, products[1].Category, "category names are case-insensitive")
	require.Empty(t, bundles)
}

func TestParseDefaultsShippingScope(t *testing.T) {
	doc := []byte(`{
		"products": [
			{"id": "a", "name": "A", "category": "Foundational", "price": 100, "servings": 30},
			{"id": "b", "name": "B", "category": "Foundational", "price": 100, "servings": 30, "shippingScope": "US_ONLY"},
			{"id": "c", "name": "C", "category": "Foundational", "price": 100, "servings": 30, "shippingScope": "bogus"}
		]
	}`)

	products, _, err := Parse(doc)
	require.NoError(t, err)
	require.Equal(t, ScopeAllDestinations, products[0].ShippingScope)
	require.Equal(t, ScopeUSOnly, products[1].ShippingScope)
	require.Equal(t, ScopeAllDestinations, products[2].ShippingScope)
}

func TestParseBundleRequiresTwoResolvableItems(t *testing.T) {
	doc := []byte(`{
		"products": [
			{"id": "a", "name": "A", "category": "Foundational", "price": 100, "servings": 30},
			{"id": "b", "name": "B", "category": "Sleep", "price": 100, "servings": 30}
		],
		"bundles": [
			{"id": "good", "name": "Good", "price": 150, "itemIds": ["a", "b"]},
			{"id": "ghost-item", "name": "Ghost", "price": 150, "itemIds": ["a", "ghost"]},
			{"id": "", "name": "No ID", "price": 150, "itemIds": ["a", "b"]}
		]
	}`)

	_, bundles, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	require.Equal(t, "good", bundles[0].ID)
}

func TestParseInvalidDocument(t *testing.T) {
	_, _, err := Parse([]byte("not json"))
	require.Error(t, err)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"products": [{"id": "a", "name": "A", "category": "Focus", "price": 2500, "servings": 30}]
	}`), 0o644))

	products, _, err := Load(path)
	require.NoError(t, err)
	require.Len(t, products, 1)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
