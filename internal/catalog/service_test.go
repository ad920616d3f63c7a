package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func serviceFixture(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(ServiceConfig{
		Products: []Product{
			{ID: "multi", Name: "Daily Multivitamin", Category: CategoryFoundational, Price: 1999, Servings: 60, Featured: true},
			{ID: "melatonin", Name: "Melatonin 5mg", Category: CategorySleep, Price: 1299, Servings: 90},
			{ID: "whey-us", Name: "Grass-Fed Whey", Category: CategoryPerformance, Price: 4599, Servings: 30, ShippingScope: ScopeUSOnly},
		},
		Bundles: []Bundle{{ID: "duo", Name: "Duo", Price: 2999, ItemIDs: []string{"multi", "melatonin"}}},
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresProducts(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	require.Error(t, err)
}

func TestProductByID(t *testing.T) {
	svc := serviceFixture(t)

	p, ok := svc.ProductByID("multi")
	require.True(t, ok)
	require.Equal(t, "Daily Multivitamin", p.Name)

	p, ok = svc.ProductByID(" multi ")
	require.True(t, ok, "ids are trimmed")
	require.Equal(t, "multi", p.ID)

	_, ok = svc.ProductByID("ghost")
	require.False(t, ok)
}

func TestBundleByID(t *testing.T) {
	svc := serviceFixture(t)

	b, ok := svc.BundleByID("duo")
	require.True(t, ok)
	require.Equal(t, "Duo", b.Name)

	_, ok = svc.BundleByID("ghost")
	require.False(t, ok)
}

func TestListFilters(t *testing.T) {
	svc := serviceFixture(t)
	ctx := context.Background()

	all := svc.List(ctx, ListQuery{})
	require.Len(t, all, 3)

	sleep := svc.List(ctx, ListQuery{Category: CategorySleep})
	require.Len(t, sleep, 1)
	require.Equal(t, "melatonin", sleep[0].ID)

	featured := svc.List(ctx, ListQuery{Featured: true})
	require.Len(t, featured, 1)
	require.Equal(t, "multi", featured[0].ID)

	germany := svc.List(ctx, ListQuery{Country: "Germany"})
	require.Len(t, germany, 2, "US-only products are excluded for international destinations")

	domestic := svc.List(ctx, ListQuery{Country: DomesticCountry})
	require.Len(t, domestic, 3)
}

func TestListUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, err := NewService(ServiceConfig{
		Products: []Product{{ID: "multi", Name: "Daily Multivitamin", Category: CategoryFoundational, Price: 1999, Servings: 60}},
		Cache:    NewCache(client, time.Minute),
	})
	require.NoError(t, err)

	ctx := context.Background()
	first := svc.List(ctx, ListQuery{})
	require.Len(t, first, 1)
	require.True(t, mr.Exists("catalog:list::"))

	second := svc.List(ctx, ListQuery{})
	require.Equal(t, first, second)
}

func TestCategorySummaries(t *testing.T) {
	svc := serviceFixture(t)

	summaries := svc.CategorySummaries()
	require.Len(t, summaries, 7)
	require.Equal(t, CategoryFoundational, summaries[0].Name)
	require.Equal(t, 1, summaries[0].Count)

	var sleepCount, energyCount int
	for _, s := range summaries {
		switch s.Name {
		case CategorySleep:
			sleepCount = s.Count
		case CategoryEnergy:
			energyCount = s.Count
		}
	}
	require.Equal(t, 1, sleepCount)
	require.Equal(t, 0, energyCount)
}

func TestProductsReturnsCopy(t *testing.T) {
	svc := serviceFixture(t)

	products := svc.Products()
	products[0].ID = "mutated"

	fresh := svc.Products()
	require.Equal(t, "multi", fresh[0].ID)
}
