package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/genesis-wellness/storefront-api/internal/pricing"
)

func testService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Service{Client: client, TTL: time.Hour}, mr
}

func resolveAll(string) bool { return true }

func TestCreateAndLoadEmptyCart(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	cartID, err := svc.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cartID)

	lines, err := svc.Lines(ctx, cartID)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestLinesMissingCart(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Lines(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddItemsAccumulates(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	cartID, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.AddItems(ctx, cartID, []string{"multi", "omega"}, 1, resolveAll))
	require.NoError(t, svc.AddItems(ctx, cartID, []string{"multi"}, 2, resolveAll))

	lines, err := svc.Lines(ctx, cartID)
	require.NoError(t, err)
	require.Equal(t, []pricing.Line{
		{ProductID: "multi", Quantity: 3},
		{ProductID: "omega", Quantity: 1},
	}, lines)
}

func TestAddItemsDefaultsQuantityToOne(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	cartID, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.AddItems(ctx, cartID, []string{"multi"}, 0, resolveAll))

	lines, err := svc.Lines(ctx, cartID)
	require.NoError(t, err)
	require.Equal(t, 1, lines[0].Quantity)
}

func TestAddItemsSkipsUnresolvableIDs(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	cartID, err := svc.Create(ctx)
	require.NoError(t, err)

	resolve := func(id string) bool { return id == "multi" }
	require.NoError(t, svc.AddItems(ctx, cartID, []string{"multi", "ghost", " "}, 1, resolve))

	lines, err := svc.Lines(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "multi", lines[0].ProductID)
}

func TestSetQuantityReplacesAndRemoves(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	cartID, err := svc.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.AddItems(ctx, cartID, []string{"multi", "omega"}, 2, resolveAll))

	require.NoError(t, svc.SetQuantity(ctx, cartID, "multi", 5))
	lines, err := svc.Lines(ctx, cartID)
	require.NoError(t, err)
	require.Equal(t, 5, lines[0].Quantity)

	require.NoError(t, svc.SetQuantity(ctx, cartID, "multi", 0))
	lines, err = svc.Lines(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "omega", lines[0].ProductID)
}

func TestSetQuantityEmptyProductID(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	cartID, err := svc.Create(ctx)
	require.NoError(t, err)

	require.ErrorIs(t, svc.SetQuantity(ctx, cartID, "  ", 1), ErrInvalidInput)
}

func TestClearKeepsCartAlive(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	cartID, err := svc.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.AddItems(ctx, cartID, []string{"multi"}, 1, resolveAll))

	require.NoError(t, svc.Clear(ctx, cartID))

	lines, err := svc.Lines(ctx, cartID)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestCartTTLSet(t *testing.T) {
	svc, mr := testService(t)
	ctx := context.Background()

	cartID, err := svc.Create(ctx)
	require.NoError(t, err)
	require.Greater(t, mr.TTL("cart:"+cartID), time.Duration(0))
}

func TestNormalizeMergesDuplicates(t *testing.T) {
	lines := []pricing.Line{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 2},
		{ProductID: "a", Quantity: 3},
		{ProductID: "c", Quantity: 0},
		{ProductID: " ", Quantity: 5},
	}

	require.Equal(t, []pricing.Line{
		{ProductID: "a", Quantity: 4},
		{ProductID: "b", Quantity: 2},
	}, normalize(lines))
}
