package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresRedisURL(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("CATALOG_PATH", "testdata/catalog.json")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoadRequiresCatalogPath(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CATALOG_PATH", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "CATALOG_PATH")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CATALOG_PATH", "testdata/catalog.json")
	t.Setenv("PORT", "")
	t.Setenv("CART_TTL", "")
	t.Setenv("STACK_DISCOUNT_PCT", "")
	t.Setenv("PROMO_MAX_RECORDS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	require.Equal(t, 10.0, cfg.StackDiscountPct)
	require.Equal(t, 60, cfg.PromoMaxRecords)
	require.False(t, cfg.IsProduction())
}

func TestLoadRejectsOutOfRangeValues(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CATALOG_PATH", "testdata/catalog.json")
	t.Setenv("STACK_DISCOUNT_PCT", "150")
	t.Setenv("PROMO_MAX_RECORDS", "-3")
	t.Setenv("CART_TTL", "bogus")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10.0, cfg.StackDiscountPct)
	require.Equal(t, 60, cfg.PromoMaxRecords)
	require.Equal(t, 7*24*time.Hour, cfg.CartTTL)
}

func TestHTTPAddrKeepsExplicitColon(t *testing.T) {
	cfg := &Config{Port: ":9090"}
	require.Equal(t, ":9090", cfg.HTTPAddr())
}
