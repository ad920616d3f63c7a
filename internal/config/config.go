// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds every tunable the service reads at startup.
type Config struct {
	AppEnv      string
	Port        string
	RedisURL    string
	CatalogPath string

	CORSAllowedOrigins []string

	CartTTL          time.Duration
	CatalogCacheTTL  time.Duration
	StackDiscountPct float64
	PromoMaxRecords  int

	RateLimitWindow time.Duration
	RateLimitMax    int64

	LogFormat          string
	LogLevel           string
	MetricsNamespace   string
	MetricsBucketsCSV  string
	TracingEnabled     bool
	TracingEndpoint    string
	TracingServiceName string
	TracingSampleRatio float64
}

// Load reads configuration from the environment and an optional .env file.
// REDIS_URL and CATALOG_PATH are required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:      stringOr(k.String("APP_ENV"), "development"),
		Port:        stringOr(k.String("PORT"), "8080"),
		RedisURL:    strings.TrimSpace(k.String("REDIS_URL")),
		CatalogPath: strings.TrimSpace(k.String("CATALOG_PATH")),

		CORSAllowedOrigins: splitCSV(k.String("CORS_ALLOWED_ORIGINS")),

		CartTTL:          durationOr(k.String("CART_TTL"), 7*24*time.Hour),
		CatalogCacheTTL:  durationOr(k.String("CATALOG_CACHE_TTL"), 5*time.Minute),
		StackDiscountPct: pctOr(k.String("STACK_DISCOUNT_PCT"), 10),
		PromoMaxRecords:  intOr(k.String("PROMO_MAX_RECORDS"), 60),

		RateLimitWindow: durationOr(k.String("RATE_LIMIT_WINDOW"), time.Minute),
		RateLimitMax:    int64(intOr(k.String("RATE_LIMIT_MAX"), 120)),

		LogFormat:          stringOr(k.String("OBS_LOG_FORMAT"), "json"),
		LogLevel:           stringOr(k.String("OBS_LOG_LEVEL"), "info"),
		MetricsNamespace:   stringOr(k.String("OBS_METRICS_NAMESPACE"), "storefront"),
		MetricsBucketsCSV:  k.String("OBS_METRICS_BUCKETS_MS"),
		TracingEnabled:     boolOr(k.String("OBS_TRACING_ENABLED"), false),
		TracingEndpoint:    stringOr(k.String("OBS_TRACING_ENDPOINT"), "localhost:4318"),
		TracingServiceName: stringOr(k.String("OBS_TRACING_SERVICE_NAME"), "storefront-api"),
		TracingSampleRatio: floatOr(k.String("OBS_TRACING_SAMPLE_RATIO"), 1.0),
	}

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.CatalogPath == "" {
		return nil, errors.New("CATALOG_PATH is required")
	}
	return cfg, nil
}

// HTTPAddr returns the listen address derived from Port.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func stringOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func durationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func intOr(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func floatOr(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}

func pctOr(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f <= 0 || f >= 100 {
		return fallback
	}
	return f
}

func boolOr(value string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}
