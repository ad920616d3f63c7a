package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	ululimiter "github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/genesis-wellness/storefront-api/internal/cart"
	"github.com/genesis-wellness/storefront-api/internal/catalog"
	"github.com/genesis-wellness/storefront-api/internal/checkout"
	"github.com/genesis-wellness/storefront-api/internal/common"
	"github.com/genesis-wellness/storefront-api/internal/config"
	"github.com/genesis-wellness/storefront-api/internal/events"
	"github.com/genesis-wellness/storefront-api/internal/geo"
	"github.com/genesis-wellness/storefront-api/internal/health"
	"github.com/genesis-wellness/storefront-api/internal/obs"
	"github.com/genesis-wellness/storefront-api/internal/promo"
	"github.com/genesis-wellness/storefront-api/internal/quiz"
	"github.com/genesis-wellness/storefront-api/internal/ratelimit"
	"github.com/genesis-wellness/storefront-api/internal/security"
	"github.com/genesis-wellness/storefront-api/internal/shipping"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	tracingEnabled := cfg.TracingEnabled
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   cfg.TracingServiceName,
			Endpoint:      cfg.TracingEndpoint,
			Exporter:      "otlp",
			SamplingRatio: cfg.TracingSampleRatio,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis metrics")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	products, bundles, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("load catalog")
	}
	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Products: products,
		Bundles:  bundles,
		Cache:    catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	logger.Info().Int("products", len(products)).Int("bundles", len(bundles)).Msg("catalog loaded")

	bus := &events.Bus{OnError: func(topic string, err error) {
		logger.Error().Err(err).Str("topic", topic).Msg("event notifier")
	}}
	bus.Subscribe(eventLogger{logger: logger})
	bus.Subscribe(events.NotifierFunc(recordEventMetrics))

	validate := validator.New()

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogService})
	quizHandler := &quiz.Handler{Catalog: catalogService, Validate: validate, Events: bus}

	promoStore := &promo.RedisStore{Client: redisClient, TTL: cfg.CartTTL}
	promos := &promo.Registrar{
		Store:            promoStore,
		Catalog:          catalogService,
		StackDiscountPct: cfg.StackDiscountPct,
		MaxRecords:       cfg.PromoMaxRecords,
		Events:           bus,
	}

	cartSvc := &cart.Service{Client: redisClient, TTL: cfg.CartTTL}
	cartHandler := &cart.Handler{Svc: cartSvc, Catalog: catalogService, Promos: promos, Events: bus}

	zones := shipping.DefaultZones()
	shippingHandler := &shipping.Handler{Catalog: catalogService, Zones: zones, Validate: validate, Events: bus}

	checkoutSvc := &checkout.Service{
		Cart:    cartSvc,
		Catalog: catalogService,
		Promos:  promos,
		Zones:   zones,
		Events:  bus,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc, Validate: validate}

	geoHandler := geo.Handler{}

	httpMetrics := obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBucketsCSV), nil)

	limiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "rl:"},
		Config: ratelimit.Config{
			Key:    common.ClientIP,
			Window: cfg.RateLimitWindow,
			Max:    int(cfg.RateLimitMax),
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limiter")
		},
	}

	// Tighter per-IP budget for the recommendation endpoint.
	quizRateStore, err := limiterredis.NewStoreWithOptions(redisClient, ululimiter.StoreOptions{Prefix: "rl:quiz"})
	if err != nil {
		logger.Fatal().Err(err).Msg("quiz rate limiter store")
	}
	quizLimiter := limiterstdlib.NewMiddleware(ululimiter.New(quizRateStore, ululimiter.Rate{
		Period: time.Minute,
		Limit:  30,
	}))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(security.BodyLimit{Max: 1 << 20}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: cfg.IsProduction()}.Middleware)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.Handler{
		Checker: readinessChecker{redis: redisClient, catalog: catalogService},
	}
	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(limiter.Middleware)

		v.Get("/products", catalogHandler.List)
		v.Get("/products/{id}", catalogHandler.Get)
		v.Get("/categories", catalogHandler.Categories)
		v.Get("/bundles", catalogHandler.Bundles)

		v.With(quizLimiter.Handler).Post("/quiz/recommendations", quizHandler.Recommend)

		v.Route("/carts", func(c chi.Router) {
			c.Post("/", cartHandler.Create)
			c.Get("/{id}", cartHandler.Get)
			c.Delete("/{id}", cartHandler.Clear)
			c.Post("/{id}/items", cartHandler.AddItems)
			c.Patch("/{id}/items/{productId}", cartHandler.UpdateItem)
			c.Delete("/{id}/items/{productId}", cartHandler.RemoveItem)
			c.Post("/{id}/stack", cartHandler.AcceptStack)
			c.Post("/{id}/bundle", cartHandler.AcceptBundle)
		})

		v.Post("/shipping/quote", shippingHandler.Quote)
		v.Post("/checkout/summary", checkoutHandler.Summary)
		v.Get("/geo/country", geoHandler.Hint)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	health.SetReady(true)

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	health.SetReady(false)
	logger.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown server")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type eventLogger struct {
	logger zerolog.Logger
}

func (l eventLogger) Notify(_ context.Context, event events.Event) error {
	l.logger.Info().
		Str("event_id", event.ID.String()).
		Str("topic", event.Topic).
		Interface("payload", event.Payload).
		Msg("domain_event")
	return nil
}

func recordEventMetrics(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(map[string]any)
	switch event.Topic {
	case events.TopicStackRecommended:
		if goal, ok := payload["goal"].(string); ok {
			obs.QuizRecommendationsTotal.WithLabelValues(goal).Inc()
		}
		if size, ok := payload["stackSize"].(int); ok {
			obs.QuizStackSize.Observe(float64(size))
		}
	case events.TopicPromotionRegistered:
		if kind, ok := payload["type"].(string); ok {
			obs.PromotionsRegisteredTotal.WithLabelValues(kind).Inc()
		}
		if discount, ok := payload["discount"].(int64); ok {
			obs.PromoDiscountCents.Observe(float64(discount))
		}
	case events.TopicShippingQuoteBuilt:
		status, _ := payload["status"].(string)
		zone, _ := payload["zone"].(string)
		obs.ShippingQuotesTotal.WithLabelValues(status, zone).Inc()
	case events.TopicCheckoutSummaryBuilt:
		if status, ok := payload["shippingStatus"].(string); ok {
			obs.CheckoutSummariesTotal.WithLabelValues(status).Inc()
		}
	}
	return nil
}

type readinessChecker struct {
	redis   *redis.Client
	catalog *catalog.Service
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func (c readinessChecker) CatalogLoaded() bool {
	return c.catalog != nil && len(c.catalog.Products()) > 0
}
