package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuizRecommendationsTotal counts quiz stacks built, labelled by goal.
	QuizRecommendationsTotal *prometheus.CounterVec
	// QuizStackSize records the distribution of recommended stack sizes.
	QuizStackSize prometheus.Histogram
	// PromotionsRegisteredTotal counts ledger registrations by promotion type.
	PromotionsRegisteredTotal *prometheus.CounterVec
	// PromoDiscountCents records the discount amount of applied promotions.
	PromoDiscountCents prometheus.Histogram
	// ShippingQuotesTotal counts shipping quote outcomes by status and zone.
	ShippingQuotesTotal *prometheus.CounterVec
	// CheckoutSummariesTotal counts checkout summary computations by shipping status.
	CheckoutSummariesTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuizRecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_recommendations_total",
			Help:      "Count of quiz stack recommendations by goal.",
		}, []string{"goal"})
		QuizStackSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quiz_stack_size",
			Help:      "Distribution of recommended stack sizes.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		})
		PromotionsRegisteredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_registered_total",
			Help:      "Count of promotion ledger registrations by type.",
		}, []string{"type"})
		PromoDiscountCents = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "promo_discount_cents",
			Help:      "Discount amounts of registered promotions in minor units.",
			Buckets:   []float64{100, 500, 1000, 2500, 5000, 10000, 25000},
		})
		ShippingQuotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipping_quotes_total",
			Help:      "Count of shipping quote outcomes by status and zone.",
		}, []string{"status", "zone"})
		CheckoutSummariesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_summaries_total",
			Help:      "Count of checkout summary computations by shipping status.",
		}, []string{"shipping_status"})

		mustRegisterCollector(reg, QuizRecommendationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuizRecommendationsTotal = v
			}
		})
		mustRegisterCollector(reg, QuizStackSize, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				QuizStackSize = v
			}
		})
		mustRegisterCollector(reg, PromotionsRegisteredTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PromotionsRegisteredTotal = v
			}
		})
		mustRegisterCollector(reg, PromoDiscountCents, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				PromoDiscountCents = v
			}
		})
		mustRegisterCollector(reg, ShippingQuotesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ShippingQuotesTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutSummariesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutSummariesTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
