package events

// Topic constants for domain events emitted by the storefront.
const (
	TopicStackRecommended     = "quiz.stack_recommended"
	TopicPromotionRegistered  = "promo.registered"
	TopicCartCleared          = "cart.cleared"
	TopicShippingQuoteBuilt   = "shipping.quote_built"
	TopicCheckoutSummaryBuilt = "checkout.summary_built"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicStackRecommended,
		TopicPromotionRegistered,
		TopicCartCleared,
		TopicShippingQuoteBuilt,
		TopicCheckoutSummaryBuilt,
	}
}
