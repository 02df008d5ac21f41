package events

// Topic constants for domain events emitted by the terminal.
const (
	TopicOrderCommitted     = "order.committed"
	TopicOrderCancelled     = "order.cancelled"
	TopicTillShortfall      = "till.change_shortfall"
	TopicTillRestocked      = "till.restocked"
	TopicTillCashOut        = "till.cash_out"
	TopicCatalogRestocked   = "catalog.restocked"
	TopicCatalogPriceChange = "catalog.price_changed"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicOrderCommitted,
		TopicOrderCancelled,
		TopicTillShortfall,
		TopicTillRestocked,
		TopicTillCashOut,
		TopicCatalogRestocked,
		TopicCatalogPriceChange,
	}
}
