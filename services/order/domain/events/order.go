package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicOrderPlaced is the Watermill topic published when an order commits.
const TopicOrderPlaced = "order.placed"

// PlacedItem is one line of a placed order as carried on the wire.
type PlacedItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderPlacedEvent is published in the same transaction that commits the
// order, so consumers only ever see orders that exist. Consumers subscribe
// via EventBus.Subscribe(ctx, events.TopicOrderPlaced).
type OrderPlacedEvent struct {
	EventID    uuid.UUID       `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int             `json:"version"`  // Schema version; increment on breaking changes
	OrderID    uuid.UUID       `json:"order_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []PlacedItem    `json:"items"`
	OccurredAt time.Time       `json:"occurred_at"`
}
