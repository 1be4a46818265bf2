package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/storefront/services/order/domain"
)

// Status is an order's lifecycle state. Only StatusPending is assigned by
// this system; later states are an extension point for fulfillment.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
)

// Line is one requested (product, quantity) pair, before validation against
// live stock.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderItem is one persisted line of an order. Price is the frozen copy of
// the product price at order creation, immune to later catalog changes.
type OrderItem struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// Subtotal is the item's contribution to the order total.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer's purchase record. TotalPrice is computed, never
// client-supplied, and immutable after creation. Items keep request order.
type Order struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Items      []OrderItem
	TotalPrice decimal.Decimal
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrder assembles an Order from validated items with already-frozen
// prices. The total is the sum of each item's price × quantity; both
// persistence backends use this single constructor so the pricing invariant
// has exactly one implementation.
func NewOrder(customerID uuid.UUID, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	id := uuid.New()
	total := decimal.Zero
	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, &domain.InvalidQuantityError{ProductID: items[i].ProductID, Quantity: items[i].Quantity}
		}
		items[i].OrderID = id
		total = total.Add(items[i].Subtotal())
	}

	now := time.Now().UTC()
	return &Order{
		ID:         id,
		CustomerID: customerID,
		Items:      items,
		TotalPrice: total,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ValidateLines rejects requests the engine should never take to the store:
// no lines, or any non-positive quantity.
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return domain.ErrEmptyOrder
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return &domain.InvalidQuantityError{ProductID: l.ProductID, Quantity: l.Quantity}
		}
	}
	return nil
}
