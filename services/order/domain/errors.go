package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for the order domain. Use errors.Is() to check these.
var (
	// ErrOrderNotFound indicates the requested order does not exist or is
	// outside the caller's visibility scope.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyOrder indicates an order request with no line items.
	ErrEmptyOrder = errors.New("order must contain at least one item")
)

// InsufficientStockError names the product whose stock cannot cover the
// requested quantity. The whole order fails; no writes happen.
// Match with errors.As; errhttp maps it to 400.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product: %s", e.ProductName)
}

// InvalidQuantityError indicates a non-positive quantity on a line item.
type InvalidQuantityError struct {
	ProductID uuid.UUID
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be a positive integer, got %d", e.Quantity)
}
