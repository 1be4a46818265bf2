package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/storefront/services/catalog/domain"
)

// Product is the core aggregate of the catalog bounded context.
// Price carries decimal semantics end to end; stock is mutated only by admin
// updates and by the order engine's transactional decrement.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct constructs a valid Product with generated ID and current
// timestamps, or a ValidationError naming the offending field.
func NewProduct(name, description string, price decimal.Decimal, stock int) (*Product, error) {
	if err := ValidateFields(name, price, stock); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ValidateFields enforces the catalog invariants before any persistence:
// price must be greater than zero, stock must not be negative.
func ValidateFields(name string, price decimal.Decimal, stock int) error {
	if name == "" {
		return domain.NewValidationError("name", "name is required")
	}
	if !price.IsPositive() {
		return domain.NewValidationError("price", "price must be greater than zero")
	}
	if stock < 0 {
		return domain.NewValidationError("stock", "stock cannot be negative")
	}
	return nil
}

// Apply overwrites the mutable fields after validating them. Timestamps are
// owned by the store; callers never set them.
func (p *Product) Apply(name, description string, price decimal.Decimal, stock int) error {
	if err := ValidateFields(name, price, stock); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.Price = price
	p.Stock = stock
	return nil
}
