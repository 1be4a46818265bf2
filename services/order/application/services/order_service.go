package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/storefront/pkg/auth"
	"github.com/ghuser/storefront/services/order/domain/models"
	"github.com/ghuser/storefront/services/order/domain/repositories"
)

// OrderService fronts the order transaction engine and the scoped reads.
// Role gates run in the handlers; this layer owns query scoping, because the
// ownership filter belongs next to the queries it constrains.
type OrderService struct {
	repo repositories.OrderRepository
}

// NewOrderService returns an OrderService over the given repository.
func NewOrderService(repo repositories.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Place validates the requested lines and runs the atomic
// validate-price-commit transaction. Callers have already verified the actor
// holds the customer role.
func (s *OrderService) Place(ctx context.Context, customerID uuid.UUID, lines []models.Line) (*models.Order, error) {
	if err := models.ValidateLines(lines); err != nil {
		return nil, err
	}
	order, err := s.repo.Place(ctx, customerID, lines)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns one order within the actor's visibility scope. A non-admin
// asking for another customer's order gets ErrOrderNotFound — the scope sits
// inside the SQL predicate, not in a post-hoc check.
func (s *OrderService) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Order, error) {
	return s.repo.GetByID(ctx, scopeFor(actor), id)
}

// List returns the actor's visible orders: all of them for admins, only
// their own for customers.
func (s *OrderService) List(ctx context.Context, actor auth.Actor, opts repositories.QueryOpts) ([]*models.Order, int, error) {
	orders, total, err := s.repo.Find(ctx, scopeFor(actor), opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

func scopeFor(actor auth.Actor) repositories.Scope {
	if actor.IsAdmin() {
		return repositories.AllOrders()
	}
	return repositories.OwnOrders(actor.UserID)
}
