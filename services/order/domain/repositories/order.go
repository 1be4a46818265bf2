package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/storefront/services/order/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// Scope restricts which orders a query may see. The zero value (admin scope)
// sees everything; a customer scope is confined to their own orders. The
// restriction is applied inside the SQL predicate, never as a post-filter.
type Scope struct {
	CustomerID uuid.UUID // uuid.Nil means unrestricted (admin)
}

// AllOrders is the unrestricted admin scope.
func AllOrders() Scope { return Scope{} }

// OwnOrders confines queries to one customer's orders.
func OwnOrders(customerID uuid.UUID) Scope { return Scope{CustomerID: customerID} }

// Restricted reports whether the scope is customer-confined.
func (s Scope) Restricted() bool { return s.CustomerID != uuid.Nil }

// OrderRepository is the persistence interface for the Order aggregate.
//
// Place is the transactional core: it must validate every line against live
// stock, freeze prices, decrement stock, and persist order plus items as one
// atomic unit. Two concurrent Place calls against the same product must
// serialize their check-and-decrement so stock never goes negative. On any
// validation failure the store is left untouched.
type OrderRepository interface {
	Place(ctx context.Context, customerID uuid.UUID, lines []models.Line) (*models.Order, error)

	// GetByID returns the order with its items, or ErrOrderNotFound when
	// no order matches within the scope.
	GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Order, error)

	// Find retrieves a paginated order list (newest first, items included)
	// and the total count within the scope.
	Find(ctx context.Context, scope Scope, opts QueryOpts) ([]*models.Order, int, error)
}
