package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/storefront/services/catalog/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// ProductRepository is the persistence interface for the Product aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Stock mutation outside Update happens exclusively inside the order
// engine's transaction, never through this interface.
type ProductRepository interface {
	Save(ctx context.Context, product *models.Product) error

	// GetByID returns ErrProductNotFound when no product matches.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// Find retrieves a paginated product list plus the total count
	// (ignoring pagination).
	Find(ctx context.Context, opts QueryOpts) ([]*models.Product, int, error)

	// Update persists changes to an existing Product and refreshes its
	// updated_at. Returns ErrProductNotFound when no row matches.
	Update(ctx context.Context, product *models.Product) error

	// Delete removes a product. Returns ErrProductNotFound when no row
	// matches.
	Delete(ctx context.Context, id uuid.UUID) error
}
