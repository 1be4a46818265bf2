package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/storefront/services/identity/domain/models"
)

// UserRepository persists identity aggregates. Save writes the user and its
// profile atomically.
type UserRepository interface {
	Save(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
