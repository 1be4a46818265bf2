package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	identitydomain "github.com/ghuser/storefront/services/identity/domain"
	"github.com/ghuser/storefront/services/identity/domain/models"
	"github.com/ghuser/storefront/services/identity/domain/repositories"
)

// RegisterInput carries the fields accepted at registration time.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// IdentityService orchestrates registration and credential checks.
type IdentityService struct {
	repo repositories.UserRepository
}

// NewIdentityService returns an IdentityService wired with the given repository.
func NewIdentityService(repo repositories.UserRepository) *IdentityService {
	return &IdentityService{repo: repo}
}

// Register creates a customer account with its profile in one transaction.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := models.NewUser(in.Username, in.Email, in.Password, in.FirstName, in.LastName, in.Phone, in.Address)
	if err != nil {
		return nil, fmt.Errorf("build user: %w", err)
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the user on success. Unknown
// usernames and bad passwords both map to ErrInvalidCredentials so callers
// cannot probe which usernames exist.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			return nil, identitydomain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, identitydomain.ErrInvalidCredentials
	}
	return user, nil
}

// GetByID retrieves a user by id.
func (s *IdentityService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}
