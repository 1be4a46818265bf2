package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/storefront/services/identity/application/services"
	"github.com/ghuser/storefront/services/identity/domain/models"
)

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150" example:"alice"`
	Email     string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password  string `json:"password" validate:"required,min=8,max=128" example:"s3cret-pass"`
	FirstName string `json:"first_name" validate:"max=150" example:"Alice"`
	LastName  string `json:"last_name" validate:"max=150" example:"Smith"`
	Phone     string `json:"phone" validate:"max=32" example:"555-0100"`
	Address   string `json:"address" validate:"max=512" example:"1 Main St"`
} // @name RegisterRequest

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	Password string `json:"password" validate:"required" example:"s3cret-pass"`
} // @name LoginRequest

// UserResponse mirrors a persisted account without credential material.
type UserResponse struct {
	ID        uuid.UUID `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Username  string    `json:"username" example:"alice"`
	Email     string    `json:"email" example:"alice@example.com"`
	FirstName string    `json:"first_name" example:"Alice"`
	LastName  string    `json:"last_name" example:"Smith"`
	Role      string    `json:"role" example:"customer"`
	Phone     string    `json:"phone" example:"555-0100"`
	Address   string    `json:"address" example:"1 Main St"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
} // @name UserResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
} // @name ErrorResponse

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.UserID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Profile.Role),
		Phone:     u.Profile.Phone,
		Address:   u.Profile.Address,
		CreatedAt: u.CreatedAt,
	}
}

// Handlers bundles the identity endpoints over the service container and the
// session store used to issue and clear login sessions.
type Handlers struct {
	svc   *services.Services
	store sessions.Store
}

// New returns the identity handler set.
func New(svc *services.Services, store sessions.Store) *Handlers {
	return &Handlers{svc: svc, store: store}
}
