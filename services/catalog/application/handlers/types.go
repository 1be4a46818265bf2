package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/storefront/services/catalog/application/services"
	"github.com/ghuser/storefront/services/catalog/domain/models"
	"github.com/ghuser/storefront/services/catalog/domain/repositories"
)

// ProductRequest is the request body for product create/update.
// Price travels as a decimal string so money never passes through floats.
type ProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255" example:"Mechanical Keyboard"`
	Description string `json:"description" validate:"max=4000" example:"Tenkeyless, hot-swappable"`
	Price       string `json:"price" validate:"required" example:"99.99"`
	Stock       int    `json:"stock" validate:"gte=0" example:"100"`
} // @name ProductRequest

// ProductResponse mirrors a persisted product.
type ProductResponse struct {
	ID          uuid.UUID `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Name        string    `json:"name" example:"Mechanical Keyboard"`
	Description string    `json:"description" example:"Tenkeyless, hot-swappable"`
	Price       string    `json:"price" example:"99.99"`
	Stock       int       `json:"stock" example:"100"`
	CreatedAt   time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
} // @name ProductResponse

// ProductListResponse wraps a paginated product listing.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total" example:"42"`
} // @name ProductListResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"product not found"`
} // @name ErrorResponse

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Handlers bundles the catalog endpoints over the service container.
type Handlers struct {
	svc *services.Services
}

// New returns the catalog handler set.
func New(svc *services.Services) *Handlers {
	return &Handlers{svc: svc}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// paginationOpts parses limit/offset query params, clamping to sane bounds.
func paginationOpts(r *http.Request) repositories.QueryOpts {
	opts := repositories.QueryOpts{Limit: defaultPageSize}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		opts.Limit = min(v, maxPageSize)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		opts.Offset = v
	}
	return opts
}
