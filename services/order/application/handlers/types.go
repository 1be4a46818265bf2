package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/storefront/services/order/application/services"
	"github.com/ghuser/storefront/services/order/domain/models"
	"github.com/ghuser/storefront/services/order/domain/repositories"
)

// OrderItemRequest is one requested line: product and quantity. The price is
// never client-supplied.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	Quantity  int       `json:"quantity" validate:"required,gt=0" example:"2"`
} // @name OrderItemRequest

// CreateOrderRequest is the request body for POST /orders.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
} // @name CreateOrderRequest

// OrderItemResponse mirrors a persisted order line with its frozen price.
type OrderItemResponse struct {
	ProductID uuid.UUID `json:"product_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Quantity  int       `json:"quantity" example:"2"`
	Price     string    `json:"price" example:"99.99"`
} // @name OrderItemResponse

// OrderResponse mirrors a persisted order.
type OrderResponse struct {
	ID         uuid.UUID           `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CustomerID uuid.UUID           `json:"customer_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Items      []OrderItemResponse `json:"items"`
	TotalPrice string              `json:"total_price" example:"199.98"`
	Status     string              `json:"status" example:"pending"`
	CreatedAt  time.Time           `json:"created_at" example:"2024-01-15T10:30:00Z"`
} // @name OrderResponse

// OrderListResponse wraps a paginated order listing.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total" example:"3"`
} // @name OrderListResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"insufficient stock for product: Mechanical Keyboard"`
} // @name ErrorResponse

func toOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Items:      make([]OrderItemResponse, len(o.Items)),
		TotalPrice: o.TotalPrice.StringFixed(2),
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
	}
	for i, item := range o.Items {
		resp.Items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
		}
	}
	return resp
}

// Handlers bundles the order endpoints over the service container.
type Handlers struct {
	svc *services.Services
}

// New returns the order handler set.
func New(svc *services.Services) *Handlers {
	return &Handlers{svc: svc}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

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
