package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/storefront/pkg/auth"
	"github.com/ghuser/storefront/pkg/errhttp"
	"github.com/ghuser/storefront/pkg/httpx"
	orderdomain "github.com/ghuser/storefront/services/order/domain"
)

// ListOrders returns the caller's visible orders.
//
//	@Summary		List orders
//	@Description	Customers see their own orders; admins see all orders.
//	@Tags			orders
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (max 100)"
//	@Param			offset	query		int	false	"Offset"
//	@Success		200		{object}	OrderListResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/orders [get]
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromCtx(r.Context())
	if err := auth.Authorize(actor, auth.IsAuthenticated); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	orders, total, err := h.svc.Order.List(r.Context(), actor, paginationOpts(r))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := OrderListResponse{
		Orders: make([]OrderResponse, len(orders)),
		Total:  total,
	}
	for i, o := range orders {
		resp.Orders[i] = toOrderResponse(o)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// GetOrder returns one order if the caller owns it or is an admin.
//
//	@Summary		Get order
//	@Description	Single order read; non-admin callers only see their own orders.
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	OrderResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/orders/{id} [get]
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromCtx(r.Context())
	if err := auth.Authorize(actor, auth.IsAuthenticated); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, orderdomain.ErrOrderNotFound)
		return
	}

	// Ownership is enforced by the query scope: a foreign order 404s.
	order, err := h.svc.Order.Get(r.Context(), actor, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toOrderResponse(order))
}
