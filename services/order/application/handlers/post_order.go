package handlers

import (
	"net/http"

	"github.com/ghuser/storefront/pkg/auth"
	"github.com/ghuser/storefront/pkg/errhttp"
	"github.com/ghuser/storefront/pkg/httpx"
	pkgvalidator "github.com/ghuser/storefront/pkg/validator"
	"github.com/ghuser/storefront/services/order/domain/models"
)

// PostOrder places a new order.
//
//	@Summary		Place order
//	@Description	Atomically validates stock, freezes prices, and commits the order. Customer role required.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateOrderRequest	true	"Requested line items"
//	@Success		201		{object}	OrderResponse
//	@Failure		400		{object}	ErrorResponse	"validation failure or insufficient stock"
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"unknown product id"
//	@Router			/orders [post]
func (h *Handlers) PostOrder(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromCtx(r.Context())
	if err := auth.Authorize(actor, auth.IsCustomer); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateOrderRequest](w, r)
	if !ok {
		return
	}

	lines := make([]models.Line, len(req.Items))
	for i, item := range req.Items {
		lines[i] = models.Line{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := h.svc.Order.Place(r.Context(), actor.UserID, lines)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toOrderResponse(order))
}
