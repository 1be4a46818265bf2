package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/storefront/pkg/auth"
	"github.com/ghuser/storefront/pkg/errhttp"
	"github.com/ghuser/storefront/pkg/httpx"
	pkgvalidator "github.com/ghuser/storefront/pkg/validator"
	catalogdomain "github.com/ghuser/storefront/services/catalog/domain"
)

// PostProduct creates a new product.
//
//	@Summary		Create product
//	@Description	Creates a catalog product. Admin only.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ProductRequest	true	"Product fields"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Router			/products [post]
func (h *Handlers) PostProduct(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromCtx(r.Context())
	if err := auth.Authorize(actor, auth.IsAdmin); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ProductRequest](w, r)
	if !ok {
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		errhttp.WriteError(w, catalogdomain.NewValidationError("price", "must be a decimal number"))
		return
	}

	product, err := h.svc.Catalog.Create(r.Context(), req.Name, req.Description, price, req.Stock)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toProductResponse(product))
}

// PutProduct updates an existing product.
//
//	@Summary		Update product
//	@Description	Overwrites a product's fields. Admin only.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Product ID"
//	@Param			request	body		ProductRequest	true	"Product fields"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (h *Handlers) PutProduct(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromCtx(r.Context())
	if err := auth.Authorize(actor, auth.IsAdmin); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, catalogdomain.ErrProductNotFound)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ProductRequest](w, r)
	if !ok {
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		errhttp.WriteError(w, catalogdomain.NewValidationError("price", "must be a decimal number"))
		return
	}

	product, err := h.svc.Catalog.Update(r.Context(), id, req.Name, req.Description, price, req.Stock)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}

// DeleteProduct removes a product.
//
//	@Summary		Delete product
//	@Description	Removes a product from the catalog. Admin only.
//	@Tags			products
//	@Produce		json
//	@Param			id	path	string	true	"Product ID"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [delete]
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromCtx(r.Context())
	if err := auth.Authorize(actor, auth.IsAdmin); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, catalogdomain.ErrProductNotFound)
		return
	}

	if err := h.svc.Catalog.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
