package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/storefront/pkg/errhttp"
	"github.com/ghuser/storefront/pkg/httpx"
	catalogdomain "github.com/ghuser/storefront/services/catalog/domain"
)

// ListProducts returns the paginated catalog. No authorization required.
//
//	@Summary		List products
//	@Description	Paginated product listing, open to anonymous callers.
//	@Tags			products
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (max 100)"
//	@Param			offset	query		int	false	"Offset"
//	@Success		200		{object}	ProductListResponse
//	@Router			/products [get]
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, total, err := h.svc.Catalog.List(r.Context(), paginationOpts(r))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := ProductListResponse{
		Products: make([]ProductResponse, len(products)),
		Total:    total,
	}
	for i, p := range products {
		resp.Products[i] = toProductResponse(p)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// GetProduct returns a single product. No authorization required.
//
//	@Summary		Get product
//	@Description	Single product read, open to anonymous callers.
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	ProductResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [get]
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, catalogdomain.ErrProductNotFound)
		return
	}

	product, err := h.svc.Catalog.GetByID(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}
