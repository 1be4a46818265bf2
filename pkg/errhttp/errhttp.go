// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/storefront/pkg/auth"
	"github.com/ghuser/storefront/pkg/httpx"
	catalogdomain "github.com/ghuser/storefront/services/catalog/domain"
	identitydomain "github.com/ghuser/storefront/services/identity/domain"
	orderdomain "github.com/ghuser/storefront/services/order/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() / errors.As() so wrapped errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func mapErrorToStatus(err error) int {
	var (
		validationErr *catalogdomain.ValidationError
		stockErr      *orderdomain.InsufficientStockError
		quantityErr   *orderdomain.InvalidQuantityError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &stockErr),
		errors.As(err, &quantityErr),
		errors.Is(err, orderdomain.ErrEmptyOrder):
		return http.StatusBadRequest // 400
	case errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, identitydomain.ErrInvalidCredentials):
		return http.StatusUnauthorized // 401
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden // 403
	case errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, identitydomain.ErrUserNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, identitydomain.ErrUsernameTaken):
		return http.StatusConflict // 409
	default:
		return http.StatusInternalServerError // 500
	}
}
