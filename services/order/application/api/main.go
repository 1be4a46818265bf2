package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/storefront/pkg/app"
	"github.com/ghuser/storefront/services/order/application/handlers"
	appsvcs "github.com/ghuser/storefront/services/order/application/services"
)

// OrderRoutes registers order endpoints on the provided chi router.
// Every operation requires an authenticated actor; the per-operation
// predicates run inside the handlers.
func OrderRoutes(r chi.Router, a *app.Application) {
	h := handlers.New(appsvcs.New(a))
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.PostOrder)
		r.Get("/{id}", h.GetOrder)
	})
}
