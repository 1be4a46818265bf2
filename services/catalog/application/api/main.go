package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/storefront/pkg/app"
	"github.com/ghuser/storefront/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/storefront/services/catalog/application/services"
)

// CatalogRoutes registers product endpoints on the provided chi router.
// Reads are open; writes are gated to admins inside the handlers.
func CatalogRoutes(r chi.Router, a *app.Application) {
	h := handlers.New(appsvcs.New(a))
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.PostProduct)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.Put("/", h.PutProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})
}
