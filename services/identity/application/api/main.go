package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/storefront/pkg/app"
	"github.com/ghuser/storefront/services/identity/application/handlers"
	appsvcs "github.com/ghuser/storefront/services/identity/application/services"
)

// IdentityRoutes registers registration and session endpoints.
func IdentityRoutes(r chi.Router, a *app.Application) {
	h := handlers.New(appsvcs.New(a), a.SessionStore)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
}
