package services

import (
	"github.com/ghuser/storefront/pkg/app"
	"github.com/ghuser/storefront/services/identity/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Identity *IdentityService
}

// New wires the identity application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	return &Services{
		Identity: NewIdentityService(postgres.NewUserRepository(a.Db)),
	}
}
