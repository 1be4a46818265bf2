package services

import (
	"github.com/ghuser/storefront/pkg/app"
	"github.com/ghuser/storefront/pkg/cache"
	"github.com/ghuser/storefront/services/catalog/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Catalog *CatalogService
}

// New wires the catalog application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewProductRepository(a.Db)
	productCache := cache.NewProductCache(a.Redis)
	return &Services{
		Catalog: NewCatalogService(repo, productCache),
	}
}
