package services

import (
	"github.com/ghuser/storefront/pkg/app"
	"github.com/ghuser/storefront/services/order/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Order *OrderService
}

// New wires the order application services with infrastructure from the
// Application container. The repository publishes order.placed events on the
// bus inside its commit transaction (outbox pattern).
func New(a *app.Application) *Services {
	repo := postgres.NewOrderRepository(a.Db, a.EventBus)
	return &Services{
		Order: NewOrderService(repo),
	}
}
