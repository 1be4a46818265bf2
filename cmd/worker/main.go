package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/storefront/pkg/app"
	"github.com/ghuser/storefront/pkg/cache"
	"github.com/ghuser/storefront/pkg/config"
	"github.com/ghuser/storefront/pkg/database"
	"github.com/ghuser/storefront/pkg/events"
	"github.com/ghuser/storefront/pkg/logger"
	"github.com/ghuser/storefront/pkg/telemetry"
	orderEvents "github.com/ghuser/storefront/services/order/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	errCh, err := a.EventBus.Subscribe(ctx, orderEvents.TopicOrderPlaced, handleOrderPlaced(a))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", orderEvents.TopicOrderPlaced,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{orderEvents.TopicOrderPlaced})
	return nil
}

// handleOrderPlaced returns a handler for order.placed events.
// Handlers must be idempotent; EventBus retries up to 3x on failure.
// Drops the cached entry for every ordered product so the next catalog read
// sees the decremented stock instead of the stale cached value.
func handleOrderPlaced(a *app.Application) func(context.Context, *message.Message) error {
	productCache := cache.NewProductCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt orderEvents.OrderPlacedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(evt.Items))
		for _, item := range evt.Items {
			ids = append(ids, item.ProductID)
		}

		if err := productCache.Delete(ctx, ids...); err != nil {
			// Invalidation is retried by the bus; fail the handler.
			a.Logger.WarnContext(ctx, "cache invalidation failed for order.placed",
				"order_id", evt.OrderID, "error", err)
			return err
		}

		a.Logger.InfoContext(ctx, "product cache invalidated",
			"order_id", evt.OrderID, "products", len(ids))
		return nil
	}
}
