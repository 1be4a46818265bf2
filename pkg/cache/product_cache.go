package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	// ProductCacheTTL is the time-to-live for cached products. Kept short
	// because stock changes on every order commit; explicit invalidation is
	// the primary mechanism, the TTL is the backstop.
	ProductCacheTTL = time.Hour

	productCacheKeyPrefix = "product"
)

// CachedProduct is the denormalized read model stored in Redis.
// Fields are stored as a Redis hash; price uses decimal string form so no
// float rounding ever touches money.
type CachedProduct struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductCache provides structured read/write operations for product cache
// entries. Key format: "product:{productID}"
type ProductCache struct {
	client *RedisClient
}

// NewProductCache creates a new ProductCache backed by the given RedisClient.
func NewProductCache(r *RedisClient) *ProductCache {
	return &ProductCache{client: r}
}

// Get retrieves a cached product by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ProductCache) Get(ctx context.Context, productID uuid.UUID) (*CachedProduct, error) {
	key := c.key(productID)
	vals, err := c.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	price, err := decimal.NewFromString(vals["price"])
	if err != nil {
		return nil, fmt.Errorf("cache parse price: %w", err)
	}
	stock, err := strconv.Atoi(vals["stock"])
	if err != nil {
		return nil, fmt.Errorf("cache parse stock: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}

	return &CachedProduct{
		ID:          id,
		Name:        vals["name"],
		Description: vals["description"],
		Price:       price,
		Stock:       stock,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Set writes a cached product as a Redis hash with the product TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ProductCache) Set(ctx context.Context, p *CachedProduct) error {
	key := c.key(p.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", p.ID.String(),
		"name", p.Name,
		"description", p.Description,
		"price", p.Price.String(),
		"stock", strconv.Itoa(p.Stock),
		"created_at", p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at", p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, ProductCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached product. Called after admin writes and after order
// commits decrement stock.
func (c *ProductCache) Delete(ctx context.Context, productIDs ...uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = c.key(id)
	}
	if err := c.client.Client().Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "product:{productID}"
func (c *ProductCache) key(productID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", productCacheKeyPrefix, productID)
}
