package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	pkgcache "github.com/ghuser/storefront/pkg/cache"
	"github.com/ghuser/storefront/services/catalog/domain/models"
	"github.com/ghuser/storefront/services/catalog/domain/repositories"
)

// CatalogService orchestrates product reads and admin writes. Reads are
// served from Redis cache when available; the authorization gate runs in the
// handlers before any of these methods execute.
type CatalogService struct {
	repo  repositories.ProductRepository
	cache *pkgcache.ProductCache
}

// NewCatalogService returns a CatalogService wired with the given repository and cache.
func NewCatalogService(repo repositories.ProductRepository, productCache *pkgcache.ProductCache) *CatalogService {
	return &CatalogService{repo: repo, cache: productCache}
}

// Create validates and persists a Product.
func (s *CatalogService) Create(ctx context.Context, name, description string, price decimal.Decimal, stock int) (*models.Product, error) {
	product, err := models.NewProduct(name, description, price, stock)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

// GetByID retrieves a Product using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return &models.Product{
				ID:          cached.ID,
				Name:        cached.Name,
				Description: cached.Description,
				Price:       cached.Price,
				Stock:       cached.Stock,
				CreatedAt:   cached.CreatedAt,
				UpdatedAt:   cached.UpdatedAt,
			}, nil
		} else if !errors.Is(err, redis.Nil) {
			// Cache errors fall through to Postgres.
			_ = err
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), cachedFromProduct(product))
		}()
	}

	return product, nil
}

// List returns a paginated slice of products plus total count.
// Open to any caller; no cache involvement for list scans.
func (s *CatalogService) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Product, int, error) {
	products, total, err := s.repo.Find(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// Update validates and persists field changes to an existing product, then
// drops the stale cache entry.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, name, description string, price decimal.Decimal, stock int) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Apply(name, description, price, stock); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), id)
	}
	return product, nil
}

// Delete removes a product and its cache entry.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), id)
	}
	return nil
}

func cachedFromProduct(p *models.Product) *pkgcache.CachedProduct {
	return &pkgcache.CachedProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
