package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/storefront/pkg/database"
	catalogdomain "github.com/ghuser/storefront/services/catalog/domain"
	"github.com/ghuser/storefront/services/catalog/domain/models"
	"github.com/ghuser/storefront/services/catalog/domain/repositories"
)

// ProductRepository implements repositories.ProductRepository against PostgreSQL.
type ProductRepository struct {
	db *database.Database
}

// NewProductRepository returns a ProductRepository backed by the given pool.
func NewProductRepository(db *database.Database) *ProductRepository {
	return &ProductRepository{db: db}
}

// Save persists a new Product.
func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	const q = `
		INSERT INTO products (id, name, description, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.DB().ExecContext(ctx, q,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a Product by ID. Returns ErrProductNotFound if not found.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	const q = `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		WHERE id = $1`
	product, err := scanProduct(r.db.DB().QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogdomain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return product, nil
}

// Find retrieves a paginated product list and the total count.
func (r *ProductRepository) Find(ctx context.Context, opts repositories.QueryOpts) ([]*models.Product, int, error) {
	const q = `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`
	rows, err := r.db.DB().QueryContext(ctx, q, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	var total int
	if err := r.db.DB().QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return products, total, nil
}

// Update persists changes to an existing Product and bumps updated_at.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	const q = `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, updated_at = $6
		WHERE id = $1`
	product.UpdatedAt = time.Now().UTC()
	res, err := r.db.DB().ExecContext(ctx, q,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return catalogdomain.ErrProductNotFound
	}
	return nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return catalogdomain.ErrProductNotFound
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*models.Product, error) {
	var (
		p        models.Product
		priceStr string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &priceStr, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", priceStr, err)
	}
	p.Price = price
	return &p, nil
}
