package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/storefront/pkg/database"
	"github.com/ghuser/storefront/pkg/events"
	catalogdomain "github.com/ghuser/storefront/services/catalog/domain"
	orderdomain "github.com/ghuser/storefront/services/order/domain"
	domainevents "github.com/ghuser/storefront/services/order/domain/events"
	"github.com/ghuser/storefront/services/order/domain/models"
	"github.com/ghuser/storefront/services/order/domain/repositories"
)

// OrderRepository implements repositories.OrderRepository against PostgreSQL.
type OrderRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewOrderRepository returns an OrderRepository backed by the given pool and
// event bus. The bus publishes OrderPlacedEvents inside the Place transaction.
func NewOrderRepository(db *database.Database, bus *events.EventBus) *OrderRepository {
	return &OrderRepository{db: db, bus: bus}
}

// lockedProduct is a product row held under FOR UPDATE for the duration of
// the Place transaction.
type lockedProduct struct {
	name      string
	price     decimal.Decimal
	remaining int
}

// Place runs the order transaction: lock the product rows, validate every
// line against the locked stock, freeze prices, insert order and items, and
// decrement stock — one atomic unit. Any validation failure rolls the whole
// transaction back, leaving zero writes.
//
// Rows are locked in sorted product-id order so two multi-line orders can
// never deadlock on each other; the serialized check-and-decrement is what
// keeps stock from going negative under concurrent commits.
func (r *OrderRepository) Place(ctx context.Context, customerID uuid.UUID, lines []models.Line) (*models.Order, error) {
	if err := models.ValidateLines(lines); err != nil {
		return nil, err
	}

	var order *models.Order
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		locked, err := lockProducts(ctx, tx, lines)
		if err != nil {
			return err
		}

		// Validation pass over the locked snapshot, in request order.
		// Repeated product ids draw down the same remaining balance.
		items := make([]models.OrderItem, len(lines))
		for i, line := range lines {
			p := locked[line.ProductID]
			if p.remaining < line.Quantity {
				return &orderdomain.InsufficientStockError{
					ProductID:   line.ProductID,
					ProductName: p.name,
					Requested:   line.Quantity,
					Available:   p.remaining,
				}
			}
			p.remaining -= line.Quantity
			items[i] = models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     p.price, // frozen at validation time
			}
		}

		order, err = models.NewOrder(customerID, items)
		if err != nil {
			return err
		}

		if err := insertOrder(ctx, tx, order); err != nil {
			return err
		}

		for id, p := range locked {
			if _, err := tx.ExecContext(ctx,
				`UPDATE products SET stock = $2, updated_at = $3 WHERE id = $1`,
				id, p.remaining, order.CreatedAt,
			); err != nil {
				return fmt.Errorf("decrement stock for %s: %w", id, err)
			}
		}

		if r.bus != nil {
			if err := r.publishPlaced(tx, order); err != nil {
				return fmt.Errorf("publish order placed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// lockProducts acquires FOR UPDATE locks on every referenced product row in
// sorted id order and returns the locked snapshots.
func lockProducts(ctx context.Context, tx *sql.Tx, lines []models.Line) (map[uuid.UUID]*lockedProduct, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	locked := make(map[uuid.UUID]*lockedProduct, len(ids))
	for _, id := range ids {
		var (
			p        lockedProduct
			priceStr string
		)
		err := tx.QueryRowContext(ctx,
			`SELECT name, price, stock FROM products WHERE id = $1 FOR UPDATE`,
			id,
		).Scan(&p.name, &priceStr, &p.remaining)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, catalogdomain.ErrProductNotFound
			}
			return nil, fmt.Errorf("lock product %s: %w", id, err)
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", priceStr, err)
		}
		p.price = price
		locked[id] = &p
	}
	return locked, nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, total_price, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.CustomerID, order.TotalPrice, string(order.Status), order.CreatedAt, order.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for pos, item := range order.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price, position)
			 VALUES ($1, $2, $3, $4, $5)`,
			item.OrderID, item.ProductID, item.Quantity, item.Price, pos,
		); err != nil {
			return fmt.Errorf("insert order item %d: %w", pos, err)
		}
	}
	return nil
}

func (r *OrderRepository) publishPlaced(tx *sql.Tx, order *models.Order) error {
	event := domainevents.OrderPlacedEvent{
		EventID:    uuid.New(),
		Version:    1,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		TotalPrice: order.TotalPrice,
		Items:      make([]domainevents.PlacedItem, len(order.Items)),
		OccurredAt: order.CreatedAt,
	}
	for i, item := range order.Items {
		event.Items[i] = domainevents.PlacedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(domainevents.TopicOrderPlaced, msg)
}

// GetByID retrieves an order with its items. The scope's customer predicate
// is part of the SQL, so a foreign order is indistinguishable from a missing
// one.
func (r *OrderRepository) GetByID(ctx context.Context, scope repositories.Scope, id uuid.UUID) (*models.Order, error) {
	q := `SELECT id, customer_id, total_price, status, created_at, updated_at
	      FROM orders WHERE id = $1`
	args := []any{id}
	if scope.Restricted() {
		q += ` AND customer_id = $2`
		args = append(args, scope.CustomerID)
	}

	order, err := scanOrder(r.db.DB().QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orderdomain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("query order: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

// Find retrieves a paginated, newest-first order list within the scope.
func (r *OrderRepository) Find(ctx context.Context, scope repositories.Scope, opts repositories.QueryOpts) ([]*models.Order, int, error) {
	q := `SELECT id, customer_id, total_price, status, created_at, updated_at
	      FROM orders`
	countQ := `SELECT count(*) FROM orders`
	args := []any{}
	if scope.Restricted() {
		q += ` WHERE customer_id = $1`
		countQ += ` WHERE customer_id = $1`
		args = append(args, scope.CustomerID)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	rows, err := r.db.DB().QueryContext(ctx, q, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var (
		orders []*models.Order
		ids    []uuid.UUID
	)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, order := range orders {
		order.Items = items[order.ID]
	}

	var total int
	if err := r.db.DB().QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	return orders, total, nil
}

// loadItems fetches items for the given orders, preserving insertion order.
func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderItem, error) {
	result := make(map[uuid.UUID][]models.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT order_id, product_id, quantity, price
		 FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY order_id, position`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			item     models.OrderItem
			priceStr string
		)
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.Quantity, &priceStr); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("parse item price %q: %w", priceStr, err)
		}
		item.Price = price
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*models.Order, error) {
	var (
		o        models.Order
		totalStr string
		status   string
		created  time.Time
		updated  time.Time
	)
	if err := s.Scan(&o.ID, &o.CustomerID, &totalStr, &status, &created, &updated); err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return nil, fmt.Errorf("parse total %q: %w", totalStr, err)
	}
	o.TotalPrice = total
	o.Status = models.Status(status)
	o.CreatedAt = created
	o.UpdatedAt = updated
	return &o, nil
}
