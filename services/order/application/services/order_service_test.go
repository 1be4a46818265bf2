package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/storefront/pkg/auth"
	catalogdomain "github.com/ghuser/storefront/services/catalog/domain"
	orderdomain "github.com/ghuser/storefront/services/order/domain"
	"github.com/ghuser/storefront/services/order/domain/models"
	"github.com/ghuser/storefront/services/order/domain/repositories"
)

// fakeOrderRepo mirrors the transactional contract of the Postgres engine:
// check-and-decrement runs under one lock, and nothing is written unless
// every line validates.
type fakeOrderRepo struct {
	mu     sync.Mutex
	stock  map[uuid.UUID]int
	prices map[uuid.UUID]decimal.Decimal
	names  map[uuid.UUID]string
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		stock:  map[uuid.UUID]int{},
		prices: map[uuid.UUID]decimal.Decimal{},
		names:  map[uuid.UUID]string{},
		orders: map[uuid.UUID]*models.Order{},
	}
}

func (f *fakeOrderRepo) addProduct(name string, price decimal.Decimal, stock int) uuid.UUID {
	id := uuid.New()
	f.stock[id] = stock
	f.prices[id] = price
	f.names[id] = name
	return id
}

func (f *fakeOrderRepo) Place(_ context.Context, customerID uuid.UUID, lines []models.Line) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Validate every line before touching stock.
	remaining := map[uuid.UUID]int{}
	for _, l := range lines {
		stock, ok := f.stock[l.ProductID]
		if !ok {
			return nil, catalogdomain.ErrProductNotFound
		}
		if _, seen := remaining[l.ProductID]; !seen {
			remaining[l.ProductID] = stock
		}
		if remaining[l.ProductID] < l.Quantity {
			return nil, &orderdomain.InsufficientStockError{
				ProductID:   l.ProductID,
				ProductName: f.names[l.ProductID],
				Requested:   l.Quantity,
				Available:   remaining[l.ProductID],
			}
		}
		remaining[l.ProductID] -= l.Quantity
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     f.prices[l.ProductID],
		})
	}
	order, err := models.NewOrder(customerID, items)
	if err != nil {
		return nil, err
	}

	for id, left := range remaining {
		f.stock[id] = left
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, scope repositories.Scope, id uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok || (scope.Restricted() && order.CustomerID != scope.CustomerID) {
		return nil, orderdomain.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) Find(_ context.Context, scope repositories.Scope, _ repositories.QueryOpts) ([]*models.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Order
	for _, o := range f.orders {
		if scope.Restricted() && o.CustomerID != scope.CustomerID {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func TestPlace_ComputesTotalAndDecrementsStock(t *testing.T) {
	repo := newFakeOrderRepo()
	productID := repo.addProduct("Keyboard", decimal.RequireFromString("99.99"), 100)
	svc := NewOrderService(repo)
	customerID := uuid.New()

	order, err := svc.Place(context.Background(), customerID, []models.Line{
		{ProductID: productID, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	if want := decimal.RequireFromString("199.98"); !order.TotalPrice.Equal(want) {
		t.Errorf("TotalPrice = %s, want %s", order.TotalPrice, want)
	}
	if order.Status != models.StatusPending {
		t.Errorf("Status = %q, want pending", order.Status)
	}
	if repo.stock[productID] != 98 {
		t.Errorf("stock = %d, want 98", repo.stock[productID])
	}
}

func TestPlace_InsufficientStockLeavesStoreUntouched(t *testing.T) {
	repo := newFakeOrderRepo()
	cheap := repo.addProduct("Cable", decimal.RequireFromString("5.00"), 50)
	scarce := repo.addProduct("Monitor", decimal.RequireFromString("250.00"), 100)
	svc := NewOrderService(repo)

	_, err := svc.Place(context.Background(), uuid.New(), []models.Line{
		{ProductID: cheap, Quantity: 10},
		{ProductID: scarce, Quantity: 101},
	})

	var stockErr *orderdomain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("Place() error = %v, want InsufficientStockError", err)
	}
	if stockErr.ProductName != "Monitor" {
		t.Errorf("ProductName = %q, want Monitor", stockErr.ProductName)
	}
	if repo.stock[cheap] != 50 || repo.stock[scarce] != 100 {
		t.Errorf("stock mutated on failed order: cheap=%d scarce=%d", repo.stock[cheap], repo.stock[scarce])
	}
	if len(repo.orders) != 0 {
		t.Errorf("order persisted despite failure")
	}
}

func TestPlace_DuplicateLinesDrawDownSharedStock(t *testing.T) {
	repo := newFakeOrderRepo()
	productID := repo.addProduct("Mouse", decimal.RequireFromString("25.00"), 10)
	svc := NewOrderService(repo)

	// 6 + 5 exceeds the 10 in stock even though each line alone fits.
	_, err := svc.Place(context.Background(), uuid.New(), []models.Line{
		{ProductID: productID, Quantity: 6},
		{ProductID: productID, Quantity: 5},
	})

	var stockErr *orderdomain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("Place() error = %v, want InsufficientStockError", err)
	}
	if repo.stock[productID] != 10 {
		t.Errorf("stock = %d, want 10", repo.stock[productID])
	}
}

func TestPlace_UnknownProduct(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo())
	_, err := svc.Place(context.Background(), uuid.New(), []models.Line{
		{ProductID: uuid.New(), Quantity: 1},
	})
	if !errors.Is(err, catalogdomain.ErrProductNotFound) {
		t.Fatalf("Place() error = %v, want ErrProductNotFound", err)
	}
}

func TestPlace_RejectsBadLinesBeforeStore(t *testing.T) {
	repo := newFakeOrderRepo()
	productID := repo.addProduct("Desk", decimal.RequireFromString("300.00"), 5)
	svc := NewOrderService(repo)
	ctx := context.Background()

	if _, err := svc.Place(ctx, uuid.New(), nil); !errors.Is(err, orderdomain.ErrEmptyOrder) {
		t.Errorf("empty order error = %v, want ErrEmptyOrder", err)
	}

	_, err := svc.Place(ctx, uuid.New(), []models.Line{{ProductID: productID, Quantity: 0}})
	var qtyErr *orderdomain.InvalidQuantityError
	if !errors.As(err, &qtyErr) {
		t.Errorf("zero quantity error = %v, want InvalidQuantityError", err)
	}
}

func TestPlace_FreezesPriceAtOrderTime(t *testing.T) {
	repo := newFakeOrderRepo()
	productID := repo.addProduct("Lamp", decimal.RequireFromString("40.00"), 10)
	svc := NewOrderService(repo)

	order, err := svc.Place(context.Background(), uuid.New(), []models.Line{
		{ProductID: productID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	// A later catalog price change must not reach the stored order.
	repo.mu.Lock()
	repo.prices[productID] = decimal.RequireFromString("55.00")
	repo.mu.Unlock()

	got, err := svc.Get(context.Background(), auth.Actor{UserID: order.CustomerID, Role: auth.RoleCustomer}, order.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if want := decimal.RequireFromString("40.00"); !got.Items[0].Price.Equal(want) {
		t.Errorf("frozen price = %s, want %s", got.Items[0].Price, want)
	}
	if want := decimal.RequireFromString("40.00"); !got.TotalPrice.Equal(want) {
		t.Errorf("total = %s, want %s", got.TotalPrice, want)
	}
}

func TestPlace_ConcurrentOrdersNeverOversell(t *testing.T) {
	const (
		initialStock = 100
		perOrder     = 3
		callers      = 50
	)
	repo := newFakeOrderRepo()
	productID := repo.addProduct("Headset", decimal.RequireFromString("80.00"), initialStock)
	svc := NewOrderService(repo)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Place(context.Background(), uuid.New(), []models.Line{
				{ProductID: productID, Quantity: perOrder},
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	wantSuccess := initialStock / perOrder // 33
	if success != wantSuccess {
		t.Errorf("successful orders = %d, want %d", success, wantSuccess)
	}
	if want := initialStock - wantSuccess*perOrder; repo.stock[productID] != want {
		t.Errorf("final stock = %d, want %d", repo.stock[productID], want)
	}
}

func TestGet_ScopesToOwner(t *testing.T) {
	repo := newFakeOrderRepo()
	productID := repo.addProduct("Chair", decimal.RequireFromString("120.00"), 10)
	svc := NewOrderService(repo)
	owner := uuid.New()

	order, err := svc.Place(context.Background(), owner, []models.Line{
		{ProductID: productID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	t.Run("owner sees own order", func(t *testing.T) {
		actor := auth.Actor{UserID: owner, Role: auth.RoleCustomer}
		if _, err := svc.Get(context.Background(), actor, order.ID); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
	})

	t.Run("foreign customer gets not found", func(t *testing.T) {
		actor := auth.Actor{UserID: uuid.New(), Role: auth.RoleCustomer}
		if _, err := svc.Get(context.Background(), actor, order.ID); !errors.Is(err, orderdomain.ErrOrderNotFound) {
			t.Fatalf("Get() error = %v, want ErrOrderNotFound", err)
		}
	})

	t.Run("admin sees any order", func(t *testing.T) {
		actor := auth.Actor{UserID: uuid.New(), Role: auth.RoleAdmin}
		if _, err := svc.Get(context.Background(), actor, order.ID); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
	})

	t.Run("list is scoped", func(t *testing.T) {
		foreign := auth.Actor{UserID: uuid.New(), Role: auth.RoleCustomer}
		orders, total, err := svc.List(context.Background(), foreign, repositories.QueryOpts{Limit: 20})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 0 || len(orders) != 0 {
			t.Errorf("foreign customer sees %d orders, want 0", total)
		}

		admin := auth.Actor{UserID: uuid.New(), Role: auth.RoleAdmin}
		_, total, err = svc.List(context.Background(), admin, repositories.QueryOpts{Limit: 20})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 1 {
			t.Errorf("admin sees %d orders, want 1", total)
		}
	})
}
