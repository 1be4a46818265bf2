package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/storefront/pkg/auth"
	catalogdomain "github.com/ghuser/storefront/services/catalog/domain"
	appsvcs "github.com/ghuser/storefront/services/order/application/services"
	orderdomain "github.com/ghuser/storefront/services/order/domain"
	"github.com/ghuser/storefront/services/order/domain/models"
	"github.com/ghuser/storefront/services/order/domain/repositories"
)

type memOrderRepo struct {
	mu     sync.Mutex
	stock  map[uuid.UUID]int
	prices map[uuid.UUID]decimal.Decimal
	orders map[uuid.UUID]*models.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		stock:  map[uuid.UUID]int{},
		prices: map[uuid.UUID]decimal.Decimal{},
		orders: map[uuid.UUID]*models.Order{},
	}
}

func (m *memOrderRepo) addProduct(price string, stock int) uuid.UUID {
	id := uuid.New()
	m.stock[id] = stock
	m.prices[id] = decimal.RequireFromString(price)
	return id
}

func (m *memOrderRepo) Place(_ context.Context, customerID uuid.UUID, lines []models.Line) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := map[uuid.UUID]int{}
	for _, l := range lines {
		stock, ok := m.stock[l.ProductID]
		if !ok {
			return nil, catalogdomain.ErrProductNotFound
		}
		if _, seen := remaining[l.ProductID]; !seen {
			remaining[l.ProductID] = stock
		}
		if remaining[l.ProductID] < l.Quantity {
			return nil, &orderdomain.InsufficientStockError{
				ProductID: l.ProductID,
				Requested: l.Quantity,
				Available: remaining[l.ProductID],
			}
		}
		remaining[l.ProductID] -= l.Quantity
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     m.prices[l.ProductID],
		})
	}
	order, err := models.NewOrder(customerID, items)
	if err != nil {
		return nil, err
	}
	for id, left := range remaining {
		m.stock[id] = left
	}
	m.orders[order.ID] = order
	return order, nil
}

func (m *memOrderRepo) GetByID(_ context.Context, scope repositories.Scope, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok || (scope.Restricted() && order.CustomerID != scope.CustomerID) {
		return nil, orderdomain.ErrOrderNotFound
	}
	return order, nil
}

func (m *memOrderRepo) Find(_ context.Context, scope repositories.Scope, _ repositories.QueryOpts) ([]*models.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Order
	for _, o := range m.orders {
		if scope.Restricted() && o.CustomerID != scope.CustomerID {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func newOrderRouter(repo *memOrderRepo, actor auth.Actor) http.Handler {
	h := New(&appsvcs.Services{Order: appsvcs.NewOrderService(repo)})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithActor(req.Context(), actor)))
		})
	})
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.PostOrder)
		r.Get("/{id}", h.GetOrder)
	})
	return r
}

func orderBody(productID uuid.UUID, qty int) string {
	return fmt.Sprintf(`{"items":[{"product_id":%q,"quantity":%d}]}`, productID, qty)
}

func TestPostOrder_RoleMatrix(t *testing.T) {
	tests := []struct {
		name       string
		actor      auth.Actor
		wantStatus int
	}{
		{"anonymous", auth.Anonymous(), http.StatusUnauthorized},
		{"admin", auth.Actor{UserID: uuid.New(), Role: auth.RoleAdmin}, http.StatusForbidden},
		{"customer", auth.Actor{UserID: uuid.New(), Role: auth.RoleCustomer}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemOrderRepo()
			productID := repo.addProduct("99.99", 100)
			router := newOrderRouter(repo, tt.actor)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(orderBody(productID, 2)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("POST /orders as %s = %d, want %d", tt.name, w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusCreated && len(repo.orders) != 0 {
				t.Errorf("order persisted despite %d", w.Code)
			}
		})
	}
}

func TestPostOrder_Success(t *testing.T) {
	repo := newMemOrderRepo()
	productID := repo.addProduct("99.99", 100)
	customer := auth.Actor{UserID: uuid.New(), Role: auth.RoleCustomer}
	router := newOrderRouter(repo, customer)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(orderBody(productID, 2)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("POST /orders = %d, want 201. Body: %s", w.Code, w.Body.String())
	}

	var resp OrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalPrice != "199.98" {
		t.Errorf("total_price = %q, want 199.98", resp.TotalPrice)
	}
	if resp.Status != "pending" {
		t.Errorf("status = %q, want pending", resp.Status)
	}
	if resp.CustomerID != customer.UserID {
		t.Errorf("customer_id = %v, want %v", resp.CustomerID, customer.UserID)
	}
	if repo.stock[productID] != 98 {
		t.Errorf("stock = %d, want 98", repo.stock[productID])
	}
}

func TestPostOrder_Failures(t *testing.T) {
	customer := auth.Actor{UserID: uuid.New(), Role: auth.RoleCustomer}

	t.Run("insufficient stock", func(t *testing.T) {
		repo := newMemOrderRepo()
		productID := repo.addProduct("10.00", 100)
		router := newOrderRouter(repo, customer)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(orderBody(productID, 101)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if repo.stock[productID] != 100 {
			t.Errorf("stock = %d, want untouched 100", repo.stock[productID])
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := newMemOrderRepo()
		router := newOrderRouter(repo, customer)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(orderBody(uuid.New(), 1)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("empty items", func(t *testing.T) {
		repo := newMemOrderRepo()
		router := newOrderRouter(repo, customer)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"items":[]}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		repo := newMemOrderRepo()
		productID := repo.addProduct("10.00", 5)
		router := newOrderRouter(repo, customer)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(orderBody(productID, 0)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestOrderReads_Scoping(t *testing.T) {
	repo := newMemOrderRepo()
	productID := repo.addProduct("50.00", 10)
	owner := auth.Actor{UserID: uuid.New(), Role: auth.RoleCustomer}

	order, err := appsvcs.NewOrderService(repo).Place(context.Background(), owner.UserID, []models.Line{
		{ProductID: productID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	t.Run("anonymous list unauthorized", func(t *testing.T) {
		router := newOrderRouter(repo, auth.Anonymous())
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("owner reads own order", func(t *testing.T) {
		router := newOrderRouter(repo, owner)
		req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("foreign customer gets 404", func(t *testing.T) {
		router := newOrderRouter(repo, auth.Actor{UserID: uuid.New(), Role: auth.RoleCustomer})
		req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("admin reads any order", func(t *testing.T) {
		router := newOrderRouter(repo, auth.Actor{UserID: uuid.New(), Role: auth.RoleAdmin})
		req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("owner list shows only own orders", func(t *testing.T) {
		router := newOrderRouter(repo, owner)
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp OrderListResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Total != 1 {
			t.Errorf("total = %d, want 1", resp.Total)
		}
	})

	t.Run("malformed id 404s", func(t *testing.T) {
		router := newOrderRouter(repo, owner)
		req := httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
