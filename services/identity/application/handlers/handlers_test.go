package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/storefront/pkg/auth"
	appsvcs "github.com/ghuser/storefront/services/identity/application/services"
	identitydomain "github.com/ghuser/storefront/services/identity/domain"
	"github.com/ghuser/storefront/services/identity/domain/models"
)

type memUserRepo struct {
	byUsername map[string]*models.User
}

func (m *memUserRepo) Save(_ context.Context, user *models.User) error {
	if _, ok := m.byUsername[user.Username]; ok {
		return identitydomain.ErrUsernameTaken
	}
	m.byUsername[user.Username] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*models.User, error) {
	for _, u := range m.byUsername {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, identitydomain.ErrUserNotFound
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return nil, identitydomain.ErrUserNotFound
	}
	return u, nil
}

// newIdentityRouter uses an in-memory CookieStore in place of the Redis
// session store; the handler contract is identical.
func newIdentityRouter(repo *memUserRepo, actor auth.Actor) http.Handler {
	store := sessions.NewCookieStore([]byte("test-auth-key-32-bytes-long-key!"))
	h := New(&appsvcs.Services{Identity: appsvcs.NewIdentityService(repo)}, store)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithActor(req.Context(), actor)))
		})
	})
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
	return r
}

const registerBody = `{
	"username": "alice",
	"email": "alice@example.com",
	"password": "s3cret-pass",
	"first_name": "Alice",
	"last_name": "Smith"
}`

func TestRegister(t *testing.T) {
	repo := &memUserRepo{byUsername: map[string]*models.User{}}
	router := newIdentityRouter(repo, auth.Anonymous())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(registerBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("POST /auth/register = %d, want 201. Body: %s", w.Code, w.Body.String())
	}

	var resp UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Username != "alice" {
		t.Errorf("username = %q, want alice", resp.Username)
	}
	if resp.Role != "customer" {
		t.Errorf("role = %q, want customer", resp.Role)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("response leaks password material")
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("registration did not issue a session cookie")
	}

	t.Run("duplicate username", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(registerBody))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusConflict {
			t.Fatalf("duplicate register = %d, want 409", w.Code)
		}
	})
}

func TestRegister_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing username", `{"email":"a@example.com","password":"s3cret-pass"}`},
		{"bad email", `{"username":"alice","email":"nope","password":"s3cret-pass"}`},
		{"short password", `{"username":"alice","email":"a@example.com","password":"short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memUserRepo{byUsername: map[string]*models.User{}}
			router := newIdentityRouter(repo, auth.Anonymous())

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if len(repo.byUsername) != 0 {
				t.Errorf("invalid registration persisted")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	repo := &memUserRepo{byUsername: map[string]*models.User{}}
	router := newIdentityRouter(repo, auth.Anonymous())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(registerBody))
	router.ServeHTTP(httptest.NewRecorder(), req)

	t.Run("valid credentials", func(t *testing.T) {
		body := `{"username":"alice","password":"s3cret-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("POST /auth/login = %d, want 200. Body: %s", w.Code, w.Body.String())
		}
		if len(w.Result().Cookies()) == 0 {
			t.Error("login did not issue a session cookie")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"username":"alice","password":"wrong-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		body := `{"username":"nobody","password":"s3cret-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}

func TestLogout(t *testing.T) {
	repo := &memUserRepo{byUsername: map[string]*models.User{}}
	router := newIdentityRouter(repo, auth.Anonymous())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("POST /auth/logout = %d, want 204", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.MaxAge > 0 {
			t.Errorf("logout left a live cookie: %v", c)
		}
	}
}

func TestMe(t *testing.T) {
	repo := &memUserRepo{byUsername: map[string]*models.User{}}

	user, err := models.NewUser("bob", "bob@example.com", "password123", "Bob", "Jones", "", "")
	if err != nil {
		t.Fatalf("NewUser() error = %v", err)
	}
	repo.byUsername[user.Username] = user

	t.Run("authenticated", func(t *testing.T) {
		router := newIdentityRouter(repo, user.Actor())
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("GET /auth/me = %d, want 200", w.Code)
		}
		var resp UserResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.ID != user.UserID {
			t.Errorf("id = %v, want %v", resp.ID, user.UserID)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		router := newIdentityRouter(repo, auth.Anonymous())
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET /auth/me = %d, want 401", w.Code)
		}
	})
}
