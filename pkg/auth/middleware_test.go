package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/storefront/pkg/config"
	"github.com/ghuser/storefront/pkg/logger"
)

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

// newTestLogger creates a logger that only emits errors.
func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// requestWithSession builds an *http.Request carrying a valid session cookie
// for the given actor.
func requestWithSession(t *testing.T, store sessions.Store, actor Actor) *http.Request {
	t.Helper()

	// Write the session cookie into a recorder, then copy it to the real request.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/orders", nil)

	if err := IssueSession(w, r, store, actor); err != nil {
		t.Fatalf("issue session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestAuthenticate_ValidSession(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()
	actor := Actor{UserID: uuid.New(), Role: RoleCustomer}

	var captured Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := requestWithSession(t, store, actor)
	w := httptest.NewRecorder()
	Authenticate(store, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if captured != actor {
		t.Fatalf("expected actor %+v in context, got %+v", actor, captured)
	}
}

func TestAuthenticate_ElevatedFlagSurvivesRoundTrip(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()
	actor := Actor{UserID: uuid.New(), Role: RoleCustomer, Elevated: true}

	var captured Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromCtx(r.Context())
	})

	Authenticate(store, log)(next).ServeHTTP(httptest.NewRecorder(), requestWithSession(t, store, actor))

	if !captured.IsAdmin() {
		t.Fatal("elevated actor must keep admin rights through the session round trip")
	}
	if captured.Role != RoleCustomer {
		t.Fatalf("elevation must not substitute the role; got %v", captured.Role)
	}
}

func TestAuthenticate_MissingCookie_Anonymous(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()

	var captured Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	Authenticate(store, log)(next).ServeHTTP(w, r)

	// Anonymous browsing is allowed; the handler must still run.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if captured.IsAuthenticated() {
		t.Fatalf("expected anonymous actor, got %+v", captured)
	}
}

func TestAuthenticate_SessionMissingUserID_Anonymous(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()

	// Build a session with no user_id value.
	writeReq := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w1 := httptest.NewRecorder()
	session, _ := store.Get(writeReq, sessionName)
	// intentionally no session.Values[sessionUserIDKey]
	_ = session.Save(writeReq, w1)

	r := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	for _, c := range w1.Result().Cookies() {
		r.AddCookie(c)
	}

	var captured Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromCtx(r.Context())
	})

	Authenticate(store, log)(next).ServeHTTP(httptest.NewRecorder(), r)

	if captured.IsAuthenticated() {
		t.Fatalf("expected anonymous actor, got %+v", captured)
	}
}

func TestAuthenticate_InvalidUserIDInSession_Anonymous(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()

	writeReq := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w1 := httptest.NewRecorder()
	session, _ := store.Get(writeReq, sessionName)
	session.Values[sessionUserIDKey] = "not-a-valid-uuid"
	session.Values[sessionRoleKey] = "customer"
	_ = session.Save(writeReq, w1)

	r := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	for _, c := range w1.Result().Cookies() {
		r.AddCookie(c)
	}

	var captured Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromCtx(r.Context())
	})

	Authenticate(store, log)(next).ServeHTTP(httptest.NewRecorder(), r)

	if captured.IsAuthenticated() {
		t.Fatalf("expected anonymous actor, got %+v", captured)
	}
}

func TestClearSession_ExpiresCookie(t *testing.T) {
	store := newTestStore()
	actor := Actor{UserID: uuid.New(), Role: RoleCustomer}

	r := requestWithSession(t, store, actor)
	w := httptest.NewRecorder()
	if err := ClearSession(w, r, store); err != nil {
		t.Fatalf("clear session: %v", err)
	}

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected an expired session cookie")
	}
}
