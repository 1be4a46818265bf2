package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/storefront/pkg/logger"
)

// Authenticate is a chi middleware that resolves the session cookie into an
// Actor and injects it into the request context. Unauthenticated requests —
// missing, invalid, or tampered sessions — resolve to the anonymous actor
// rather than failing, because catalog reads are open to everyone. Each
// operation's policy decides whether anonymous is acceptable.
//
// After this middleware, handlers call auth.ActorFromCtx(r.Context()).
func Authenticate(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := actorFromSession(r, store, log)
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func actorFromSession(r *http.Request, store sessions.Store, log logger.Logger) Actor {
	session, err := store.Get(r, sessionName)
	if err != nil {
		log.WarnContext(r.Context(), "invalid session cookie", "error", err)
		return Anonymous()
	}
	if session.IsNew {
		return Anonymous()
	}

	userIDStr, ok := session.Values[sessionUserIDKey].(string)
	if !ok || userIDStr == "" {
		return Anonymous()
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		log.WarnContext(r.Context(), "invalid user_id in session", "user_id", userIDStr, "error", err)
		return Anonymous()
	}

	roleStr, _ := session.Values[sessionRoleKey].(string)
	elevated, _ := session.Values[sessionElevatedKey].(bool)

	actor := Actor{UserID: userID, Role: ParseRole(roleStr), Elevated: elevated}
	if !actor.IsAuthenticated() {
		return Anonymous()
	}
	return actor
}
