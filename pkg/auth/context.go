package auth

import (
	"context"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const actorKey contextKey = "actor"

// ActorFromCtx extracts the resolved Actor from the request context.
// Requests that never passed through the Authenticate middleware resolve
// to the anonymous actor rather than an error.
func ActorFromCtx(ctx context.Context) Actor {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok {
		return Anonymous()
	}
	return actor
}

// WithActor returns a new context with the given Actor attached.
// Used by the Authenticate middleware after resolving the session.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
