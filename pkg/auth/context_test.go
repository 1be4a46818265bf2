package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithActor_ActorFromCtx(t *testing.T) {
	actor := Actor{UserID: uuid.New(), Role: RoleCustomer}
	ctx := WithActor(context.Background(), actor)

	got := ActorFromCtx(ctx)
	if got != actor {
		t.Fatalf("expected %+v, got %+v", actor, got)
	}
}

func TestActorFromCtx_EmptyContext(t *testing.T) {
	got := ActorFromCtx(context.Background())
	if got != Anonymous() {
		t.Fatalf("expected anonymous actor, got %+v", got)
	}
	if got.IsAuthenticated() {
		t.Fatal("actor from empty context must not be authenticated")
	}
}

func TestActorFromCtx_Isolation(t *testing.T) {
	actor1 := Actor{UserID: uuid.New(), Role: RoleCustomer}
	actor2 := Actor{UserID: uuid.New(), Role: RoleAdmin}

	ctx1 := WithActor(context.Background(), actor1)
	ctx2 := WithActor(context.Background(), actor2)

	if got := ActorFromCtx(ctx1); got != actor1 {
		t.Fatalf("ctx1: expected %+v, got %+v", actor1, got)
	}
	if got := ActorFromCtx(ctx2); got != actor2 {
		t.Fatalf("ctx2: expected %+v, got %+v", actor2, got)
	}
}
