package auth

import "github.com/google/uuid"

// Role classifies a request's caller. Unauthenticated requests resolve to
// RoleAnonymous; resolution never fails.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleCustomer  Role = "customer"
	RoleAdmin     Role = "admin"
)

// ParseRole maps a stored role string onto a known Role, falling back to
// RoleAnonymous for anything unrecognized.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleCustomer, RoleAdmin:
		return Role(s)
	default:
		return RoleAnonymous
	}
}

// Actor is a request's resolved caller: identity reference plus role.
// It is constructed per request from the session and never persisted.
type Actor struct {
	UserID   uuid.UUID // uuid.Nil for anonymous callers
	Role     Role
	Elevated bool // superuser override; grants admin rights regardless of role
}

// Anonymous returns the actor for an unauthenticated request.
func Anonymous() Actor {
	return Actor{Role: RoleAnonymous}
}

// IsAuthenticated reports whether the actor has a backing identity.
func (a Actor) IsAuthenticated() bool {
	return a.UserID != uuid.Nil && a.Role != RoleAnonymous
}

// IsAdmin reports whether the actor has admin rights: the admin role OR the
// elevated flag. The override is an OR, not a role substitution — an elevated
// customer keeps RoleCustomer.
func (a Actor) IsAdmin() bool {
	return a.IsAuthenticated() && (a.Role == RoleAdmin || a.Elevated)
}
