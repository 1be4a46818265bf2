package auth

import (
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors for authorization failures. Use errors.Is() to check these.
var (
	// ErrUnauthorized indicates the caller has no valid identity.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden indicates an authenticated caller lacks the required
	// role or ownership.
	ErrForbidden = errors.New("forbidden")
)

// Predicate is one access-control check: a pure function over the actor.
// Object-level conditions close over their target (see OwnedBy).
type Predicate func(Actor) bool

// And allows only when every predicate allows.
func And(preds ...Predicate) Predicate {
	return func(a Actor) bool {
		for _, p := range preds {
			if !p(a) {
				return false
			}
		}
		return true
	}
}

// Or allows when any predicate allows.
func Or(preds ...Predicate) Predicate {
	return func(a Actor) bool {
		for _, p := range preds {
			if p(a) {
				return true
			}
		}
		return false
	}
}

// AllowAny admits every caller, authenticated or not.
func AllowAny(Actor) bool { return true }

// IsAuthenticated admits callers with a backing identity.
func IsAuthenticated(a Actor) bool { return a.IsAuthenticated() }

// IsAdmin admits admins, including elevated superusers.
func IsAdmin(a Actor) bool { return a.IsAdmin() }

// IsCustomer admits authenticated callers with the customer role.
// Elevated flag does not matter here; order placement is a customer act.
func IsCustomer(a Actor) bool { return a.IsAuthenticated() && a.Role == RoleCustomer }

// OwnedBy admits the actor owning the target resource.
func OwnedBy(ownerID uuid.UUID) Predicate {
	return func(a Actor) bool {
		return a.IsAuthenticated() && a.UserID == ownerID
	}
}

// Authorize evaluates pred for the actor. It distinguishes the two failure
// modes the API surfaces: ErrUnauthorized when the caller is anonymous,
// ErrForbidden when an authenticated caller fails the policy.
func Authorize(a Actor, pred Predicate) error {
	if pred(a) {
		return nil
	}
	if !a.IsAuthenticated() {
		return ErrUnauthorized
	}
	return ErrForbidden
}
