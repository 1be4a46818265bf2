package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ghuser/storefront/pkg/auth"
)

// User is the identity aggregate. The account fields live on the user itself
// while role and contact details live on the attached Profile. Both are
// created together inside a single transaction so a user without a profile
// can never be observed.
type User struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile carries the authorization role plus contact details.
type Profile struct {
	Role     auth.Role `json:"role"`
	Elevated bool      `json:"elevated"`
	Phone    string    `json:"phone"`
	Address  string    `json:"address"`
}

// NewUser builds a customer account with a bcrypt password hash. Registration
// only ever produces customers; admin accounts are provisioned out of band.
func NewUser(username, email, password, firstName, lastName, phone, address string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		UserID:       uuid.New(),
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Profile: Profile{
			Role:    auth.RoleCustomer,
			Phone:   strings.TrimSpace(phone),
			Address: strings.TrimSpace(address),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Actor converts the user into the request actor used by the policy layer.
func (u *User) Actor() auth.Actor {
	return auth.Actor{
		UserID:   u.UserID,
		Role:     u.Profile.Role,
		Elevated: u.Profile.Elevated,
	}
}
