package domain

import "errors"

// Sentinel errors for the identity domain. Use errors.Is() to check these.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates a registration against an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials indicates a failed login. Deliberately silent on
	// whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
