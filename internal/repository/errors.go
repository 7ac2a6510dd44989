// Package repository defines sentinel error values shared across its
// stores. These let the handler layer distinguish expected outcomes
// from infrastructure faults: a duplicate user is a normal validation
// result that maps to HTTP 400, while an unexpected database error
// must surface as HTTP 500.
package repository

import "errors"

// ErrDuplicateUser is returned when an insert violates the unique
// index on email or username. Handlers translate this into a 400
// response, never a 500.
var ErrDuplicateUser = errors.New("user with this email or username already exists")

// ErrInvalidCredentials is returned by Authenticate for both an
// unknown email and a wrong password. The single value keeps the two
// causes indistinguishable to callers and clients.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound is returned by lookups when no row matches. A token
// whose subject hits this error is treated as invalid.
var ErrUserNotFound = errors.New("user not found")
