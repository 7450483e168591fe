// Package repository defines error types that are reused across the data
// access layer. These sentinel values let handlers and services distinguish
// failure scenarios without inspecting driver-specific errors: ErrNotFound
// maps to HTTP 404, ErrEmailExists to the duplicate-registration 400.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers should
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update would violate the
// unique index on users.email.
var ErrEmailExists = errors.New("email already exists")
