package service

import (
	"errors" // Sentinel errors
	"fmt"    // Wrapping
)

// Errors returned by the services. The API layer maps them to HTTP statuses.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrForbidden    = errors.New("forbidden")

	ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrSeatTaken  = fmt.Errorf("%w: seat already booked", ErrConflict)
)
