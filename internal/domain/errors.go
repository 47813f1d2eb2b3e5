package domain

import "errors"

// Sentinel errors shared across layers. Delivery maps them to HTTP statuses with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned when the request is invalid (e.g. an empty course ID).
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream is returned when the course API is unreachable or answers with an unexpected status.
	ErrUpstream = errors.New("course api unavailable")
)
