package models

import "errors"

// Error kinds. Concrete errors wrap one of these so the HTTP layer can pick a
// status code with errors.Is.
var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream failure")
)
