package services

import "errors"

// Stable error kinds surfaced to the HTTP layer. Handlers map these to
// status codes with errors.Is, so services must wrap rather than replace
// them. NotFound doubles as the privacy answer for entities the actor is not
// allowed to know exist.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)
