// Package common defines shared constants and sentinel errors used across
// Roomly server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorBadRequest   = errors.New("bad request")

	// Registration uniqueness violations. These two are surfaced to the
	// client verbatim, unlike auth failures.
	ErrDuplicateEmail = errors.New("Email already exists")
	ErrDuplicatePhone = errors.New("Phone already exists")

	// Token lifecycle errors. All of them collapse to ErrorUnauthorized
	// before leaving the service layer.
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrWrongTokenClass = errors.New("wrong token class")

	// Upload validation errors.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrFileTooLarge     = errors.New("file too large")
)
