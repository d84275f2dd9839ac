// Package common defines shared constants and sentinel errors used across
// client and server layers of GophBlog. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrorDuplicateIdentity = errors.New("duplicate identity")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Authentication and authorization errors.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorUnauthenticated    = errors.New("unauthenticated")
	ErrorForbidden          = errors.New("forbidden")

	// Token errors (missing, malformed or wrongly signed token).
	ErrInvalidToken = errors.New("invalid token")
)
