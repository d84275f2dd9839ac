package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx answer from the server. It unwraps to the matching
// sentinel from package common, so callers can use errors.Is.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Kind {
	case "validation":
		return common.ErrorValidation
	case "duplicate_identity":
		return common.ErrorDuplicateIdentity
	case "invalid_credentials":
		return common.ErrorInvalidCredentials
	case "unauthenticated":
		return common.ErrorUnauthenticated
	case "forbidden":
		return common.ErrorForbidden
	case "not_found":
		return common.ErrorNotFound
	default:
		return nil
	}
}
