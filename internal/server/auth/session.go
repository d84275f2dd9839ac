package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
)

// SessionContext is the per-request identity recovered from a token. It
// lives only in the request context and is never persisted.
type SessionContext struct {
	AccountID string
	Handle    string
	IssuedAt  time.Time
}

// TokenVerifier is the part of Issuer the Resolver depends on.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// Resolver turns a raw cookie value into a SessionContext.
type Resolver struct {
	verifier TokenVerifier
}

func NewResolver(v TokenVerifier) *Resolver {
	return &Resolver{verifier: v}
}

// Resolve returns the session carried by cookieValue. A missing or invalid
// token yields common.ErrorUnauthenticated.
func (r *Resolver) Resolve(cookieValue string) (SessionContext, error) {
	if cookieValue == "" {
		return SessionContext{}, common.ErrorUnauthenticated
	}

	id, err := r.verifier.Verify(cookieValue)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return SessionContext{}, fmt.Errorf("%w: %w", common.ErrorUnauthenticated, err)
		}
		return SessionContext{}, err
	}

	return SessionContext{AccountID: id.AccountID, Handle: id.Handle, IssuedAt: id.IssuedAt}, nil
}

type ctxKey int

const sessionKey ctxKey = 1

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s SessionContext) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the session stored by WithSession.
func SessionFromContext(ctx context.Context) (SessionContext, bool) {
	s, ok := ctx.Value(sessionKey).(SessionContext)
	return s, ok
}
