package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gophblog/internal/common"
)

// Identity is what a verified token says about its bearer.
type Identity struct {
	AccountID string
	Handle    string
	IssuedAt  time.Time
}

// Claims is the JWT payload: {account_id, handle, iat} and, only when a
// lifetime is configured, exp.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Handle    string `json:"handle"`
}

// Issuer mints and verifies HS256 session tokens with a server-held secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOption customises an Issuer.
type IssuerOption func(*Issuer)

// WithTTL makes issued tokens expire after ttl. Zero or negative keeps
// tokens valid until the secret changes.
func WithTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) { i.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer returns an Issuer signing with secret.
func NewIssuer(secret []byte, opts ...IssuerOption) *Issuer {
	i := &Issuer{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs a token for the given account.
func (i *Issuer) Issue(accountID, handle string) (string, error) {
	now := i.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		AccountID: accountID,
		Handle:    handle,
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature of tokenString and returns the identity it
// carries. Every failure (empty, malformed, wrong algorithm, bad signature,
// expired) is reported as common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, common.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.AccountID == "" {
		return Identity{}, common.ErrInvalidToken
	}

	id := Identity{AccountID: claims.AccountID, Handle: claims.Handle}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	return id, nil
}

// IsExpired reports whether err came from an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
