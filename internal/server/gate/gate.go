// Package gate is the single checkpoint in front of the file vault: it requires
// a bearer token and an opaque key, validates the pair and attaches the token
// claims to the request context.
package gate

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/server/auth"
)

// Validator checks a token+key pair. services.SessionService implements it.
type Validator interface {
	Validate(ctx context.Context, token, key string) (*auth.Claims, error)
}

type ctxKey struct{}

type Gate struct {
	sessions Validator
}

func New(v Validator) *Gate {
	return &Gate{sessions: v}
}

// Authorize validates token and key and returns ctx carrying the claims.
// A missing token or key is rejected with common.ErrUnauthorized before any
// cryptographic check runs.
func (g *Gate) Authorize(ctx context.Context, token, key string) (context.Context, error) {
	if token == "" || key == "" {
		return ctx, fmt.Errorf("%w: missing authentication credentials", common.ErrUnauthorized)
	}

	claims, err := g.sessions.Validate(ctx, token, key)
	if err != nil {
		return ctx, err
	}

	return WithClaims(ctx, claims), nil
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// ClaimsFromContext returns the claims attached by Authorize.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func BearerToken(header string) string {
	if len(header) < len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(common.BearerPrefix):])
}
