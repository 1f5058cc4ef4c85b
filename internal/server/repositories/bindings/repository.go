// Package bindings declares the repository contract for token→key session
// bindings and its in-memory implementation.
package bindings

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

// Repository holds at most one binding per bearer token.
type Repository interface {
	// Put stores b, atomically replacing any binding for the same token.
	Put(ctx context.Context, b *models.Binding) error

	// Find returns common.ErrNotFound when the token has no binding.
	Find(ctx context.Context, token string) (*models.Binding, error)

	// CompareAndDelete removes the binding for token only if its key still
	// equals key. It reports whether a binding was removed.
	CompareAndDelete(ctx context.Context, token, key string) (bool, error)

	// DeleteExpired removes every binding whose key expired before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
