// Package accounts declares the repository contract for registered accounts
// and its in-memory implementation.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

// Repository stores accounts keyed by username.
type Repository interface {
	// Create inserts a new account. It returns common.ErrConflict when the
	// username is already taken; the check and the insert are atomic.
	Create(ctx context.Context, account *models.Account) error

	// GetByUsername returns common.ErrNotFound when the account is absent.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
}
