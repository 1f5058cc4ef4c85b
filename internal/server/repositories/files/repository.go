// Package files declares the repository contract for encrypted file records
// and its in-memory implementation.
package files

import (
	"context"
	"errors"
	"iter"

	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

var ErrDuplicateID = errors.New("duplicate file id")

// Repository stores immutable file records keyed by their identifier.
type Repository interface {
	// Create writes the record in one step. It returns ErrDuplicateID if the
	// identifier is already used.
	Create(ctx context.Context, file *models.File) error

	// Get returns common.ErrNotFound for an unknown identifier.
	Get(ctx context.Context, id string) (*models.File, error)

	// List returns a snapshot of all records in insertion order. The sequence
	// can be ranged over more than once and never exposes content.
	List(ctx context.Context) (iter.Seq[models.FileInfo], error)
}
