package files

import (
	"context"
	"iter"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	files map[string]*models.File
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{files: make(map[string]*models.File)}
}

func (r *MemoryRepository) Create(ctx context.Context, file *models.File) error {
	f := *file
	f.Ciphertext = slices.Clone(file.Ciphertext)
	f.WrappedKey = slices.Clone(file.WrappedKey)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[f.ID]; ok {
		return ErrDuplicateID
	}
	r.files[f.ID] = &f
	r.order = append(r.order, f.ID)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *f
	return &out, nil
}

func (r *MemoryRepository) List(ctx context.Context) (iter.Seq[models.FileInfo], error) {
	r.mu.RLock()
	snapshot := make([]models.FileInfo, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, r.files[id].Info())
	}
	r.mu.RUnlock()

	return slices.Values(snapshot), nil
}

// Count returns the number of stored files.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
