package bindings

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	bindings map[string]models.Binding
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bindings: make(map[string]models.Binding)}
}

func (r *MemoryRepository) Put(ctx context.Context, b *models.Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Token] = *b
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, token string) (*models.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) CompareAndDelete(ctx context.Context, token, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[token]
	if !ok || b.Key != key {
		return false, nil
	}
	delete(r.bindings, token)
	return true, nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for token, b := range r.bindings {
		if b.Expired(now) {
			delete(r.bindings, token)
			n++
		}
	}
	return n, nil
}

// Count returns the number of bindings currently held, expired or not.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
