package repomanager

import (
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/bindings"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/files"
)

// InMemoryRepositoryManager keeps all state in process memory; it is lost on
// restart.
type InMemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	bindings *bindings.MemoryRepository
	files    *files.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		bindings: bindings.NewMemoryRepository(),
		files:    files.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *InMemoryRepositoryManager) Bindings() bindings.Repository {
	return m.bindings
}

func (m *InMemoryRepositoryManager) Files() files.Repository {
	return m.files
}

func (m *InMemoryRepositoryManager) Stats() Stats {
	return Stats{
		Accounts: m.accounts.Count(),
		Bindings: m.bindings.Count(),
		Files:    m.files.Count(),
	}
}
