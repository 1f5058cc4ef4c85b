// Package repomanager groups the three credential-store collections behind a
// single injectable handle.
package repomanager

import (
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/bindings"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/files"
)

// RepositoryManager hands out the collection repositories. Each collection is
// locked independently.
type RepositoryManager interface {
	Accounts() accounts.Repository
	Bindings() bindings.Repository
	Files() files.Repository
}

// Stats is a point-in-time size of each collection.
type Stats struct {
	Accounts int
	Bindings int
	Files    int
}
