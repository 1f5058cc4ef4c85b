package services

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/bindings"
)

// cheap argon2 parameters; the encoded format is unchanged
var testHashParams = cryptox.Argon2Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.TokenSecret = "test-jwt-secret"
	cfg.EncryptionSecret = "test-encryption-secret"
	return cfg
}

func newTestIdentityService(clock *fakeClock) (*IdentityService, *accounts.MemoryRepository) {
	repo := accounts.NewMemoryRepository()
	s := NewIdentityService(repo, WithHashParams(testHashParams))
	s.now = clock.Now
	return s, repo
}

func newTestSessionService(clock *fakeClock) (*SessionService, *bindings.MemoryRepository) {
	repo := bindings.NewMemoryRepository()
	s := NewSessionService(repo, testConfig())
	s.now = clock.Now
	return s, repo
}
