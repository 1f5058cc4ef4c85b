package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/server/auth"
	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/bindings"
)

// keyBytes is the entropy of an opaque key; the key is its hex encoding.
const keyBytes = 32

// Session is what a successful login hands back to the client.
type Session struct {
	Token     string
	Key       string
	ExpiresIn time.Duration
	ExpiresAt time.Time
	Username  string
	Email     string
}

// RotatedKey is the result of a key rotation.
type RotatedKey struct {
	Key       string
	ExpiresIn time.Duration
	ExpiresAt time.Time
}

// SessionService mints bearer tokens, binds opaque keys to them and checks the
// token+key pair on protected calls.
//
// Expiry policy: the token's own signed expiry is enforced by both Rotate and
// Validate. Validate also enforces the bound key's expiry. Rotate does not
// need a live binding, so an expired key can be replaced while the token lives.
type SessionService struct {
	bindings      bindings.Repository
	jwtSecret     []byte
	tokenValidity time.Duration
	keyValidity   time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

func NewSessionService(repo bindings.Repository, cfg *config.Config) *SessionService {
	return &SessionService{
		bindings:      repo,
		jwtSecret:     []byte(cfg.TokenSecret),
		tokenValidity: cfg.TokenValidityDuration,
		keyValidity:   cfg.KeyValidityDuration,
		sweepInterval: cfg.SweepInterval,
		now:           time.Now,
	}
}

// Issue signs a token for account and binds a fresh opaque key to it.
func (s *SessionService) Issue(ctx context.Context, account *models.Account) (*Session, error) {
	now := s.now()
	s.maybeSweep(ctx, now)

	token, _, err := auth.GenerateToken(account.Username, account.Email, s.jwtSecret, now, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: signing token: %v", common.ErrInternal, err)
	}

	key, expiresAt, err := s.bindKey(ctx, token, now)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		Key:       key,
		ExpiresIn: s.keyValidity,
		ExpiresAt: expiresAt,
		Username:  account.Username,
		Email:     account.Email,
	}, nil
}

// Rotate replaces the key bound to token. The previous key stops working
// immediately. It fails with common.ErrInvalidToken if the token does not
// verify or has expired.
func (s *SessionService) Rotate(ctx context.Context, token string) (*RotatedKey, error) {
	now := s.now()

	if _, err := auth.ParseToken(token, s.jwtSecret, now); err != nil {
		return nil, err
	}

	key, expiresAt, err := s.bindKey(ctx, token, now)
	if err != nil {
		return nil, err
	}

	return &RotatedKey{Key: key, ExpiresIn: s.keyValidity, ExpiresAt: expiresAt}, nil
}

// Validate checks, in order: the token verifies (else common.ErrInvalidToken),
// a binding exists for it, and key matches the binding and has not expired
// (else common.ErrUnauthorized). It returns the token claims.
func (s *SessionService) Validate(ctx context.Context, token, key string) (*auth.Claims, error) {
	now := s.now()

	claims, err := auth.ParseToken(token, s.jwtSecret, now)
	if err != nil {
		return nil, err
	}

	b, err := s.bindings.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: no key bound to token", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: loading binding: %v", common.ErrInternal, err)
	}

	if subtle.ConstantTimeCompare([]byte(b.Key), []byte(key)) != 1 {
		return nil, fmt.Errorf("%w: invalid api key", common.ErrUnauthorized)
	}

	if b.Expired(now) {
		// evict lazily; a concurrent rotation wins over this delete
		_, _ = s.bindings.CompareAndDelete(ctx, token, b.Key)
		return nil, fmt.Errorf("%w: api key expired", common.ErrUnauthorized)
	}

	return claims, nil
}

func (s *SessionService) bindKey(ctx context.Context, token string, now time.Time) (string, time.Time, error) {
	key, err := common.MakeRandHexString(keyBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: generating key: %v", common.ErrInternal, err)
	}

	expiresAt := now.Add(s.keyValidity)
	if err := s.bindings.Put(ctx, &models.Binding{Token: token, Key: key, ExpiresAt: expiresAt}); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: storing binding: %v", common.ErrInternal, err)
	}
	return key, expiresAt, nil
}

// maybeSweep drops expired bindings at most once per sweepInterval.
func (s *SessionService) maybeSweep(ctx context.Context, now time.Time) {
	if s.sweepInterval <= 0 {
		return
	}

	s.mu.Lock()
	if now.Sub(s.lastSweep) < s.sweepInterval {
		s.mu.Unlock()
		return
	}
	s.lastSweep = now
	s.mu.Unlock()

	_, _ = s.bindings.DeleteExpired(ctx, now)
}
