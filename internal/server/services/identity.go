// Package services contains server-side business logic: account registration
// and authentication, session issuing and validation, and the encrypted file
// vault.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/accounts"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IdentityService registers accounts and checks username/password pairs.
type IdentityService struct {
	accounts   accounts.Repository
	hashParams cryptox.Argon2Params
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// IdentityOption customises an IdentityService.
type IdentityOption func(*IdentityService)

// WithHashParams overrides the argon2id cost parameters for new hashes.
// Existing hashes keep verifying since they carry their own parameters.
func WithHashParams(p cryptox.Argon2Params) IdentityOption {
	return func(s *IdentityService) {
		s.hashParams = p
	}
}

func NewIdentityService(repo accounts.Repository, opts ...IdentityOption) *IdentityService {
	s := &IdentityService{
		accounts:   repo,
		hashParams: cryptox.DefaultArgon2Params,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register creates an account. It returns common.ErrValidation for a missing
// field or malformed email and common.ErrConflict if the username is taken.
func (s *IdentityService) Register(ctx context.Context, username, password, email string) (*models.Account, error) {
	if username == "" || password == "" || email == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", common.ErrValidation)
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: cryptox.HashPassword([]byte(password), s.hashParams),
		Email:        email,
		CreatedAt:    s.now(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: creating account: %v", common.ErrInternal, err)
	}
	return account, nil
}

// Authenticate returns the account when password matches. An unknown user and
// a wrong password both yield common.ErrInvalidCredentials, and both cost one
// hash computation.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: loading account: %v", common.ErrInternal, err)
		}
		_, _ = cryptox.VerifyPassword(s.getDummyHash(), []byte(password))
		return nil, common.ErrInvalidCredentials
	}

	ok, err := cryptox.VerifyPassword(account.PasswordHash, []byte(password))
	if err != nil {
		return nil, fmt.Errorf("%w: stored hash: %v", common.ErrInternal, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}
	return account, nil
}

func (s *IdentityService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash = cryptox.HashPassword(common.GenerateRandByteArray(16), s.hashParams)
	})
	return s.dummyHash
}
