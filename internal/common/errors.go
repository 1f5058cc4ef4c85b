// Package common defines shared constants and sentinel errors used across
// client and server layers of the vault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Input errors (client-fixable).
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("username already exists")

	// Authentication errors. ErrInvalidCredentials is reported identically
	// for an unknown user and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthorized       = errors.New("unauthorized")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Vault errors (encryption or persistence fault).
	ErrStorage   = errors.New("error storing file")
	ErrRetrieval = errors.New("error retrieving file")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")
)
