package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/filex"
)

// Session is the login state kept between CLI invocations.
type Session struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Key       string    `json:"api_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoadSession reads the session at path. A missing file yields
// ErrNotLoggedIn.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}

	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", path, err)
	}
	if s.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return s, nil
}

// SaveSession writes s to path readable by the owner only.
func SaveSession(path string, s *Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(path, data, 0o600)
}

// ClearSession removes the session file. A missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
