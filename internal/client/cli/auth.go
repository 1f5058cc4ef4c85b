package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Prompt hooks, replaced in tests.
var (
	promptLine   = PromptLine
	promptSecret = PromptSecret
)

// Register prompts for username, email and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	username, err := promptLine(a.reader, a.out, "Username")
	if err != nil {
		return err
	}
	email, err := promptLine(a.reader, a.out, "Email")
	if err != nil {
		return err
	}

	password, err := promptSecret(a.reader, a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.api.Register(ctx, username, string(password), email); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials, authenticates and saves the session file.
func (a *App) Login(ctx context.Context) error {
	username, err := promptLine(a.reader, a.out, "Username")
	if err != nil {
		return err
	}

	password, err := promptSecret(a.reader, a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	resp, err := a.api.Login(ctx, username, string(password))
	if err != nil {
		return err
	}

	expiresIn := time.Duration(resp.ExpiresInMs) * time.Millisecond
	s := &client.Session{
		Username:  resp.User.Username,
		Email:     resp.User.Email,
		Token:     resp.Token,
		Key:       resp.APIKey,
		ExpiresAt: a.now().Add(expiresIn).UTC(),
	}
	if err := client.SaveSession(a.config.SessionFile, s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	a.session = s

	fmt.Fprintf(a.out, "Logged in as %s, key valid for %s\n", s.Username, expiresIn)
	return nil
}

// Rotate replaces the key bound to the saved token.
func (a *App) Rotate(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	resp, err := a.api.RefreshKey(ctx)
	if err != nil {
		return err
	}

	a.session.ExpiresAt = a.now().Add(time.Duration(resp.ExpiresInMs) * time.Millisecond).UTC()
	a.session.Key = resp.APIKey
	if err := client.SaveSession(a.config.SessionFile, a.session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Fprintln(a.out, "Key rotated")
	return nil
}

// Logout forgets the saved session. The server-side binding is left to expire.
func (a *App) Logout(ctx context.Context) error {
	a.session = nil
	a.api.SetCredentials("", "")
	if err := client.ClearSession(a.config.SessionFile); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
