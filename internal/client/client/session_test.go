package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	_, err := LoadSession(path)
	require.ErrorIs(t, err, ErrNotLoggedIn)

	want := &Session{Username: "alice", Email: "a@x.com", Token: "t", Key: "k", ExpiresAt: time.Unix(1700000000, 0).UTC()}
	require.NoError(t, SaveSession(path, want))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	got, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, ClearSession(path))
	require.NoError(t, ClearSession(path))
	_, err = LoadSession(path)
	require.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoadSession_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := LoadSession(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotLoggedIn)
}
