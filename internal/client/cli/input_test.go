package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func fakeTerminal(t *testing.T, tty bool, pw []byte, err error) {
	t.Helper()
	oldTTY, oldRead := stdinIsTerminal, readPassword
	stdinIsTerminal = func() bool { return tty }
	readPassword = func(int) ([]byte, error) { return pw, err }
	t.Cleanup(func() {
		stdinIsTerminal, readPassword = oldTTY, oldRead
	})
}

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	got, err := PromptLine(rdr("  alice \n"), &out, "Username")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "Username: ", out.String())
}

func TestPromptLine_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := PromptLine(rdr("alice@x.com"), &out, "Email")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got)

	_, err = PromptLine(rdr(""), &out, "Email")
	require.ErrorIs(t, err, io.EOF)
}

func TestPromptSecret_Terminal(t *testing.T) {
	fakeTerminal(t, true, []byte("s3cret"), nil)

	var out bytes.Buffer
	pw, err := PromptSecret(rdr("ignored\n"), &out, "Password")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Password: \n", out.String())
}

func TestPromptSecret_TerminalError(t *testing.T) {
	fakeTerminal(t, true, nil, errors.New("no tty"))

	_, err := PromptSecret(rdr(""), io.Discard, "Password")
	require.Error(t, err)
}

func TestPromptSecret_Piped(t *testing.T) {
	fakeTerminal(t, false, nil, errors.New("must not be called"))

	pw, err := PromptSecret(rdr("from-pipe\nnext\n"), io.Discard, "Password")
	require.NoError(t, err)
	assert.Equal(t, []byte("from-pipe"), pw)
}
