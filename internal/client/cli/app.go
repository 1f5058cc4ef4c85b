package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/client/config"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
)

// VaultAPI is the subset of client.GRPCClient the commands use.
type VaultAPI interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, password, email string) error
	Login(ctx context.Context, username, password string) (*rpc.LoginResponse, error)
	RefreshKey(ctx context.Context) (*rpc.RefreshKeyResponse, error)
	Upload(ctx context.Context, name, mimeType string, content []byte) (*rpc.UploadFileResponse, error)
	Download(ctx context.Context, id string) (*rpc.DownloadFileResponse, error)
	List(ctx context.Context) ([]rpc.FileInfo, error)
	SetCredentials(token, key string)
	Credentials() (token, key string)
	Close() error
}

type App struct {
	config  *config.Config
	api     VaultAPI
	session *client.Session
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewVaultClient(c.ServerEndpointAddr, client.WithMaxUploadBytes(c.MaxUploadBytes))
	if err != nil {
		return nil, err
	}
	return newApp(c, apiClient)
}

func newApp(c *config.Config, api VaultAPI) (*App, error) {
	a := &App{
		config: c,
		api:    api,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		now:    time.Now,
	}

	s, err := client.LoadSession(c.SessionFile)
	switch {
	case err == nil:
		a.session = s
		api.SetCredentials(s.Token, s.Key)
	case errors.Is(err, client.ErrNotLoggedIn):
	default:
		return nil, err
	}
	return a, nil
}

func (a *App) Close() error {
	return a.api.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

// persistSession saves the session when the client holds a newer key, which
// happens after an automatic rotation.
func (a *App) persistSession() error {
	if a.session == nil {
		return nil
	}
	token, key := a.api.Credentials()
	if token == a.session.Token && key == a.session.Key {
		return nil
	}
	a.session.Token, a.session.Key = token, key
	return client.SaveSession(a.config.SessionFile, a.session)
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
