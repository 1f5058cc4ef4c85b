package grpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/dmitrijs2005/gophvault/internal/server/gate"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvault/internal/server/services"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 4 << 20

var testHashParams = cryptox.Argon2Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type recordingMetrics struct {
	mu     sync.Mutex
	events map[string]int
	codes  map[string]string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{events: map[string]int{}, codes: map[string]string{}}
}

func (r *recordingMetrics) ObserveRPC(method, code string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[method] = code
}

func (r *recordingMetrics) AuthEvent(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event]++
}

func (r *recordingMetrics) Events(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[event]
}

func (r *recordingMetrics) LastCode(method string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[method]
}

type testEnv struct {
	cfg     *config.Config
	repos   *repomanager.InMemoryRepositoryManager
	metrics *recordingMetrics
	client  *rpc.VaultClient
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.TokenSecret = "test-jwt-secret"
	cfg.EncryptionSecret = "test-encryption-secret"
	cfg.MaxUploadBytes = 64 << 10
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, rec Recorder) (*GRPCServer, *repomanager.InMemoryRepositoryManager) {
	t.Helper()

	repos := repomanager.NewInMemoryRepositoryManager()
	sessions := services.NewSessionService(repos.Bindings(), cfg)
	vault, err := services.NewVaultService(repos.Files(), cfg.EncryptionSecret, cfg.MaxUploadBytes)
	require.NoError(t, err)

	svc := Services{
		Identity: services.NewIdentityService(repos.Accounts(), services.WithHashParams(testHashParams)),
		Sessions: sessions,
		Vault:    vault,
		Gate:     gate.New(sessions),
	}
	return NewGRPCServer("bufnet", logging.NewNopLogger(), svc, rec, cfg.MaxUploadBytes), repos
}

// startTestServer serves a fresh in-memory vault over bufconn and returns a
// connected client.
func startTestServer(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	rec := newRecordingMetrics()
	srv, repos := newTestServer(t, cfg, rec)

	lis := bufconn.Listen(bufSize)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})

	return &testEnv{cfg: cfg, repos: repos, metrics: rec, client: rpc.NewVaultClient(conn)}
}

func withCredentials(ctx context.Context, token, key string) context.Context {
	kv := []string{}
	if token != "" {
		kv = append(kv, common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	if key != "" {
		kv = append(kv, common.APIKeyHeaderName, key)
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

func (e *testEnv) registerAndLogin(t *testing.T, username, password string) *rpc.LoginResponse {
	t.Helper()
	ctx := context.Background()

	_, err := e.client.Register(ctx, &rpc.RegisterRequest{Username: username, Password: password, Email: username + "@x.com"})
	require.NoError(t, err)

	resp, err := e.client.Login(ctx, &rpc.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	return resp
}
