package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/auth"
	"github.com/dmitrijs2005/gophvault/internal/server/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func requireCode(t *testing.T, err error, want codes.Code, msg string) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "not a status error: %v", err)
	assert.Equal(t, want, st.Code(), st.Message())
	if msg != "" {
		assert.Equal(t, msg, st.Message())
	}
}

func TestVault_EndToEndScenario(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()

	reg, err := env.client.Register(ctx, &rpc.RegisterRequest{Username: "alice", Password: "pw123", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "User created successfully", reg.Message)

	_, err = env.client.Register(ctx, &rpc.RegisterRequest{Username: "alice", Password: "other", Email: "b@y.org"})
	requireCode(t, err, codes.AlreadyExists, common.ErrConflict.Error())

	login, err := env.client.Login(ctx, &rpc.LoginRequest{Username: "alice", Password: "pw123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.NotEmpty(t, login.APIKey)
	assert.Equal(t, (24 * time.Hour).Milliseconds(), login.ExpiresInMs)
	assert.Equal(t, rpc.User{Username: "alice", Email: "a@x.com"}, login.User)
	k1 := login.APIKey

	_, err = env.client.ListFiles(withCredentials(ctx, login.Token, k1))
	require.NoError(t, err)

	rotated, err := env.client.RefreshKey(withCredentials(ctx, login.Token, ""))
	require.NoError(t, err)
	k2 := rotated.APIKey
	assert.NotEqual(t, k1, k2)

	_, err = env.client.ListFiles(withCredentials(ctx, login.Token, k1))
	requireCode(t, err, codes.Unauthenticated, common.ErrUnauthorized.Error())

	authed := withCredentials(ctx, login.Token, k2)
	up, err := env.client.UploadFile(authed, &rpc.UploadFileRequest{
		OriginalName: "hello.txt",
		MimeType:     "text/plain",
		Size:         5,
		Content:      []byte("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", up.OriginalName)
	assert.Equal(t, int64(5), up.Size)

	down, err := env.client.DownloadFile(authed, &rpc.DownloadFileRequest{ID: up.ID})
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), down.Content)
	assert.Equal(t, "hello.txt", down.OriginalName)
	assert.Equal(t, "text/plain", down.MimeType)

	list, err := env.client.ListFiles(authed)
	require.NoError(t, err)
	require.Len(t, list.Files, 1)
	assert.Equal(t, rpc.FileInfo{ID: up.ID, OriginalName: "hello.txt", Size: 5, MimeType: "text/plain"}, list.Files[0])

	assert.Equal(t, 1, env.metrics.Events(metrics.EventLoginOK))
	assert.Equal(t, 1, env.metrics.Events(metrics.EventKeyRotated))
	assert.Equal(t, 1, env.metrics.Events(metrics.EventGateRejected))
	assert.Equal(t, codes.OK.String(), env.metrics.LastCode(rpc.ListFilesMethod))
}

func TestVault_Ping(t *testing.T) {
	env := startTestServer(t)
	require.NoError(t, env.client.Ping(context.Background()))
}

func TestVault_LoginFailuresAreIndistinguishable(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()
	env.registerAndLogin(t, "bob", "secret")

	_, errWrong := env.client.Login(ctx, &rpc.LoginRequest{Username: "bob", Password: "nope"})
	_, errUnknown := env.client.Login(ctx, &rpc.LoginRequest{Username: "nobody", Password: "secret"})

	requireCode(t, errWrong, codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	requireCode(t, errUnknown, codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	assert.Equal(t, 2, env.metrics.Events(metrics.EventLoginFailed))
}

func TestVault_RegisterValidation(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()

	_, err := env.client.Register(ctx, &rpc.RegisterRequest{Username: "carol", Password: "pw"})
	requireCode(t, err, codes.InvalidArgument, "")

	_, err = env.client.Register(ctx, &rpc.RegisterRequest{Username: "carol", Password: "pw", Email: "not-an-email"})
	requireCode(t, err, codes.InvalidArgument, "")
}

func TestVault_GuardedMethodsRequireBothCredentials(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()
	login := env.registerAndLogin(t, "dave", "pw")

	cases := map[string]context.Context{
		"none":       ctx,
		"token only": withCredentials(ctx, login.Token, ""),
		"key only":   withCredentials(ctx, "", login.APIKey),
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.client.ListFiles(c)
			requireCode(t, err, codes.Unauthenticated, common.ErrUnauthorized.Error())

			_, err = env.client.DownloadFile(c, &rpc.DownloadFileRequest{ID: "x"})
			requireCode(t, err, codes.Unauthenticated, "")

			_, err = env.client.UploadFile(c, &rpc.UploadFileRequest{OriginalName: "a", Content: []byte("a")})
			requireCode(t, err, codes.Unauthenticated, "")
		})
	}
	assert.Equal(t, 0, env.repos.Stats().Files)
}

func TestVault_ForgedAndExpiredTokens(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()
	login := env.registerAndLogin(t, "erin", "pw")

	forged, _, err := auth.GenerateToken("erin", "erin@x.com", []byte("wrong-secret"), time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = env.client.ListFiles(withCredentials(ctx, forged, login.APIKey))
	requireCode(t, err, codes.Unauthenticated, common.ErrInvalidToken.Error())

	expired, _, err := auth.GenerateToken("erin", "erin@x.com", []byte(env.cfg.TokenSecret), time.Now().Add(-48*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = env.client.ListFiles(withCredentials(ctx, expired, login.APIKey))
	requireCode(t, err, codes.Unauthenticated, common.ErrTokenExpired.Error())

	_, err = env.client.RefreshKey(withCredentials(ctx, expired, ""))
	requireCode(t, err, codes.Unauthenticated, common.ErrTokenExpired.Error())

	_, err = env.client.RefreshKey(ctx)
	requireCode(t, err, codes.Unauthenticated, common.ErrUnauthorized.Error())
}

func TestVault_KeyIsBoundToItsToken(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()
	a := env.registerAndLogin(t, "frank", "pw")
	b := env.registerAndLogin(t, "grace", "pw")

	_, err := env.client.ListFiles(withCredentials(ctx, a.Token, b.APIKey))
	requireCode(t, err, codes.Unauthenticated, common.ErrUnauthorized.Error())
}

func TestVault_UploadAndDownloadErrors(t *testing.T) {
	env := startTestServer(t)
	login := env.registerAndLogin(t, "heidi", "pw")
	authed := withCredentials(context.Background(), login.Token, login.APIKey)

	_, err := env.client.UploadFile(authed, &rpc.UploadFileRequest{Content: []byte("data")})
	requireCode(t, err, codes.InvalidArgument, "")

	_, err = env.client.UploadFile(authed, &rpc.UploadFileRequest{OriginalName: "a.bin", Size: 10, Content: []byte("data")})
	requireCode(t, err, codes.InvalidArgument, "")

	big := make([]byte, env.cfg.MaxUploadBytes+1)
	_, err = env.client.UploadFile(authed, &rpc.UploadFileRequest{OriginalName: "big.bin", Content: big})
	requireCode(t, err, codes.InvalidArgument, "")

	_, err = env.client.DownloadFile(authed, &rpc.DownloadFileRequest{ID: "00000000-0000-0000-0000-000000000000"})
	requireCode(t, err, codes.NotFound, common.ErrNotFound.Error())

	up, err := env.client.UploadFile(authed, &rpc.UploadFileRequest{OriginalName: "raw", Content: []byte{0, 1, 2}})
	require.NoError(t, err)
	down, err := env.client.DownloadFile(authed, &rpc.DownloadFileRequest{ID: up.ID})
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", down.MimeType)
}

func TestVault_ListEmpty(t *testing.T) {
	env := startTestServer(t)
	login := env.registerAndLogin(t, "ivan", "pw")

	list, err := env.client.ListFiles(withCredentials(context.Background(), login.Token, login.APIKey))
	require.NoError(t, err)
	assert.Empty(t, list.Files)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	srv, _ := newTestServer(t, cfg, nil)
	srv.address = cfg.EndpointAddrGRPC

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, testConfig(), nil)
	srv.address = "127.0.0.1:99999"

	require.Error(t, srv.Run(context.Background()))
}
