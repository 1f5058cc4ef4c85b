package client

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *rpc.VaultClient

	mu    sync.Mutex
	token string
	key   string
}

// WithMaxUploadBytes sizes per-call message limits for files of up to n bytes.
// It should match the server's upload limit.
func WithMaxUploadBytes(n int64) grpc.DialOption {
	size := common.MaxMessageSize(n)
	return grpc.WithDefaultCallOptions(
		grpc.MaxCallRecvMsgSize(size),
		grpc.MaxCallSendMsgSize(size),
	)
}

// NewVaultClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults, so a later WithMaxUploadBytes wins.
func NewVaultClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.credentialsInterceptor),
		WithMaxUploadBytes(common.DefaultMaxUploadBytes),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewVaultClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// SetCredentials installs a token+key pair, e.g. restored from a session file.
func (c *GRPCClient) SetCredentials(token, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token, c.key = token, key
}

func (c *GRPCClient) Credentials() (token, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, c.key
}

func (c *GRPCClient) setKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
}

func withCredentials(ctx context.Context, token, key string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	md.Delete(common.APIKeyHeaderName)
	if token != "" {
		md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	if key != "" {
		md.Set(common.APIKeyHeaderName, key)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// credentialsInterceptor attaches the current credentials. When a guarded
// call is rejected as unauthorized while the token is still good, the key is
// rotated once and the call retried.
func (c *GRPCClient) credentialsInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	token, key := c.Credentials()

	err := invoker(withCredentials(ctx, token, key), method, req, reply, cc, opts...)
	if err == nil || token == "" || method == rpc.RefreshKeyMethod {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrUnauthorized.Error() {
		return err
	}

	rotated, rerr := c.client.RefreshKey(ctx)
	if rerr != nil {
		return err
	}
	c.setKey(rotated.APIKey)

	return invoker(withCredentials(ctx, token, rotated.APIKey), method, req, reply, cc, opts...)
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	return mapError(c.client.Ping(ctx))
}

func (c *GRPCClient) Register(ctx context.Context, username, password, email string) error {
	_, err := c.client.Register(ctx, &rpc.RegisterRequest{Username: username, Password: password, Email: email})
	return mapError(err)
}

// Login authenticates and keeps the returned credentials for later calls.
func (c *GRPCClient) Login(ctx context.Context, username, password string) (*rpc.LoginResponse, error) {
	resp, err := c.client.Login(ctx, &rpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	c.SetCredentials(resp.Token, resp.APIKey)
	return resp, nil
}

// RefreshKey rotates the key bound to the current token.
func (c *GRPCClient) RefreshKey(ctx context.Context) (*rpc.RefreshKeyResponse, error) {
	if token, _ := c.Credentials(); token == "" {
		return nil, ErrNotLoggedIn
	}
	resp, err := c.client.RefreshKey(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	c.setKey(resp.APIKey)
	return resp, nil
}

func (c *GRPCClient) Upload(ctx context.Context, name, mimeType string, content []byte) (*rpc.UploadFileResponse, error) {
	resp, err := c.client.UploadFile(ctx, &rpc.UploadFileRequest{
		OriginalName: name,
		MimeType:     mimeType,
		Size:         int64(len(content)),
		Content:      content,
	})
	return resp, mapError(err)
}

func (c *GRPCClient) Download(ctx context.Context, id string) (*rpc.DownloadFileResponse, error) {
	resp, err := c.client.DownloadFile(ctx, &rpc.DownloadFileRequest{ID: id})
	return resp, mapError(err)
}

func (c *GRPCClient) List(ctx context.Context) ([]rpc.FileInfo, error) {
	resp, err := c.client.ListFiles(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Files, nil
}
