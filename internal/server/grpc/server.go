package grpc

import (
	"context"
	"iter"
	"net"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/gate"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/services"
	"google.golang.org/grpc"
)

// IdentityManager registers and authenticates accounts.
type IdentityManager interface {
	Register(ctx context.Context, username, password, email string) (*models.Account, error)
	Authenticate(ctx context.Context, username, password string) (*models.Account, error)
}

// SessionIssuer hands out and rotates token+key pairs.
type SessionIssuer interface {
	Issue(ctx context.Context, account *models.Account) (*services.Session, error)
	Rotate(ctx context.Context, token string) (*services.RotatedKey, error)
}

// FileVault stores and serves encrypted files.
type FileVault interface {
	Store(ctx context.Context, content []byte, filename, mimeType string, declaredSize int64) (*models.FileInfo, error)
	Retrieve(ctx context.Context, id string) (*services.RetrievedFile, error)
	List(ctx context.Context) (iter.Seq[models.FileInfo], error)
}

// Recorder receives per-call metrics. metrics.Metrics implements it.
type Recorder interface {
	ObserveRPC(method, code string, d time.Duration)
	AuthEvent(event string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRPC(string, string, time.Duration) {}
func (nopRecorder) AuthEvent(string)                         {}

// Services bundles what the handlers delegate to.
type Services struct {
	Identity IdentityManager
	Sessions SessionIssuer
	Vault    FileVault
	Gate     *gate.Gate
}

type GRPCServer struct {
	address    string
	logger     logging.Logger
	identity   IdentityManager
	sessions   SessionIssuer
	vault      FileVault
	gate       *gate.Gate
	metrics    Recorder
	maxMsgSize int
}

// NewGRPCServer builds the vault gRPC server. A nil recorder disables
// metrics. maxUploadBytes bounds accepted file size; message limits are
// derived from it to leave room for base64 and framing.
func NewGRPCServer(address string, l logging.Logger, svc Services, rec Recorder, maxUploadBytes int64) *GRPCServer {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &GRPCServer{
		address:    address,
		logger:     l.With("module", "grpc_server"),
		identity:   svc.Identity,
		sessions:   svc.Sessions,
		vault:      svc.Vault,
		gate:       svc.Gate,
		metrics:    rec,
		maxMsgSize: common.MaxMessageSize(maxUploadBytes),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			s.recoveryInterceptor,
			s.loggingInterceptor,
			s.authInterceptor,
		),
		grpc.MaxRecvMsgSize(s.maxMsgSize),
		grpc.MaxSendMsgSize(s.maxMsgSize),
	)
	rpc.RegisterVaultServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
