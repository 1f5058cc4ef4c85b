package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/gate"
	"github.com/dmitrijs2005/gophvault/internal/server/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods skip the access gate. Everything else requires a valid
// token+key pair. RefreshKey checks the token itself.
var publicMethods = map[string]bool{
	rpc.PingMethod:       true,
	rpc.RegisterMethod:   true,
	rpc.LoginMethod:      true,
	rpc.RefreshKeyMethod: true,
}

// credentialsFromContext reads the bearer token and the opaque key from
// incoming metadata. Missing values come back empty.
func credentialsFromContext(ctx context.Context) (token, key string) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", ""
	}
	if v := md.Get(common.AuthorizationHeaderName); len(v) > 0 {
		token = gate.BearerToken(v[0])
	}
	if v := md.Get(common.APIKeyHeaderName); len(v) > 0 {
		key = v[0]
	}
	return token, key
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	token, key := credentialsFromContext(ctx)
	authCtx, err := s.gate.Authorize(ctx, token, key)
	if err != nil {
		s.metrics.AuthEvent(metrics.EventGateRejected)
		s.logger.Warn(ctx, "access denied", "method", info.FullMethod, "error", err.Error())
		return nil, toStatus(err)
	}

	return handler(authCtx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	code := status.Code(err)
	s.metrics.ObserveRPC(info.FullMethod, code.String(), elapsed)

	if code == codes.OK {
		s.logger.Info(ctx, "rpc", "method", info.FullMethod, "code", code.String(), "duration", elapsed)
	} else {
		s.logger.Warn(ctx, "rpc", "method", info.FullMethod, "code", code.String(), "duration", elapsed)
	}

	return resp, err
}

func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "panic in handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
			resp, err = nil, status.Error(codes.Internal, common.ErrInternal.Error())
		}
	}()
	return handler(ctx, req)
}
