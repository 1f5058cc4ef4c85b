package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/gate"
	"github.com/dmitrijs2005/gophvault/internal/server/metrics"
	"google.golang.org/protobuf/types/known/emptypb"
)

const registeredMessage = "User created successfully"

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	account, err := s.identity.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		s.logger.Warn(ctx, "Registration failed", "username", req.Username, "error", err.Error())
		return nil, toStatus(err)
	}

	s.metrics.AuthEvent(metrics.EventRegistered)
	s.logger.Info(ctx, "Registered", "username", account.Username)

	return &rpc.RegisterResponse{Message: registeredMessage}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	account, err := s.identity.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			s.metrics.AuthEvent(metrics.EventLoginFailed)
		}
		s.logger.Warn(ctx, "Login failed", "username", req.Username)
		return nil, toStatus(err)
	}

	session, err := s.sessions.Issue(ctx, account)
	if err != nil {
		s.logger.Error(ctx, "Issuing session failed", "username", account.Username, "error", err.Error())
		return nil, toStatus(err)
	}

	s.metrics.AuthEvent(metrics.EventLoginOK)
	s.logger.Info(ctx, "Logged in", "username", account.Username)

	return &rpc.LoginResponse{
		Token:       session.Token,
		APIKey:      session.Key,
		ExpiresInMs: session.ExpiresIn.Milliseconds(),
		User:        rpc.User{Username: session.Username, Email: session.Email},
	}, nil
}

func (s *GRPCServer) RefreshKey(ctx context.Context, _ *emptypb.Empty) (*rpc.RefreshKeyResponse, error) {
	token, _ := credentialsFromContext(ctx)
	if token == "" {
		return nil, toStatus(common.ErrUnauthorized)
	}

	rotated, err := s.sessions.Rotate(ctx, token)
	if err != nil {
		s.logger.Warn(ctx, "Key rotation failed", "error", err.Error())
		return nil, toStatus(err)
	}

	s.metrics.AuthEvent(metrics.EventKeyRotated)
	s.logger.Info(ctx, "Key rotated")

	return &rpc.RefreshKeyResponse{
		APIKey:      rotated.Key,
		ExpiresInMs: rotated.ExpiresIn.Milliseconds(),
	}, nil
}

func (s *GRPCServer) UploadFile(ctx context.Context, req *rpc.UploadFileRequest) (*rpc.UploadFileResponse, error) {
	info, err := s.vault.Store(ctx, req.Content, req.OriginalName, req.MimeType, req.Size)
	if err != nil {
		s.logger.Warn(ctx, "Upload failed", "user", callerName(ctx), "name", req.OriginalName, "error", err.Error())
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "File stored", "user", callerName(ctx), "id", info.ID, "size", info.Size)

	return &rpc.UploadFileResponse{
		ID:           info.ID,
		OriginalName: info.OriginalName,
		Size:         info.Size,
	}, nil
}

func (s *GRPCServer) DownloadFile(ctx context.Context, req *rpc.DownloadFileRequest) (*rpc.DownloadFileResponse, error) {
	file, err := s.vault.Retrieve(ctx, req.ID)
	if err != nil {
		s.logger.Warn(ctx, "Download failed", "user", callerName(ctx), "id", req.ID, "error", err.Error())
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "File retrieved", "user", callerName(ctx), "id", file.ID)

	return &rpc.DownloadFileResponse{
		ID:           file.ID,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		Content:      file.Content,
	}, nil
}

func (s *GRPCServer) ListFiles(ctx context.Context, _ *emptypb.Empty) (*rpc.ListFilesResponse, error) {
	seq, err := s.vault.List(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &rpc.ListFilesResponse{Files: []rpc.FileInfo{}}
	for f := range seq {
		resp.Files = append(resp.Files, rpc.FileInfo{
			ID:           f.ID,
			OriginalName: f.OriginalName,
			Size:         f.Size,
			MimeType:     f.MimeType,
		})
	}

	return resp, nil
}

func callerName(ctx context.Context) string {
	if c, ok := gate.ClaimsFromContext(ctx); ok {
		return c.Username
	}
	return ""
}
