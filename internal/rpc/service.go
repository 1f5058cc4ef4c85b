// Package rpc is the wire contract between the vault server and its clients:
// the gRPC service description, method names, message bodies and the JSON
// codec they are carried with.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "vault.v1.VaultService"

// Full method names, as seen by interceptors.
const (
	PingMethod         = "/" + ServiceName + "/Ping"
	RegisterMethod     = "/" + ServiceName + "/Register"
	LoginMethod        = "/" + ServiceName + "/Login"
	RefreshKeyMethod   = "/" + ServiceName + "/RefreshKey"
	UploadFileMethod   = "/" + ServiceName + "/UploadFile"
	DownloadFileMethod = "/" + ServiceName + "/DownloadFile"
	ListFilesMethod    = "/" + ServiceName + "/ListFiles"
)

// VaultServer is implemented by the server side of the service.
type VaultServer interface {
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshKey(context.Context, *emptypb.Empty) (*RefreshKeyResponse, error)
	UploadFile(context.Context, *UploadFileRequest) (*UploadFileResponse, error)
	DownloadFile(context.Context, *DownloadFileRequest) (*DownloadFileResponse, error)
	ListFiles(context.Context, *emptypb.Empty) (*ListFilesResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(PingMethod, VaultServer.Ping)},
		{MethodName: "Register", Handler: unaryHandler(RegisterMethod, VaultServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, VaultServer.Login)},
		{MethodName: "RefreshKey", Handler: unaryHandler(RefreshKeyMethod, VaultServer.RefreshKey)},
		{MethodName: "UploadFile", Handler: unaryHandler(UploadFileMethod, VaultServer.UploadFile)},
		{MethodName: "DownloadFile", Handler: unaryHandler(DownloadFileMethod, VaultServer.DownloadFile)},
		{MethodName: "ListFiles", Handler: unaryHandler(ListFilesMethod, VaultServer.ListFiles)},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterVaultServer(s grpc.ServiceRegistrar, srv VaultServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(VaultServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VaultServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VaultServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// VaultClient is the client side of the service. Calls are sent with the
// JSON codec.
type VaultClient struct {
	cc grpc.ClientConnInterface
}

func NewVaultClient(cc grpc.ClientConnInterface) *VaultClient {
	return &VaultClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VaultClient) Ping(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := invoke[emptypb.Empty, emptypb.Empty](ctx, c.cc, PingMethod, &emptypb.Empty{}, opts)
	return err
}

func (c *VaultClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterRequest, RegisterResponse](ctx, c.cc, RegisterMethod, in, opts)
}

func (c *VaultClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginRequest, LoginResponse](ctx, c.cc, LoginMethod, in, opts)
}

func (c *VaultClient) RefreshKey(ctx context.Context, opts ...grpc.CallOption) (*RefreshKeyResponse, error) {
	return invoke[emptypb.Empty, RefreshKeyResponse](ctx, c.cc, RefreshKeyMethod, &emptypb.Empty{}, opts)
}

func (c *VaultClient) UploadFile(ctx context.Context, in *UploadFileRequest, opts ...grpc.CallOption) (*UploadFileResponse, error) {
	return invoke[UploadFileRequest, UploadFileResponse](ctx, c.cc, UploadFileMethod, in, opts)
}

func (c *VaultClient) DownloadFile(ctx context.Context, in *DownloadFileRequest, opts ...grpc.CallOption) (*DownloadFileResponse, error) {
	return invoke[DownloadFileRequest, DownloadFileResponse](ctx, c.cc, DownloadFileMethod, in, opts)
}

func (c *VaultClient) ListFiles(ctx context.Context, opts ...grpc.CallOption) (*ListFilesResponse, error) {
	return invoke[emptypb.Empty, ListFilesResponse](ctx, c.cc, ListFilesMethod, &emptypb.Empty{}, opts)
}
