package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "authority.v1.AuthorityService"

const (
	AuthorityService_Ping_FullMethodName       = "/" + ServiceName + "/Ping"
	AuthorityService_EmailKnown_FullMethodName = "/" + ServiceName + "/EmailKnown"
	AuthorityService_IsStaged_FullMethodName   = "/" + ServiceName + "/IsStaged"
	AuthorityService_StageUser_FullMethodName  = "/" + ServiceName + "/StageUser"
	AuthorityService_StageEmail_FullMethodName = "/" + ServiceName + "/StageEmail"
	AuthorityService_Verify_FullMethodName     = "/" + ServiceName + "/Verify"
	AuthorityService_Login_FullMethodName      = "/" + ServiceName + "/Login"
	AuthorityService_Sync_FullMethodName       = "/" + ServiceName + "/Sync"
)

// AuthorityServiceServer is the server API for AuthorityService.
type AuthorityServiceServer interface {
	// Ping returns "OK".
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	// EmailKnown takes an address.
	EmailKnown(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	// IsStaged takes an address.
	IsStaged(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	// StageUser takes {email, password, pubkey}.
	StageUser(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	// StageEmail takes {email, pubkey}; requires an access token.
	StageEmail(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	// Verify takes a secret.
	Verify(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	// Login takes {email, password} and returns an access token.
	Login(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	// Sync takes {identities: {address: key}} and returns
	// {unknown_emails: [...], key_refresh: [...]}; requires an access token.
	Sync(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedAuthorityServiceServer must be embedded for forward
// compatibility.
type UnimplementedAuthorityServiceServer struct{}

func (UnimplementedAuthorityServiceServer) Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedAuthorityServiceServer) EmailKnown(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method EmailKnown not implemented")
}
func (UnimplementedAuthorityServiceServer) IsStaged(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method IsStaged not implemented")
}
func (UnimplementedAuthorityServiceServer) StageUser(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method StageUser not implemented")
}
func (UnimplementedAuthorityServiceServer) StageEmail(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method StageEmail not implemented")
}
func (UnimplementedAuthorityServiceServer) Verify(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Verify not implemented")
}
func (UnimplementedAuthorityServiceServer) Login(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAuthorityServiceServer) Sync(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Sync not implemented")
}

func RegisterAuthorityServiceServer(s grpc.ServiceRegistrar, srv AuthorityServiceServer) {
	s.RegisterService(&AuthorityService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](fullMethod string, call func(AuthorityServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthorityServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthorityServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthorityService_ServiceDesc has no Metadata: the service is built from
// well-known types and there is no .proto source to point reflection at.
var AuthorityService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthorityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(AuthorityService_Ping_FullMethodName, AuthorityServiceServer.Ping)},
		{MethodName: "EmailKnown", Handler: unaryHandler(AuthorityService_EmailKnown_FullMethodName, AuthorityServiceServer.EmailKnown)},
		{MethodName: "IsStaged", Handler: unaryHandler(AuthorityService_IsStaged_FullMethodName, AuthorityServiceServer.IsStaged)},
		{MethodName: "StageUser", Handler: unaryHandler(AuthorityService_StageUser_FullMethodName, AuthorityServiceServer.StageUser)},
		{MethodName: "StageEmail", Handler: unaryHandler(AuthorityService_StageEmail_FullMethodName, AuthorityServiceServer.StageEmail)},
		{MethodName: "Verify", Handler: unaryHandler(AuthorityService_Verify_FullMethodName, AuthorityServiceServer.Verify)},
		{MethodName: "Login", Handler: unaryHandler(AuthorityService_Login_FullMethodName, AuthorityServiceServer.Login)},
		{MethodName: "Sync", Handler: unaryHandler(AuthorityService_Sync_FullMethodName, AuthorityServiceServer.Sync)},
	},
	Streams: []grpc.StreamDesc{},
}

// AuthorityServiceClient is the client API for AuthorityService.
type AuthorityServiceClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	EmailKnown(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	IsStaged(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	StageUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	StageEmail(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Verify(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Sync(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type authorityServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthorityServiceClient(cc grpc.ClientConnInterface) AuthorityServiceClient {
	return &authorityServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authorityServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, AuthorityService_Ping_FullMethodName, in, opts)
}

func (c *authorityServiceClient) EmailKnown(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.cc, AuthorityService_EmailKnown_FullMethodName, in, opts)
}

func (c *authorityServiceClient) IsStaged(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.cc, AuthorityService_IsStaged_FullMethodName, in, opts)
}

func (c *authorityServiceClient) StageUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, AuthorityService_StageUser_FullMethodName, in, opts)
}

func (c *authorityServiceClient) StageEmail(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, AuthorityService_StageEmail_FullMethodName, in, opts)
}

func (c *authorityServiceClient) Verify(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, AuthorityService_Verify_FullMethodName, in, opts)
}

func (c *authorityServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, AuthorityService_Login_FullMethodName, in, opts)
}

func (c *authorityServiceClient) Sync(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, AuthorityService_Sync_FullMethodName, in, opts)
}
