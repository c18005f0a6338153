package client

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/authority/internal/common"
	pb "github.com/dmitrijs2005/authority/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// fakeServer records what the client sent and replays canned answers.
type fakeServer struct {
	pb.UnimplementedAuthorityServiceServer

	lastToken  string
	lastStruct *structpb.Struct
	lastString string

	err error
}

func tokenFrom(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(common.AccessTokenHeaderName); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *fakeServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	f.lastToken = tokenFrom(ctx)
	return wrapperspb.String("OK"), f.err
}

func (f *fakeServer) EmailKnown(_ context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	f.lastString = in.GetValue()
	if f.err != nil {
		return nil, f.err
	}
	return wrapperspb.Bool(in.GetValue() == "a@x.com"), nil
}

func (f *fakeServer) IsStaged(_ context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(true), f.err
}

func (f *fakeServer) StageUser(_ context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	f.lastStruct = in
	if f.err != nil {
		return nil, f.err
	}
	return &emptypb.Empty{}, nil
}

func (f *fakeServer) StageEmail(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	f.lastToken = tokenFrom(ctx)
	f.lastStruct = in
	if f.err != nil {
		return nil, f.err
	}
	return &emptypb.Empty{}, nil
}

func (f *fakeServer) Verify(_ context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	f.lastString = in.GetValue()
	if f.err != nil {
		return nil, f.err
	}
	return &emptypb.Empty{}, nil
}

func (f *fakeServer) Login(_ context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	f.lastStruct = in
	if f.err != nil {
		return nil, f.err
	}
	return wrapperspb.String("tok-1"), nil
}

func (f *fakeServer) Sync(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f.lastToken = tokenFrom(ctx)
	f.lastStruct = in
	if f.err != nil {
		return nil, f.err
	}
	return pb.SyncResponse([]string{"c@x.com"}, []string{"b@x.com"}), nil
}

func newBufconnClient(t *testing.T, f *fakeServer) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	pb.RegisterAuthorityServiceServer(srv, f)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewAuthorityClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPing_NoTokenUntilSet(t *testing.T) {
	f := &fakeServer{}
	c := newBufconnClient(t, f)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	assert.Empty(t, f.lastToken)

	c.SetAccessToken("abc")
	require.NoError(t, c.Ping(ctx))
	assert.Equal(t, "abc", f.lastToken)
}

func TestRegisterAndVerify(t *testing.T) {
	f := &fakeServer{}
	c := newBufconnClient(t, f)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "a@x.com", "pw", "pk"))
	email, _ := pb.String(f.lastStruct, pb.FieldEmail)
	pubkey, _ := pb.String(f.lastStruct, pb.FieldPubKey)
	assert.Equal(t, "a@x.com", email)
	assert.Equal(t, "pk", pubkey)

	require.NoError(t, c.Verify(ctx, "sek"))
	assert.Equal(t, "sek", f.lastString)
}

func TestLoginStoresToken(t *testing.T) {
	f := &fakeServer{}
	c := newBufconnClient(t, f)
	ctx := context.Background()

	token, err := c.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, c.AddEmail(ctx, "b@x.com", "pk2"))
	assert.Equal(t, "tok-1", f.lastToken)
}

func TestLookups(t *testing.T) {
	c := newBufconnClient(t, &fakeServer{})
	ctx := context.Background()

	known, err := c.EmailKnown(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, known)

	known, err = c.EmailKnown(ctx, "b@x.com")
	require.NoError(t, err)
	assert.False(t, known)

	staged, err := c.IsStaged(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, staged)
}

func TestSync(t *testing.T) {
	f := &fakeServer{}
	c := newBufconnClient(t, f)
	c.SetAccessToken("tok")

	res, err := c.Sync(context.Background(), map[string]string{"a@x.com": "k1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c@x.com"}, res.UnknownEmails)
	assert.Equal(t, []string{"b@x.com"}, res.KeyRefresh)

	ids, err := pb.StringMap(f.lastStruct, pb.FieldIdentities)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a@x.com": "k1"}, ids)
	assert.Equal(t, "tok", f.lastToken)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unauthenticated, ErrUnauthorized},
		{codes.PermissionDenied, ErrUnauthorized},
		{codes.Unavailable, ErrUnavailable},
		{codes.NotFound, ErrNotFound},
		{codes.AlreadyExists, ErrAlreadyExists},
		{codes.InvalidArgument, ErrInvalidInput},
	}

	for _, tt := range tests {
		f := &fakeServer{err: status.Error(tt.code, "x")}
		c := newBufconnClient(t, f)
		err := c.Verify(context.Background(), "s")
		assert.True(t, errors.Is(err, tt.want), "code %v: got %v", tt.code, err)
	}

	c := newBufconnClient(t, &fakeServer{err: status.Error(codes.Internal, "internal error")})
	err := c.Verify(context.Background(), "s")
	assert.ErrorContains(t, err, "rpc error")
	assert.Nil(t, c.mapError(nil))
}
