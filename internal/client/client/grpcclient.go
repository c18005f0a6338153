package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authority/internal/common"
	pb "github.com/dmitrijs2005/authority/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AuthorityServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// SetAccessToken sets the token attached to subsequent calls.
func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAuthorityClient dials endpointURL. Extra dial options are appended to
// the defaults (insecure transport, token interceptor).
func NewAuthorityClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAuthorityServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	if _, err := s.client.Ping(ctx, &emptypb.Empty{}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) EmailKnown(ctx context.Context, email string) (bool, error) {
	resp, err := s.client.EmailKnown(ctx, wrapperspb.String(email))
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.GetValue(), nil
}

func (s *GRPCClient) IsStaged(ctx context.Context, email string) (bool, error) {
	resp, err := s.client.IsStaged(ctx, wrapperspb.String(email))
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.GetValue(), nil
}

// Register stages a new account. The server mails the verification secret
// to email.
func (s *GRPCClient) Register(ctx context.Context, email, password, pubkey string) error {
	if _, err := s.client.StageUser(ctx, pb.StageUserRequest(email, password, pubkey)); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Verify(ctx context.Context, secret string) error {
	if _, err := s.client.Verify(ctx, wrapperspb.String(secret)); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Login obtains an access token, keeps it for later calls and returns it.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.Login(ctx, pb.LoginRequest(email, password))
	if err != nil {
		return "", s.mapError(err)
	}

	s.SetAccessToken(resp.GetValue())
	return resp.GetValue(), nil
}

// AddEmail stages email for the logged-in account.
func (s *GRPCClient) AddEmail(ctx context.Context, email, pubkey string) error {
	if _, err := s.client.StageEmail(ctx, pb.StageEmailRequest(email, pubkey)); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Sync(ctx context.Context, identities map[string]string) (*SyncResult, error) {
	resp, err := s.client.Sync(ctx, pb.SyncRequest(identities))
	if err != nil {
		return nil, s.mapError(err)
	}

	unknown, err := pb.StringSlice(resp, pb.FieldUnknownEmails)
	if err != nil {
		return nil, fmt.Errorf("bad sync response: %w", err)
	}
	refresh, err := pb.StringSlice(resp, pb.FieldKeyRefresh)
	if err != nil {
		return nil, fmt.Errorf("bad sync response: %w", err)
	}

	return &SyncResult{UnknownEmails: unknown, KeyRefresh: refresh}, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
