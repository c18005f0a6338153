// Package grpc exposes the identity service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/authority/internal/logging"
	pb "github.com/dmitrijs2005/authority/internal/proto"
	"github.com/dmitrijs2005/authority/internal/server/mailer"
	"github.com/dmitrijs2005/authority/internal/server/reconcile"
	"github.com/dmitrijs2005/authority/internal/server/services"
	"google.golang.org/grpc"
)

// Identity is the subset of *services.IdentityService the transport uses.
type Identity interface {
	EmailKnown(ctx context.Context, address string) (bool, error)
	IsStaged(address string) bool
	StageUser(ctx context.Context, u services.NewUser) (string, error)
	StageEmail(ctx context.Context, existingAddress, newAddress, pubkey string) (string, error)
	GotVerificationSecret(ctx context.Context, secret string) error
	Login(ctx context.Context, address, password string) (string, error)
	GetSyncResponse(ctx context.Context, address string, identities map[string]string) (*reconcile.Response, error)
}

type GRPCServer struct {
	pb.UnimplementedAuthorityServiceServer
	address   string
	identity  Identity
	mailer    mailer.Mailer
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, is Identity, m mailer.Mailer, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		identity:  is,
		mailer:    m,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	pb.RegisterAuthorityServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
