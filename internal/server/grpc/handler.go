package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/authority/internal/proto"
	"github.com/dmitrijs2005/authority/internal/server/mailer"
	"github.com/dmitrijs2005/authority/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error) {

	return wrapperspb.String("OK"), nil

}

func (s *GRPCServer) EmailKnown(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {

	known, err := s.identity.EmailKnown(ctx, req.GetValue())
	if err != nil {
		return nil, s.fail(ctx, "EmailKnown", err)
	}

	return wrapperspb.Bool(known), nil

}

func (s *GRPCServer) IsStaged(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {

	return wrapperspb.Bool(s.identity.IsStaged(req.GetValue())), nil

}

// sendSecret mails secret to email. The secret is never part of a response.
func (s *GRPCServer) sendSecret(ctx context.Context, email, secret string) error {
	if err := s.mailer.SendVerification(ctx, mailer.Verification{Email: email, Secret: secret}); err != nil {
		s.logger.Error(ctx, "verification delivery failed", "email", email, "error", err)
		return status.Error(codes.Unavailable, "verification delivery failed")
	}
	return nil
}

func (s *GRPCServer) StageUser(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {

	var u services.NewUser
	var err error
	if u.Email, err = pb.String(req, pb.FieldEmail); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if u.Password, err = pb.String(req, pb.FieldPassword); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if u.PubKey, err = pb.String(req, pb.FieldPubKey); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	secret, err := s.identity.StageUser(ctx, u)
	if err != nil {
		return nil, s.fail(ctx, "StageUser", err)
	}

	if err := s.sendSecret(ctx, u.Email, secret); err != nil {
		return nil, err
	}

	return &emptypb.Empty{}, nil

}

func (s *GRPCServer) StageEmail(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {

	existing, ok := emailFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	email, err := pb.String(req, pb.FieldEmail)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	pubkey, err := pb.String(req, pb.FieldPubKey)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	secret, err := s.identity.StageEmail(ctx, existing, email, pubkey)
	if err != nil {
		return nil, s.fail(ctx, "StageEmail", err)
	}

	if err := s.sendSecret(ctx, email, secret); err != nil {
		return nil, err
	}

	return &emptypb.Empty{}, nil

}

func (s *GRPCServer) Verify(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {

	if err := s.identity.GotVerificationSecret(ctx, req.GetValue()); err != nil {
		return nil, s.fail(ctx, "Verify", err)
	}

	return &emptypb.Empty{}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {

	email, err := pb.String(req, pb.FieldEmail)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	password, err := pb.String(req, pb.FieldPassword)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	token, err := s.identity.Login(ctx, email, password)
	if err != nil {
		return nil, s.fail(ctx, "Login", err)
	}

	s.logger.Info(ctx, "Logged in", "email", email)
	return wrapperspb.String(token), nil

}

func (s *GRPCServer) Sync(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	email, ok := emailFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	identities, err := pb.StringMap(req, pb.FieldIdentities)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp, err := s.identity.GetSyncResponse(ctx, email, identities)
	if err != nil {
		return nil, s.fail(ctx, "Sync", err)
	}

	return pb.SyncResponse(resp.UnknownEmails, resp.KeyRefresh), nil

}
