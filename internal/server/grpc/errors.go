package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authority/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Anything not listed
// is reported as Internal without its message.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrUnknownEmail),
		errors.Is(err, common.ErrUnknownSecret):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrEmailAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// fail maps err with toStatus and logs it when the mapping hides the cause.
func (s *GRPCServer) fail(ctx context.Context, rpc string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, rpc+" failed", "error", err)
	}
	return st
}
