package grpc

import (
	"context"

	"github.com/dmitrijs2005/authority/internal/common"
	pb "github.com/dmitrijs2005/authority/internal/proto"
	"github.com/dmitrijs2005/authority/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const emailKey ctxKey = "email"

// authenticated lists the methods that act on behalf of a logged-in user.
var authenticated = map[string]bool{
	pb.AuthorityService_StageEmail_FullMethodName: true,
	pb.AuthorityService_Sync_FullMethodName:       true,
}

func emailFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(emailKey).(string)
	return v, ok && v != ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if authenticated[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		email, err := auth.GetEmailFromToken(accessToken, s.jwtSecret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		ctx = context.WithValue(ctx, emailKey, email)

	}

	return handler(ctx, req)
}
