package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/server/auth"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/dmitrijs2005/printshop/internal/server/ratelimit"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// guarded lists the methods that need a bearer token and the role each
// requires. Anything missing here is public.
var guarded = map[string]models.Role{
	MethodGetProfile: models.RoleStandard,
	MethodAdminCheck: models.RoleAdmin,
}

func bearerFromMetadata(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return "", false
	}
	return common.BearerToken(values[0])
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	role, ok := guarded[info.FullMethod]
	if !ok {
		return handler(ctx, req)
	}

	token, ok := bearerFromMetadata(ctx)
	if !ok {
		return nil, toStatus(common.ErrUnauthenticated)
	}

	p, err := s.accounts.Authenticate(ctx, token)
	if err != nil {
		if !errors.Is(err, common.ErrUnauthenticated) {
			s.logger.Error(ctx, "authenticate call", "method", info.FullMethod, "error", err)
		}
		return nil, toStatus(err)
	}

	if !p.Role.Satisfies(role) {
		return nil, toStatus(common.ErrForbidden)
	}

	return handler(auth.WithPrincipal(ctx, p), req)
}

// throttled lists the methods that share the login budget.
var throttled = map[string]bool{
	MethodLogin:      true,
	MethodAdminLogin: true,
}

func peerHost(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	return ratelimit.HostKey(p.Addr.String())
}

func (s *GRPCServer) limitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.limiter == nil || !throttled[info.FullMethod] {
		return handler(ctx, req)
	}
	if !s.limiter.Allow(peerHost(ctx)) {
		return nil, status.Error(codes.ResourceExhausted, "too many requests")
	}
	return handler(ctx, req)
}

func (s *GRPCServer) recoverInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(ctx, "handler panic", "method", info.FullMethod, "panic", p)
			resp, err = nil, status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

// toStatus maps the error taxonomy onto gRPC codes. Unknown errors become
// Internal with a fixed message.
func toStatus(err error) error {
	switch common.ErrorCode(err) {
	case common.CodeInvalidInput:
		return status.Error(codes.InvalidArgument, err.Error())
	case common.CodeDuplicateEmail:
		return status.Error(codes.AlreadyExists, "user already exists")
	case common.CodeInvalidCredentials:
		return status.Error(codes.Unauthenticated, "invalid email or password")
	case common.CodeUnauthenticated:
		return status.Error(codes.Unauthenticated, "not authorized, token failed")
	case common.CodeForbidden:
		return status.Error(codes.PermissionDenied, "not authorized")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
