package grpc

import (
	"context"

	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/server/auth"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/dmitrijs2005/printshop/internal/server/services"
	"google.golang.org/protobuf/types/known/structpb"
)

func field(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func userStruct(u *models.User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  string(u.Role),
	}
}

func (s *GRPCServer) reply(ctx context.Context, v map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(v)
	if err != nil {
		s.logger.Error(ctx, "encode reply", "error", err)
		return nil, toStatus(common.ErrorInternal)
	}
	return out, nil
}

func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	if common.ErrorCode(err) == common.CodeInternal {
		s.logger.Error(ctx, op+" failed", "error", err)
	}
	return toStatus(err)
}

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	secret := []byte(field(in, "password"))
	defer common.WipeByteArray(secret)

	if _, err := s.accounts.Register(ctx, field(in, "name"), field(in, "email"), secret); err != nil {
		return nil, s.fail(ctx, "register", err)
	}

	return s.reply(ctx, map[string]any{"success": true, "message": "Registration successful"})
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.login(ctx, in, s.accounts.Login)
}

func (s *GRPCServer) AdminLogin(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.login(ctx, in, s.accounts.AdminLogin)
}

func (s *GRPCServer) login(ctx context.Context, in *structpb.Struct, login func(context.Context, string, []byte) (*services.Session, error)) (*structpb.Struct, error) {
	secret := []byte(field(in, "password"))
	defer common.WipeByteArray(secret)

	session, err := login(ctx, field(in, "email"), secret)
	if err != nil {
		return nil, s.fail(ctx, "login", err)
	}

	return s.reply(ctx, map[string]any{"user": userStruct(session.User), "token": session.Token})
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrUnauthenticated)
	}

	u, err := s.accounts.GetProfile(ctx, p)
	if err != nil {
		return nil, s.fail(ctx, "profile", err)
	}

	return s.reply(ctx, userStruct(u))
}

func (s *GRPCServer) AdminCheck(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.reply(ctx, map[string]any{"valid": true})
}
