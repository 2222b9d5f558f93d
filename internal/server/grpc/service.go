package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "printshop.auth.v1.AuthService"

// Full method names, as seen by interceptors and clients.
const (
	MethodRegister   = "/" + serviceName + "/Register"
	MethodLogin      = "/" + serviceName + "/Login"
	MethodAdminLogin = "/" + serviceName + "/AdminLogin"
	MethodGetProfile = "/" + serviceName + "/GetProfile"
	MethodAdminCheck = "/" + serviceName + "/AdminCheck"
)

// AuthServiceServer mirrors the REST account endpoints. Requests and
// replies are generic structs carrying the same JSON field names.
type AuthServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdminLogin(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdminCheck(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AuthServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	full := "/" + serviceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AuthServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AuthServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Register", AuthServiceServer.Register),
		unaryMethod("Login", AuthServiceServer.Login),
		unaryMethod("AdminLogin", AuthServiceServer.AdminLogin),
		unaryMethod("GetProfile", AuthServiceServer.GetProfile),
		unaryMethod("AdminCheck", AuthServiceServer.AdminCheck),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "printshop/auth/v1/auth.proto",
}
