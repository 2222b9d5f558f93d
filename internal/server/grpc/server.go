package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/printshop/internal/logging"
	"github.com/dmitrijs2005/printshop/internal/server/auth"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/dmitrijs2005/printshop/internal/server/ratelimit"
	"github.com/dmitrijs2005/printshop/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Accounts is the account service the gRPC surface delegates to.
type Accounts interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
	Register(ctx context.Context, name, email string, secret []byte) (*models.User, error)
	Login(ctx context.Context, email string, secret []byte) (*services.Session, error)
	AdminLogin(ctx context.Context, email string, secret []byte) (*services.Session, error)
	GetProfile(ctx context.Context, p auth.Principal) (*models.User, error)
}

type GRPCServer struct {
	address  string
	accounts Accounts
	logger   logging.Logger
	limiter  *ratelimit.Limiter
}

type Option func(*GRPCServer)

// WithLoginLimiter throttles Login and AdminLogin per peer host.
func WithLoginLimiter(l *ratelimit.Limiter) Option {
	return func(s *GRPCServer) { s.limiter = l }
}

func NewGRPCServer(a string, l logging.Logger, accounts Accounts, opts ...Option) *GRPCServer {
	s := &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: accounts,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoverInterceptor, s.limitInterceptor, s.authInterceptor))
	srv.RegisterService(&authServiceDesc, s)

	hs := health.NewServer()
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(context.Background(), "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stop:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}
