package grpc

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/printshop/internal/cryptox"
	"github.com/dmitrijs2005/printshop/internal/logging"
	"github.com/dmitrijs2005/printshop/internal/server/auth"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/dmitrijs2005/printshop/internal/server/ratelimit"
	usersrepo "github.com/dmitrijs2005/printshop/internal/server/repositories/users"
	"github.com/dmitrijs2005/printshop/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type testEnv struct {
	conn *grpc.ClientConn
	repo *usersrepo.MemoryRepository
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	repo := usersrepo.NewMemoryRepository()
	tokens := auth.NewTokenService([]byte("grpc-secret"), auth.DefaultTTLPolicy())
	svc := services.NewUserService(repo, tokens, cryptox.NewHasher(bcrypt.MinCost), logging.NewNopLogger())
	_, err := svc.EnsureUser(context.Background(), services.SeedUser{Name: "Admin", Email: "admin@example.com", Password: "admin123", Role: models.RoleAdmin})
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewGRPCServer("bufnet", logging.NewNopLogger(), svc, opts...).Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})

	return &testEnv{conn: conn, repo: repo}
}

func (e *testEnv) call(t *testing.T, method, token string, in map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}

	out := new(structpb.Struct)
	if err := e.conn.Invoke(ctx, method, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *testEnv) login(t *testing.T, method, email, password string) (token, role string) {
	t.Helper()
	out, err := e.call(t, method, "", map[string]any{"email": email, "password": password})
	require.NoError(t, err)
	user := out.GetFields()["user"].GetStructValue()
	return field(out, "token"), field(user, "role")
}

func assertCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, status.Code(err), err.Error())
}

func TestAuthService_StandardUser(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.call(t, MethodRegister, "", map[string]any{"name": "A", "email": "a@x.com", "password": "abcdef", "role": "admin"})
	require.NoError(t, err)
	assert.True(t, out.GetFields()["success"].GetBoolValue())

	token, role := env.login(t, MethodLogin, "a@x.com", "abcdef")
	assert.NotEmpty(t, token)
	assert.Equal(t, "standard", role)

	prof, err := env.call(t, MethodGetProfile, token, nil)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", field(prof, "email"))
	assert.Equal(t, "standard", field(prof, "role"))

	_, err = env.call(t, MethodAdminCheck, token, nil)
	assertCode(t, err, codes.PermissionDenied)

	_, err = env.call(t, MethodAdminLogin, "", map[string]any{"email": "a@x.com", "password": "abcdef"})
	assertCode(t, err, codes.Unauthenticated)
}

func TestAuthService_Admin(t *testing.T) {
	env := newTestEnv(t)

	token, role := env.login(t, MethodAdminLogin, "admin@example.com", "admin123")
	assert.Equal(t, "admin", role)

	out, err := env.call(t, MethodAdminCheck, token, nil)
	require.NoError(t, err)
	assert.True(t, out.GetFields()["valid"].GetBoolValue())
}

func TestAuthService_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.call(t, MethodRegister, "", map[string]any{"name": "A", "email": "a@x.com", "password": "abc"})
	assertCode(t, err, codes.InvalidArgument)

	_, err = env.call(t, MethodRegister, "", map[string]any{"name": "A", "email": "ADMIN@example.com", "password": "abcdef"})
	assertCode(t, err, codes.AlreadyExists)

	_, err = env.call(t, MethodLogin, "", map[string]any{"email": "admin@example.com", "password": "nope-nope"})
	assertCode(t, err, codes.Unauthenticated)

	_, err = env.call(t, MethodGetProfile, "", nil)
	assertCode(t, err, codes.Unauthenticated)

	_, err = env.call(t, MethodGetProfile, "garbage", nil)
	assertCode(t, err, codes.Unauthenticated)
}

func TestAuthService_DeletedUser(t *testing.T) {
	env := newTestEnv(t)

	token, _ := env.login(t, MethodLogin, "admin@example.com", "admin123")
	u, err := env.repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.NoError(t, env.repo.Delete(context.Background(), u.ID))

	_, err = env.call(t, MethodAdminCheck, token, nil)
	assertCode(t, err, codes.Unauthenticated)
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t, WithLoginLimiter(ratelimit.New(2, 2, time.Hour)))

	for i := 0; i < 2; i++ {
		_, err := env.call(t, MethodLogin, "", map[string]any{"email": "x@x.com", "password": "abcdef"})
		assertCode(t, err, codes.Unauthenticated)
	}
	_, err := env.call(t, MethodAdminLogin, "", map[string]any{"email": "x@x.com", "password": "abcdef"})
	assertCode(t, err, codes.ResourceExhausted)

	// registration is not throttled by the login budget
	_, err = env.call(t, MethodRegister, "", map[string]any{"name": "A", "email": "a@x.com", "password": "abcdef"})
	require.NoError(t, err)
}

func TestLoginRateLimit_SharedWithOtherTransport(t *testing.T) {
	limiter := ratelimit.New(2, 2, time.Hour)
	env := newTestEnv(t, WithLoginLimiter(limiter))

	// bufconn peers report "bufconn" as their address
	require.True(t, limiter.Allow("bufconn"))
	require.True(t, limiter.Allow("bufconn"))

	_, err := env.call(t, MethodLogin, "", map[string]any{"email": "admin@example.com", "password": "admin123"})
	assertCode(t, err, codes.ResourceExhausted)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(env.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: serviceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:99999", logging.NewNopLogger(), nil)
	assert.Error(t, srv.Run(context.Background()))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:0", logging.NewNopLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServe_ListenerErrorReleasesStopper(t *testing.T) {
	out := &syncBuffer{}
	srv := NewGRPCServer("", logging.NewJSONLogger(out, slog.LevelInfo), nil)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, lis.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return on a closed listener")
	}

	// the shutdown watcher is gone, so cancelling ctx afterwards is a no-op
	cancel()
	assert.Never(t, func() bool {
		return strings.Contains(out.String(), "Stopping gRPC server")
	}, 200*time.Millisecond, 10*time.Millisecond)
}
