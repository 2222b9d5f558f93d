// Package server wires configuration, storage, the account service and the
// HTTP and gRPC transports into a runnable application.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/printshop/internal/cryptox"
	"github.com/dmitrijs2005/printshop/internal/logging"
	"github.com/dmitrijs2005/printshop/internal/server/auth"
	"github.com/dmitrijs2005/printshop/internal/server/config"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/dmitrijs2005/printshop/internal/server/ratelimit"
	"github.com/dmitrijs2005/printshop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/printshop/internal/server/rest"
	"github.com/dmitrijs2005/printshop/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/printshop/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	userService *services.UserService
}

// openRepositories picks the storage backend named in the config.
var openRepositories = func(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StorageBackend {
	case config.StoragePostgres:
		return repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	case config.StorageMongo:
		return repomanager.OpenMongo(ctx, c.MongoURI, c.MongoDatabase)
	case config.StorageMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// NewApp opens storage, applies migrations and seeds accounts. Logs go to
// stdout as JSON.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(logOut, logging.ParseLevel(c.LogLevel))

	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "using the built-in development secret key; set PRINTSHOP_SECRET_KEY")
	}

	repos, err := openRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("migrations: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), auth.TTLPolicy{Standard: c.StandardTokenTTL, Admin: c.AdminTokenTTL})
	us := services.NewUserService(repos.Users(), tokens, cryptox.NewHasher(c.BcryptCost), logger)

	app := &App{config: c, logger: logger, repos: repos, userService: us}
	if err := app.seed(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("seed: %w", err)
	}

	return app, nil
}

func (app *App) seed(ctx context.Context) error {
	var seeds []services.SeedUser

	if app.config.SeedFile != "" {
		loaded, err := services.LoadSeedFile(app.config.SeedFile)
		if err != nil {
			return err
		}
		seeds = append(seeds, loaded...)
	}

	if app.config.AdminEmail != "" {
		seeds = append(seeds, services.SeedUser{
			Name:     app.config.AdminName,
			Email:    app.config.AdminEmail,
			Password: app.config.AdminPassword,
			Role:     models.RoleAdmin,
		})
	}

	if len(seeds) == 0 {
		return nil
	}
	return app.userService.Seed(ctx, seeds)
}

// Run serves HTTP and gRPC until ctx is cancelled, a termination signal
// arrives or either server fails. Storage is closed on the way out.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	// One budget per client host, whichever transport the attempt arrives on.
	var limiter *ratelimit.Limiter
	if app.config.LoginRatePerMinute > 0 {
		limiter = ratelimit.New(app.config.LoginRatePerMinute, app.config.LoginBurst, time.Hour)
	}

	router := rest.NewRouter(app.userService, app.logger.With("module", "rest"), rest.RouterOptions{
		LoginLimiter: limiter,
		TrustProxy:   app.config.TrustProxy,
	})
	httpServer := rest.NewServer(app.config.HTTPAddr, router, app.logger, app.config.ShutdownTimeout)
	grpcServer := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.userService, gs.WithLoginLimiter(limiter))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })
	g.Go(func() error { return grpcServer.Run(gctx) })

	err := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := app.repos.Close(closeCtx); cerr != nil {
		app.logger.Error(closeCtx, "close storage", "error", cerr)
	}

	app.logger.Info(context.Background(), "App stopped")
	return err
}
