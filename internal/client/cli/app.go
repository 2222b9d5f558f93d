package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/printshop/internal/client/client"
	"github.com/dmitrijs2005/printshop/internal/client/config"
	"github.com/dmitrijs2005/printshop/internal/client/models"
	"github.com/dmitrijs2005/printshop/internal/client/services"
	"github.com/dmitrijs2005/printshop/internal/client/session"
	"github.com/dmitrijs2005/printshop/internal/logging"
)

// authService is the part of services.AuthService the CLI drives.
type authService interface {
	Snapshot() services.Snapshot
	CheckIdentity(ctx context.Context) (services.Snapshot, error)
	Register(ctx context.Context, name, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) (*models.CachedUser, error)
	AdminLogin(ctx context.Context, email string, password []byte) (*models.CachedUser, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.CachedUser, error)
	AdminCheck(ctx context.Context) error
}

type App struct {
	config *config.Config
	auth   authService
	closer io.Closer
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	store := session.NewStore(db)
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, store)
	logger := logging.NewJSONLogger(os.Stderr, slog.LevelWarn)

	return &App{
		config: c,
		auth:   services.NewAuthService(api, store, logger),
		closer: db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run resolves the stored identity and then serves the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.closer.Close()

	fmt.Fprintf(a.out, "Print shop storefront at %s (type 'help' for commands)\n", a.config.ServerURL)
	_ = a.Check(ctx)

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.auth.Snapshot().State == services.StateAuthenticated
}

func (a *App) status() string {
	snap := a.auth.Snapshot()
	switch snap.State {
	case services.StatePending:
		return "..."
	case services.StateAuthenticated:
		if snap.User.IsAdmin() {
			return snap.User.Email + " [admin]"
		}
		return snap.User.Email
	default:
		return "guest"
	}
}
