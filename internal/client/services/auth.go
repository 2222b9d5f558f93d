// Package services holds the storefront client's application services.
package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/printshop/internal/client/client"
	"github.com/dmitrijs2005/printshop/internal/client/models"
	"github.com/dmitrijs2005/printshop/internal/client/session"
	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/logging"
	"golang.org/x/sync/singleflight"
)

// State is the client's belief about who is using it.
type State int

const (
	StatePending State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Snapshot is an immutable view of the identity state. User is set only
// when State is StateAuthenticated.
type Snapshot struct {
	State State
	User  *models.CachedUser
}

func anonymous() Snapshot { return Snapshot{State: StateAnonymous} }

func authenticated(u *models.CachedUser) Snapshot {
	cp := *u
	return Snapshot{State: StateAuthenticated, User: &cp}
}

// SessionStore is the part of session.Store the service uses.
type SessionStore interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, token string, user models.CachedUser) error
	SaveUser(ctx context.Context, token string, user models.CachedUser) (bool, error)
	Clear(ctx context.Context) error
}

// AuthService resolves and changes the client's identity. Identity checks
// are single-flight per generation; Login, AdminLogin and Logout start a
// new generation so results of older checks are dropped.
type AuthService struct {
	client client.Client
	store  SessionStore
	logger logging.Logger

	group singleflight.Group

	mu   sync.Mutex
	gen  uint64
	snap Snapshot
}

func NewAuthService(c client.Client, store SessionStore, l logging.Logger) *AuthService {
	return &AuthService{
		client: c,
		store:  store,
		logger: l.With("module", "auth_service"),
		snap:   Snapshot{State: StatePending},
	}
}

// Snapshot returns the current identity state without blocking.
func (a *AuthService) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// CheckIdentity runs the identity check, sharing one in-flight check among
// concurrent callers:
//
//   - token and cached user: authenticated, no network;
//   - token only: fetch the profile; success caches the user, 401 ends
//     anonymous with the session cleared, other failures end anonymous with
//     the session kept;
//   - nothing cached: anonymous.
//
// If identity changed while the check ran, the current snapshot is
// returned instead of the stale result.
func (a *AuthService) CheckIdentity(ctx context.Context) (Snapshot, error) {
	a.mu.Lock()
	gen := a.gen
	a.mu.Unlock()

	v, err, _ := a.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		snap, err := a.resolve(ctx)
		return a.publish(gen, snap), err
	})
	return v.(Snapshot), err
}

func (a *AuthService) resolve(ctx context.Context) (Snapshot, error) {
	s, err := a.store.Load(ctx)
	if err != nil {
		return anonymous(), err
	}
	if !s.HasToken() {
		return anonymous(), nil
	}
	if s.User != nil {
		return authenticated(s.User), nil
	}

	u, token, err := a.client.Profile(ctx)
	switch {
	case err == nil:
		if _, err := a.store.SaveUser(ctx, token, *u); err != nil {
			a.logger.Warn(ctx, "cache user", "error", err)
		}
		return authenticated(u), nil
	case errors.Is(err, common.ErrUnauthenticated):
		return anonymous(), nil
	default:
		a.logger.Warn(ctx, "identity check", "error", err)
		return anonymous(), err
	}
}

// publish stores snap if no identity change happened since gen was read.
func (a *AuthService) publish(gen uint64, snap Snapshot) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return a.snap
	}
	a.snap = snap
	return snap
}

// advance starts a new generation with snap.
func (a *AuthService) advance(snap Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.snap = snap
}

// Register creates an account. It does not log in.
func (a *AuthService) Register(ctx context.Context, name, email string, password []byte) error {
	return a.client.Register(ctx, name, email, password)
}

func (a *AuthService) Login(ctx context.Context, email string, password []byte) (*models.CachedUser, error) {
	return a.login(ctx, email, password, a.client.Login)
}

func (a *AuthService) AdminLogin(ctx context.Context, email string, password []byte) (*models.CachedUser, error) {
	return a.login(ctx, email, password, a.client.AdminLogin)
}

func (a *AuthService) login(ctx context.Context, email string, password []byte,
	call func(context.Context, string, []byte) (*models.CachedUser, string, error)) (*models.CachedUser, error) {
	u, token, err := call(ctx, email, password)
	if err != nil {
		a.onAuthError(err)
		return nil, err
	}
	if err := a.store.Save(ctx, token, *u); err != nil {
		return nil, err
	}
	a.advance(authenticated(u))
	return u, nil
}

// Logout forgets the session locally. The server is not contacted and the
// token stays valid there until it expires.
func (a *AuthService) Logout(ctx context.Context) error {
	a.advance(anonymous())
	return a.store.Clear(ctx)
}

// Profile fetches the server's view of the current user.
func (a *AuthService) Profile(ctx context.Context) (*models.CachedUser, error) {
	u, _, err := a.client.Profile(ctx)
	if err != nil {
		a.onAuthError(err)
		return nil, err
	}
	return u, nil
}

// AdminCheck asks the server whether the current user is an admin.
func (a *AuthService) AdminCheck(ctx context.Context) error {
	err := a.client.AdminCheck(ctx)
	a.onAuthError(err)
	return err
}

func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// onAuthError mirrors a 401 into the snapshot. The transport has already
// cleared the stored session, failed logins included.
func (a *AuthService) onAuthError(err error) {
	if errors.Is(err, common.ErrUnauthenticated) || errors.Is(err, common.ErrInvalidCredentials) {
		a.advance(anonymous())
	}
}
