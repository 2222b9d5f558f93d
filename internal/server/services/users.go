// Package services implements the server-side account operations behind the
// REST and gRPC transports: registration, login, admin login, per-request
// authentication and profile lookup.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/cryptox"
	"github.com/dmitrijs2005/printshop/internal/logging"
	"github.com/dmitrijs2005/printshop/internal/server/auth"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	usersrepo "github.com/dmitrijs2005/printshop/internal/server/repositories/users"
)

const (
	MinSecretLen = 6
	MaxNameLen   = 100
)

// Tokens issues and verifies session tokens.
type Tokens interface {
	Issue(subjectID string, role models.Role) (string, time.Time, error)
	Verify(token string) (auth.Claims, error)
}

// Session is the result of a successful login.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type UserService struct {
	users  usersrepo.Repository
	tokens Tokens
	hasher *cryptox.Hasher
	logger logging.Logger
}

func NewUserService(users usersrepo.Repository, tokens Tokens, hasher *cryptox.Hasher, l logging.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: l.With("module", "user_service"),
	}
}

// Register creates a standard account. It does not log the user in.
func (s *UserService) Register(ctx context.Context, name, email string, secret []byte) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = common.NormalizeEmail(email)

	if err := validateRegistration(name, email, secret); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:       name,
		Email:      email,
		SecretHash: hash,
		Role:       models.RoleStandard,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates any account. Unknown email and wrong secret are
// indistinguishable: both return common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email string, secret []byte) (*Session, error) {
	return s.login(ctx, email, secret, false)
}

// AdminLogin is Login restricted to admins. A valid non-admin account gets
// the same common.ErrInvalidCredentials as a wrong secret.
func (s *UserService) AdminLogin(ctx context.Context, email string, secret []byte) (*Session, error) {
	return s.login(ctx, email, secret, true)
}

func (s *UserService) login(ctx context.Context, email string, secret []byte, adminOnly bool) (*Session, error) {
	email = common.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(secret)
			s.logger.Info(ctx, "login rejected", "admin", adminOnly)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.Compare(user.SecretHash, secret); err != nil {
		s.logger.Info(ctx, "login rejected", "admin", adminOnly)
		return nil, common.ErrInvalidCredentials
	}

	if adminOnly && !user.IsAdmin() {
		s.logger.Warn(ctx, "admin login by non-admin account", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID, "admin", adminOnly)
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate verifies token and loads its subject fresh from the store.
// The returned principal's role is the stored one, never a token claim.
func (s *UserService) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return auth.Principal{}, err
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return auth.Principal{}, common.ErrUnauthenticated
		}
		return auth.Principal{}, fmt.Errorf("lookup user: %w", err)
	}

	return auth.Principal{UserID: user.ID, Role: user.Role}, nil
}

// GetProfile returns the current record of the principal.
func (s *UserService) GetProfile(ctx context.Context, p auth.Principal) (*models.User, error) {
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func validateRegistration(name, email string, secret []byte) error {
	if name == "" || utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("%w: name is required", common.ErrInvalidInput)
	}
	if !validEmail(email) {
		return fmt.Errorf("%w: email is malformed", common.ErrInvalidInput)
	}
	if len(secret) < MinSecretLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, MinSecretLen)
	}
	if len(secret) > cryptox.MaxSecretLen {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrInvalidInput, cryptox.MaxSecretLen)
	}
	return nil
}

func validEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && strings.Contains(email[at+1:], ".")
}
