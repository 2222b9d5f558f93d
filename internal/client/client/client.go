package client

import (
	"context"

	"github.com/dmitrijs2005/printshop/internal/client/models"
)

// Client is the server API as the storefront uses it.
type Client interface {
	Register(ctx context.Context, name, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) (*models.CachedUser, string, error)
	AdminLogin(ctx context.Context, email string, password []byte) (*models.CachedUser, string, error)
	// Profile returns the user behind the stored token and the token used.
	Profile(ctx context.Context) (*models.CachedUser, string, error)
	AdminCheck(ctx context.Context) error
	Ping(ctx context.Context) error
}

// TokenStore is the part of the session store the transport needs.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	InvalidateToken(ctx context.Context, token string) (bool, error)
}
