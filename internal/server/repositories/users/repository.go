// Package users holds the credential store: identity records keyed by a
// unique, normalized email.
package users

import (
	"context"

	"github.com/dmitrijs2005/printshop/internal/server/models"
)

// Repository persists identity records.
//
// Create fails with common.ErrDuplicateEmail when the email is taken; the
// check is enforced by the storage layer so concurrent registrations cannot
// both succeed. Lookups return common.ErrorNotFound for absent records.
// Emails are expected to be normalized by the caller.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
