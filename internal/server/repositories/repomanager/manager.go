// Package repomanager opens a storage backend and vends its repositories.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/printshop/internal/server/repositories/users"
)

// RepositoryManager owns a backend connection.
type RepositoryManager interface {
	// RunMigrations brings the schema (tables, indexes) up to date.
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close(ctx context.Context) error
}
