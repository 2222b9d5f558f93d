package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - name: Admin User
    email: admin@example.com
    password: admin123
    role: admin
  - name: John Doe
    email: john@example.com
    password: password123
`), 0o600))

	users, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.Equal(t, models.Role(""), users[1].Role)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("users: [ {name: "), 0o600))
	_, err = LoadSeedFile(bad)
	require.Error(t, err)
}

func TestSeed_IsIdempotentAndKeepsExistingRoles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, "John", "john@example.com", []byte("password123"))
	require.NoError(t, err)

	seed := []SeedUser{
		{Name: "Admin User", Email: "Admin@Example.com", Password: "admin123", Role: models.RoleAdmin},
		{Name: "John Doe", Email: "john@example.com", Password: "password123", Role: models.RoleAdmin},
		{Name: "No Password", Email: "skip@example.com"},
	}
	require.NoError(t, env.svc.Seed(ctx, seed))
	require.NoError(t, env.svc.Seed(ctx, seed))

	admin, err := env.repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	john, err := env.repo.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStandard, john.Role, "seeding must not escalate existing accounts")

	_, err = env.repo.GetByEmail(ctx, "skip@example.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestEnsureUser_RejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.EnsureUser(context.Background(), SeedUser{Name: "X", Email: "x@example.com", Password: "abcdef", Role: "root"})
	require.ErrorIs(t, err, common.ErrInvalidInput)
}
