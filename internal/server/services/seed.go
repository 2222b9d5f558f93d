package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"gopkg.in/yaml.v3"
)

// SeedUser is an account created by the trusted seeding process. It is the
// only path that creates admins.
type SeedUser struct {
	Name     string      `yaml:"name"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     models.Role `yaml:"role"`
}

type seedFile struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeedFile reads a YAML document of the form
//
//	users:
//	  - name: Admin User
//	    email: admin@example.com
//	    password: changeme
//	    role: admin
func LoadSeedFile(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return sf.Users, nil
}

// EnsureUser creates u unless its email is already registered. Existing
// accounts are left untouched, roles included. It reports whether a record
// was created.
func (s *UserService) EnsureUser(ctx context.Context, u SeedUser) (bool, error) {
	email := common.NormalizeEmail(u.Email)
	name := strings.TrimSpace(u.Name)
	role := u.Role
	if role == "" {
		role = models.RoleStandard
	}
	if !role.Valid() {
		return false, fmt.Errorf("%w: unknown role %q", common.ErrInvalidInput, role)
	}
	if err := validateRegistration(name, email, []byte(u.Password)); err != nil {
		return false, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return false, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash([]byte(u.Password))
	if err != nil {
		return false, fmt.Errorf("hash secret: %w", err)
	}

	created, err := s.users.Create(ctx, &models.User{Name: name, Email: email, SecretHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info(ctx, "seeded user", "user_id", created.ID, "role", string(role))
	return true, nil
}

// Seed ensures every user in the list. Entries without email or password
// are skipped.
func (s *UserService) Seed(ctx context.Context, users []SeedUser) error {
	for _, u := range users {
		if u.Email == "" || u.Password == "" {
			continue
		}
		if _, err := s.EnsureUser(ctx, u); err != nil {
			return fmt.Errorf("seed %s: %w", common.NormalizeEmail(u.Email), err)
		}
	}
	return nil
}
