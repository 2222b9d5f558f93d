// Package session is the client's local session cache: the bearer token and
// the cached user, kept under two keys that always change together.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/printshop/internal/client/models"
	"github.com/dmitrijs2005/printshop/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/dbx"
)

var ErrEmptyToken = errors.New("session: empty token")

// Session is what the client remembers between runs. User may be nil when
// only a token is cached.
type Session struct {
	Token string
	User  *models.CachedUser
}

func (s Session) HasToken() bool {
	return s.Token != ""
}

// Store reads and writes the session keys. Every read-modify-write runs
// under mu and inside one transaction.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save writes token and user in one transaction.
func (s *Store) Save(ctx context.Context, token string, user models.CachedUser) error {
	if token == "" {
		return ErrEmptyToken
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.SessionTokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.SessionUserKey, data)
	})
}

// SaveUser caches user only if token is still the stored token. It reports
// whether the write happened, so a profile fetched for an old token never
// lands next to a newer one.
func (s *Store) SaveUser(ctx context.Context, token string, user models.CachedUser) (bool, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return false, fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := false
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		current, err := repo.Get(ctx, common.SessionTokenKey)
		if err != nil {
			return err
		}
		if string(current) != token || token == "" {
			return nil
		}
		saved = true
		return repo.Set(ctx, common.SessionUserKey, data)
	})
	return saved && err == nil, err
}

// Load returns the cached session. A user without a token is inconsistent
// and is removed; an unreadable user is dropped so it gets fetched again.
func (s *Store) Load(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out Session
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		token, err := repo.Get(ctx, common.SessionTokenKey)
		if err != nil {
			return err
		}
		rawUser, err := repo.Get(ctx, common.SessionUserKey)
		if err != nil {
			return err
		}

		if len(token) == 0 {
			if len(rawUser) > 0 {
				return repo.Delete(ctx, common.SessionUserKey)
			}
			return nil
		}

		out.Token = string(token)
		if len(rawUser) == 0 {
			return nil
		}

		var u models.CachedUser
		if err := json.Unmarshal(rawUser, &u); err != nil || u.ID == "" {
			return repo.Delete(ctx, common.SessionUserKey)
		}
		out.User = &u
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	return out, nil
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.SessionTokenKey)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// Clear removes both keys. It never talks to the server.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return metadata.NewSQLiteRepository(s.db).Delete(ctx, common.SessionTokenKey, common.SessionUserKey)
}

// InvalidateToken clears the session if token is still the stored one and
// reports whether it did. A late 401 for a replaced token is a no-op.
func (s *Store) InvalidateToken(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := false
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		current, err := repo.Get(ctx, common.SessionTokenKey)
		if err != nil {
			return err
		}
		if string(current) != token {
			return nil
		}
		cleared = true
		return repo.Delete(ctx, common.SessionTokenKey, common.SessionUserKey)
	})
	return cleared && err == nil, err
}
