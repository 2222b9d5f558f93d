// Package cryptox hashes and verifies account secrets.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxSecretLen is the longest secret bcrypt accepts.
const MaxSecretLen = 72

// ErrMismatch is returned when a secret does not match its hash.
var ErrMismatch = errors.New("secret mismatch")

// Hasher turns secrets into one-way hashes. Cost is the bcrypt work factor.
type Hasher struct {
	Cost  int
	dummy []byte
}

// NewHasher returns a Hasher with the given bcrypt cost. Values out of range
// fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("printshop-dummy-secret"), cost)
	return &Hasher{Cost: cost, dummy: dummy}
}

func (h *Hasher) Hash(secret []byte) (string, error) {
	b, err := bcrypt.GenerateFromPassword(secret, h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare checks secret against hash and returns ErrMismatch on failure.
func (h *Hasher) Compare(hash string, secret []byte) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), secret); err != nil {
		return ErrMismatch
	}
	return nil
}

// CompareDummy spends the same work as Compare against a fixed hash. Login
// calls it for unknown accounts so response time does not reveal whether an
// email is registered.
func (h *Hasher) CompareDummy(secret []byte) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, secret)
}
