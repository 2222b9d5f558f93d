package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash([]byte("abcdef"))
	require.NoError(t, err)
	assert.NotContains(t, hash, "abcdef")
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.NoError(t, h.Compare(hash, []byte("abcdef")))
	assert.ErrorIs(t, h.Compare(hash, []byte("abcdeg")), ErrMismatch)
	assert.ErrorIs(t, h.Compare("not-a-hash", []byte("abcdef")), ErrMismatch)
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	a, err := h.Hash([]byte("secret1"))
	require.NoError(t, err)
	b, err := h.Hash([]byte("secret1"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewHasher_CostOutOfRange(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).Cost)
}

func TestHasher_CompareDummyDoesNotPanic(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.NotPanics(t, func() { h.CompareDummy([]byte("anything")) })
}
