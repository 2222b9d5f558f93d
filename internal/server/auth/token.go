// Package auth issues and verifies session tokens and carries the verified
// principal through request contexts.
//
// Tokens are stateless HS256 JWTs holding only the subject id and validity
// window. The role is never read from a token: callers re-load it from the
// credential store on every request. There is no revocation list, so a token
// stays valid until it expires even after logout.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "printshop"

// TTLPolicy is the token lifetime per role.
//
// Admin tokens live longer than standard ones (7 days against 24 hours by
// default). This matches the deployed storefront and is kept as is; shorten
// Admin through configuration if the longer privileged window is unwanted.
type TTLPolicy struct {
	Standard time.Duration
	Admin    time.Duration
}

// DefaultTTLPolicy returns the 24h standard / 168h admin lifetimes.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{Standard: 24 * time.Hour, Admin: 7 * 24 * time.Hour}
}

// For returns the lifetime of a token issued to role. Unknown roles get the
// standard lifetime.
func (p TTLPolicy) For(role models.Role) time.Duration {
	if role == models.RoleAdmin {
		return p.Admin
	}
	return p.Standard
}

// Claims are the facts a valid token proves: who and for how long.
type Claims struct {
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

type TokenService struct {
	secret []byte
	ttl    TTLPolicy
	now    func() time.Time
}

func NewTokenService(secret []byte, ttl TTLPolicy, opts ...TokenOption) *TokenService {
	s := &TokenService{secret: secret, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Issue signs a token for subjectID. The role only selects the lifetime.
//
// Token times have whole-second granularity (jwt.TimePrecision). The expiry
// is rounded up, so the token verifies for at least the full lifetime and
// the returned time is exactly the instant Verify starts rejecting it.
func (s *TokenService) Issue(subjectID string, role models.Role) (string, time.Time, error) {
	if subjectID == "" {
		return "", time.Time{}, errors.New("empty subject")
	}

	now := s.now()
	expiresAt := roundUp(now.Add(s.ttl.For(role)), jwt.TimePrecision)
	now = now.Truncate(jwt.TimePrecision)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

func roundUp(t time.Time, d time.Duration) time.Time {
	if tt := t.Truncate(d); !tt.Equal(t) {
		return tt.Add(d)
	}
	return t
}

// Verify checks signature, algorithm, issuer and expiry. Failures match
// common.ErrUnauthenticated; expiry is reported as common.ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, common.ErrInvalidToken
	}

	rc := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, rc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, common.ErrTokenExpired
		}
		return Claims{}, common.ErrInvalidToken
	}

	if !token.Valid || rc.Subject == "" || rc.ExpiresAt == nil {
		return Claims{}, common.ErrInvalidToken
	}

	c := Claims{SubjectID: rc.Subject, ExpiresAt: rc.ExpiresAt.Time}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	return c, nil
}
