// Package common defines shared constants and sentinel errors used across
// client and server layers of the print shop. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")

	// Token errors. Both match ErrUnauthenticated.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthenticated)
)

// Error codes carried in transport error bodies.
const (
	CodeInvalidInput       = "invalid_input"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeForbidden          = "forbidden"
	CodeTooManyRequests    = "too_many_requests"
	CodeInternal           = "internal"
)

// ErrorCode returns the transport code for err. Unknown errors map to
// CodeInternal so nothing beyond the taxonomy reaches a caller.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrDuplicateEmail):
		return CodeDuplicateEmail
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeInternal
	}
}

// ErrorFromCode is the inverse of ErrorCode, used by clients decoding an
// error body. Unknown codes yield ErrorInternal.
func ErrorFromCode(code string) error {
	switch code {
	case CodeInvalidInput:
		return ErrInvalidInput
	case CodeDuplicateEmail:
		return ErrDuplicateEmail
	case CodeInvalidCredentials:
		return ErrInvalidCredentials
	case CodeUnauthenticated:
		return ErrUnauthenticated
	case CodeForbidden:
		return ErrForbidden
	default:
		return ErrorInternal
	}
}
