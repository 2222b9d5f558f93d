package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/logging"
	"github.com/dmitrijs2005/printshop/internal/server/auth"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/gorilla/mux"
)

// Authenticator turns a bearer token into a server-verified principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

// RequireAuthenticated rejects requests without a valid bearer token whose
// subject still exists. On success the principal is attached to the request
// context for handlers and RequireRole.
func RequireAuthenticated(a Authenticator, l logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := common.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, common.ErrUnauthenticated)
				return
			}

			p, err := a.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, common.ErrUnauthenticated) {
					l.Error(r.Context(), "authenticate request", "error", err)
				}
				writeError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole admits principals whose stored role satisfies role. It reads
// only the principal placed by RequireAuthenticated.
func RequireRole(role models.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, common.ErrUnauthenticated)
				return
			}
			if !p.Role.Satisfies(role) {
				writeError(w, common.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequests records method, path, status and duration. Bodies and headers
// are never logged.
func logRequests(l logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			l.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

func recoverer(l logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					l.Error(r.Context(), "handler panic", "panic", p, "path", r.URL.Path)
					writeError(w, common.ErrorInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
