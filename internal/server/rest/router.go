package rest

import (
	"net/http"

	"github.com/dmitrijs2005/printshop/internal/logging"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/dmitrijs2005/printshop/internal/server/ratelimit"
	"github.com/gorilla/mux"
)

// RouterOptions tunes the login rate limit. A nil LoginLimiter disables it.
type RouterOptions struct {
	LoginLimiter *ratelimit.Limiter
	TrustProxy   bool
}

// NewRouter wires the account endpoints:
//
//	POST /users               register
//	POST /users/login         login
//	POST /users/admin/auth    admin login
//	GET  /users/profile       bearer
//	GET  /users/admin/check   bearer + admin
//	GET  /healthz
func NewRouter(accounts Accounts, l logging.Logger, opts RouterOptions) *mux.Router {
	h := &handler{accounts: accounts, logger: l}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.methodNotAllowed)
	r.Use(recoverer(l), logRequests(l))

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/users", h.register).Methods(http.MethodPost)

	login := r.NewRoute().Subrouter()
	login.Use(limitByIP(opts.LoginLimiter, opts.TrustProxy))
	login.HandleFunc("/users/login", h.login).Methods(http.MethodPost)
	login.HandleFunc("/users/admin/auth", h.adminLogin).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(RequireAuthenticated(accounts, l))
	protected.HandleFunc("/users/profile", h.profile).Methods(http.MethodGet)

	admin := protected.NewRoute().Subrouter()
	admin.Use(RequireRole(models.RoleAdmin))
	admin.HandleFunc("/users/admin/check", h.adminCheck).Methods(http.MethodGet)

	return r
}
