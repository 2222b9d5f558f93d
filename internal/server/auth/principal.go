package auth

import (
	"context"

	"github.com/dmitrijs2005/printshop/internal/server/models"
)

// Principal is the server-verified identity of a request: a subject whose
// token checked out and whose role was just loaded from the store. It is only
// built by the access-control path and never from request input.
type Principal struct {
	UserID string
	Role   models.Role
}

type ctxKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFromContext returns the principal attached by the access-control
// layer, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
