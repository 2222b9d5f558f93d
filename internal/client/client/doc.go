// Package client talks to the printshop server on behalf of the storefront
// client.
//
// Client is the transport-agnostic contract; HTTPClient implements it over
// the REST endpoints. Every request carries the stored bearer token when
// there is one, and any 401 invalidates exactly that token in the local
// session before the error is returned, so the next identity check sees an
// anonymous user.
//
// Errors are the common taxonomy (common.ErrUnauthenticated,
// common.ErrForbidden, ...) plus ErrUnavailable for transport failures and
// 5xx responses.
//
// InitDatabase opens the local SQLite file and applies the embedded goose
// migrations.
package client
