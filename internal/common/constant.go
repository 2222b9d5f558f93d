package common

// AuthorizationHeaderName carries the bearer token on HTTP requests and in
// gRPC metadata.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token in the authorization header.
const BearerPrefix = "Bearer "

// Keys of the client-local session cache.
const (
	SessionTokenKey = "authToken"
	SessionUserKey  = "currentUser"
)
