package client

import "errors"

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrTooManyRequests = errors.New("too many requests")
)
