package server

import "errors"

// Server-specific errors
var (
	ErrServerClosed         = errors.New("server is closed")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidMessage       = errors.New("invalid message")
	ErrUnknownMessage       = errors.New("unknown message type")
	ErrMissingParameter     = errors.New("missing parameter")
	ErrClientClosed         = errors.New("client is closed")
	ErrNotDM                = errors.New("only the DM may do this")
)
