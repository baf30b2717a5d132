package jwtechohandler

import (
	"github.com/labstack/echo/v4"
)

// Option is a function that configures the middleware
type Option func(*echoMiddlewareConfig)

// WithNoMatchHandler sets the handler for requests that did not match.
// The error it returns is passed back to Echo.
func WithNoMatchHandler(handler func(echo.Context, error) error) Option {
	return func(config *echoMiddlewareConfig) {
		config.noMatchHandler = handler
	}
}

// WithContextKey sets a custom context key to store the token
func WithContextKey(key string) Option {
	return func(config *echoMiddlewareConfig) {
		config.contextKey = key
	}
}
