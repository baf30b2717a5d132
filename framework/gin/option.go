package jwtginhandler

import (
	"github.com/gin-gonic/gin"
)

// Option defines a functional option for configuring the middleware
type Option func(*GinMiddlewareConfig)

// WithNoMatchHandler sets the handler for requests that did not match.
// The request is aborted after it returns.
func WithNoMatchHandler(handler func(*gin.Context, error)) Option {
	return func(config *GinMiddlewareConfig) {
		config.noMatchHandler = handler
	}
}

// WithContextKey sets the key the token is stored under in the Gin context
func WithContextKey(key string) Option {
	return func(config *GinMiddlewareConfig) {
		config.contextKey = key
	}
}
