package jwtechohandler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtmatcher "github.com/masonm/jwt-matcher"
	"github.com/masonm/jwt-matcher/core"
	"github.com/masonm/jwt-matcher/token"
)

var DefaultTokenKey = "jwt"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	noMatchHandler func(echo.Context, error) error
	contextKey     string
}

// NewEchoMiddleware returns Echo middleware that only calls the next handler
// for requests matching params. The matched token is stored in the Echo
// context under the configured key and in the request context.
func NewEchoMiddleware(matcher *jwtmatcher.JWTMatcher, params jwtmatcher.Parameters, opts ...Option) (echo.MiddlewareFunc, error) {
	if matcher == nil {
		return nil, fmt.Errorf("matcher cannot be nil")
	}

	cfg, err := params.Config()
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	config := &echoMiddlewareConfig{
		noMatchHandler: defaultEchoNoMatchHandler,
		contextKey:     DefaultTokenKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()

			tok, err := matcher.Evaluate(r, cfg)
			if err != nil {
				return config.noMatchHandler(c, err)
			}

			c.SetRequest(r.WithContext(core.SetToken(r.Context(), tok)))
			c.Set(config.contextKey, tok)

			return next(c)
		}
	}, nil
}

func defaultEchoNoMatchHandler(c echo.Context, _ error) error {
	return c.JSON(http.StatusNotFound, map[string]string{
		"message": "Request did not match.",
	})
}

// GetToken extracts the matched token from the Echo context
func GetToken(c echo.Context, contextKey string) (*token.Token, bool) {
	if contextKey == "" {
		contextKey = DefaultTokenKey
	}

	tok, ok := c.Get(contextKey).(*token.Token)
	return tok, ok
}
