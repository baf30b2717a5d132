package jwtginhandler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtmatcher "github.com/masonm/jwt-matcher"
	"github.com/masonm/jwt-matcher/core"
	"github.com/masonm/jwt-matcher/token"
)

const DefaultTokenKey = "jwt"

var (
	ErrMissingToken = errors.New("no JWT found in context")
	ErrInvalidToken = errors.New("invalid JWT type in context")
)

type GinMiddlewareConfig struct {
	noMatchHandler func(*gin.Context, error)
	contextKey     string
}

// NewGinMiddleware creates a Gin middleware that aborts every request not
// matching params. The matcher is shared between requests and must not be
// reconfigured while the middleware is in use.
func NewGinMiddleware(matcher *jwtmatcher.JWTMatcher, params jwtmatcher.Parameters, opts ...Option) (gin.HandlerFunc, error) {
	if matcher == nil {
		return nil, fmt.Errorf("matcher cannot be nil")
	}

	cfg, err := params.Config()
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	config := &GinMiddlewareConfig{
		noMatchHandler: defaultGinNoMatchHandler,
		contextKey:     DefaultTokenKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		tok, err := matcher.Evaluate(c.Request, cfg)
		if err != nil {
			config.noMatchHandler(c, err)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(core.SetToken(c.Request.Context(), tok))
		c.Set(config.contextKey, tok)

		c.Next()
	}, nil
}

func defaultGinNoMatchHandler(c *gin.Context, _ error) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
		"message": "Request did not match.",
	})
}

func GetToken(c *gin.Context, contextKey string) (*token.Token, error) {
	if contextKey == "" {
		contextKey = DefaultTokenKey
	}
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingToken
	}

	tok, ok := value.(*token.Token)
	if !ok {
		return nil, ErrInvalidToken
	}

	return tok, nil
}
