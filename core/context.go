package core

import (
	"context"

	"github.com/masonm/jwt-matcher/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	tokenKey contextKey = iota
)

// SetToken stores the matched token in the context.
// Adapters call it after an exact match so handlers can read the claims.
func SetToken(ctx context.Context, tok *token.Token) context.Context {
	return context.WithValue(ctx, tokenKey, tok)
}

// GetToken retrieves the matched token from the context.
func GetToken(ctx context.Context) (*token.Token, bool) {
	tok, ok := ctx.Value(tokenKey).(*token.Token)
	return tok, ok && tok != nil
}
