package core

import (
	"context"
	"time"

	"github.com/masonm/jwt-matcher/claims"
	"github.com/masonm/jwt-matcher/token"
)

// Logger defines an optional logging interface for the core matcher.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Result is the verdict of a match evaluation.
type Result int

const (
	// NoMatch means the request did not match.
	NoMatch Result = iota
	// ExactMatch means every configured constraint matched.
	ExactMatch
)

// IsExactMatch reports whether r is ExactMatch.
func (r Result) IsExactMatch() bool {
	return r == ExactMatch
}

func (r Result) String() string {
	if r == ExactMatch {
		return "exact_match"
	}
	return "no_match"
}

// Core is the framework-agnostic match engine.
// It holds no per-request state and is safe for concurrent use.
type Core struct {
	logger Logger
}

// Match evaluates req against cfg. Every failure, including configuration
// conflicts and undecodable tokens, is reported as NoMatch.
func (c *Core) Match(ctx context.Context, req Request, cfg Config) Result {
	if _, err := c.Evaluate(ctx, req, cfg); err != nil {
		return NoMatch
	}
	return ExactMatch
}

// Evaluate runs the match steps in order and stops at the first failing one.
// It returns the decoded token on an exact match, and a *MatchError
// describing the failing step otherwise.
func (c *Core) Evaluate(ctx context.Context, req Request, cfg Config) (*token.Token, error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		c.warn("Invalid matcher configuration", "error", err)
		return nil, NewMatchError(ReasonConfigurationConflict, "invalid matcher configuration", err)
	}

	if cfg.Request != nil && !cfg.Request.Matches(ctx, req) {
		c.debug("Request sub-pattern did not match")
		return nil, NewMatchError(ReasonRequestMismatch, "request did not match", ErrRequestMismatch)
	}

	kind, name := cfg.TokenLocation()
	raw, ok := cfg.tokenString(req)
	if !ok || raw == "" {
		c.debug("No token found", "location", kind, "name", name)
		return nil, NewMatchError(ReasonTokenMissing, "no token in "+kind+" "+name, ErrTokenMissing)
	}

	tok, err := token.FromAuthHeader(raw)
	if err != nil {
		c.debug("Token could not be decoded", "location", kind, "name", name, "error", err)
		return nil, NewMatchError(ReasonTokenMalformed, "token could not be decoded", err)
	}

	if cfg.Header != nil {
		if key, ok := claims.FirstMismatch(tok.Header(), cfg.Header); !ok {
			c.debug("Token header claim did not match", "claim", key)
			return nil, claimMismatch(ReasonHeaderMismatch, token.SectionHeader, key)
		}
	}

	if cfg.Payload != nil {
		if key, ok := claims.FirstMismatch(tok.Payload(), cfg.Payload); !ok {
			c.debug("Token payload claim did not match", "claim", key)
			return nil, claimMismatch(ReasonPayloadMismatch, token.SectionPayload, key)
		}
	}

	c.debug("Request matched", "duration", time.Since(start))

	return tok, nil
}

func claimMismatch(code, section, key string) *MatchError {
	return &MatchError{
		Code:    code,
		Message: section + " claim " + key + " did not match",
		Claim:   key,
		Details: ErrClaimMismatch,
	}
}

func (c *Core) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Core) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
