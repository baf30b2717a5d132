package core

import "context"

// AuthorizationHeader is the default token location.
const AuthorizationHeader = "Authorization"

// Request is the host's view of an inbound request.
//
// Implementations only need to answer lookups; they are created per request
// and never shared between evaluations.
type Request interface {
	// Header returns the value of the named header and whether it is present.
	Header(name string) (string, bool)

	// QueryParameter returns the first value of the named query parameter
	// and whether it is present.
	QueryParameter(name string) (string, bool)
}

// SubPattern is a host-supplied structural match against the whole request
// (URL, method, body and so on). The core only asks for a verdict.
type SubPattern interface {
	Matches(ctx context.Context, req Request) bool
}

// SubPatternFunc adapts a function to the SubPattern interface.
type SubPatternFunc func(ctx context.Context, req Request) bool

// Matches calls f(ctx, req).
func (f SubPatternFunc) Matches(ctx context.Context, req Request) bool {
	return f(ctx, req)
}
