/*
Package core provides the framework-agnostic jwt-matcher engine that can be
used across different transport layers (HTTP, gRPC, etc.).

The Core type decides whether a request carries a token whose decoded header
and payload hold a set of expected claims. It has no dependency on a specific
transport: adapters wrap their native request in the Request interface and
hand the Core a typed Config.

# Architecture

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (net/http, gRPC, Gin, Echo)                │
	└────────────────┬────────────────────────────┘
	                 │ Request + Config
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Core Engine (THIS PACKAGE)         │
	│  • Configuration presence checks            │
	│  • Request sub-pattern delegation           │
	│  • Token location resolution                │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│     token (unverified decode) + claims      │
	└─────────────────────────────────────────────┘

# Evaluation Order

Evaluate stops at the first failing step:

 1. Config.Validate: payload or header must be set, and query-parameter and
    header-parameter must not both be set.
 2. Config.Request, when set, must match the whole request.
 3. The token is read from the query parameter, else the named header, else
    the Authorization header. A missing or empty value does not match.
 4. The token is decoded without verification. A leading "Bearer" scheme is
    removed first.
 5. Header expectations are matched against the token header.
 6. Payload expectations are matched against the token payload.

Match folds every failure into NoMatch; it never returns an error.

# Basic Usage

	c, err := core.New(core.WithLogger(slog.Default()))
	if err != nil {
	    log.Fatal(err)
	}

	cfg := core.Config{
	    Payload:         claims.Object{"aud": []any{"foo", "bar"}},
	    HeaderParameter: "x-key",
	}

	if c.Match(ctx, req, cfg).IsExactMatch() {
	    // ...
	}

Use Evaluate to learn why a request did not match:

	_, err := c.Evaluate(ctx, req, cfg)
	switch {
	case errors.Is(err, core.ErrConfigurationConflict):
	    // the configuration can never match
	case errors.Is(err, core.ErrMalformedToken):
	    // the token could not be decoded
	}

# Thread Safety

Core and Config are immutable after construction. Each evaluation allocates
its own state, so a single Core can serve concurrent requests.
*/
package core
