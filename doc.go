/*
Package jwtmatcher matches HTTP requests on the claims of the JWT they carry.

The matcher is meant for HTTP stubbing: it decodes a token without verifying
its signature and reports whether its header and payload contain a set of
expected claims. It never authenticates anything.

# Quick Start

	import (
	    jwtmatcher "github.com/masonm/jwt-matcher"
	)

	func main() {
	    matcher, err := jwtmatcher.New()
	    if err != nil {
	        log.Fatal(err)
	    }

	    guard, err := matcher.Guard(jwtmatcher.Parameters{
	        Payload: map[string]any{"aud": []any{"foo", "bar"}},
	    })
	    if err != nil {
	        log.Fatal(err)
	    }

	    http.Handle("/orders", guard(ordersHandler))
	    http.ListenAndServe(":8080", nil)
	}

	func ordersHandler(w http.ResponseWriter, r *http.Request) {
	    token, _ := jwtmatcher.GetToken(r.Context())
	    sub, _ := token.Claim("sub")
	    fmt.Fprintf(w, "orders for %v", sub)
	}

# Parameters

Parameters use the same keys hosts send in a parameters map:

	{
	    "payload":          {"aud": ["foo", "bar"]},
	    "header":           {"alg": "RS256"},
	    "header-parameter": "x-key",
	    "query-parameter":  "token",
	    "request":          {"urlPath": "/orders", "method": "GET"}
	}

At least one of payload or header is required. header-parameter and
query-parameter select where the token is read from and are mutually
exclusive; by default the Authorization header is used. A leading "Bearer"
scheme is removed from the token in every location.

Every expected claim must be present in the token with an equal value.
Objects and arrays compare structurally, array order matters, and numbers
compare by value. Extra claims in the token are ignored.

request is a request pattern (see package pattern) that must match the
whole request before the token is looked at.

# Matching

Match and MatchParameters return a plain boolean. Invalid parameters,
missing or malformed tokens and mismatching claims all yield false.
Evaluate and EvaluateParameters return the decoded token, or a
*core.MatchError describing why the request did not match:

	_, err := matcher.EvaluateParameters(r, params)
	log.Println(core.Reason(err)) // e.g. "payload_mismatch"

# Logging

The matcher logs through any logger with slog-style methods. *slog.Logger
works as is; adapters exist for zap, zerolog and logrus:

	matcher, err := jwtmatcher.New(
	    jwtmatcher.WithLogger(jwtmatcher.NewZerologLogger(log.Logger)),
	)

# Metrics and Tracing

Each evaluation increments jwt_matcher_evaluations_total{result,reason} and
observes jwt_matcher_evaluation_seconds{result}. Use NewPrometheusMetrics to
export them. NewOpenTelemetryTracer records one span per evaluation.

# Framework Adapters

Adapters for other transports live under framework/:

  - framework/echo: Echo middleware
  - framework/gin: Gin middleware
  - framework/grpc: unary and stream interceptors matching on metadata
*/
package jwtmatcher
