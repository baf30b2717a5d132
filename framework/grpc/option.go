package jwtgrpc

import (
	"context"
	"errors"

	jwtmatcher "github.com/masonm/jwt-matcher"
)

// Option defines a functional option for configuring the interceptor.
type Option func(*Interceptor) error

// WithLogger sets the logger used by the matcher core.
func WithLogger(logger jwtmatcher.Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return jwtmatcher.ErrLoggerNil
		}
		i.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for per-method match counters.
func WithMetrics(metrics jwtmatcher.Metrics) Option {
	return func(i *Interceptor) error {
		if metrics == nil {
			return jwtmatcher.ErrMetricsNil
		}
		i.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer used to start one span per RPC.
func WithTracer(tracer jwtmatcher.Tracer) Option {
	return func(i *Interceptor) error {
		if tracer == nil {
			return jwtmatcher.ErrTracerNil
		}
		i.tracer = tracer
		return nil
	}
}

// WithNoMatchHandler sets the function that turns a non-match into the error
// returned to the client.
func WithNoMatchHandler(handler func(ctx context.Context, err error) error) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("noMatchHandler cannot be nil")
		}
		i.noMatchHandler = handler
		return nil
	}
}

// WithMethods restricts matching to the given full method names.
// Calls to other methods do not match.
func WithMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		if len(methods) == 0 {
			return errors.New("methods list cannot be empty")
		}
		i.cfg.Request = MethodPattern(methods...)
		return nil
	}
}

// WithExcludedMethods allows configuring a list of gRPC methods that bypass matching.
func WithExcludedMethods(methods []string) Option {
	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[m] = struct{}{}
	}
	return func(i *Interceptor) error {
		i.exclusionChecker = func(method string) bool {
			_, ok := methodSet[method]
			return ok
		}
		return nil
	}
}

// WithExclusionChecker allows configuring a custom exclusion checker for gRPC methods.
func WithExclusionChecker(checker func(string) bool) Option {
	return func(i *Interceptor) error {
		i.exclusionChecker = checker
		return nil
	}
}
