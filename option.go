package jwtmatcher

import "errors"

// Option configures the JWTMatcher.
// Returns error for validation failures.
type Option func(*JWTMatcher) error

// WithLogger sets an optional logger for the matcher.
// The logger will be used by both the matcher and core.
//
// The logger interface is compatible with log/slog.Logger; see the adapters
// in this package for logrus, zap and zerolog.
func WithLogger(logger Logger) Option {
	return func(m *JWTMatcher) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for evaluation counters and durations.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(m *JWTMatcher) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer used to start one span per evaluation.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(m *JWTMatcher) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// WithNoMatchHandler sets the handler Guard calls for requests that did not match.
//
// Default: DefaultNoMatchHandler
func WithNoMatchHandler(h NoMatchHandler) Option {
	return func(m *JWTMatcher) error {
		if h == nil {
			return ErrNoMatchHandlerNil
		}
		m.noMatchHandler = h
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrLoggerNil         = errors.New("logger cannot be nil")
	ErrMetricsNil        = errors.New("metrics cannot be nil")
	ErrTracerNil         = errors.New("tracer cannot be nil")
	ErrNoMatchHandlerNil = errors.New("noMatchHandler cannot be nil")
)
