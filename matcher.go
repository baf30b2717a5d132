package jwtmatcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/masonm/jwt-matcher/core"
	"github.com/masonm/jwt-matcher/token"
)

// Metric names reported through Metrics.
const (
	MetricEvaluations       = "jwt_matcher_evaluations_total"
	MetricEvaluationSeconds = "jwt_matcher_evaluation_seconds"
)

// JWTMatcher evaluates net/http requests against jwt-matcher parameters.
// It is safe for concurrent use.
type JWTMatcher struct {
	core           *core.Core
	logger         Logger
	metrics        Metrics
	tracer         Tracer
	noMatchHandler NoMatchHandler
}

// New constructs a new JWTMatcher with the supplied options.
//
// Example:
//
//	matcher, err := jwtmatcher.New(
//	    jwtmatcher.WithLogger(slog.Default()),
//	    jwtmatcher.WithMetrics(jwtmatcher.NewPrometheusMetrics(prometheus.DefaultRegisterer)),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create matcher: %v", err)
//	}
func New(opts ...Option) (*JWTMatcher, error) {
	m := &JWTMatcher{}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	m.applyDefaults()

	if err := m.createCore(); err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return m, nil
}

func (m *JWTMatcher) applyDefaults() {
	if m.metrics == nil {
		m.metrics = &NoopMetrics{}
	}
	if m.tracer == nil {
		m.tracer = &NoopTracer{}
	}
	if m.noMatchHandler == nil {
		m.noMatchHandler = DefaultNoMatchHandler
	}
}

func (m *JWTMatcher) createCore() error {
	var coreOpts []core.Option
	if m.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(m.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	m.core = c
	return nil
}

// Evaluate matches r against cfg and returns the decoded token on an exact
// match, or a *core.MatchError describing why r did not match.
func (m *JWTMatcher) Evaluate(r *http.Request, cfg core.Config) (*token.Token, error) {
	start := time.Now()

	ctx, span := m.tracer.StartSpan(r.Context(), "jwt-matcher.match")
	defer span.Finish()

	tok, err := m.core.Evaluate(ctx, NewRequest(r), cfg)
	m.record(span, err, time.Since(start))

	return tok, err
}

// EvaluateParameters is Evaluate for serialized parameters. Parameters that
// cannot be converted are reported as a configuration conflict.
func (m *JWTMatcher) EvaluateParameters(r *http.Request, params Parameters) (*token.Token, error) {
	cfg, err := params.Config()
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("invalid jwt-matcher parameters", "error", err)
		}
		matchErr := core.NewMatchError(core.ReasonConfigurationConflict, "invalid matcher parameters", err)

		_, span := m.tracer.StartSpan(r.Context(), "jwt-matcher.match")
		m.record(span, matchErr, 0)
		span.Finish()

		return nil, matchErr
	}

	return m.Evaluate(r, cfg)
}

// Match reports whether r matches params.
func (m *JWTMatcher) Match(r *http.Request, params Parameters) bool {
	_, err := m.EvaluateParameters(r, params)
	return err == nil
}

// MatchParameters reports whether r matches an untyped parameters map.
// Parameters that cannot be decoded never match.
func (m *JWTMatcher) MatchParameters(r *http.Request, raw map[string]any) bool {
	params, err := ParseParameters(raw)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("could not parse jwt-matcher parameters", "error", err)
		}
		return false
	}
	return m.Match(r, params)
}

// Guard returns middleware that only lets requests matching params reach
// the next handler. The matched token is stored in the request context
// (see GetToken); other requests are passed to the no-match handler.
func (m *JWTMatcher) Guard(params Parameters) (func(http.Handler) http.Handler, error) {
	cfg, err := params.Config()
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := m.Evaluate(r, cfg)
			if err != nil {
				m.noMatchHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(core.SetToken(r.Context(), tok)))
		})
	}, nil
}

// GetToken returns the token matched by Guard from the context.
func GetToken(ctx context.Context) (*token.Token, bool) {
	return core.GetToken(ctx)
}

func (m *JWTMatcher) record(span Span, err error, duration time.Duration) {
	result := core.ExactMatch
	if err != nil {
		result = core.NoMatch
	}
	reason := core.Reason(err)

	m.metrics.IncCounter(MetricEvaluations, map[string]string{
		"result": result.String(),
		"reason": reason,
	})
	m.metrics.ObserveHistogram(MetricEvaluationSeconds, duration.Seconds(), map[string]string{
		"result": result.String(),
	})

	span.SetTag("jwt_matcher.result", result.String())
	span.SetTag("jwt_matcher.reason", reason)
}
