package jwtgrpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	jwtmatcher "github.com/masonm/jwt-matcher"
	"github.com/masonm/jwt-matcher/core"
	"github.com/masonm/jwt-matcher/token"
)

// Metric names reported by the interceptors.
const (
	MetricRequests       = "jwt_matcher_grpc_requests_total"
	MetricRequestSeconds = "jwt_matcher_grpc_evaluation_seconds"
)

// ErrRequestPatternUnsupported is returned when parameters carry an HTTP
// request pattern. Use WithMethods to restrict RPCs instead.
var ErrRequestPatternUnsupported = errors.New("request patterns are not supported for gRPC; use WithMethods")

// Interceptor matches incoming RPCs on the JWT carried in their metadata.
// The "authorization" key is used unless header-parameter names another one.
type Interceptor struct {
	core             *core.Core
	cfg              core.Config
	logger           jwtmatcher.Logger
	metrics          jwtmatcher.Metrics
	tracer           jwtmatcher.Tracer
	noMatchHandler   func(ctx context.Context, err error) error
	exclusionChecker func(method string) bool
}

// New creates an Interceptor for params.
func New(params jwtmatcher.Parameters, opts ...Option) (*Interceptor, error) {
	if params.Request != nil {
		return nil, ErrRequestPatternUnsupported
	}
	if params.QueryParameter != nil {
		return nil, errors.New("query-parameter is not supported for gRPC")
	}

	cfg, err := params.Config()
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	i := &Interceptor{
		cfg:            cfg,
		metrics:        &jwtmatcher.NoopMetrics{},
		tracer:         &jwtmatcher.NoopTracer{},
		noMatchHandler: defaultGRPCNoMatchHandler,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	var coreOpts []core.Option
	if i.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(i.logger))
	}
	if i.core, err = core.New(coreOpts...); err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return i, nil
}

// evaluate matches the RPC and returns a context carrying the matched token.
func (i *Interceptor) evaluate(ctx context.Context, method string) (context.Context, error) {
	start := time.Now()

	tok, err := i.core.Evaluate(ctx, newMetadataRequest(ctx, method), i.cfg)

	result := core.ExactMatch
	if err != nil {
		result = core.NoMatch
	}
	i.metrics.IncCounter(MetricRequests, map[string]string{
		"method": method,
		"result": result.String(),
		"reason": core.Reason(err),
	})
	i.metrics.ObserveHistogram(MetricRequestSeconds, time.Since(start).Seconds(), map[string]string{
		"result": result.String(),
	})

	if err != nil {
		return ctx, err
	}
	return core.SetToken(ctx, tok), nil
}

// UnaryServerInterceptor returns a gRPC unary server interceptor that only
// calls the handler for matching RPCs.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		spanCtx, span := i.tracer.StartSpan(ctx, "jwt-matcher.grpc.unary")
		defer span.Finish()
		span.SetTag("rpc.method", info.FullMethod)

		if i.exclusionChecker != nil && i.exclusionChecker(info.FullMethod) {
			span.SetTag("excluded", true)
			return handler(spanCtx, req)
		}

		matchCtx, err := i.evaluate(spanCtx, info.FullMethod)
		if err != nil {
			span.SetTag("jwt_matcher.reason", core.Reason(err))
			return nil, i.noMatchHandler(matchCtx, err)
		}

		return handler(matchCtx, req)
	}
}

// StreamServerInterceptor returns a gRPC stream server interceptor that only
// calls the handler for matching RPCs.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		spanCtx, span := i.tracer.StartSpan(ss.Context(), "jwt-matcher.grpc.stream")
		defer span.Finish()
		span.SetTag("rpc.method", info.FullMethod)

		if i.exclusionChecker != nil && i.exclusionChecker(info.FullMethod) {
			span.SetTag("excluded", true)
			return handler(srv, ss)
		}

		matchCtx, err := i.evaluate(spanCtx, info.FullMethod)
		if err != nil {
			span.SetTag("jwt_matcher.reason", core.Reason(err))
			return i.noMatchHandler(matchCtx, err)
		}

		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: matchCtx})
	}
}

// defaultGRPCNoMatchHandler reports a non-match as NotFound without details.
func defaultGRPCNoMatchHandler(_ context.Context, _ error) error {
	return status.Error(codes.NotFound, "Request did not match.")
}

// wrappedServerStream wraps a grpc.ServerStream to override the context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// TokenFromContext returns the token matched for the current RPC.
func TokenFromContext(ctx context.Context) (*token.Token, bool) {
	return core.GetToken(ctx)
}
