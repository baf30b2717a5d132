package jwtgrpc

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/masonm/jwt-matcher/core"
)

var _ core.Request = (*metadataRequest)(nil)

// metadataRequest exposes incoming gRPC metadata as a core.Request. Metadata
// keys play the role of headers; there are no query parameters.
type metadataRequest struct {
	md     metadata.MD
	method string
}

func newMetadataRequest(ctx context.Context, method string) *metadataRequest {
	md, _ := metadata.FromIncomingContext(ctx)
	return &metadataRequest{md: md, method: method}
}

// Header returns the first value of the named metadata key.
func (r *metadataRequest) Header(name string) (string, bool) {
	values := r.md.Get(strings.ToLower(name))
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (r *metadataRequest) QueryParameter(string) (string, bool) {
	return "", false
}

// FullMethod returns the full RPC method name, e.g. "/orders.v1.Orders/List".
func (r *metadataRequest) FullMethod() string {
	return r.method
}

// MethodPattern returns a sub-pattern matching RPCs whose full method name is
// one of methods.
func MethodPattern(methods ...string) core.SubPattern {
	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[m] = struct{}{}
	}

	return core.SubPatternFunc(func(_ context.Context, req core.Request) bool {
		r, ok := req.(interface{ FullMethod() string })
		if !ok {
			return false
		}
		_, ok = methodSet[r.FullMethod()]
		return ok
	})
}
