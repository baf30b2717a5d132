package stubs

import (
	"cmp"
	"fmt"
	"math"
	"net/http"
	"slices"

	"github.com/rs/zerolog"

	jwtmatcher "github.com/masonm/jwt-matcher"
	"github.com/masonm/jwt-matcher/core"
	"github.com/masonm/jwt-matcher/pattern"
)

// Router serves the response of the first mapping that matches a request,
// and 404 when none does. It is safe for concurrent use.
type Router struct {
	matcher  *jwtmatcher.JWTMatcher
	mappings []route
}

type route struct {
	mapping Mapping
	pattern *pattern.RequestPattern
	config  *core.Config
}

// NewRouter prepares mappings for serving. Mappings are ordered by priority,
// keeping file order between equal priorities.
func NewRouter(matcher *jwtmatcher.JWTMatcher, mappings []Mapping) (*Router, error) {
	if matcher == nil {
		return nil, fmt.Errorf("matcher cannot be nil")
	}

	routes := make([]route, 0, len(mappings))
	for i, m := range mappings {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}

		r := route{mapping: m, pattern: m.Request.Pattern}
		if cm := m.CustomMatcher(); cm != nil {
			cfg, err := cm.Parameters.Config()
			if err != nil {
				return nil, fmt.Errorf("mapping %d: %w", i, err)
			}
			r.config = &cfg
		}
		routes = append(routes, r)
	}

	slices.SortStableFunc(routes, func(a, b route) int {
		return cmp.Compare(priority(a.mapping), priority(b.mapping))
	})

	return &Router{matcher: matcher, mappings: routes}, nil
}

// Mappings returns the mappings in the order they are tried.
func (rt *Router) Mappings() []Mapping {
	out := make([]Mapping, 0, len(rt.mappings))
	for _, r := range rt.mappings {
		out = append(out, r.mapping)
	}
	return out
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	for _, route := range rt.mappings {
		if !rt.matches(route, r, logger) {
			continue
		}

		logger.Debug().Str("mapping", route.mapping.Name).Msg("stub matched")
		writeResponse(w, route.mapping.Response, logger)
		return
	}

	logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("no stub matched")
	jwtmatcher.DefaultNoMatchHandler(w, r, nil)
}

func (rt *Router) matches(route route, r *http.Request, logger *zerolog.Logger) bool {
	if route.pattern != nil && !route.pattern.Matches(r.Context(), jwtmatcher.NewRequest(r)) {
		return false
	}

	if route.config == nil {
		return true
	}

	_, err := rt.matcher.Evaluate(r, *route.config)
	if err != nil {
		logger.Debug().
			Str("mapping", route.mapping.Name).
			Str("reason", core.Reason(err)).
			Msg("stub did not match")
		return false
	}
	return true
}

func writeResponse(w http.ResponseWriter, res Response, logger *zerolog.Logger) {
	for k, v := range res.Headers {
		w.Header().Set(k, v)
	}

	body := []byte(res.Body)
	if len(res.JSONBody) > 0 {
		body = res.JSONBody
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
	}

	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		logger.Warn().Err(err).Msg("could not write stub response")
	}
}

// priority returns the sort key of m; mappings without a priority sort last.
func priority(m Mapping) int {
	if m.Priority == nil {
		return math.MaxInt
	}
	return *m.Priority
}
