// Package pattern implements request sub-patterns for net/http hosts.
//
// A RequestPattern is the "request" parameter of the jwt-matcher: a
// structural match against URL, method, headers, query parameters and body
// that must hold in addition to the token claims. Its JSON keys follow the
// WireMock request pattern format:
//
//	{
//	    "method": "POST",
//	    "urlPath": "/orders",
//	    "headers": {"Content-Type": {"contains": "json"}},
//	    "queryParameters": {"dryRun": {"absent": true}},
//	    "bodyPatterns": [{"equalToJson": {"sku": "a-1"}}]
//	}
package pattern

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/masonm/jwt-matcher/claims"
	"github.com/masonm/jwt-matcher/core"
)

// MethodAny matches every request method.
const MethodAny = "ANY"

// Request is the request view a RequestPattern needs on top of core.Request.
type Request interface {
	core.Request

	Method() string
	URL() *url.URL
	Body() []byte
}

// RequestPattern is a structural match against a whole request.
// All configured fields must match. Use Parse or json.Unmarshal to build one
// so its regular expressions are compiled once.
type RequestPattern struct {
	URL             string                   `json:"url,omitempty"`
	URLPath         string                   `json:"urlPath,omitempty"`
	URLPattern      string                   `json:"urlPattern,omitempty"`
	URLPathPattern  string                   `json:"urlPathPattern,omitempty"`
	Method          string                   `json:"method,omitempty"`
	Headers         map[string]StringMatcher `json:"headers,omitempty"`
	QueryParameters map[string]StringMatcher `json:"queryParameters,omitempty"`
	BodyPatterns    []BodyPattern            `json:"bodyPatterns,omitempty"`

	urlRegexp     *regexp.Regexp
	urlPathRegexp *regexp.Regexp
}

var _ core.SubPattern = (*RequestPattern)(nil)

// Parse decodes and compiles a RequestPattern from JSON.
func Parse(data []byte) (*RequestPattern, error) {
	var p RequestPattern
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("could not parse request pattern: %w", err)
	}
	return &p, nil
}

// FromValue builds a RequestPattern from an untyped JSON-like value, such as
// the "request" entry of a parameters map.
func FromValue(v any) (*RequestPattern, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode request pattern: %w", err)
	}
	return Parse(data)
}

// UnmarshalJSON decodes the pattern by exact key and compiles its regular
// expressions. Keys differing only in case are ignored.
func (p *RequestPattern) UnmarshalJSON(data []byte) error {
	var out RequestPattern
	err := claims.DecodeFields(data, map[string]any{
		"url":             &out.URL,
		"urlPath":         &out.URLPath,
		"urlPattern":      &out.URLPattern,
		"urlPathPattern":  &out.URLPathPattern,
		"method":          &out.Method,
		"headers":         &out.Headers,
		"queryParameters": &out.QueryParameters,
		"bodyPatterns":    &out.BodyPatterns,
	})
	if err != nil {
		return err
	}

	*p = out
	return p.Compile()
}

// Compile compiles the regular expressions of p and its matchers.
// Patterns built in Go code must be compiled before use.
func (p *RequestPattern) Compile() error {
	var err error
	if p.URLPattern != "" {
		if p.urlRegexp, err = compileFull(p.URLPattern); err != nil {
			return fmt.Errorf("urlPattern: %w", err)
		}
	}
	if p.URLPathPattern != "" {
		if p.urlPathRegexp, err = compileFull(p.URLPathPattern); err != nil {
			return fmt.Errorf("urlPathPattern: %w", err)
		}
	}

	for name, m := range p.Headers {
		if err := m.compile(); err != nil {
			return fmt.Errorf("header %q: %w", name, err)
		}
		p.Headers[name] = m
	}
	for name, m := range p.QueryParameters {
		if err := m.compile(); err != nil {
			return fmt.Errorf("query parameter %q: %w", name, err)
		}
		p.QueryParameters[name] = m
	}
	for i := range p.BodyPatterns {
		if err := p.BodyPatterns[i].compile(); err != nil {
			return fmt.Errorf("body pattern %d: %w", i, err)
		}
	}
	return nil
}

// Matches reports whether req satisfies every configured field of p.
// Requests that do not implement Request never match.
func (p *RequestPattern) Matches(_ context.Context, req core.Request) bool {
	r, ok := req.(Request)
	if !ok {
		return false
	}

	return p.matchMethod(r.Method()) &&
		p.matchURL(r.URL()) &&
		p.matchHeaders(r) &&
		p.matchQuery(r) &&
		p.matchBody(r.Body())
}

func (p *RequestPattern) matchMethod(method string) bool {
	if p.Method == "" || strings.EqualFold(p.Method, MethodAny) {
		return true
	}
	return strings.EqualFold(p.Method, method)
}

func (p *RequestPattern) matchURL(u *url.URL) bool {
	if u == nil {
		u = &url.URL{}
	}

	if p.URL != "" && p.URL != u.RequestURI() {
		return false
	}
	if p.URLPath != "" && p.URLPath != u.Path {
		return false
	}
	if p.URLPattern != "" && !regexpMatch(p.urlRegexp, p.URLPattern, u.RequestURI()) {
		return false
	}
	if p.URLPathPattern != "" && !regexpMatch(p.urlPathRegexp, p.URLPathPattern, u.Path) {
		return false
	}
	return true
}

func (p *RequestPattern) matchHeaders(r Request) bool {
	for name, m := range p.Headers {
		value, present := r.Header(name)
		if !m.Match(value, present) {
			return false
		}
	}
	return true
}

func (p *RequestPattern) matchQuery(r Request) bool {
	for name, m := range p.QueryParameters {
		value, present := r.QueryParameter(name)
		if !m.Match(value, present) {
			return false
		}
	}
	return true
}

func (p *RequestPattern) matchBody(body []byte) bool {
	for _, bp := range p.BodyPatterns {
		if !bp.Match(body) {
			return false
		}
	}
	return true
}

// StringMatcher matches a single header or query parameter value.
// Exactly one of its fields is expected to be set; when several are set,
// all of them must hold.
type StringMatcher struct {
	EqualTo         *string `json:"equalTo,omitempty"`
	Contains        *string `json:"contains,omitempty"`
	Matches         *string `json:"matches,omitempty"`
	DoesNotMatch    *string `json:"doesNotMatch,omitempty"`
	Absent          bool    `json:"absent,omitempty"`
	CaseInsensitive bool    `json:"caseInsensitive,omitempty"`

	matches      *regexp.Regexp
	doesNotMatch *regexp.Regexp
}

// EqualTo returns a StringMatcher for an exact value.
func EqualTo(value string) StringMatcher {
	return StringMatcher{EqualTo: &value}
}

// UnmarshalJSON decodes m by exact key.
func (m *StringMatcher) UnmarshalJSON(data []byte) error {
	var out StringMatcher
	err := claims.DecodeFields(data, map[string]any{
		"equalTo":         &out.EqualTo,
		"contains":        &out.Contains,
		"matches":         &out.Matches,
		"doesNotMatch":    &out.DoesNotMatch,
		"absent":          &out.Absent,
		"caseInsensitive": &out.CaseInsensitive,
	})
	if err != nil {
		return err
	}

	*m = out
	return nil
}

func (m *StringMatcher) compile() error {
	var err error
	if m.Matches != nil {
		if m.matches, err = compileFull(*m.Matches); err != nil {
			return err
		}
	}
	if m.DoesNotMatch != nil {
		if m.doesNotMatch, err = compileFull(*m.DoesNotMatch); err != nil {
			return err
		}
	}
	return nil
}

// Match reports whether a value, and whether it was present, satisfies m.
func (m StringMatcher) Match(value string, present bool) bool {
	if m.Absent {
		return !present
	}
	if !present {
		return false
	}

	if m.EqualTo != nil {
		if m.CaseInsensitive {
			if !strings.EqualFold(*m.EqualTo, value) {
				return false
			}
		} else if *m.EqualTo != value {
			return false
		}
	}
	if m.Contains != nil && !strings.Contains(value, *m.Contains) {
		return false
	}
	if m.Matches != nil && !regexpMatch(m.matches, *m.Matches, value) {
		return false
	}
	if m.DoesNotMatch != nil && regexpMatch(m.doesNotMatch, *m.DoesNotMatch, value) {
		return false
	}
	return true
}

// BodyPattern matches the request body.
type BodyPattern struct {
	EqualTo     *string         `json:"equalTo,omitempty"`
	Contains    *string         `json:"contains,omitempty"`
	Matches     *string         `json:"matches,omitempty"`
	EqualToJSON json.RawMessage `json:"equalToJson,omitempty"`

	matches      *regexp.Regexp
	expectedJSON any
}

// UnmarshalJSON decodes b by exact key.
func (b *BodyPattern) UnmarshalJSON(data []byte) error {
	var out BodyPattern
	err := claims.DecodeFields(data, map[string]any{
		"equalTo":     &out.EqualTo,
		"contains":    &out.Contains,
		"matches":     &out.Matches,
		"equalToJson": &out.EqualToJSON,
	})
	if err != nil {
		return err
	}

	*b = out
	return nil
}

func (b *BodyPattern) compile() error {
	var err error
	if b.Matches != nil {
		if b.matches, err = compileFull(*b.Matches); err != nil {
			return err
		}
	}

	if len(b.EqualToJSON) == 0 {
		return nil
	}

	v, err := claims.Parse(b.EqualToJSON)
	if err != nil {
		return fmt.Errorf("equalToJson: %w", err)
	}
	// WireMock accepts the expected document either inline or as a string.
	if s, ok := v.(string); ok {
		if v, err = claims.Parse([]byte(s)); err != nil {
			return fmt.Errorf("equalToJson: %w", err)
		}
	}
	b.expectedJSON = v
	return nil
}

// Match reports whether body satisfies b.
func (b BodyPattern) Match(body []byte) bool {
	if b.EqualTo != nil && *b.EqualTo != string(body) {
		return false
	}
	if b.Contains != nil && !bytes.Contains(body, []byte(*b.Contains)) {
		return false
	}
	if b.Matches != nil && !regexpMatch(b.matches, *b.Matches, string(body)) {
		return false
	}
	if len(b.EqualToJSON) > 0 {
		// b is a copy, so compiling here leaves the pattern untouched.
		if b.expectedJSON == nil {
			if err := b.compile(); err != nil {
				return false
			}
		}
		actual, err := claims.Parse(body)
		if err != nil || !claims.Equal(actual, b.expectedJSON) {
			return false
		}
	}
	return true
}

func compileFull(expr string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + expr + ")$")
}

// regexpMatch uses the compiled expression when present and compiles on the
// fly otherwise, without caching, so uncompiled patterns stay immutable.
func regexpMatch(re *regexp.Regexp, expr, s string) bool {
	if re == nil {
		var err error
		if re, err = compileFull(expr); err != nil {
			return false
		}
	}
	return re.MatchString(s)
}
