package jwtmatcher

import (
	"bytes"
	"io"
	"net/http"
	"net/url"

	"github.com/masonm/jwt-matcher/core"
	"github.com/masonm/jwt-matcher/pattern"
)

var (
	_ core.Request    = (*Request)(nil)
	_ pattern.Request = (*Request)(nil)
)

// Request adapts an *http.Request to core.Request and pattern.Request.
// A Request is built for a single evaluation and is not safe for concurrent use.
type Request struct {
	r     *http.Request
	query url.Values
	body  []byte
	read  bool
}

// NewRequest wraps r.
func NewRequest(r *http.Request) *Request {
	return &Request{r: r}
}

// Header returns the first value of the named header.
func (r *Request) Header(name string) (string, bool) {
	values := r.r.Header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// QueryParameter returns the first value of the named query parameter.
func (r *Request) QueryParameter(name string) (string, bool) {
	if r.query == nil {
		if r.r.URL == nil {
			return "", false
		}
		r.query = r.r.URL.Query()
	}

	values, ok := r.query[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Method returns the request method.
func (r *Request) Method() string {
	return r.r.Method
}

// URL returns the request URL.
func (r *Request) URL() *url.URL {
	return r.r.URL
}

// Body reads the request body once and puts an equivalent reader back on the
// request so downstream handlers can still consume it.
func (r *Request) Body() []byte {
	if r.read {
		return r.body
	}
	r.read = true

	if r.r.Body == nil || r.r.Body == http.NoBody {
		return nil
	}

	body, err := io.ReadAll(r.r.Body)
	_ = r.r.Body.Close()
	r.r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	r.body = body
	return body
}
