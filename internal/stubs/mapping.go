package stubs

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/goccy/go-json"

	jwtmatcher "github.com/masonm/jwt-matcher"
	"github.com/masonm/jwt-matcher/claims"
	"github.com/masonm/jwt-matcher/pattern"
)

var (
	ErrUnknownMatcher = errors.New("unknown custom matcher")
	ErrInvalidStatus  = errors.New("invalid response status")
)

// File is the on-disk stub format:
//
//	{
//	    "mappings": [
//	        {
//	            "request": {
//	                "urlPath": "/orders",
//	                "customMatcher": {
//	                    "name": "jwt-matcher",
//	                    "parameters": {"payload": {"scope": "orders:read"}}
//	                }
//	            },
//	            "response": {"status": 200, "jsonBody": {"orders": []}}
//	        }
//	    ]
//	}
type File struct {
	Mappings []Mapping `json:"mappings"`
}

// Mapping pairs a request matcher with the response served when it matches.
// Lower priorities are tried first; mappings without one come last.
type Mapping struct {
	Name     string         `json:"name,omitempty"`
	Priority *int           `json:"priority,omitempty"`
	Request  RequestMatcher `json:"request"`
	Response Response       `json:"response"`
}

// RequestMatcher is a request pattern plus an optional custom matcher.
type RequestMatcher struct {
	Pattern       *pattern.RequestPattern
	CustomMatcher *CustomMatcher
}

// CustomMatcher names the matcher to run and its parameters.
type CustomMatcher struct {
	Name       string                `json:"name"`
	Parameters jwtmatcher.Parameters `json:"parameters"`
}

// Response is the canned response of a mapping. JSONBody takes precedence
// over Body.
type Response struct {
	Status   int               `json:"status,omitempty"`
	Body     string            `json:"body,omitempty"`
	JSONBody json.RawMessage   `json:"jsonBody,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// UnmarshalJSON reads the request pattern keys and the customMatcher entry
// from the same object.
func (m *RequestMatcher) UnmarshalJSON(data []byte) error {
	var custom *CustomMatcher
	if err := claims.DecodeFields(data, map[string]any{"customMatcher": &custom}); err != nil {
		return fmt.Errorf("customMatcher: %w", err)
	}

	p, err := pattern.Parse(data)
	if err != nil {
		return err
	}

	m.Pattern = p
	m.CustomMatcher = custom
	return nil
}

// UnmarshalJSON decodes the name and parameters by exact key.
func (c *CustomMatcher) UnmarshalJSON(data []byte) error {
	var out CustomMatcher
	err := claims.DecodeFields(data, map[string]any{
		"name":       &out.Name,
		"parameters": &out.Parameters,
	})
	if err != nil {
		return err
	}

	*c = out
	return nil
}

// MarshalJSON writes the pattern keys and customMatcher back into one object.
func (m RequestMatcher) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if m.Pattern != nil {
		data, err := json.Marshal(m.Pattern)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	}
	if m.CustomMatcher != nil {
		out["customMatcher"] = m.CustomMatcher
	}
	return json.Marshal(out)
}

// Validate reports mappings the router could never serve.
func (m Mapping) Validate() error {
	if m.CustomMatcher() != nil && m.CustomMatcher().Name != jwtmatcher.Name {
		return fmt.Errorf("%w: %q", ErrUnknownMatcher, m.CustomMatcher().Name)
	}
	if m.Response.Status != 0 && http.StatusText(m.Response.Status) == "" {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, m.Response.Status)
	}
	return nil
}

// CustomMatcher returns the custom matcher of the mapping, if any.
func (m Mapping) CustomMatcher() *CustomMatcher {
	return m.Request.CustomMatcher
}

// Parse decodes a stub file.
func Parse(data []byte) (*File, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("could not parse stubs: %w", err)
	}

	for i, m := range f.Mappings {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}
	}
	return &f, nil
}

// Load reads and decodes the stub file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
