package jwtmatcher

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/masonm/jwt-matcher/claims"
	"github.com/masonm/jwt-matcher/core"
	"github.com/masonm/jwt-matcher/pattern"
)

// Name is the name the matcher is registered under by hosts.
const Name = "jwt-matcher"

// Parameter names recognized in a parameters map.
const (
	ParamPayload         = "payload"
	ParamHeader          = "header"
	ParamQueryParameter  = "query-parameter"
	ParamHeaderParameter = "header-parameter"
	ParamRequest         = "request"
)

// ErrEmptyLocationName is returned when query-parameter or header-parameter
// is present with an empty name.
var ErrEmptyLocationName = errors.New("token location name cannot be empty")

// Parameters is the serialized form of the matcher configuration:
//
//	{
//	    "payload": {"aud": ["foo", "bar"]},
//	    "header": {"alg": "RS256"},
//	    "header-parameter": "x-key",
//	    "request": {"urlPath": "/orders", "method": "GET"}
//	}
//
// Unknown keys are ignored. Use Config to obtain the typed core.Config.
type Parameters struct {
	Payload         map[string]any
	Header          map[string]any
	QueryParameter  *string
	HeaderParameter *string
	Request         *pattern.RequestPattern
}

// UnmarshalJSON decodes the recognized keys by exact name, keeping claim
// numbers as json.Number. Keys differing only in case are ignored.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var out Parameters
	err := claims.DecodeFields(data, map[string]any{
		ParamPayload:         &out.Payload,
		ParamHeader:          &out.Header,
		ParamQueryParameter:  &out.QueryParameter,
		ParamHeaderParameter: &out.HeaderParameter,
		ParamRequest:         &out.Request,
	})
	if err != nil {
		return err
	}

	*p = out
	return nil
}

// MarshalJSON writes every configured key. An empty but non-nil claim map
// is written as {} so it stays configured when read back.
func (p Parameters) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 5)
	if p.Payload != nil {
		out[ParamPayload] = p.Payload
	}
	if p.Header != nil {
		out[ParamHeader] = p.Header
	}
	if p.QueryParameter != nil {
		out[ParamQueryParameter] = *p.QueryParameter
	}
	if p.HeaderParameter != nil {
		out[ParamHeaderParameter] = *p.HeaderParameter
	}
	if p.Request != nil {
		out[ParamRequest] = p.Request
	}
	return json.Marshal(out)
}

// ParseParameters converts an untyped parameters map, as supplied by a host,
// into Parameters.
func ParseParameters(raw map[string]any) (Parameters, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return Parameters{}, fmt.Errorf("could not encode parameters: %w", err)
	}

	var p Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		return Parameters{}, fmt.Errorf("could not decode parameters: %w", err)
	}
	return p, nil
}

// Config converts p into a core.Config. Claim values are normalized so both
// sides of a comparison share one representation. Presence conflicts are
// left to the core, which reports them as a non-match.
func (p Parameters) Config() (core.Config, error) {
	payload, err := claims.NormalizeObject(p.Payload)
	if err != nil {
		return core.Config{}, fmt.Errorf("%s: %w", ParamPayload, err)
	}

	header, err := claims.NormalizeObject(p.Header)
	if err != nil {
		return core.Config{}, fmt.Errorf("%s: %w", ParamHeader, err)
	}

	cfg := core.Config{
		Payload: payload,
		Header:  header,
	}

	if p.QueryParameter != nil {
		if *p.QueryParameter == "" {
			return core.Config{}, fmt.Errorf("%s: %w", ParamQueryParameter, ErrEmptyLocationName)
		}
		cfg.QueryParameter = *p.QueryParameter
	}

	if p.HeaderParameter != nil {
		if *p.HeaderParameter == "" {
			return core.Config{}, fmt.Errorf("%s: %w", ParamHeaderParameter, ErrEmptyLocationName)
		}
		cfg.HeaderParameter = *p.HeaderParameter
	}

	if p.Request != nil {
		cfg.Request = p.Request
	}

	return cfg, nil
}
