package core

import "github.com/masonm/jwt-matcher/claims"

// Config is the typed form of the match parameters.
//
// A nil Payload or Header means that section is not configured; an empty
// non-nil map is configured and matches any decodable token. Claim values
// must be normalized JSON-like values (see claims.Normalize).
type Config struct {
	// Payload holds expected claims of the token payload.
	Payload claims.Object

	// Header holds expected claims of the token header.
	Header claims.Object

	// QueryParameter names the query parameter carrying the token.
	QueryParameter string

	// HeaderParameter names the HTTP header carrying the token.
	HeaderParameter string

	// Request, when set, must also match the whole request.
	Request SubPattern
}

// Validate checks the presence rules of the configuration.
func (c Config) Validate() error {
	if c.Payload == nil && c.Header == nil {
		return ErrClaimSetsMissing
	}
	if c.QueryParameter != "" && c.HeaderParameter != "" {
		return ErrTokenLocationConflict
	}
	return nil
}

// TokenLocation describes where the token is read from.
func (c Config) TokenLocation() (kind, name string) {
	switch {
	case c.QueryParameter != "":
		return "query", c.QueryParameter
	case c.HeaderParameter != "":
		return "header", c.HeaderParameter
	default:
		return "header", AuthorizationHeader
	}
}

func (c Config) tokenString(req Request) (string, bool) {
	kind, name := c.TokenLocation()
	if kind == "query" {
		return req.QueryParameter(name)
	}
	return req.Header(name)
}
