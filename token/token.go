// Package token decodes compact JWT strings without verifying them.
//
// Only the header and payload sections are read. A trailing signature
// section is discarded and never validated, so a Token must never be used
// to make a trust decision.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/masonm/jwt-matcher/claims"
)

// ErrMalformedToken is returned when a token string cannot be decoded.
var ErrMalformedToken = errors.New("malformed token")

// Section names used in MalformedError.
const (
	SectionHeader  = "header"
	SectionPayload = "payload"
)

// MalformedError describes why a token string could not be decoded.
// It matches ErrMalformedToken with errors.Is.
type MalformedError struct {
	// Section is the token section that failed, empty when the string
	// could not be split.
	Section string
	Err     error
}

func (e *MalformedError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedToken, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedToken, e.Section, e.Err)
}

// Is allows the error to support equality to ErrMalformedToken.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedToken
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

var (
	errTooFewSections = errors.New("token must contain a header and a payload section")
	errEmptySection   = errors.New("empty section")
)

// Token is a decoded, unverified token. It is immutable once decoded.
type Token struct {
	raw     string
	header  any
	payload any
}

// Raw returns the compact token string the Token was decoded from.
func (t *Token) Raw() string { return t.raw }

// Header returns the decoded header section.
func (t *Token) Header() any { return t.header }

// Payload returns the decoded payload section.
func (t *Token) Payload() any { return t.payload }

// Claim returns the payload value for name and whether it is present.
func (t *Token) Claim(name string) (any, bool) {
	return claims.Lookup(t.payload, name)
}

// Decode splits a compact token of the form header.payload[.signature] and
// decodes its header and payload sections.
func Decode(tokenString string) (*Token, error) {
	sections := strings.SplitN(tokenString, ".", 3)
	if len(sections) < 2 {
		return nil, &MalformedError{Err: errTooFewSections}
	}

	header, err := decodeSection(sections[0])
	if err != nil {
		return nil, &MalformedError{Section: SectionHeader, Err: err}
	}

	payload, err := decodeSection(sections[1])
	if err != nil {
		return nil, &MalformedError{Section: SectionPayload, Err: err}
	}

	return &Token{
		raw:     tokenString,
		header:  header,
		payload: payload,
	}, nil
}

// FromAuthHeader decodes a token taken from a request location. Surrounding
// whitespace and a leading "Bearer" scheme are removed first.
func FromAuthHeader(value string) (*Token, error) {
	return Decode(StripScheme(value))
}

// StripScheme removes a case-insensitive "Bearer" authorization scheme and
// surrounding whitespace from value.
func StripScheme(value string) string {
	value = strings.TrimSpace(value)

	scheme, rest, found := strings.Cut(value, " ")
	if found && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(rest)
	}
	return value
}

func decodeSection(section string) (any, error) {
	if section == "" {
		return nil, errEmptySection
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(section, "="))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64url: %w", err)
	}

	v, err := claims.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return v, nil
}
