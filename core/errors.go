package core

import (
	"errors"

	"github.com/masonm/jwt-matcher/token"
)

// Sentinel errors for match evaluation.
var (
	// ErrNoMatch is matched by every MatchError.
	ErrNoMatch = errors.New("no match")

	// ErrConfigurationConflict is returned when a Config cannot be evaluated.
	ErrConfigurationConflict = errors.New("configuration conflict")

	// ErrClaimSetsMissing is returned when neither payload nor header
	// expectations are configured.
	ErrClaimSetsMissing error = &configError{msg: "one of payload or header must be configured"}

	// ErrTokenLocationConflict is returned when both a query parameter and a
	// header parameter are configured as the token location.
	ErrTokenLocationConflict error = &configError{msg: "query-parameter and header-parameter are mutually exclusive"}

	// ErrTokenMissing is returned when the configured location holds no token.
	ErrTokenMissing = errors.New("token missing")

	// ErrMalformedToken is returned when the token cannot be decoded.
	ErrMalformedToken = token.ErrMalformedToken

	// ErrRequestMismatch is returned when the request sub-pattern does not match.
	ErrRequestMismatch = errors.New("request sub-pattern did not match")

	// ErrClaimMismatch is returned when an expected claim is absent or different.
	ErrClaimMismatch = errors.New("claim mismatch")
)

type configError struct {
	msg string
}

func (e *configError) Error() string {
	return ErrConfigurationConflict.Error() + ": " + e.msg
}

func (e *configError) Is(target error) bool {
	return target == ErrConfigurationConflict
}

// MatchError explains why a request did not match.
// It provides structured information that can be used for
// logging and metrics labels.
type MatchError struct {
	// Code is a machine-readable reason (e.g., "token_missing", "payload_mismatch")
	Code string

	// Message is a human-readable message
	Message string

	// Claim is the first failing claim name for header and payload mismatches.
	Claim string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *MatchError) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *MatchError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with ErrNoMatch.
func (e *MatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// Match error codes
const (
	ReasonNone                  = "none"
	ReasonConfigurationConflict = "configuration_conflict"
	ReasonRequestMismatch       = "request_mismatch"
	ReasonTokenMissing          = "token_missing"
	ReasonTokenMalformed        = "token_malformed"
	ReasonHeaderMismatch        = "header_mismatch"
	ReasonPayloadMismatch       = "payload_mismatch"
)

// NewMatchError creates a new MatchError with the given code and message.
func NewMatchError(code, message string, details error) *MatchError {
	return &MatchError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Reason returns the match error code carried by err, ReasonNone for a nil
// error and "unknown" for errors that are not a MatchError.
func Reason(err error) string {
	if err == nil {
		return ReasonNone
	}

	var matchErr *MatchError
	if errors.As(err, &matchErr) {
		return matchErr.Code
	}
	return "unknown"
}
