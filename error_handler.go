package jwtmatcher

import (
	"net/http"
)

// NoMatchHandler is called by Guard when a request does not match. err is a
// *core.MatchError and can be inspected with core.Reason or errors.Is.
type NoMatchHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultNoMatchHandler is the default NoMatchHandler implementation.
// If a handler is not provided via the WithNoMatchHandler option this will
// be used. It never reveals why the request did not match.
func DefaultNoMatchHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"message":"Request did not match."}`))
}
