package claims

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Object is a JSON object of claim name to JSON-like value.
type Object = map[string]any

// Parse decodes JSON text into a JSON-like value tree.
// Numbers are kept as json.Number so no precision is lost.
func Parse(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON text")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Normalize converts an arbitrary Go value into a JSON-like value tree.
// Values that are already normalized are returned as they are.
func Normalize(v any) (any, error) {
	if isNormalized(v) {
		return v, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode claim value: %w", err)
	}

	return Parse(data)
}

// NormalizeObject normalizes every value of m. The result is a new map; m is
// left untouched. A nil map yields a nil Object.
func NormalizeObject(m map[string]any) (Object, error) {
	if m == nil {
		return nil, nil
	}

	out := make(Object, len(m))
	for k, v := range m {
		nv, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("claim %q: %w", k, err)
		}
		out[k] = nv
	}
	return out, nil
}

func isNormalized(v any) bool {
	switch t := v.(type) {
	case nil, bool, string, json.Number:
		return true
	case []any:
		if t == nil {
			return false
		}
		for _, e := range t {
			if !isNormalized(e) {
				return false
			}
		}
		return true
	case map[string]any:
		if t == nil {
			return false
		}
		for _, e := range t {
			if !isNormalized(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// DecodeFields decodes a JSON object into targets by exact key. Keys are
// compared case-sensitively and keys without a target are ignored. Numbers
// decoded into interface values are kept as json.Number.
func DecodeFields(data []byte, targets map[string]any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, target := range targets {
		value, ok := raw[key]
		if !ok {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(value))
		dec.UseNumber()
		if err := dec.Decode(target); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
