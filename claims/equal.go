package claims

import (
	"math/big"
	"maps"
	"slices"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var equalOptions = cmp.Options{
	cmp.Comparer(equalNumbers),
	cmpopts.EquateEmpty(),
}

// Equal reports whether two normalized JSON-like values are structurally equal.
func Equal(x, y any) bool {
	return cmp.Equal(x, y, equalOptions)
}

// Diff returns a human readable report of the differences between x and y,
// or an empty string when they are equal.
func Diff(x, y any) string {
	return cmp.Diff(x, y, equalOptions)
}

func equalNumbers(x, y json.Number) bool {
	if x == y {
		return true
	}

	rx, ok := new(big.Rat).SetString(string(x))
	if !ok {
		return false
	}
	ry, ok := new(big.Rat).SetString(string(y))
	if !ok {
		return false
	}
	return rx.Cmp(ry) == 0
}

// Lookup returns the value of key in actual. Non-object values have no keys.
func Lookup(actual any, key string) (any, bool) {
	obj, ok := actual.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

// Matches reports whether every key declared in expected is present in actual
// with an equal value. A missing key is equal to an expected null.
func Matches(actual any, expected Object) bool {
	_, ok := FirstMismatch(actual, expected)
	return ok
}

// FirstMismatch checks expected keys in sorted order and returns the first key
// whose value does not match. ok is true when all keys match.
func FirstMismatch(actual any, expected Object) (key string, ok bool) {
	for _, k := range slices.Sorted(maps.Keys(expected)) {
		want := expected[k]

		got, present := Lookup(actual, k)
		if !present {
			if want != nil {
				return k, false
			}
			continue
		}

		if !Equal(got, want) {
			return k, false
		}
	}
	return "", true
}
