/*
Package claims compares decoded token sections against expected claim values.

Both sides of a comparison share one representation, the JSON-like value tree
produced by decoding JSON text with numbers kept as json.Number:

	nil, bool, json.Number, string, []any, map[string]any

Values built in Go (for example []string or int) must go through Normalize
before they are compared. The token and parameter decoders already produce
normalized trees.

# Equality

Two values are equal when they have the same kind and equal contents. Objects
compare by key set and pairwise values regardless of order, arrays compare by
length and pairwise values in order, and numbers compare by numeric value so
that 1 and 1.0 are equal.

# Matching

Matches checks only the keys declared in the expected object. Extra keys in
the actual value are ignored. A declared key that is missing from the actual
value matches only an expected null:

	actual := map[string]any{"aud": []any{"foo", "bar"}, "sub": "alice"}

	claims.Matches(actual, claims.Object{"aud": []any{"foo", "bar"}}) // true
	claims.Matches(actual, claims.Object{"aud": []any{"bar", "foo"}}) // false
	claims.Matches(actual, claims.Object{"aud": "foo"})               // false
	claims.Matches(actual, claims.Object{"email": nil})               // true
*/
package claims
