package claims

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	v, err := Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func TestEqual(t *testing.T) {
	testCases := []struct {
		name  string
		x     string
		y     string
		equal bool
	}{
		{name: "equal strings", x: `"a"`, y: `"a"`, equal: true},
		{name: "different strings", x: `"a"`, y: `"b"`},
		{name: "string and number", x: `"1"`, y: `1`},
		{name: "integer and decimal", x: `1`, y: `1.0`, equal: true},
		{name: "exponent", x: `1e3`, y: `1000`, equal: true},
		{name: "different numbers", x: `1`, y: `2`},
		{name: "booleans", x: `true`, y: `true`, equal: true},
		{name: "boolean and string", x: `true`, y: `"true"`},
		{name: "nulls", x: `null`, y: `null`, equal: true},
		{name: "null and empty object", x: `null`, y: `{}`},
		{name: "arrays in order", x: `["foo","bar"]`, y: `["foo","bar"]`, equal: true},
		{name: "arrays out of order", x: `["foo","bar"]`, y: `["bar","foo"]`},
		{name: "arrays of different length", x: `["foo"]`, y: `["foo","bar"]`},
		{name: "array and scalar", x: `["foo"]`, y: `"foo"`},
		{name: "objects regardless of key order", x: `{"a":1,"b":[true]}`, y: `{"b":[true],"a":1}`, equal: true},
		{name: "objects with extra key", x: `{"a":1}`, y: `{"a":1,"b":2}`},
		{name: "nested objects", x: `{"a":{"b":{"c":[1,2]}}}`, y: `{"a":{"b":{"c":[1,2.0]}}}`, equal: true},
		{name: "nested mismatch", x: `{"a":{"b":{"c":[1,2]}}}`, y: `{"a":{"b":{"c":[2,1]}}}`},
		{name: "empty array and empty object", x: `[]`, y: `{}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			x := mustParse(t, testCase.x)
			y := mustParse(t, testCase.y)

			assert.Equal(t, testCase.equal, Equal(x, y))
			assert.Equal(t, testCase.equal, Equal(y, x), "equality must be symmetric")
			assert.True(t, Equal(x, x), "equality must be reflexive")

			if testCase.equal {
				assert.Empty(t, Diff(x, y))
			} else {
				assert.NotEmpty(t, Diff(x, y))
			}
		})
	}
}

func TestMatches(t *testing.T) {
	actual := mustParse(t, `{
		"sub": "alice",
		"aud": ["foo", "bar"],
		"admin": false,
		"org": {"id": 7, "roles": ["owner"]},
		"nickname": null
	}`)

	testCases := []struct {
		name     string
		expected Object
		want     bool
		wantKey  string
	}{
		{
			name:     "empty expectations always match",
			expected: Object{},
			want:     true,
		},
		{
			name:     "single scalar claim",
			expected: Object{"sub": "alice"},
			want:     true,
		},
		{
			name:     "extra actual claims are ignored",
			expected: Object{"admin": false},
			want:     true,
		},
		{
			name:     "wrong scalar",
			expected: Object{"sub": "bob"},
			wantKey:  "sub",
		},
		{
			name:     "array claim in order",
			expected: Object{"aud": []any{"foo", "bar"}},
			want:     true,
		},
		{
			name:     "array claim out of order",
			expected: Object{"aud": []any{"bar", "foo"}},
			wantKey:  "aud",
		},
		{
			name:     "array claim against scalar",
			expected: Object{"aud": "foo"},
			wantKey:  "aud",
		},
		{
			name:     "nested object claim",
			expected: Object{"org": map[string]any{"roles": []any{"owner"}, "id": json.Number("7")}},
			want:     true,
		},
		{
			name:     "nested object claim with missing key",
			expected: Object{"org": map[string]any{"id": json.Number("7")}},
			wantKey:  "org",
		},
		{
			name:     "missing claim expected null",
			expected: Object{"email": nil},
			want:     true,
		},
		{
			name:     "explicit null claim expected null",
			expected: Object{"nickname": nil},
			want:     true,
		},
		{
			name:     "missing claim expected value",
			expected: Object{"email": "alice@example.com"},
			wantKey:  "email",
		},
		{
			name:     "first failing key in sorted order",
			expected: Object{"sub": "bob", "admin": true},
			wantKey:  "admin",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, Matches(actual, testCase.expected))

			key, ok := FirstMismatch(actual, testCase.expected)
			assert.Equal(t, testCase.want, ok)
			assert.Equal(t, testCase.wantKey, key)
		})
	}
}

func TestMatches_NonObjectActual(t *testing.T) {
	for _, actual := range []any{nil, "claims", json.Number("1"), []any{"a"}} {
		assert.False(t, Matches(actual, Object{"a": "b"}))
		assert.True(t, Matches(actual, Object{"a": nil}))
	}
}

func TestMatches_Reflexive(t *testing.T) {
	payload := mustParse(t, `{"iss":"https://issuer","aud":["a","b"],"exp":1700000000,"ctx":{"k":[1,{"x":null}]}}`)

	expected := Object{}
	for k, v := range payload.(map[string]any) {
		expected[k] = v
	}

	assert.True(t, Matches(payload, expected))
}
