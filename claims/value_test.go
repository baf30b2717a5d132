package claims

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("keeps numbers as json.Number", func(t *testing.T) {
		v, err := Parse([]byte(`{"exp":12345678901234567890,"ratio":0.5}`))
		require.NoError(t, err)

		want := map[string]any{
			"exp":   json.Number("12345678901234567890"),
			"ratio": json.Number("0.5"),
		}
		if !cmp.Equal(want, v) {
			t.Fatalf("parsed value did not match: %s", cmp.Diff(want, v))
		}
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		_, err := Parse([]byte(`{"a":1} {"b":2}`))
		assert.Error(t, err)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, err := Parse([]byte(`{"a":`))
		assert.Error(t, err)
	})

	t.Run("accepts non-object values", func(t *testing.T) {
		v, err := Parse([]byte(`["a", 1]`))
		require.NoError(t, err)
		assert.Equal(t, []any{"a", json.Number("1")}, v)
	})
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name  string
		value any
		want  any
	}{
		{name: "string slice", value: []string{"foo", "bar"}, want: []any{"foo", "bar"}},
		{name: "int", value: 42, want: json.Number("42")},
		{name: "float", value: 1.5, want: json.Number("1.5")},
		{name: "nil", value: nil, want: nil},
		{name: "typed nil map", value: map[string]any(nil), want: nil},
		{name: "string map", value: map[string]string{"a": "b"}, want: map[string]any{"a": "b"}},
		{
			name:  "struct",
			value: struct {
				Name  string   `json:"name"`
				Roles []string `json:"roles"`
			}{Name: "alice", Roles: []string{"admin"}},
			want: map[string]any{"name": "alice", "roles": []any{"admin"}},
		},
		{
			name:  "already normalized",
			value: map[string]any{"a": []any{json.Number("1"), true}},
			want:  map[string]any{"a": []any{json.Number("1"), true}},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := Normalize(testCase.value)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}

	t.Run("unsupported value", func(t *testing.T) {
		_, err := Normalize(make(chan int))
		assert.Error(t, err)
	})
}

func TestNormalizeObject(t *testing.T) {
	in := map[string]any{"aud": []string{"foo", "bar"}, "n": 3}

	got, err := NormalizeObject(in)
	require.NoError(t, err)
	assert.Equal(t, Object{"aud": []any{"foo", "bar"}, "n": json.Number("3")}, got)
	assert.IsType(t, []string{}, in["aud"], "input must not be mutated")

	nilObject, err := NormalizeObject(nil)
	require.NoError(t, err)
	assert.Nil(t, nilObject)

	_, err = NormalizeObject(map[string]any{"bad": func() {}})
	assert.ErrorContains(t, err, `claim "bad"`)
}

func TestDecodeFields(t *testing.T) {
	var (
		payload map[string]any
		name    *string
	)
	targets := map[string]any{"payload": &payload, "name": &name}

	err := DecodeFields([]byte(`{"payload": {"n": 1}, "Name": "ignored", "other": true}`), targets)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": json.Number("1")}, payload)
	assert.Nil(t, name, "keys are matched case-sensitively")

	err = DecodeFields([]byte(`{"PAYLOAD": {"n": 2}, "NAME": "x"}`), targets)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": json.Number("1")}, payload, "unmatched keys leave targets untouched")
	assert.Nil(t, name)

	err = DecodeFields([]byte(`{"name": 3}`), targets)
	assert.ErrorContains(t, err, "name")

	err = DecodeFields([]byte(`[]`), targets)
	assert.Error(t, err)
}
