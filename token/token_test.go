package token

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	golangjwt "github.com/golang-jwt/jwt/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masonm/jwt-matcher/claims"
)

const (
	// header {"test_header":"header_value"}, payload {"test_payload":"payload_value"}
	testToken = "eyJ0ZXN0X2hlYWRlciI6ImhlYWRlcl92YWx1ZSJ9.eyJ0ZXN0X3BheWxvYWQiOiJwYXlsb2FkX3ZhbHVlIn0"
)

func encodeSection(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestDecode(t *testing.T) {
	t.Run("it decodes a token without a signature", func(t *testing.T) {
		tok, err := Decode(testToken)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"test_header": "header_value"}, tok.Header())
		assert.Equal(t, map[string]any{"test_payload": "payload_value"}, tok.Payload())
		assert.Equal(t, testToken, tok.Raw())
	})

	t.Run("it ignores the signature section", func(t *testing.T) {
		tok, err := Decode(testToken + ".not-a-real-signature!")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"test_payload": "payload_value"}, tok.Payload())
	})

	t.Run("it ignores sections after the signature", func(t *testing.T) {
		tok, err := Decode(testToken + ".sig.extra.more")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"test_header": "header_value"}, tok.Header())
	})

	t.Run("it tolerates padding", func(t *testing.T) {
		header := base64.URLEncoding.EncodeToString([]byte(`{"a":1}`))
		payload := base64.URLEncoding.EncodeToString([]byte(`{"sub":"x"}`))
		require.Contains(t, header+payload, "=")

		tok, err := Decode(header + "." + payload)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": json.Number("1")}, tok.Header())
		assert.Equal(t, map[string]any{"sub": "x"}, tok.Payload())
	})

	t.Run("it accepts non-object sections", func(t *testing.T) {
		tok, err := Decode(encodeSection(`"hdr"`) + "." + encodeSection(`["a","b"]`))
		require.NoError(t, err)
		assert.Equal(t, "hdr", tok.Header())
		assert.Equal(t, []any{"a", "b"}, tok.Payload())
	})

	t.Run("it is idempotent", func(t *testing.T) {
		first, err := Decode(testToken)
		require.NoError(t, err)
		second, err := Decode(testToken)
		require.NoError(t, err)

		assert.True(t, claims.Equal(first.Header(), second.Header()))
		assert.True(t, claims.Equal(first.Payload(), second.Payload()))
	})
}

func TestDecode_Malformed(t *testing.T) {
	testCases := []struct {
		name        string
		token       string
		wantSection string
	}{
		{name: "empty", token: ""},
		{name: "single section", token: "f00"},
		{name: "empty header", token: "." + encodeSection(`{}`), wantSection: SectionHeader},
		{name: "empty payload", token: encodeSection(`{}`) + ".", wantSection: SectionPayload},
		{name: "header is not base64url", token: "@@@." + encodeSection(`{}`), wantSection: SectionHeader},
		{name: "payload is not base64url", token: encodeSection(`{}`) + ".a+b/", wantSection: SectionPayload},
		{name: "header is not JSON", token: encodeSection(`not json`) + "." + encodeSection(`{}`), wantSection: SectionHeader},
		{name: "payload is truncated JSON", token: encodeSection(`{}`) + "." + encodeSection(`{"a":`), wantSection: SectionPayload},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			tok, err := Decode(testCase.token)
			assert.Nil(t, tok)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedToken)

			var malformed *MalformedError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, testCase.wantSection, malformed.Section)
		})
	}
}

func TestStripScheme(t *testing.T) {
	testCases := []struct {
		value string
		want  string
	}{
		{value: "Bearer abc.def", want: "abc.def"},
		{value: "bearer abc.def", want: "abc.def"},
		{value: "BEARER   abc.def  ", want: "abc.def"},
		{value: "  abc.def", want: "abc.def"},
		{value: "Basic dXNlcjpwYXNz", want: "Basic dXNlcjpwYXNz"},
		{value: "Bearer", want: "Bearer"},
		{value: "", want: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.value, func(t *testing.T) {
			assert.Equal(t, testCase.want, StripScheme(testCase.value))
		})
	}
}

func TestFromAuthHeader(t *testing.T) {
	withScheme, err := FromAuthHeader("Bearer " + testToken)
	require.NoError(t, err)

	without, err := FromAuthHeader(testToken)
	require.NoError(t, err)

	if !cmp.Equal(withScheme.Payload(), without.Payload()) {
		t.Fatalf("payloads did not match: %s", cmp.Diff(withScheme.Payload(), without.Payload()))
	}

	_, err = FromAuthHeader("Bearer f00")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestDecode_SignedTokens(t *testing.T) {
	t.Run("jwx", func(t *testing.T) {
		built, err := jwt.NewBuilder().
			Issuer("https://issuer.example.com/").
			Subject("alice").
			Audience([]string{"foo", "bar"}).
			Claim("admin", true).
			Build()
		require.NoError(t, err)

		signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, []byte("secret")))
		require.NoError(t, err)

		tok, err := Decode(string(signed))
		require.NoError(t, err)

		alg, ok := claims.Lookup(tok.Header(), "alg")
		require.True(t, ok)
		assert.Equal(t, "HS256", alg)

		assert.True(t, claims.Matches(tok.Payload(), claims.Object{
			"iss":   "https://issuer.example.com/",
			"sub":   "alice",
			"aud":   []any{"foo", "bar"},
			"admin": true,
		}))
	})

	t.Run("golang-jwt", func(t *testing.T) {
		signed, err := golangjwt.NewWithClaims(golangjwt.SigningMethodHS256, golangjwt.MapClaims{
			"sub":    "bob",
			"scopes": []string{"read", "write"},
			"exp":    1700000000,
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		tok, err := FromAuthHeader("Bearer " + signed)
		require.NoError(t, err)

		sub, ok := tok.Claim("sub")
		require.True(t, ok)
		assert.Equal(t, "bob", sub)

		_, ok = tok.Claim("missing")
		assert.False(t, ok)

		assert.True(t, claims.Matches(tok.Payload(), claims.Object{
			"scopes": []any{"read", "write"},
			"exp":    json.Number("1700000000"),
		}))
		assert.True(t, claims.Matches(tok.Header(), claims.Object{"typ": "JWT", "alg": "HS256"}))
	})
}
