package jwtginhandler

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtmatcher "github.com/masonm/jwt-matcher"
	"github.com/masonm/jwt-matcher/core"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testToken(header, payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + ".sig"
}

func TestNewGinMiddleware(t *testing.T) {
	params := jwtmatcher.Parameters{
		Header:         map[string]any{"kid": "key-1"},
		QueryParameter: ptr("access_token"),
	}

	testCases := []struct {
		name       string
		key        string
		opts       []Option
		query      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "matching token in query parameter",
			query:      "?access_token=" + testToken(`{"kid":"key-1"}`, `{"sub":"alice"}`),
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "header claim mismatch",
			query:      "?access_token=" + testToken(`{"kid":"key-2"}`, `{"sub":"alice"}`),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"Request did not match."}`,
		},
		{
			name:       "malformed token",
			query:      "?access_token=garbage",
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"Request did not match."}`,
		},
		{
			name: "custom no-match handler",
			opts: []Option{WithNoMatchHandler(func(c *gin.Context, err error) {
				c.String(http.StatusTeapot, core.Reason(err))
			})},
			query:      "?access_token=garbage",
			wantStatus: http.StatusTeapot,
			wantBody:   core.ReasonTokenMalformed,
		},
		{
			name:       "custom context key",
			key:        "token",
			opts:       []Option{WithContextKey("token")},
			query:      "?access_token=" + testToken(`{"kid":"key-1"}`, `{"sub":"carol"}`),
			wantStatus: http.StatusOK,
			wantBody:   "carol",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			matcher, err := jwtmatcher.New()
			require.NoError(t, err)

			mw, err := NewGinMiddleware(matcher, params, testCase.opts...)
			require.NoError(t, err)

			router := gin.New()
			router.Use(mw)
			router.GET("/orders", func(c *gin.Context) {
				tok, err := GetToken(c, testCase.key)
				if err != nil {
					c.String(http.StatusInternalServerError, err.Error())
					return
				}
				sub, _ := tok.Claim("sub")
				c.String(http.StatusOK, "%s", sub)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders"+testCase.query, nil))

			assert.Equal(t, testCase.wantStatus, rec.Code)
			assert.Equal(t, testCase.wantBody, rec.Body.String())
		})
	}
}

func TestGetToken_Errors(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetToken(c, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	c.Set(DefaultTokenKey, "not a token")
	_, err = GetToken(c, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewGinMiddleware_InvalidArguments(t *testing.T) {
	_, err := NewGinMiddleware(nil, jwtmatcher.Parameters{})
	assert.Error(t, err)

	matcher, err := jwtmatcher.New()
	require.NoError(t, err)

	_, err = NewGinMiddleware(matcher, jwtmatcher.Parameters{Payload: map[string]any{}, QueryParameter: ptr("")})
	assert.ErrorIs(t, err, jwtmatcher.ErrEmptyLocationName)
}

func ptr(s string) *string { return &s }
