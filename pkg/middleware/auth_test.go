package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okValidator(t *testing.T, wantToken string) SessionValidator {
	t.Helper()
	return func(_ context.Context, token string) (*Session, error) {
		if token != wantToken {
			return nil, errors.New("unknown token")
		}
		return &Session{UserID: "user-1", Token: token}, nil
	}
}

func protected(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-1", UserIDFromContext(r.Context()))
		assert.Equal(t, "tok-abc", SessionTokenFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	h := Auth(okValidator(t, "tok-abc"))(protected(t))

	req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	req.Header.Set("Authorization", "Bearer tok-abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingHeader(t *testing.T) {
	called := false
	h := Auth(okValidator(t, "tok-abc"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "handler must not run without authentication")
	assert.Contains(t, rec.Body.String(), "missing authorization header")
}

func TestAuth_MalformedHeader(t *testing.T) {
	h := Auth(okValidator(t, "tok-abc"))(protected(t))

	for _, header := range []string{"tok-abc", "Basic dXNlcg==", "Bearer"} {
		req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuth_UnknownToken(t *testing.T) {
	h := Auth(okValidator(t, "tok-abc"))(protected(t))

	req := httptest.NewRequest(http.MethodPost, "/create-invoice/", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired session token")
}

func TestContextAccessors_Empty(t *testing.T) {
	assert.Equal(t, "", UserIDFromContext(context.Background()))
	assert.Equal(t, "", SessionTokenFromContext(context.Background()))
}
