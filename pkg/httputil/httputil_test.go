package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Yangluigie/Reto-Factus/pkg/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, MessageBody{Message: "done"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"done"}`, rec.Body.String())
}

func TestWriteRaw_RelaysBodyVerbatim(t *testing.T) {
	rec := httptest.NewRecorder()
	body := []byte(`{"id":"INV-1","status":"validated"}`)
	WriteRaw(rec, http.StatusCreated, body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, string(body), rec.Body.String())
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login/", nil)

	WriteError(rec, req, apperrors.Unauthorized("invalid username or password"), discardLogger())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid username or password", body.Error)
}

func TestWriteError_ProviderAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/authenticate/", nil)

	cause := errors.New("oauth/token returned status 500")
	WriteError(rec, req, apperrors.ProviderAuth(cause), discardLogger())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "oauth/token returned status 500")
}

func TestWriteError_UnknownErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/create-invoice/", nil)

	WriteError(rec, req, errors.New("pool exhausted: secret dsn"), discardLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret dsn")
}
