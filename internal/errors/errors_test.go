package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namevetter/namevetter/internal/core"
	"github.com/namevetter/namevetter/internal/server/middleware"
)

func TestHTTPStatusFromCode(t *testing.T) {
	cases := map[string]int{
		CodeInvalidInput:       http.StatusBadRequest,
		"VALIDATION_FAILED":    http.StatusBadRequest,
		CodeNotFound:           http.StatusNotFound,
		CodeMethodNotAllowed:   http.StatusMethodNotAllowed,
		CodeTimeout:            http.StatusGatewayTimeout,
		CodeServiceUnavailable: http.StatusServiceUnavailable,
		CodeInternal:           http.StatusInternalServerError,
		CodeConfigInvalid:      http.StatusInternalServerError,
		"SOMETHING_ELSE":       http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatusFromCode(code), code)
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromEnvelope(nil))
}

func TestEnsureEnvelopeInvalidInput(t *testing.T) {
	_, err := core.NormalizeHandle("!!!")
	require.Error(t, err)

	env := EnsureEnvelope(fmt.Errorf("check: %w", err))
	assert.Equal(t, CodeInvalidInput, env.Code)
	assert.Equal(t, "Name must contain alphanumeric characters", env.Message)
	assert.Equal(t, "name", env.Context["field"])
}

func TestEnsureEnvelopeFallbacks(t *testing.T) {
	assert.Equal(t, CodeInternal, EnsureEnvelope(nil).Code)
	assert.Equal(t, CodeTimeout, EnsureEnvelope(context.DeadlineExceeded).Code)

	env := EnsureEnvelope(fmt.Errorf("boom"))
	assert.Equal(t, CodeInternal, env.Code)
	assert.Equal(t, "boom", env.Context["wrapped_error"])

	original := NewNotFoundError("missing")
	assert.Same(t, original, EnsureEnvelope(original))
}

func TestRespondWithErrorWritesFlatBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/check", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDContextKey, "req-123"))
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, core.NewInvalidInput("name", "Name is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Name is required", body["error"])
	assert.Equal(t, CodeInvalidInput, body["code"])
	assert.Equal(t, "req-123", body["request_id"])
}

func TestRespondWithEnvelopeFallbackCorrelation(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithEnvelope(rec, nil, NewServiceUnavailableError("metrics exporter not initialized"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, CodeServiceUnavailable, body.Code)
	assert.Contains(t, body.RequestID, "fallback-")
}

func TestWrapCarriesRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.RequestIDContextKey, "abc")
	env := WrapInternal(ctx, fmt.Errorf("db down"), "failed")
	assert.Equal(t, "abc", env.CorrelationID)
	assert.Equal(t, "db down", env.Context["wrapped_error"])

	env = WrapTimeout(context.Background(), context.DeadlineExceeded, "too slow")
	assert.NotEmpty(t, env.CorrelationID)
	assert.Equal(t, CodeTimeout, env.Code)
}
