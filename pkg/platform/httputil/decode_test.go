package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "formdetect/pkg/domain-errors"
)

// formPayload mirrors the submission body shape used by the detect endpoint.
type formPayload map[string]string

// registerRequest implements Normalizable and Validatable.
type registerRequest struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

func (r *registerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *registerRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestDecodeJSON(t *testing.T) {
	logger := testLogger()
	ctx := context.Background()

	t.Run("successful decode into map", func(t *testing.T) {
		body := `{"date":"11.08.1997","text":"hello"}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[formPayload](w, req, logger, ctx, "test-request-id")

		require.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, "11.08.1997", (*result)["date"])
		assert.Equal(t, "hello", (*result)["text"])
	})

	t.Run("invalid JSON returns 400 error envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{invalid`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[formPayload](w, req, logger, ctx, "test-request-id")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Contains(t, errResp.Error, "invalid request body")
	})

	t.Run("non-object body returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`"just a string"`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[formPayload](w, req, logger, ctx, "test-request-id")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-string field value returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"age": 42}`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[formPayload](w, req, logger, ctx, "test-request-id")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := testLogger()
	ctx := context.Background()

	t.Run("normalize runs before validate", func(t *testing.T) {
		body := `{"name":"  MyForm  ","fields":{"email":"d@a.w"}}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[registerRequest](w, req, logger, ctx, "test-request-id")

		require.True(t, ok)
		assert.Equal(t, "MyForm", result.Name)
	})

	t.Run("validation failure preserves domain code", func(t *testing.T) {
		body := `{"name":"","fields":{}}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[registerRequest](w, req, logger, ctx, "test-request-id")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWriteError(t *testing.T) {
	t.Run("maps domain codes to statuses", func(t *testing.T) {
		cases := []struct {
			code   dErrors.Code
			status int
		}{
			{dErrors.CodeNotFound, http.StatusNotFound},
			{dErrors.CodeBadRequest, http.StatusBadRequest},
			{dErrors.CodeValidation, http.StatusBadRequest},
			{dErrors.CodeConflict, http.StatusConflict},
			{dErrors.CodeUnavailable, http.StatusServiceUnavailable},
			{dErrors.CodeInternal, http.StatusInternalServerError},
		}
		for _, tc := range cases {
			w := httptest.NewRecorder()
			WriteError(w, dErrors.New(tc.code, "boom"))
			assert.Equal(t, tc.status, w.Code, "code %s", tc.code)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Equal(t, "boom", errResp.Error)
		}
	})

	t.Run("plain errors become 500 without leaking details", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("sensitive internals"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, "internal_error", errResp.Error)
	})
}
