package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/abundance/pkg/errors"
	"github.com/utafrali/abundance/pkg/logger"
	"github.com/utafrali/abundance/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWriteData_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusOK, map[string]int{"item_count": 3})

	assert.JSONEq(t, `{"data":{"item_count":3}}`, rec.Body.String())
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/basket", nil)
	req = req.WithContext(logger.WithCorrelationID(req.Context(), "corr-1"))

	WriteError(rec, req, apperrors.InvalidInput("quantity must be at least 1"), logger.Discard())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Equal(t, "quantity must be at least 1", resp.Error.Message)
	assert.Equal(t, "corr-1", resp.Error.RequestID)
}

func TestWriteError_WrappedSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("load: %w", apperrors.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", fmt.Errorf("save: %w", apperrors.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"unavailable", fmt.Errorf("submit: %w", apperrors.ErrServiceUnavail), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			WriteError(rec, req, tt.err, logger.Discard())

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestWriteValidationError_FieldErrors(t *testing.T) {
	type input struct {
		Email string `json:"email" validate:"required,email"`
	}
	err := validator.Validate(input{Email: "nope"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "email")
}

func TestWriteValidationError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("bad body"))

	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Equal(t, "bad body", resp.Error.Message)
}
