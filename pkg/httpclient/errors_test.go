package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/abundance/pkg/errors"
)

func makeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_StructuredBody(t *testing.T) {
	resp := makeResponse(http.StatusBadRequest, `{"error":{"code":"INVALID_INPUT","message":"email is required"}}`)

	err := ParseResponseError(resp, "order-intake")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "order-intake: email is required")
}

func TestParseResponseError_Mapping(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusNotFound, apperrors.ErrNotFound},
		{http.StatusUnprocessableEntity, apperrors.ErrInvalidInput},
		{http.StatusConflict, apperrors.ErrConflict},
		{http.StatusUnauthorized, apperrors.ErrUnauthorized},
		{http.StatusForbidden, apperrors.ErrUnauthorized},
		{http.StatusBadGateway, apperrors.ErrServiceUnavail},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := ParseResponseError(makeResponse(tt.status, "plain text"), "order-intake")
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestParseResponseError_UnknownStatus(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusTeapot, "short and stout"), "order-intake")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DOWNSTREAM_ERROR", appErr.Code)
	assert.Equal(t, http.StatusTeapot, appErr.Status)
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(http.StatusOK))
	assert.True(t, IsSuccess(http.StatusAccepted))
	assert.False(t, IsSuccess(http.StatusMultipleChoices))
	assert.False(t, IsSuccess(http.StatusBadRequest))
}
