package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrInternal,
		ErrConflict, ErrCorrupt, ErrServiceUnavail,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("redis connection lost")
	appErr := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: inner}
	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.Contains(t, appErr.Error(), "something broke")
	assert.Contains(t, appErr.Error(), "redis connection lost")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "basket not found"}
	assert.Equal(t, "NOT_FOUND: basket not found", appErr.Error())
}

func TestAppError_Unwrap_Nil(t *testing.T) {
	appErr := &AppError{Code: "TEST", Message: "test"}
	assert.Nil(t, appErr.Unwrap())
}

// --- Constructor functions ---

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("price must not be negative")
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCorrupt_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := Corrupt("basket", cause)

	assert.Equal(t, "CORRUPT_DATA", err.Code)
	assert.True(t, errors.Is(err, ErrCorrupt))
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
}

func TestCorrupt_NilCause(t *testing.T) {
	err := Corrupt("basket", nil)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestUnavailable(t *testing.T) {
	err := Unavailable("order intake rejected the order", fmt.Errorf("503"))
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.True(t, errors.Is(err, ErrServiceUnavail))
}

// --- HTTPStatus ---

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", InvalidInput("x"), http.StatusBadRequest},
		{"wrapped app error", fmt.Errorf("ctx: %w", Unavailable("order intake", nil)), http.StatusServiceUnavailable},
		{"sentinel not found", ErrNotFound, http.StatusNotFound},
		{"sentinel conflict", fmt.Errorf("save: %w", ErrConflict), http.StatusConflict},
		{"sentinel unavailable", ErrServiceUnavail, http.StatusServiceUnavailable},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "load basket")
	assert.Equal(t, "load basket: resource not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}
