package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("row not found")
	err := &AppError{Code: "NOT_FOUND", Message: "review missing", Status: http.StatusNotFound, Err: inner}

	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "review missing")
	assert.Contains(t, err.Error(), "row not found")
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		sentinel   error
	}{
		{"not found", NotFound("review", "abc"), http.StatusNotFound, ErrNotFound},
		{"invalid input", InvalidInput("bad channel"), http.StatusBadRequest, ErrInvalidInput},
		{"conflict", Conflict("run active"), http.StatusConflict, ErrConflict},
		{"no eligible input", NoEligibleInput("NO_NEGATIVE_REVIEWS", "nothing to report"), http.StatusUnprocessableEntity, ErrNoEligibleInput},
		{"unavailable", Unavailable("classifier down"), http.StatusServiceUnavailable, ErrServiceUnavail},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			if tt.sentinel != nil {
				assert.True(t, errors.Is(tt.err, tt.sentinel))
			}
		})
	}
}

func TestNoEligibleInput_CarriesCode(t *testing.T) {
	err := NoEligibleInput("NO_CHANNEL_REVIEWS", "no reviews for channel")
	assert.Equal(t, "NO_CHANNEL_REVIEWS", err.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error wins", NotFound("review", "x"), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("outer: %w", Conflict("busy")), http.StatusConflict},
		{"sentinel not found", fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{"sentinel invalid", fmt.Errorf("x: %w", ErrInvalidInput), http.StatusBadRequest},
		{"sentinel no eligible input", fmt.Errorf("x: %w", ErrNoEligibleInput), http.StatusUnprocessableEntity},
		{"sentinel unavailable", fmt.Errorf("x: %w", ErrServiceUnavail), http.StatusServiceUnavailable},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	inner := ErrConflict
	wrapped := Wrap(inner, "start simulation")

	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.Contains(t, wrapped.Error(), "start simulation")
}
