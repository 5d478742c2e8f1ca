package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{Validation("bad", nil), CodeValidation, http.StatusBadRequest},
		{BadRequest("bad", nil), CodeBadRequest, http.StatusBadRequest},
		{NotFound("Parcel", nil), CodeNotFound, http.StatusNotFound},
		{Conflict("dup", nil), CodeConflict, http.StatusConflict},
		{Unauthorized("who", nil), CodeUnauthorized, http.StatusUnauthorized},
		{Forbidden("no", nil), CodeForbidden, http.StatusForbidden},
		{Unavailable("slow", nil), CodeUnavailable, http.StatusServiceUnavailable},
		{PaymentProcessing("card", nil), CodePaymentProcessing, http.StatusBadGateway},
		{TooManyRequests("slow down"), CodeTooManyRequests, http.StatusTooManyRequests},
		{Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}

	assert.Equal(t, "Parcel not found", NotFound("Parcel", nil).Message)
}

func TestIsAndCodeOf(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("save parcel: %w", Unavailable("Failed to save", cause))

	assert.True(t, Is(wrapped, CodeUnavailable))
	assert.False(t, Is(wrapped, CodeNotFound))
	assert.Equal(t, CodeUnavailable, CodeOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	assert.False(t, Is(cause, CodeInternal))
	assert.Equal(t, CodeInternal, CodeOf(cause))
	assert.Equal(t, CodeInternal, CodeOf(nil))
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "CONFLICT: taken", Conflict("taken", nil).Error())
	assert.Equal(t, "INTERNAL_ERROR: boom: disk full", Internal("boom", errors.New("disk full")).Error())
}
