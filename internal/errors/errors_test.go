package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"teamboard/internal/auth"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   ErrorResponse
	}{
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Code: "MISSING_TOKEN"}},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Code: "TOKEN_EXPIRED"}},
		{"signature", auth.ErrSignatureMismatch, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Code: "SIGNATURE_MISMATCH"}},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden, ErrorResponse{Error: "Forbidden", Code: "FORBIDDEN"}},
		{"wrapped not found", fmt.Errorf("get task: %w", ErrTaskNotFound), http.StatusNotFound, ErrorResponse{Error: "task not found", Code: "TASK_NOT_FOUND"}},
		{"conflict", ErrUserAlreadyExists, http.StatusConflict, ErrorResponse{Error: "user already exists", Code: "USER_ALREADY_EXISTS"}},
		{"pending account", ErrAccountPending, http.StatusForbidden, ErrorResponse{Error: "account is pending approval", Code: "ACCOUNT_PENDING"}},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.body, httpErr.ToErrorResponse())
		})
	}
}
