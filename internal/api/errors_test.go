package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/mbarlow/tasktrack/internal/domain"
	"github.com/mbarlow/tasktrack/internal/service/auth"
	"github.com/mbarlow/tasktrack/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid_token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired_token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"wrong_token_type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"task_not_found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user_not_found", store.ErrUserNotFound, http.StatusNotFound},
		{"username_exists", store.ErrUsernameExists, http.StatusConflict},
		{"invalid_entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"empty_task_title", domain.ErrEmptyTaskTitle, http.StatusBadRequest},
		{"validation_error", domain.NewValidationError("id", "must be a positive integer", domain.ErrInvalidID), http.StatusBadRequest},
		{"unknown_error", errors.New("connection refused"), http.StatusInternalServerError},
		{"wrapped_not_found", fmt.Errorf("fetching task: %w", store.ErrTaskNotFound), http.StatusNotFound},
		{"wrapped_duplicate", fmt.Errorf("inserting user: %w", store.ErrUsernameExists), http.StatusConflict},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil_error", nil, "An unexpected error occurred"},
		{"expired_token", auth.ErrExpiredToken, "Invalid token"},
		{"expired_refresh_token", auth.ErrExpiredRefreshToken, "Invalid refresh token"},
		{"unauthorized", domain.ErrUnauthorized, "Authentication required"},
		{"task_not_found", store.ErrTaskNotFound, "Task not found"},
		{"user_not_found", store.ErrUserNotFound, "User not found"},
		{"username_exists", store.ErrUsernameExists, "Username already exists"},
		{"internal_details_hidden", errors.New("pq: connection to postgres://u:p@db failed"), "An unexpected error occurred"},
		{"wrapped_task_not_found", fmt.Errorf("completing task: %w", store.ErrTaskNotFound), "Task not found"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}

	t.Run("domain_validation_message_passed_through", func(t *testing.T) {
		t.Parallel()

		err := domain.NewValidationError("id", "must be a positive integer", domain.ErrInvalidID)
		assert.Equal(t, err.Error(), GetSafeErrorMessage(err))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	validate := validator.New()

	t.Run("required_field", func(t *testing.T) {
		t.Parallel()

		err := validate.Struct(RegisterRequest{Password: "s3cret"})
		assert.Equal(t, "Invalid Username: required field", SanitizeValidationError(err))
	})

	t.Run("max_length", func(t *testing.T) {
		t.Parallel()

		long := make([]byte, 80)
		for i := range long {
			long[i] = 'a'
		}
		err := validate.Struct(RegisterRequest{Username: string(long), Password: "s3cret"})
		assert.Equal(t, "Invalid Username: too long", SanitizeValidationError(err))
	})

	t.Run("non_validator_error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
	})
}
