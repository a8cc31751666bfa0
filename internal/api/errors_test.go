package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwhitlock/taskhub/internal/domain"
	"github.com/mwhitlock/taskhub/internal/service/auth"
	"github.com/mwhitlock/taskhub/internal/service/avatar"
	"github.com/mwhitlock/taskhub/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"avatar not found", store.ErrAvatarNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"password too short", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"password denied", domain.ErrPasswordDenied, http.StatusBadRequest},
		{"invalid age", domain.ErrInvalidAge, http.StatusBadRequest},
		{"empty description", domain.ErrEmptyDescription, http.StatusBadRequest},
		{"avatar too large", avatar.ErrTooLarge, http.StatusBadRequest},
		{"avatar bad format", avatar.ErrUnsupportedFormat, http.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("saving: %w", store.ErrTaskNotFound), http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	// Internal details must never surface in user-facing messages.
	leaky := errors.New("pq: duplicate key violates constraint users_email_key on relation users")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(leaky))

	assert.Equal(t, "Email already exists", GetSafeErrorMessage(store.ErrEmailExists))
	assert.Equal(t, "Invalid credentials", GetSafeErrorMessage(auth.ErrInvalidCredentials))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(fmt.Errorf("load: %w", store.ErrTaskNotFound)))

	// Domain validation messages are user-facing and pass through.
	assert.Equal(t, domain.ErrPasswordDenied.Error(), GetSafeErrorMessage(domain.ErrPasswordDenied))

	// Constraint violations wrap driver detail; the client gets a fixed
	// message.
	fkViolation := fmt.Errorf("%w: foreign key violation (tasks_owner_id_fkey): pq detail", store.ErrInvalidEntity)
	assert.Equal(t, "Invalid entity data", GetSafeErrorMessage(fkViolation))
	assert.NotContains(t, GetSafeErrorMessage(fkViolation), "tasks_owner_id_fkey")
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'RegisterRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
	)
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
