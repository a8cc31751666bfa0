package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mwhitlock/taskhub/internal/api/shared"
	"github.com/mwhitlock/taskhub/internal/redact"
	"github.com/mwhitlock/taskhub/internal/service/auth"
	"github.com/mwhitlock/taskhub/internal/service/user"
	"github.com/mwhitlock/taskhub/internal/store"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	users    user.UserService
	sessions auth.SessionService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users user.UserService, sessions auth.SessionService) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
	}
}

// Register handles POST /users. It creates the account and immediately
// issues a session token, so a fresh registration is already logged in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	created, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		if MapErrorToStatusCode(err) == http.StatusBadRequest {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
			return
		}
		slog.Error("failed to create user",
			"error", redact.Error(err),
			"email", redact.String(req.Email))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := h.sessions.Issue(r.Context(), created.ID)
	if err != nil {
		slog.Error("failed to issue session token",
			"error", redact.Error(err),
			"user_id", created.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  userToResponse(created),
		Token: token,
	})
}

// Login handles POST /users/login. Unknown email and wrong password produce
// identical responses.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	account, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to authenticate user",
			"error", redact.Error(err),
			"email", redact.String(req.Email))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	token, err := h.sessions.Issue(r.Context(), account.ID)
	if err != nil {
		slog.Error("failed to issue session token",
			"error", redact.Error(err),
			"user_id", account.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  userToResponse(account),
		Token: token,
	})
}
