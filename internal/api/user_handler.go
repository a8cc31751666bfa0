package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/mwhitlock/taskhub/internal/api/middleware"
	"github.com/mwhitlock/taskhub/internal/api/shared"
	"github.com/mwhitlock/taskhub/internal/platform/logger"
	"github.com/mwhitlock/taskhub/internal/redact"
	"github.com/mwhitlock/taskhub/internal/service/auth"
	"github.com/mwhitlock/taskhub/internal/service/avatar"
	"github.com/mwhitlock/taskhub/internal/service/user"
	"github.com/mwhitlock/taskhub/internal/store"
)

// updatableUserFields is the allow-list of profile fields a PATCH may touch.
// Any other key in the request body rejects the whole update.
var updatableUserFields = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// UserHandler handles profile, session, and avatar requests for the
// authenticated user.
type UserHandler struct {
	users    user.UserService
	sessions auth.SessionService
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(users user.UserService, sessions auth.SessionService) *UserHandler {
	return &UserHandler{
		users:    users,
		sessions: sessions,
	}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	account, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(account))
}

// UpdateMe handles PATCH /users/me. The body is decoded twice: once into a
// raw key map to reject unknown fields, then into the typed update payload.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(raw) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No updates provided")
		return
	}
	for key := range raw {
		if !updatableUserFields[key] {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid update field: "+key)
			return
		}
	}

	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Age      *int    `json:"age"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), userID, user.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(updated))
}

// DeleteMe handles DELETE /users/me. The account, its tasks, and its
// sessions are removed together.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	account, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.users.Remove(r.Context(), userID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(account))
}

// Logout handles POST /users/logout. It revokes exactly the token the
// request authenticated with. A failure of the session store is a server
// error, not an authentication failure: the caller already proved who they
// are.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}
	token, ok := middleware.GetAuthToken(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Session token not found")
		return
	}

	if err := h.sessions.Revoke(r.Context(), userID, token); err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to revoke session", "error", redact.Error(err), "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll handles POST /users/logoutAll, revoking every session the user
// holds.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.sessions.RevokeAll(r.Context(), userID); err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to revoke sessions", "error", redact.Error(err), "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadAvatar handles POST /users/me/avatar. The image arrives as the
// multipart form field "avatar" and is normalized before storage, so the
// stored bytes are always a 250x250 PNG.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := r.ParseMultipartForm(avatar.MaxBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing avatar file field")
		return
	}
	defer func() { _ = file.Close() }()

	// One byte past the limit is enough to detect an oversized upload
	// without buffering an unbounded body.
	data, err := io.ReadAll(io.LimitReader(file, avatar.MaxBytes+1))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Failed to read avatar file")
		return
	}

	processed, err := avatar.Process(header.Filename, data)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.users.SetAvatar(r.Context(), userID, processed); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// MyAvatar handles GET /users/me/avatar, serving the authenticated user's
// avatar.
func (h *UserHandler) MyAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}
	h.serveAvatar(w, r, userID)
}

// GetAvatar handles GET /users/{id}/avatar. Avatars are public and served as
// PNG bytes; a user without one is a 404.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}
	h.serveAvatar(w, r, id)
}

func (h *UserHandler) serveAvatar(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	data, err := h.users.Avatar(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrAvatarNotFound) || errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Avatar not found")
			return
		}
		HandleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to write avatar response", "error", err)
	}
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.users.ClearAvatar(r.Context(), userID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
