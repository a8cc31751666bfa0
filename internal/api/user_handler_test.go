package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitlock/taskhub/internal/api/shared"
	"github.com/mwhitlock/taskhub/internal/domain"
	"github.com/mwhitlock/taskhub/internal/mocks"
	"github.com/mwhitlock/taskhub/internal/service/user"
	"github.com/mwhitlock/taskhub/internal/store"
)

func testAccount() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Name:           "Mila",
		Email:          "mila@example.com",
		Age:            30,
		HashedPassword: "hashed",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

// authedRequest builds a request carrying the context values the auth
// middleware would have set.
func authedRequest(method, target string, body []byte, userID uuid.UUID, token string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	if token != "" {
		ctx = context.WithValue(ctx, shared.AuthTokenContextKey, token)
	}
	return req.WithContext(ctx)
}

func TestMe(t *testing.T) {
	t.Parallel()

	account := testAccount()
	handler := NewUserHandler(&mocks.MockUserService{User: account}, &mocks.MockSessionService{})

	req := authedRequest(http.MethodGet, "/users/me", nil, account.ID, "tok")
	w := httptest.NewRecorder()
	handler.Me(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, account.ID, resp.ID)
	assert.Equal(t, "mila@example.com", resp.Email)
	assert.NotContains(t, w.Body.String(), "hashed")
}

func TestMeWithoutAuthContext(t *testing.T) {
	t.Parallel()

	handler := NewUserHandler(&mocks.MockUserService{}, &mocks.MockSessionService{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()
	handler.Me(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateMe(t *testing.T) {
	t.Parallel()

	account := testAccount()

	tests := []struct {
		name       string
		payload    string
		wantStatus int
		wantInput  func(t *testing.T, in user.UpdateInput)
	}{
		{
			name:       "update name and age",
			payload:    `{"name":"Milena","age":31}`,
			wantStatus: http.StatusOK,
			wantInput: func(t *testing.T, in user.UpdateInput) {
				require.NotNil(t, in.Name)
				assert.Equal(t, "Milena", *in.Name)
				require.NotNil(t, in.Age)
				assert.Equal(t, 31, *in.Age)
				assert.Nil(t, in.Email)
				assert.Nil(t, in.Password)
			},
		},
		{
			name:       "update password",
			payload:    `{"password":"n3wsecret"}`,
			wantStatus: http.StatusOK,
			wantInput: func(t *testing.T, in user.UpdateInput) {
				require.NotNil(t, in.Password)
				assert.Equal(t, "n3wsecret", *in.Password)
			},
		},
		{
			name:       "unknown field rejected",
			payload:    `{"name":"Milena","role":"admin"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "immutable field rejected",
			payload:    `{"id":"` + uuid.NewString() + `"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty body rejected",
			payload:    `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body rejected",
			payload:    `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotInput user.UpdateInput
			users := &mocks.MockUserService{
				UpdateProfileFn: func(_ context.Context, _ uuid.UUID, in user.UpdateInput) (*domain.User, error) {
					gotInput = in
					return account, nil
				},
			}
			handler := NewUserHandler(users, &mocks.MockSessionService{})

			req := authedRequest(http.MethodPatch, "/users/me", []byte(tc.payload), account.ID, "tok")
			w := httptest.NewRecorder()
			handler.UpdateMe(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantInput != nil {
				tc.wantInput(t, gotInput)
			}
		})
	}
}

func TestDeleteMe(t *testing.T) {
	t.Parallel()

	account := testAccount()
	removed := false
	users := &mocks.MockUserService{
		User: account,
		RemoveFn: func(_ context.Context, id uuid.UUID) error {
			assert.Equal(t, account.ID, id)
			removed = true
			return nil
		},
	}
	handler := NewUserHandler(users, &mocks.MockSessionService{})

	req := authedRequest(http.MethodDelete, "/users/me", nil, account.ID, "tok")
	w := httptest.NewRecorder()
	handler.DeleteMe(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, removed)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, account.ID, resp.ID)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	account := testAccount()

	t.Run("revokes the presented token", func(t *testing.T) {
		var revokedToken string
		sessions := &mocks.MockSessionService{
			RevokeFn: func(_ context.Context, _ uuid.UUID, token string) error {
				revokedToken = token
				return nil
			},
		}
		handler := NewUserHandler(&mocks.MockUserService{User: account}, sessions)

		req := authedRequest(http.MethodPost, "/users/logout", nil, account.ID, "current-token")
		w := httptest.NewRecorder()
		handler.Logout(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "current-token", revokedToken)
	})

	// A session-store failure during logout is a server fault. The caller
	// already authenticated, so answering 401 here would be a lie.
	t.Run("storage failure is a server error", func(t *testing.T) {
		sessions := &mocks.MockSessionService{
			RevokeFn: func(_ context.Context, _ uuid.UUID, _ string) error {
				return errors.New("pq: connection refused")
			},
		}
		handler := NewUserHandler(&mocks.MockUserService{User: account}, sessions)

		req := authedRequest(http.MethodPost, "/users/logout", nil, account.ID, "current-token")
		w := httptest.NewRecorder()
		handler.Logout(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}

func TestLogoutAll(t *testing.T) {
	t.Parallel()

	account := testAccount()

	t.Run("revokes every session", func(t *testing.T) {
		var revokedUser uuid.UUID
		sessions := &mocks.MockSessionService{
			RevokeAllFn: func(_ context.Context, id uuid.UUID) error {
				revokedUser = id
				return nil
			},
		}
		handler := NewUserHandler(&mocks.MockUserService{User: account}, sessions)

		req := authedRequest(http.MethodPost, "/users/logoutAll", nil, account.ID, "tok")
		w := httptest.NewRecorder()
		handler.LogoutAll(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, account.ID, revokedUser)
	})

	t.Run("storage failure is a server error", func(t *testing.T) {
		sessions := &mocks.MockSessionService{Err: errors.New("connection reset")}
		handler := NewUserHandler(&mocks.MockUserService{User: account}, sessions)

		req := authedRequest(http.MethodPost, "/users/logoutAll", nil, account.ID, "tok")
		w := httptest.NewRecorder()
		handler.LogoutAll(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// encodeTestPNG renders a small solid image as PNG bytes.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartAvatar builds a multipart body with the given file under the
// "avatar" form field.
func multipartAvatar(t *testing.T, fieldName, filename string, data []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf.Bytes(), writer.FormDataContentType()
}

func TestUploadAvatar(t *testing.T) {
	t.Parallel()

	account := testAccount()

	t.Run("stores a normalized image", func(t *testing.T) {
		var stored []byte
		users := &mocks.MockUserService{
			User: account,
			SetAvatarFn: func(_ context.Context, id uuid.UUID, data []byte) error {
				assert.Equal(t, account.ID, id)
				stored = data
				return nil
			},
		}
		handler := NewUserHandler(users, &mocks.MockSessionService{})

		body, contentType := multipartAvatar(t, "avatar", "photo.png", encodeTestPNG(t, 512, 384))
		req := authedRequest(http.MethodPost, "/users/me/avatar", body, account.ID, "tok")
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		handler.UploadAvatar(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, stored)

		img, format, err := image.Decode(bytes.NewReader(stored))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 250, img.Bounds().Dx())
		assert.Equal(t, 250, img.Bounds().Dy())
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		handler := NewUserHandler(&mocks.MockUserService{User: account}, &mocks.MockSessionService{})

		body, contentType := multipartAvatar(t, "avatar", "photo.gif", encodeTestPNG(t, 10, 10))
		req := authedRequest(http.MethodPost, "/users/me/avatar", body, account.ID, "tok")
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		handler.UploadAvatar(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing file field", func(t *testing.T) {
		handler := NewUserHandler(&mocks.MockUserService{User: account}, &mocks.MockSessionService{})

		body, contentType := multipartAvatar(t, "picture", "photo.png", encodeTestPNG(t, 10, 10))
		req := authedRequest(http.MethodPost, "/users/me/avatar", body, account.ID, "tok")
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		handler.UploadAvatar(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetAvatar(t *testing.T) {
	t.Parallel()

	account := testAccount()
	avatarBytes := encodeTestPNG(t, 250, 250)

	t.Run("serves the stored image", func(t *testing.T) {
		users := &mocks.MockUserService{
			AvatarFn: func(_ context.Context, id uuid.UUID) ([]byte, error) {
				assert.Equal(t, account.ID, id)
				return avatarBytes, nil
			},
		}
		handler := NewUserHandler(users, &mocks.MockSessionService{})

		req := httptest.NewRequest(http.MethodGet, "/users/"+account.ID.String()+"/avatar", nil)
		req = withChiURLParam(req, "id", account.ID.String())
		w := httptest.NewRecorder()
		handler.GetAvatar(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, avatarBytes, w.Body.Bytes())
	})

	t.Run("missing avatar is a 404", func(t *testing.T) {
		users := &mocks.MockUserService{Err: store.ErrAvatarNotFound}
		handler := NewUserHandler(users, &mocks.MockSessionService{})

		req := httptest.NewRequest(http.MethodGet, "/users/"+account.ID.String()+"/avatar", nil)
		req = withChiURLParam(req, "id", account.ID.String())
		w := httptest.NewRecorder()
		handler.GetAvatar(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown user is a 404", func(t *testing.T) {
		users := &mocks.MockUserService{Err: store.ErrUserNotFound}
		handler := NewUserHandler(users, &mocks.MockSessionService{})

		req := httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString()+"/avatar", nil)
		req = withChiURLParam(req, "id", uuid.NewString())
		w := httptest.NewRecorder()
		handler.GetAvatar(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("own avatar via me route", func(t *testing.T) {
		users := &mocks.MockUserService{
			AvatarFn: func(_ context.Context, id uuid.UUID) ([]byte, error) {
				assert.Equal(t, account.ID, id)
				return avatarBytes, nil
			},
		}
		handler := NewUserHandler(users, &mocks.MockSessionService{})

		req := authedRequest(http.MethodGet, "/users/me/avatar", nil, account.ID, "tok")
		w := httptest.NewRecorder()
		handler.MyAvatar(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		handler := NewUserHandler(&mocks.MockUserService{}, &mocks.MockSessionService{})

		req := httptest.NewRequest(http.MethodGet, "/users/not-a-uuid/avatar", nil)
		req = withChiURLParam(req, "id", "not-a-uuid")
		w := httptest.NewRecorder()
		handler.GetAvatar(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteAvatar(t *testing.T) {
	t.Parallel()

	account := testAccount()
	cleared := false
	users := &mocks.MockUserService{
		ClearAvatarFn: func(_ context.Context, id uuid.UUID) error {
			assert.Equal(t, account.ID, id)
			cleared = true
			return nil
		},
	}
	handler := NewUserHandler(users, &mocks.MockSessionService{})

	req := authedRequest(http.MethodDelete, "/users/me/avatar", nil, account.ID, "tok")
	w := httptest.NewRecorder()
	handler.DeleteAvatar(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, cleared)
}
