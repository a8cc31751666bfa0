package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/domain"
	"github.com/mwhitlock/taskhub/internal/service/user"
)

// MockUserService implements user.UserService for testing.
type MockUserService struct {
	// Function fields for customizable behavior
	RegisterFn      func(ctx context.Context, name, email, password string, age int) (*domain.User, error)
	AuthenticateFn  func(ctx context.Context, email, password string) (*domain.User, error)
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfileFn func(ctx context.Context, id uuid.UUID, in user.UpdateInput) (*domain.User, error)
	RemoveFn        func(ctx context.Context, id uuid.UUID) error
	SetAvatarFn     func(ctx context.Context, id uuid.UUID, avatar []byte) error
	AvatarFn        func(ctx context.Context, id uuid.UUID) ([]byte, error)
	ClearAvatarFn   func(ctx context.Context, id uuid.UUID) error

	// Default response values
	User *domain.User
	Err  error
}

var _ user.UserService = (*MockUserService)(nil)

// Register implements the user.UserService interface.
func (m *MockUserService) Register(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, name, email, password, age)
	}
	return m.User, m.Err
}

// Authenticate implements the user.UserService interface.
func (m *MockUserService) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return m.User, m.Err
}

// GetByID implements the user.UserService interface.
func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.User, m.Err
}

// UpdateProfile implements the user.UserService interface.
func (m *MockUserService) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	in user.UpdateInput,
) (*domain.User, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, id, in)
	}
	return m.User, m.Err
}

// Remove implements the user.UserService interface.
func (m *MockUserService) Remove(ctx context.Context, id uuid.UUID) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, id)
	}
	return m.Err
}

// SetAvatar implements the user.UserService interface.
func (m *MockUserService) SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	if m.SetAvatarFn != nil {
		return m.SetAvatarFn(ctx, id, avatar)
	}
	return m.Err
}

// Avatar implements the user.UserService interface.
func (m *MockUserService) Avatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if m.AvatarFn != nil {
		return m.AvatarFn(ctx, id)
	}
	if m.User != nil && len(m.User.Avatar) > 0 {
		return m.User.Avatar, m.Err
	}
	return nil, m.Err
}

// ClearAvatar implements the user.UserService interface.
func (m *MockUserService) ClearAvatar(ctx context.Context, id uuid.UUID) error {
	if m.ClearAvatarFn != nil {
		return m.ClearAvatarFn(ctx, id)
	}
	return m.Err
}
