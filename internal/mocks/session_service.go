package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/service/auth"
)

// MockSessionService implements auth.SessionService for testing.
type MockSessionService struct {
	// Function fields for customizable behavior
	IssueFn     func(ctx context.Context, userID uuid.UUID) (string, error)
	RevokeFn    func(ctx context.Context, userID uuid.UUID, token string) error
	RevokeAllFn func(ctx context.Context, userID uuid.UUID) error
	ResolveFn   func(ctx context.Context, token string) (uuid.UUID, error)

	// Default response values
	Token  string
	UserID uuid.UUID
	Err    error
}

var _ auth.SessionService = (*MockSessionService)(nil)

// Issue implements the auth.SessionService interface.
func (m *MockSessionService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, userID)
	}
	return m.Token, m.Err
}

// Revoke implements the auth.SessionService interface.
func (m *MockSessionService) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, userID, token)
	}
	return m.Err
}

// RevokeAll implements the auth.SessionService interface.
func (m *MockSessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if m.RevokeAllFn != nil {
		return m.RevokeAllFn(ctx, userID)
	}
	return m.Err
}

// Resolve implements the auth.SessionService interface.
func (m *MockSessionService) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, token)
	}
	return m.UserID, m.Err
}
