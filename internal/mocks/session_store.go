package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/store"
)

// MockSessionStore implements store.SessionStore for testing.
type MockSessionStore struct {
	// Function fields for customizable behavior
	AddFn       func(ctx context.Context, userID uuid.UUID, tokenDigest string) error
	RemoveFn    func(ctx context.Context, userID uuid.UUID, tokenDigest string) error
	RemoveAllFn func(ctx context.Context, userID uuid.UUID) (int64, error)
	ExistsFn    func(ctx context.Context, userID uuid.UUID, tokenDigest string) (bool, error)

	// Data for the default implementation.
	Sessions map[uuid.UUID]map[string]bool
}

var _ store.SessionStore = (*MockSessionStore)(nil)

// NewMockSessionStore creates a new mock store with initialized defaults.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		Sessions: make(map[uuid.UUID]map[string]bool),
	}
}

// Add implements the SessionStore interface.
func (m *MockSessionStore) Add(ctx context.Context, userID uuid.UUID, tokenDigest string) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, tokenDigest)
	}

	if m.Sessions[userID] == nil {
		m.Sessions[userID] = make(map[string]bool)
	}
	m.Sessions[userID][tokenDigest] = true
	return nil
}

// Remove implements the SessionStore interface.
func (m *MockSessionStore) Remove(
	ctx context.Context,
	userID uuid.UUID,
	tokenDigest string,
) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, userID, tokenDigest)
	}

	if !m.Sessions[userID][tokenDigest] {
		return store.ErrSessionNotFound
	}
	delete(m.Sessions[userID], tokenDigest)
	return nil
}

// RemoveAll implements the SessionStore interface.
func (m *MockSessionStore) RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.RemoveAllFn != nil {
		return m.RemoveAllFn(ctx, userID)
	}

	removed := int64(len(m.Sessions[userID]))
	delete(m.Sessions, userID)
	return removed, nil
}

// Exists implements the SessionStore interface.
func (m *MockSessionStore) Exists(
	ctx context.Context,
	userID uuid.UUID,
	tokenDigest string,
) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, userID, tokenDigest)
	}

	return m.Sessions[userID][tokenDigest], nil
}

// WithTx implements the SessionStore interface.
func (m *MockSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return m
}
