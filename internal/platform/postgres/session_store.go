package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/platform/logger"
	"github.com/mwhitlock/taskhub/internal/store"
)

// SessionStore implements store.SessionStore using a PostgreSQL database.
// Each row is one currently-valid session token digest for a user.
type SessionStore struct {
	db store.DBTX
}

// NewSessionStore creates a PostgreSQL implementation of store.SessionStore.
func NewSessionStore(db store.DBTX) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &SessionStore{db: db}
}

var _ store.SessionStore = (*SessionStore)(nil)

// Add implements store.SessionStore.Add.
func (s *SessionStore) Add(ctx context.Context, userID uuid.UUID, tokenDigest string) error {
	query := `
		INSERT INTO sessions (user_id, token_digest, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, token_digest) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, userID, tokenDigest)
	if err != nil {
		logger.FromContext(ctx).Error("failed to add session",
			"error", err, "user_id", userID)
		return MapError(err)
	}

	return nil
}

// Remove implements store.SessionStore.Remove.
func (s *SessionStore) Remove(ctx context.Context, userID uuid.UUID, tokenDigest string) error {
	query := `DELETE FROM sessions WHERE user_id = $1 AND token_digest = $2`

	result, err := s.db.ExecContext(ctx, query, userID, tokenDigest)
	if err != nil {
		logger.FromContext(ctx).Error("failed to remove session",
			"error", err, "user_id", userID)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrSessionNotFound)
}

// RemoveAll implements store.SessionStore.RemoveAll.
func (s *SessionStore) RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to remove all sessions",
			"error", err, "user_id", userID)
		return 0, MapError(err)
	}

	return result.RowsAffected()
}

// Exists implements store.SessionStore.Exists.
func (s *SessionStore) Exists(
	ctx context.Context,
	userID uuid.UUID,
	tokenDigest string,
) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM sessions WHERE user_id = $1 AND token_digest = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, tokenDigest).Scan(&exists); err != nil {
		logger.FromContext(ctx).Error("failed to check session",
			"error", err, "user_id", userID)
		return false, MapError(err)
	}

	return exists, nil
}

// WithTx implements store.SessionStore.WithTx.
func (s *SessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return NewSessionStore(tx)
}
