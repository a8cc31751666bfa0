package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// SessionStore persists the set of currently-valid session tokens per user.
// Tokens are stored as digests, never as the signed string itself.
type SessionStore interface {
	// Add appends a token digest to the user's session set.
	Add(ctx context.Context, userID uuid.UUID, tokenDigest string) error

	// Remove deletes exactly the matching digest from the user's set.
	// Returns ErrSessionNotFound if the digest is not present.
	Remove(ctx context.Context, userID uuid.UUID, tokenDigest string) error

	// RemoveAll clears the user's entire session set and reports how many
	// sessions were removed.
	RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error)

	// Exists reports whether the digest is present in the user's current set.
	Exists(ctx context.Context, userID uuid.UUID, tokenDigest string) (bool, error)

	// WithTx returns a SessionStore bound to the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}
