package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user's HashedPassword must
	// already be populated; plaintext passwords never reach the store.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's name, email, age, and password hash.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if updating to an email that is already taken.
	Update(ctx context.Context, user *domain.User) error

	// UpdateAvatar replaces the user's stored avatar image. A nil image
	// clears it. Returns ErrUserNotFound if the user does not exist.
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	// GetAvatar returns the user's stored avatar bytes. Returns
	// ErrUserNotFound if the user does not exist and ErrAvatarNotFound if
	// the user has no avatar set.
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	// Callers are responsible for cascading owned entities first; see
	// service/user.Remove.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the provided transaction, so that
	// multiple operations can execute within a single transaction.
	WithTx(tx *sql.Tx) UserStore
}
