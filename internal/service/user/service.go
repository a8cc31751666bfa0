// Package user implements account management: registration, credential
// verification, profile updates, avatar storage, and cascading deletion.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/domain"
	"github.com/mwhitlock/taskhub/internal/platform/logger"
	"github.com/mwhitlock/taskhub/internal/service/auth"
	"github.com/mwhitlock/taskhub/internal/store"
)

// UpdateInput carries the mutable profile fields of a PATCH. Nil means
// "leave unchanged". Owner, ID, and timestamps are never caller-mutable.
type UpdateInput struct {
	Name     *string
	Email    *string
	Age      *int
	Password *string
}

// UserService exposes the account operations composed by the HTTP handlers.
type UserService interface {
	// Register validates and stores a new account. The password is hashed
	// before it reaches the store. Returns store.ErrEmailExists on a
	// duplicate email and domain validation errors on bad input.
	Register(ctx context.Context, name, email, password string, age int) (*domain.User, error)

	// Authenticate verifies an email/password pair. Unknown email and wrong
	// password both return auth.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetByID fetches a user's profile.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateProfile applies the allow-listed field changes. A password
	// change is re-hashed before persistence.
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateInput) (*domain.User, error)

	// Remove deletes the account along with all of its tasks and sessions
	// in a single transaction.
	Remove(ctx context.Context, id uuid.UUID) error

	// SetAvatar stores the processed avatar image for the user.
	SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	// Avatar returns the user's stored avatar. Returns
	// store.ErrAvatarNotFound when none is set.
	Avatar(ctx context.Context, id uuid.UUID) ([]byte, error)

	// ClearAvatar removes the user's stored avatar.
	ClearAvatar(ctx context.Context, id uuid.UUID) error
}

// service is the production UserService implementation.
type service struct {
	users    store.UserStore
	tasks    store.TaskStore
	sessions store.SessionStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier

	// runInTx wraps store.RunInTransaction; injectable for testing.
	runInTx func(ctx context.Context, fn store.TxFn) error
}

var _ UserService = (*service)(nil)

// NewService creates the UserService backed by the given database handle and
// stores. The db handle is only used to open transactions for the deletion
// cascade.
func NewService(
	db *sql.DB,
	users store.UserStore,
	tasks store.TaskStore,
	sessions store.SessionStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
) UserService {
	return &service{
		users:    users,
		tasks:    tasks,
		sessions: sessions,
		hasher:   hasher,
		verifier: verifier,
		runInTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
	}
}

// Register implements UserService.Register.
func (s *service) Register(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, error) {
	user, err := domain.NewUser(name, email, password, age)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = "" // plaintext never outlives this call

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *service) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID implements UserService.GetByID.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile implements UserService.UpdateProfile.
func (s *service) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	in UpdateInput,
) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Age != nil {
		user.Age = *in.Age
	}
	if in.Password != nil {
		password := strings.TrimSpace(*in.Password)
		if err := domain.ValidatePassword(password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	user.Password = ""
	if err := user.Validate(); err != nil {
		return nil, err
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Remove implements UserService.Remove. Owned tasks and sessions go first,
// then the user row, all in one transaction.
func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	return s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		deleted, err := s.tasks.WithTx(tx).DeleteByOwner(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to cascade task deletion: %w", err)
		}

		if _, err := s.sessions.WithTx(tx).RemoveAll(ctx, id); err != nil {
			return fmt.Errorf("failed to cascade session deletion: %w", err)
		}

		if err := s.users.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}

		logger.FromContext(ctx).Info("user deleted",
			"user_id", id, "tasks_deleted", deleted)
		return nil
	})
}

// SetAvatar implements UserService.SetAvatar.
func (s *service) SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	return s.users.UpdateAvatar(ctx, id, avatar)
}

// Avatar implements UserService.Avatar.
func (s *service) Avatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.users.GetAvatar(ctx, id)
}

// ClearAvatar implements UserService.ClearAvatar.
func (s *service) ClearAvatar(ctx context.Context, id uuid.UUID) error {
	return s.users.UpdateAvatar(ctx, id, nil)
}
