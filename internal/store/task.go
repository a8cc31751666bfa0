package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/domain"
)

// Task sort fields accepted by TaskStore.List. Anything else is treated as
// "no sort constraint" rather than an error.
const (
	TaskSortCreatedAt   = "created_at"
	TaskSortUpdatedAt   = "updated_at"
	TaskSortDescription = "description"
	TaskSortCompleted   = "completed"
)

// TaskFilter narrows a task listing. A nil Completed means no completion
// constraint.
type TaskFilter struct {
	Completed *bool
}

// TaskSort names the column and direction for ordering a task listing.
// An empty Field means store-default ordering (created_at ascending).
type TaskSort struct {
	Field string
	Desc  bool
}

// TaskPage applies skip/limit pagination. Zero values mean "no limit" and
// "no offset" respectively.
type TaskPage struct {
	Limit int
	Skip  int
}

// TaskStore defines the interface for task data persistence. Every read and
// write is scoped to an owner; a task belonging to a different owner is
// indistinguishable from a missing one.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the task with the given ID if it is owned by ownerID.
	// Returns ErrTaskNotFound otherwise.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks matching the filter, ordered by the
	// requested order, with pagination applied.
	List(
		ctx context.Context,
		ownerID uuid.UUID,
		filter TaskFilter,
		sort TaskSort,
		page TaskPage,
	) ([]*domain.Task, error)

	// Update modifies the description and completion flag of an owned task.
	// Returns ErrTaskNotFound if no such task is owned by ownerID.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes an owned task.
	// Returns ErrTaskNotFound if no such task is owned by ownerID.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByOwner removes every task owned by ownerID and reports how many
	// were deleted. Used by the user-deletion cascade.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
