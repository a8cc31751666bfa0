package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/domain"
	"github.com/mwhitlock/taskhub/internal/platform/logger"
	"github.com/mwhitlock/taskhub/internal/store"
)

// TaskStore implements store.TaskStore using a PostgreSQL database.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a PostgreSQL implementation of store.TaskStore.
func NewTaskStore(db store.DBTX) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &TaskStore{db: db}
}

var _ store.TaskStore = (*TaskStore)(nil)

const taskColumns = "id, owner_id, description, completed, created_at, updated_at"

// sortableTaskColumns is the allow-list for ORDER BY identifiers. The column
// name is interpolated into the query text, so only values from this map may
// ever reach it.
var sortableTaskColumns = map[string]bool{
	store.TaskSortCreatedAt:   true,
	store.TaskSortUpdatedAt:   true,
	store.TaskSortDescription: true,
	store.TaskSortCompleted:   true,
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, owner_id, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.OwnerID,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to create task",
			"error", err, "task_id", task.ID, "owner_id", task.OwnerID)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID. The owner predicate is part of
// the query itself, so a foreign task scans as no rows.
func (s *TaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return task, nil
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
	sort store.TaskSort,
	page store.TaskPage,
) ([]*domain.Task, error) {
	query, args := buildListQuery(ownerID, filter, sort, page)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list tasks",
			"error", err, "owner_id", ownerID)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Description,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// buildListQuery assembles the owner-scoped listing query. An unrecognized
// sort field silently falls back to the default ordering; the filter and
// pagination clauses are only added when set.
func buildListQuery(
	ownerID uuid.UUID,
	filter store.TaskFilter,
	sort store.TaskSort,
	page store.TaskPage,
) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)
	args := []any{ownerID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	orderBy := store.TaskSortCreatedAt
	direction := "ASC"
	if sortableTaskColumns[sort.Field] {
		orderBy = sort.Field
		if sort.Desc {
			direction = "DESC"
		}
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", orderBy, direction)

	if page.Limit > 0 {
		args = append(args, page.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if page.Skip > 0 {
		args = append(args, page.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}

// Update implements store.TaskStore.Update. Only description and completed
// are mutable; the owner predicate keeps the operation owner-scoped.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET description = $1, completed = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Description,
		task.Completed,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to update task",
			"error", err, "task_id", task.ID)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete task",
			"error", err, "task_id", id)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteByOwner implements store.TaskStore.DeleteByOwner.
func (s *TaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete tasks by owner",
			"error", err, "owner_id", ownerID)
		return 0, MapError(err)
	}

	return result.RowsAffected()
}

// WithTx implements store.TaskStore.WithTx.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return NewTaskStore(tx)
}

func scanTask(row *sql.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
