package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/domain"
	"github.com/mwhitlock/taskhub/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetByIDFn       func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	ListFn          func(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter, sort store.TaskSort, page store.TaskPage) ([]*domain.Task, error)
	UpdateFn        func(ctx context.Context, task *domain.Task) error
	DeleteFn        func(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteByOwnerFn func(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// Data for the default implementation, keyed by task ID.
	Tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface.
func (m *MockTaskStore) GetByID(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	task, exists := m.Tasks[id]
	if !exists || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}

	return task, nil
}

// List implements the TaskStore interface. The default implementation
// applies the completed filter, created_at ordering, and pagination; custom
// sort fields require ListFn.
func (m *MockTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
	taskSort store.TaskSort,
	page store.TaskPage,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, filter, taskSort, page)
	}

	matched := []*domain.Task{}
	for _, task := range m.Tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		matched = append(matched, task)
	}

	desc := taskSort.Desc && taskSort.Field != ""
	sort.Slice(matched, func(i, j int) bool {
		if desc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if page.Skip > 0 {
		if page.Skip >= len(matched) {
			return []*domain.Task{}, nil
		}
		matched = matched[page.Skip:]
	}
	if page.Limit > 0 && page.Limit < len(matched) {
		matched = matched[:page.Limit]
	}

	return matched, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	existing, exists := m.Tasks[task.ID]
	if !exists || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}

	m.Tasks[task.ID] = task
	return nil
}

// Delete implements the TaskStore interface.
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	task, exists := m.Tasks[id]
	if !exists || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}

	delete(m.Tasks, id)
	return nil
}

// DeleteByOwner implements the TaskStore interface.
func (m *MockTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	if m.DeleteByOwnerFn != nil {
		return m.DeleteByOwnerFn(ctx, ownerID)
	}

	var deleted int64
	for id, task := range m.Tasks {
		if task.OwnerID == ownerID {
			delete(m.Tasks, id)
			deleted++
		}
	}

	return deleted, nil
}

// WithTx implements the TaskStore interface.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
