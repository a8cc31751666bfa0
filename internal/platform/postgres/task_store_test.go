package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/store"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildListQuery(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	tests := []struct {
		name     string
		filter   store.TaskFilter
		sort     store.TaskSort
		page     store.TaskPage
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "defaults",
			wantSQL:  `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 ORDER BY created_at ASC`,
			wantArgs: []any{owner},
		},
		{
			name:     "completed filter",
			filter:   store.TaskFilter{Completed: boolPtr(true)},
			wantSQL:  `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 AND completed = $2 ORDER BY created_at ASC`,
			wantArgs: []any{owner, true},
		},
		{
			name:     "sort descending",
			sort:     store.TaskSort{Field: store.TaskSortCreatedAt, Desc: true},
			wantSQL:  `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC`,
			wantArgs: []any{owner},
		},
		{
			name:     "unknown sort field falls back to default order",
			sort:     store.TaskSort{Field: "owner_id; DROP TABLE tasks", Desc: true},
			wantSQL:  `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 ORDER BY created_at ASC`,
			wantArgs: []any{owner},
		},
		{
			name:     "pagination",
			page:     store.TaskPage{Limit: 2, Skip: 4},
			wantSQL:  `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
			wantArgs: []any{owner, 2, 4},
		},
		{
			name:     "everything combined",
			filter:   store.TaskFilter{Completed: boolPtr(false)},
			sort:     store.TaskSort{Field: store.TaskSortDescription},
			page:     store.TaskPage{Limit: 10, Skip: 20},
			wantSQL:  `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 AND completed = $2 ORDER BY description ASC LIMIT $3 OFFSET $4`,
			wantArgs: []any{owner, false, 10, 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotSQL, gotArgs := buildListQuery(owner, tt.filter, tt.sort, tt.page)
			assert.Equal(t, tt.wantSQL, gotSQL)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}

func TestNewStoresRejectNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewTaskStore(nil) })
	assert.Panics(t, func() { NewUserStore(nil) })
	assert.Panics(t, func() { NewSessionStore(nil) })
}
