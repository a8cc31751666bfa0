package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mwhitlock/taskhub/internal/api/middleware"
	"github.com/mwhitlock/taskhub/internal/api/shared"
	"github.com/mwhitlock/taskhub/internal/domain"
	"github.com/mwhitlock/taskhub/internal/store"
)

// sortByFields maps the query-level sort field names onto store columns.
// Anything not listed here is silently ignored rather than rejected.
var sortByFields = map[string]string{
	"createdAt":   store.TaskSortCreatedAt,
	"updatedAt":   store.TaskSortUpdatedAt,
	"description": store.TaskSortDescription,
	"completed":   store.TaskSortCompleted,
}

// updatableTaskFields is the allow-list of task fields a PATCH may touch.
var updatableTaskFields = map[string]bool{
	"description": true,
	"completed":   true,
}

// TaskHandler handles task CRUD for the authenticated user. Every operation
// is owner-scoped: a task belonging to someone else looks exactly like a
// missing one.
type TaskHandler struct {
	tasks store.TaskStore
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks store.TaskStore) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := domain.NewTask(userID, req.Description, req.Completed)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.tasks.Create(r.Context(), task); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// List handles GET /tasks with optional completed, limit, skip, and sortBy
// query parameters. Unparseable values fall back to "no constraint" instead
// of erroring; the endpoint always answers with the owner's tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	query := r.URL.Query()

	var filter store.TaskFilter
	if raw := query.Get("completed"); raw != "" {
		if completed, err := strconv.ParseBool(raw); err == nil {
			filter.Completed = &completed
		}
	}

	var page store.TaskPage
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			page.Limit = limit
		}
	}
	if raw := query.Get("skip"); raw != "" {
		if skip, err := strconv.Atoi(raw); err == nil && skip > 0 {
			page.Skip = skip
		}
	}

	sort := parseSortBy(query.Get("sortBy"))

	tasks, err := h.tasks.List(r.Context(), userID, filter, sort, page)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}
	taskID, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Update handles PATCH /tasks/{id}. Only description and completed may
// change; any other key rejects the whole update.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}
	taskID, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(raw) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No updates provided")
		return
	}
	for key := range raw {
		if !updatableTaskFields[key] {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid update field: "+key)
			return
		}
	}

	var req struct {
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if err := task.Validate(); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	task.UpdatedAt = time.Now().UTC()

	if err := h.tasks.Update(r.Context(), task); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}
	taskID, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), userID, taskID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// parseSortBy interprets a "field_dir" sort expression, e.g.
// "createdAt_desc". Unknown fields and malformed expressions yield the
// store-default ordering.
func parseSortBy(raw string) store.TaskSort {
	if raw == "" {
		return store.TaskSort{}
	}

	field := raw
	desc := false
	if idx := strings.LastIndex(raw, "_"); idx >= 0 {
		dir := raw[idx+1:]
		if dir == "asc" || dir == "desc" {
			field = raw[:idx]
			desc = dir == "desc"
		}
	}

	column, ok := sortByFields[field]
	if !ok {
		return store.TaskSort{}
	}
	return store.TaskSort{Field: column, Desc: desc}
}
