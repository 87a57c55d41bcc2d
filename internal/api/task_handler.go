package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mbarlow/tasktrack/internal/api/shared"
	"github.com/mbarlow/tasktrack/internal/domain"
	"github.com/mbarlow/tasktrack/internal/store"
)

// TaskHandler handles task-related API requests. Every operation derives the
// owner from the authenticated identity placed in the context by the auth
// middleware, never from client-supplied fields.
type TaskHandler struct {
	taskStore store.TaskStore
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	return &TaskHandler{
		taskStore: taskStore,
		validator: validator.New(),
	}
}

// ListTasks handles the GET /tasks endpoint.
// Returns all tasks owned by the authenticated user; an empty ownership
// yields an empty array.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "Authentication required")
		return
	}

	tasks, err := h.taskStore.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list tasks", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// CreateTask handles the POST /tasks endpoint.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := domain.NewTask(userID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// UpdateTask handles the PUT /tasks/{id} endpoint.
// Supplied fields overwrite the stored values; omitted fields are retained.
// An empty body is valid and still refreshes the task's updated_at timestamp.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	patch := store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	task, err := h.taskStore.UpdateForUser(r.Context(), userID, taskID, patch)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// CompleteTask handles the PATCH /tasks/{id}/complete endpoint.
// It sets completed = true regardless of the current value, so repeated
// calls succeed and produce the same end state.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskStore.CompleteForUser(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// DeleteTask handles the DELETE /tasks/{id} endpoint.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskStore.DeleteForUser(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "Task deleted",
	})
}
