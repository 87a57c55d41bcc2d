package store

import (
	"context"

	"github.com/mbarlow/tasktrack/internal/domain"
)

// TaskPatch describes a partial update to a task. Nil fields are left
// unchanged; non-nil fields overwrite the stored value. An all-nil patch is
// valid and still refreshes the task's updated_at timestamp.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskStore defines the interface for task data persistence.
//
// Every lookup that targets a single task filters by both the task ID and the
// owning user ID in one query, so a task owned by another user is
// indistinguishable from a nonexistent one.
type TaskStore interface {
	// Create saves a new task to the store and fills in its assigned ID.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// ListByUser retrieves all tasks owned by the given user in store-default
	// order. Returns an empty slice when the user owns no tasks.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error)

	// UpdateForUser applies the patch to the task with the given ID owned by
	// the given user and refreshes its updated_at timestamp, all in a single
	// statement. Returns the updated task.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	UpdateForUser(ctx context.Context, userID, taskID int64, patch TaskPatch) (*domain.Task, error)

	// CompleteForUser marks the task completed regardless of its current
	// state and refreshes its updated_at timestamp. Idempotent.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	CompleteForUser(ctx context.Context, userID, taskID int64) (*domain.Task, error)

	// DeleteForUser permanently removes the task with the given ID owned by
	// the given user.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	DeleteForUser(ctx context.Context, userID, taskID int64) error
}
