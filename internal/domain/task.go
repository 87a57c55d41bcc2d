package domain

import (
	"errors"
	"time"
)

// Common validation errors for Task
var (
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong = errors.New("task title must be at most 255 characters long")
	ErrEmptyTaskUserID  = errors.New("task user ID cannot be empty")
)

// Task represents a single to-do item owned by exactly one user.
// Tasks are only ever visible and mutable through requests authenticated
// as their owner.
type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user.
// Description may be empty; Completed always starts false.
// Returns an error if validation fails.
func NewTask(userID int64, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.UserID == 0 {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Title) > 255 {
		return ErrTaskTitleTooLong
	}

	return nil
}

// MarkCompleted sets the task to completed and refreshes the UpdatedAt
// timestamp. Calling it on an already-completed task is a no-op apart from
// the timestamp refresh, so the operation is idempotent.
func (t *Task) MarkCompleted() {
	t.Completed = true
	t.UpdatedAt = time.Now().UTC()
}
