package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mbarlow/tasktrack/internal/domain"
	"github.com/mbarlow/tasktrack/internal/platform/logger"
	"github.com/mbarlow/tasktrack/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// Every single-task statement filters by id AND user_id in one query, so an
// existence check never happens separately from the ownership check.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves a new task to the database and fills in the assigned ID.
// Returns store.ErrInvalidEntity if the owner does not exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", task.UserID))
		return err
	}

	query := `
		INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.Int64("user_id", task.UserID))
			return fmt.Errorf("%w: user with ID %d not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", task.UserID))
		return err
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.UserID))
	return nil
}

// ListByUser implements store.TaskStore.ListByUser
// It retrieves all tasks owned by the given user in store-default order.
// Returns an empty slice when the user owns no tasks.
func (s *PostgresTaskStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.Int64("user_id", userID))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return tasks, nil
}

// UpdateForUser implements store.TaskStore.UpdateForUser
// It applies the patch in a single UPDATE statement using COALESCE so that
// nil patch fields keep their stored value, and always refreshes updated_at.
// Returns store.ErrTaskNotFound if no task with that ID is owned by the user.
func (s *PostgresTaskStore) UpdateForUser(
	ctx context.Context,
	userID, taskID int64,
	patch store.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, domain.ErrEmptyTaskTitle
		}
		if len(*patch.Title) > 255 {
			return nil, domain.ErrTaskTitleTooLong
		}
	}

	query := `
		UPDATE tasks
		SET title       = COALESCE($1, title),
		    description = COALESCE($2, description),
		    completed   = COALESCE($3, completed),
		    updated_at  = $4
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, title, description, completed, created_at, updated_at
	`

	var task domain.Task
	err := s.db.QueryRowContext(
		ctx,
		query,
		patch.Title,
		patch.Description,
		patch.Completed,
		time.Now().UTC(),
		taskID,
		userID,
	).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update",
				slog.Int64("task_id", taskID),
				slog.Int64("user_id", userID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", userID))
	return &task, nil
}

// CompleteForUser implements store.TaskStore.CompleteForUser
// It unconditionally sets completed = true, ignoring the current value, so
// repeated calls produce the same end state.
// Returns store.ErrTaskNotFound if no task with that ID is owned by the user.
func (s *PostgresTaskStore) CompleteForUser(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET completed = TRUE, updated_at = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, title, description, completed, created_at, updated_at
	`

	var task domain.Task
	err := s.db.QueryRowContext(
		ctx,
		query,
		time.Now().UTC(),
		taskID,
		userID,
	).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for completion",
				slog.Int64("task_id", taskID),
				slog.Int64("user_id", userID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to complete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	log.Info("task completed",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", userID))
	return &task, nil
}

// DeleteForUser implements store.TaskStore.DeleteForUser
// It permanently removes the task owned by the given user.
// Returns store.ErrTaskNotFound if no task with that ID is owned by the user.
func (s *PostgresTaskStore) DeleteForUser(ctx context.Context, userID, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.Int64("user_id", userID))
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Debug("task not found for deletion",
			slog.Int64("task_id", taskID),
			slog.Int64("user_id", userID))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted",
		slog.Int64("task_id", taskID),
		slog.Int64("user_id", userID))
	return nil
}
