package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/fates/internal/persistence"
)

const recurringTaskColumns = `id, title, tags, repeat_time, status, created_at, updated_at, priority, description`

// RecurringTaskRepository implements persistence.RecurringTaskRepository using SQLite
type RecurringTaskRepository struct {
	helper *QueryHelper
	logger *slog.Logger
	now    func() time.Time
}

var _ persistence.RecurringTaskRepository = (*RecurringTaskRepository)(nil)

// NewRecurringTaskRepository creates a new SQLite recurring task repository
func NewRecurringTaskRepository(helper *QueryHelper, logger *slog.Logger, now func() time.Time) *RecurringTaskRepository {
	return &RecurringTaskRepository{helper: helper, logger: logger, now: now}
}

// CreateRecurringTask inserts a new task. The repeat rule is stored verbatim.
func (r *RecurringTaskRepository) CreateRecurringTask(ctx context.Context, task persistence.RecurringTask) error {
	logger := repositoryLogger(ctx, r.logger, "recurring_task", "create", "task_id", task.ID)
	if err := persistence.Validate(task); err != nil {
		logResult(ctx, logger, err)
		return err
	}

	query := `
		INSERT INTO repeat_task (` + recurringTaskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Tags),
		task.RepeatTime,
		int(task.Status),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
		task.Priority,
		nullString(task.Description),
	)
	logResult(ctx, logger, err)
	if err != nil {
		return fmt.Errorf("create recurring task %s: %w", task.ID, err)
	}
	return nil
}

// GetRecurringTask retrieves a task by ID.
func (r *RecurringTaskRepository) GetRecurringTask(ctx context.Context, id string) (persistence.RecurringTask, bool, error) {
	query := `SELECT ` + recurringTaskColumns + ` FROM repeat_task WHERE id = ?`
	task, found, err := queryOne(ctx, r.helper, query, scanRecurringTask, id)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "recurring_task", "get", "task_id", id), err)
		return persistence.RecurringTask{}, false, fmt.Errorf("get recurring task %s: %w", id, err)
	}
	return task, found, nil
}

// ListRecurringTasks returns every task, newest first.
func (r *RecurringTaskRepository) ListRecurringTasks(ctx context.Context) ([]persistence.RecurringTask, error) {
	query := `SELECT ` + recurringTaskColumns + ` FROM repeat_task ORDER BY created_at DESC, id`
	return r.list(ctx, "list", query)
}

// ListActiveRecurringTasks returns tasks whose status is active, newest first.
func (r *RecurringTaskRepository) ListActiveRecurringTasks(ctx context.Context) ([]persistence.RecurringTask, error) {
	query := `SELECT ` + recurringTaskColumns + ` FROM repeat_task WHERE status = ? ORDER BY created_at DESC, id`
	return r.list(ctx, "list_active", query, int(persistence.TaskStatusActive))
}

// UpdateRecurringTask overwrites the mutable columns of a task.
func (r *RecurringTaskRepository) UpdateRecurringTask(ctx context.Context, task persistence.RecurringTask) (int64, error) {
	logger := repositoryLogger(ctx, r.logger, "recurring_task", "update", "task_id", task.ID)
	if err := persistence.Validate(task); err != nil {
		logResult(ctx, logger, err)
		return 0, err
	}

	query := `
		UPDATE repeat_task SET
			title = ?, tags = ?, repeat_time = ?, status = ?,
			updated_at = ?, priority = ?, description = ?
		WHERE id = ?
	`
	affected, err := r.helper.Exec(ctx, query,
		task.Title,
		nullString(task.Tags),
		task.RepeatTime,
		int(task.Status),
		formatTime(task.UpdatedAt),
		task.Priority,
		nullString(task.Description),
		task.ID,
	)
	logResult(ctx, logger, err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("update recurring task %s: %w", task.ID, err)
	}
	return affected, nil
}

// UpdateRecurringTaskStatus sets the status and stamps updated_at with the current time.
func (r *RecurringTaskRepository) UpdateRecurringTaskStatus(ctx context.Context, id string, status persistence.TaskStatus) (int64, error) {
	affected, err := r.helper.Exec(ctx,
		`UPDATE repeat_task SET status = ?, updated_at = ? WHERE id = ?`,
		int(status), formatTime(r.now()), id,
	)
	logResult(ctx, repositoryLogger(ctx, r.logger, "recurring_task", "update_status", "task_id", id),
		err, "status", int(status), "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("update recurring task %s status: %w", id, err)
	}
	return affected, nil
}

// DeleteRecurringTask removes a task.
func (r *RecurringTaskRepository) DeleteRecurringTask(ctx context.Context, id string) (int64, error) {
	affected, err := r.helper.Exec(ctx, `DELETE FROM repeat_task WHERE id = ?`, id)
	logResult(ctx, repositoryLogger(ctx, r.logger, "recurring_task", "delete", "task_id", id), err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("delete recurring task %s: %w", id, err)
	}
	return affected, nil
}

func (r *RecurringTaskRepository) list(ctx context.Context, operation, query string, args ...any) ([]persistence.RecurringTask, error) {
	tasks, err := queryAll(ctx, r.helper, query, scanRecurringTask, args...)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "recurring_task", operation), err)
		return nil, fmt.Errorf("%s recurring tasks: %w", operation, err)
	}
	return tasks, nil
}

func scanRecurringTask(row rowScanner) (persistence.RecurringTask, error) {
	var task persistence.RecurringTask
	var tags, description sql.NullString
	var createdStr, updatedStr string
	var status int

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&tags,
		&task.RepeatTime,
		&status,
		&createdStr,
		&updatedStr,
		&task.Priority,
		&description,
	); err != nil {
		return persistence.RecurringTask{}, err
	}

	var err error
	if task.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return persistence.RecurringTask{}, err
	}
	if task.UpdatedAt, err = parseTime("updated_at", updatedStr); err != nil {
		return persistence.RecurringTask{}, err
	}
	task.Status = persistence.TaskStatus(status)
	task.Tags = stringPtr(tags)
	task.Description = stringPtr(description)
	return task, nil
}
