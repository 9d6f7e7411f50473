package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/fates/internal/persistence"
)

// TodoRepository implements persistence.TodoRepository using SQLite
type TodoRepository struct {
	helper *QueryHelper
	logger *slog.Logger
}

var _ persistence.TodoRepository = (*TodoRepository)(nil)

// NewTodoRepository creates a new SQLite todo repository
func NewTodoRepository(helper *QueryHelper, logger *slog.Logger) *TodoRepository {
	return &TodoRepository{helper: helper, logger: logger}
}

func (r *TodoRepository) CreateTodo(ctx context.Context, todo persistence.Todo) error {
	logger := repositoryLogger(ctx, r.logger, "todo", "create", "todo_id", todo.ID)
	if err := persistence.Validate(todo); err != nil {
		logResult(ctx, logger, err)
		return err
	}

	_, err := r.helper.Exec(ctx,
		`INSERT INTO todo (id, title, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		todo.ID, todo.Title, todo.Status, formatTime(todo.CreatedAt), formatTime(todo.UpdatedAt),
	)
	logResult(ctx, logger, err)
	if err != nil {
		return fmt.Errorf("create todo %s: %w", todo.ID, err)
	}
	return nil
}

func (r *TodoRepository) GetTodo(ctx context.Context, id string) (persistence.Todo, bool, error) {
	query := `SELECT id, title, status, created_at, updated_at FROM todo WHERE id = ?`
	todo, found, err := queryOne(ctx, r.helper, query, scanTodo, id)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "todo", "get", "todo_id", id), err)
		return persistence.Todo{}, false, fmt.Errorf("get todo %s: %w", id, err)
	}
	return todo, found, nil
}

// ListTodos returns every todo, newest first.
func (r *TodoRepository) ListTodos(ctx context.Context) ([]persistence.Todo, error) {
	query := `SELECT id, title, status, created_at, updated_at FROM todo ORDER BY created_at DESC, id`
	todos, err := queryAll(ctx, r.helper, query, scanTodo)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "todo", "list"), err)
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) UpdateTodo(ctx context.Context, todo persistence.Todo) (int64, error) {
	logger := repositoryLogger(ctx, r.logger, "todo", "update", "todo_id", todo.ID)
	if err := persistence.Validate(todo); err != nil {
		logResult(ctx, logger, err)
		return 0, err
	}

	affected, err := r.helper.Exec(ctx,
		`UPDATE todo SET title = ?, status = ?, updated_at = ? WHERE id = ?`,
		todo.Title, todo.Status, formatTime(todo.UpdatedAt), todo.ID,
	)
	logResult(ctx, logger, err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("update todo %s: %w", todo.ID, err)
	}
	return affected, nil
}

func (r *TodoRepository) DeleteTodo(ctx context.Context, id string) (int64, error) {
	affected, err := r.helper.Exec(ctx, `DELETE FROM todo WHERE id = ?`, id)
	logResult(ctx, repositoryLogger(ctx, r.logger, "todo", "delete", "todo_id", id), err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("delete todo %s: %w", id, err)
	}
	return affected, nil
}

func scanTodo(row rowScanner) (persistence.Todo, error) {
	var todo persistence.Todo
	var createdStr, updatedStr string
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Status, &createdStr, &updatedStr); err != nil {
		return persistence.Todo{}, err
	}

	var err error
	if todo.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return persistence.Todo{}, err
	}
	if todo.UpdatedAt, err = parseTime("updated_at", updatedStr); err != nil {
		return persistence.Todo{}, err
	}
	return todo, nil
}
