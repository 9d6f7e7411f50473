package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fates/internal/persistence"
	"github.com/example/fates/internal/testfixtures"
)

func TestTodoRepository_CRUDAndOrdering(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewSQLiteHarness(t)
	base := testfixtures.ReferenceTime()

	older := testfixtures.NewTodo(testfixtures.WithTodoID("older"), testfixtures.WithTodoTimestamps(base, base))
	newer := testfixtures.NewTodo(testfixtures.WithTodoID("newer"), testfixtures.WithTodoTimestamps(base.Add(time.Hour), base.Add(time.Hour)))
	require.NoError(t, h.Todos.CreateTodo(ctx, older))
	require.NoError(t, h.Todos.CreateTodo(ctx, newer))
	require.ErrorIs(t, h.Todos.CreateTodo(ctx, older), persistence.ErrConstraintViolation)

	todos, err := h.Todos.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "newer", todos[0].ID)
	assert.Equal(t, "older", todos[1].ID)

	older.Title = "Renamed"
	older.Status = persistence.TodoStatusInProgress
	n, err := h.Todos.UpdateTodo(ctx, older)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, found, err := h.Todos.GetTodo(ctx, "older")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, persistence.TodoStatusInProgress, got.Status)

	n, err = h.Todos.DeleteTodo(ctx, "older")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = h.Todos.UpdateTodo(ctx, older)
	require.NoError(t, err)
	assert.Zero(t, n)
}
