package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/example/fates/internal/persistence"
	"github.com/example/fates/internal/persistence/sqlite/migration"
)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()
	db, err := migration.Open(context.Background(), migration.TempFileTestSQLiteConfig(filepath.Join(t.TempDir(), "guard.db")))
	require.NoError(t, err)
	guard := NewGuard(db)
	t.Cleanup(func() { guard.Close() })
	return guard
}

func TestGuard_PanicReportsInternalLockAndRecovers(t *testing.T) {
	ctx := context.Background()
	guard := newTestGuard(t)

	err := guard.Write(ctx, func(DBTX) error {
		panic("boom")
	})
	require.ErrorIs(t, err, persistence.ErrInternalLock)

	// The lock must have been released by the panicking holder.
	var one int
	err = guard.Read(ctx, func(db DBTX) error {
		return db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, one)
}

func TestGuard_CloseRejectsLaterCalls(t *testing.T) {
	ctx := context.Background()
	guard := newTestGuard(t)

	require.NoError(t, guard.Close())
	require.NoError(t, guard.Close(), "Close is idempotent")

	err := guard.Read(ctx, func(DBTX) error { return nil })
	assert.ErrorIs(t, err, persistence.ErrClosed)
	err = guard.Write(ctx, func(DBTX) error { return nil })
	assert.ErrorIs(t, err, persistence.ErrClosed)
	err = guard.exclusive(ctx, func(*sql.DB) error { return nil })
	assert.ErrorIs(t, err, persistence.ErrClosed)
}

func TestGuard_CloseWaitsForInFlightReader(t *testing.T) {
	ctx := context.Background()
	guard := newTestGuard(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	var g errgroup.Group
	g.Go(func() error {
		return guard.Read(ctx, func(DBTX) error {
			close(entered)
			<-release
			finished.Store(true)
			return nil
		})
	})

	<-entered
	closed := make(chan error, 1)
	go func() { closed <- guard.Close() }()

	select {
	case <-closed:
		t.Fatal("Close returned while a reader still held the guard")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, g.Wait())
	require.NoError(t, <-closed)
	assert.True(t, finished.Load())
}

func TestGuard_ReadersShareAcquisition(t *testing.T) {
	ctx := context.Background()
	guard := newTestGuard(t)

	const readers = 4
	var inside atomic.Int32
	allInside := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < readers; i++ {
		g.Go(func() error {
			return guard.Read(gctx, func(DBTX) error {
				if inside.Add(1) == readers {
					close(allInside)
				}
				select {
				case <-allInside:
					return nil
				case <-time.After(2 * time.Second):
					return errors.New("readers did not overlap")
				}
			})
		})
	}
	require.NoError(t, g.Wait())
}

func TestGuard_CanceledContext(t *testing.T) {
	guard := newTestGuard(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := guard.Write(ctx, func(DBTX) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, "canceled", persistence.ErrorKind(err))
}

func TestQueryHelper_ExecReportsAffectedRows(t *testing.T) {
	ctx := context.Background()
	helper := NewQueryHelper(newTestGuard(t))

	_, err := helper.Exec(ctx, `CREATE TABLE widgets (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)

	n, err := helper.Exec(ctx, `INSERT INTO widgets (id) VALUES (?), (?)`, "a", "b")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = helper.Exec(ctx, `INSERT INTO widgets (id) VALUES (?)`, "a")
	assert.ErrorIs(t, err, persistence.ErrConstraintViolation)

	found, err := helper.QueryRow(ctx, `SELECT id FROM widgets WHERE id = ?`, []any{"missing"}, func(row rowScanner) error {
		var id string
		return row.Scan(&id)
	})
	require.NoError(t, err)
	assert.False(t, found)

	ids, err := queryAll(ctx, helper, `SELECT id FROM widgets WHERE id > ? ORDER BY id`, func(row rowScanner) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	}, "z")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestErrorMapper_MapError(t *testing.T) {
	mapper := NewErrorMapper()
	plain := errors.New("disk I/O error")

	tests := []struct {
		name       string
		err        error
		constraint bool
	}{
		{name: "unique message", err: errors.New("UNIQUE constraint failed: tags.name"), constraint: true},
		{name: "already mapped", err: persistence.ErrConstraintViolation, constraint: true},
		{name: "other error", err: plain, constraint: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapper.MapError(tt.err)
			assert.Equal(t, tt.constraint, errors.Is(mapped, persistence.ErrConstraintViolation))
			assert.ErrorIs(t, mapped, tt.err)
		})
	}

	assert.NoError(t, mapper.MapError(nil))
}
