package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/example/fates/internal/persistence"
)

// DBTX is the statement surface a guarded callback may use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Guard serializes access to a single database handle. Any number of readers
// may hold it at once; a writer holds it alone.
type Guard struct {
	mu        sync.RWMutex
	db        *sql.DB
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewGuard takes ownership of db.
func NewGuard(db *sql.DB) *Guard {
	return &Guard{db: db}
}

// Read runs fn under shared acquisition.
func (g *Guard) Read(ctx context.Context, fn func(DBTX) error) error {
	if err := g.admit(ctx); err != nil {
		return err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.run(func() error { return fn(g.db) })
}

// Write runs fn under exclusive acquisition.
func (g *Guard) Write(ctx context.Context, fn func(DBTX) error) error {
	if err := g.admit(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.run(func() error { return fn(g.db) })
}

// exclusive hands the raw handle to fn under the write lock. It is used for
// schema work that needs transactions.
func (g *Guard) exclusive(ctx context.Context, fn func(*sql.DB) error) error {
	if err := g.admit(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.run(func() error { return fn(g.db) })
}

// Close waits for in-flight holders to finish, then closes the handle.
// Later acquisitions fail with persistence.ErrClosed.
func (g *Guard) Close() error {
	g.closeOnce.Do(func() {
		g.closed.Store(true)
		g.mu.Lock()
		defer g.mu.Unlock()
		g.closeErr = g.db.Close()
	})
	return g.closeErr
}

func (g *Guard) admit(ctx context.Context) error {
	if g.closed.Load() {
		return persistence.ErrClosed
	}
	return ctx.Err()
}

// run executes fn with the lock already held. It re-checks closed because
// Close may have won the race for the lock.
func (g *Guard) run(fn func() error) (err error) {
	if g.closed.Load() {
		return persistence.ErrClosed
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic while holding connection: %v", persistence.ErrInternalLock, r)
		}
	}()
	return fn()
}
