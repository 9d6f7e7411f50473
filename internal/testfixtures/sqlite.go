package testfixtures

import (
	"context"
	"log/slog"
	"testing"

	"github.com/example/fates/internal/persistence"
	"github.com/example/fates/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a migrated store in a
// temporary directory.
type SQLiteHarness struct {
	Store *sqlite.Store
	Clock *Clock
	Dir   string

	Events         persistence.EventRepository
	RecurringTasks persistence.RecurringTaskRepository
	KeyValues      persistence.KeyValueRepository
	Tags           persistence.TagRepository
	Todos          persistence.TodoRepository
	Notifications  persistence.NotificationRepository
}

// Close releases the store. It is also registered with tb.Cleanup.
func (h *SQLiteHarness) Close() {
	if h != nil && h.Store != nil {
		_ = h.Store.Close()
	}
}

// NewSQLiteHarness opens a store under tb.TempDir() with a controllable clock
// starting at ReferenceTime and a discarding logger. Extra options are
// applied after those defaults.
func NewSQLiteHarness(tb testing.TB, opts ...sqlite.Option) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	clock := NewClock(ReferenceTime())
	base := []sqlite.Option{
		sqlite.WithClock(clock.NowFunc()),
		sqlite.WithLogger(slog.New(slog.DiscardHandler)),
	}

	store, err := sqlite.Open(context.Background(), sqlite.Config{DataDir: dir}, append(base, opts...)...)
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}

	harness := &SQLiteHarness{
		Store:          store,
		Clock:          clock,
		Dir:            dir,
		Events:         store.Events,
		RecurringTasks: store.RecurringTasks,
		KeyValues:      store.KeyValues,
		Tags:           store.Tags,
		Todos:          store.Todos,
		Notifications:  store.Notifications,
	}
	tb.Cleanup(harness.Close)
	return harness
}
