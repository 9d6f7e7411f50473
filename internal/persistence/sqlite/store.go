package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/example/fates/internal/persistence"
	"github.com/example/fates/internal/persistence/sqlite/migration"
)

const (
	// DatabaseFileName is the fixed name of the database file inside the data directory.
	DatabaseFileName = "fates.db"

	// CurrentSchemaVersion is the highest migration version shipped in migrations/.
	CurrentSchemaVersion = 1

	migrationsDir = "migrations"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config describes where the database lives and how connections are tuned.
type Config struct {
	DataDir      string
	BusyTimeout  time.Duration
	JournalMode  string
	MaxOpenConns int
}

// DatabasePath returns the database file inside DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, DatabaseFileName)
}

func (c Config) sqliteConfig() migration.SQLiteConfig {
	sc := migration.DefaultSQLiteConfig(c.DatabasePath())
	if c.BusyTimeout > 0 {
		sc.BusyTimeout = c.BusyTimeout
	}
	if c.JournalMode != "" {
		sc.JournalMode = c.JournalMode
	}
	if c.MaxOpenConns > 0 {
		sc.MaxOpenConns = c.MaxOpenConns
		if sc.MaxIdleConns > c.MaxOpenConns {
			sc.MaxIdleConns = c.MaxOpenConns
		}
	}
	return sc
}

// Option customizes a Store.
type Option func(*options)

type options struct {
	logger *slog.Logger
	clock  func() time.Time
}

// WithLogger sets the logger used by the store and its repositories.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces the source of "now" used for stamped timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// Store is an open, migrated database and the repositories over it. It is
// safe for concurrent use for the lifetime of the process.
type Store struct {
	guard  *Guard
	path   string
	logger *slog.Logger

	Events         *EventRepository
	RecurringTasks *RecurringTaskRepository
	KeyValues      *KeyValueRepository
	Tags           *TagRepository
	Todos          *TodoRepository
	Notifications  *NotificationRepository
}

// SchemaStatus describes the applied schema of an open store.
type SchemaStatus struct {
	Path           string
	CurrentVersion int
	Applied        []migration.AppliedMigration
	Pending        int
}

// Open opens or creates the database under cfg.DataDir, applies pending
// migrations and returns the ready store.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("%w: data directory is required", persistence.ErrMalformedInput)
	}

	o := options{
		logger: slog.Default(),
		clock:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}

	sc := cfg.sqliteConfig()
	db, err := migration.Open(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	logger := o.logger.With(slog.String("database", sc.Path))
	s := newStore(NewGuard(db), sc.Path, logger, o.clock)

	applied, err := s.migrate(ctx)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("initialize schema: %w", err), s.Close())
	}
	logger.InfoContext(ctx, "database ready", slog.Int("migrations_applied", applied))
	return s, nil
}

func newStore(guard *Guard, path string, logger *slog.Logger, clock func() time.Time) *Store {
	helper := NewQueryHelper(guard)
	return &Store{
		guard:          guard,
		path:           path,
		logger:         logger,
		Events:         NewEventRepository(helper, logger),
		RecurringTasks: NewRecurringTaskRepository(helper, logger, clock),
		KeyValues:      NewKeyValueRepository(helper, logger, clock),
		Tags:           NewTagRepository(helper, logger, clock),
		Todos:          NewTodoRepository(helper, logger),
		Notifications:  NewNotificationRepository(helper, logger, clock),
	}
}

func (s *Store) migrate(ctx context.Context) (int, error) {
	var applied int
	err := s.guard.exclusive(ctx, func(db *sql.DB) error {
		var err error
		applied, err = s.manager(db).RunMigrations(ctx)
		return err
	})
	return applied, err
}

func (s *Store) manager(db *sql.DB) *migration.Manager {
	return migration.NewManager(migration.NewFileScanner(), migration.NewSQLiteExecutor(db), migrationsFS, migrationsDir, s.logger)
}

// SchemaStatus reports the applied migrations of the open database.
func (s *Store) SchemaStatus(ctx context.Context) (SchemaStatus, error) {
	var status *migration.Status
	err := s.guard.exclusive(ctx, func(db *sql.DB) error {
		var err error
		status, err = s.manager(db).GetMigrationStatus(ctx)
		return err
	})
	if err != nil {
		return SchemaStatus{}, fmt.Errorf("schema status: %w", err)
	}

	current := 0
	if status.CurrentVersion != "" {
		if current, err = strconv.Atoi(status.CurrentVersion); err != nil {
			return SchemaStatus{}, fmt.Errorf("schema status: %w", err)
		}
	}
	return SchemaStatus{
		Path:           s.path,
		CurrentVersion: current,
		Applied:        status.AppliedMigrations,
		Pending:        status.PendingCount,
	}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close waits for in-flight statements and closes the database. Repository
// calls made afterwards fail with persistence.ErrClosed.
func (s *Store) Close() error {
	return s.guard.Close()
}
