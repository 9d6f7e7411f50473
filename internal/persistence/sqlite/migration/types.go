package migration

import (
	"context"
	"io/fs"
	"time"
)

// Migration is one versioned schema change loaded from a {version}_{description}.sql file.
type Migration struct {
	Version     string // zero-padded number, e.g. "001"
	Description string
	SQL         string
	FilePath    string // path inside the scanned filesystem
	Checksum    string // sha256 of SQL, hex encoded
}

// AppliedMigration is a row of the schema_migrations table.
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	ExecutionTime time.Duration
	Checksum      string
}

// Status summarizes the applied and pending migrations of a database.
type Status struct {
	CurrentVersion    string
	PendingCount      int
	AppliedMigrations []AppliedMigration
	PendingMigrations []Migration
}

// FileScanner loads migrations from a filesystem.
type FileScanner interface {
	// ScanMigrations returns the migrations under dir sorted by version.
	ScanMigrations(fsys fs.FS, dir string) ([]Migration, error)

	// ValidateFileName checks the {version}_{description}.sql convention.
	ValidateFileName(filename string) error

	// ParseMigrationFile reads a single migration file.
	ParseMigrationFile(fsys fs.FS, filePath string) (*Migration, error)
}

// Executor applies migrations to a database and tracks what was applied.
type Executor interface {
	// InitializeVersionTable creates schema_migrations if it doesn't exist.
	InitializeVersionTable(ctx context.Context) error

	// ExecuteMigration runs the migration and records it in one transaction.
	ExecuteMigration(ctx context.Context, migration Migration) error

	// IsVersionApplied reports whether version is recorded.
	IsVersionApplied(ctx context.Context, version string) (bool, error)

	// GetAppliedVersions returns the recorded migrations ordered by version.
	GetAppliedVersions(ctx context.Context) ([]AppliedMigration, error)
}
