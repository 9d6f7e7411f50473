package migration

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), TempFileTestSQLiteConfig(filepath.Join(t.TempDir(), "migration.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestManager(t *testing.T, db *sql.DB, fsys fstest.MapFS) *Manager {
	t.Helper()
	return NewManager(NewFileScanner(), NewSQLiteExecutor(db), fsys, "migrations", nil)
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestManager_RunMigrations(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	fsys := mapFS(map[string]string{
		"001_widgets.sql": "CREATE TABLE widgets (id TEXT PRIMARY KEY);",
		"002_gadgets.sql": "CREATE TABLE gadgets (id TEXT PRIMARY KEY);\nCREATE INDEX idx_gadgets ON gadgets(id);",
	})
	manager := newTestManager(t, db, fsys)

	applied, err := manager.RunMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.True(t, tableExists(t, db, "widgets"))
	assert.True(t, tableExists(t, db, "gadgets"))

	status, err := manager.GetMigrationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "002", status.CurrentVersion)
	assert.Zero(t, status.PendingCount)
	require.Len(t, status.AppliedMigrations, 2)
	assert.Equal(t, "001", status.AppliedMigrations[0].Version)
	assert.Len(t, status.AppliedMigrations[0].Checksum, 64)

	again, err := manager.RunMigrations(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestManager_AppliesOnlyNewMigrations(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	files := map[string]string{"001_widgets.sql": "CREATE TABLE widgets (id TEXT PRIMARY KEY);"}

	_, err := newTestManager(t, db, mapFS(files)).RunMigrations(ctx)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO widgets (id) VALUES ('keep-me')`)
	require.NoError(t, err)

	files["002_widget_name.sql"] = "ALTER TABLE widgets ADD COLUMN name TEXT NOT NULL DEFAULT '';"
	applied, err := newTestManager(t, db, mapFS(files)).RunMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM widgets WHERE id = 'keep-me'`).Scan(&name))
	assert.Equal(t, "", name)
}

func TestManager_FailedMigrationRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	fsys := mapFS(map[string]string{
		"001_widgets.sql": "CREATE TABLE widgets (id TEXT PRIMARY KEY);",
		"002_broken.sql":  "CREATE TABLE gadgets (id TEXT PRIMARY KEY);\nINSERT INTO missing_table VALUES (1);",
	})
	manager := newTestManager(t, db, fsys)

	applied, err := manager.RunMigrations(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMigrationFailed))
	var migrationErr *MigrationError
	require.True(t, errors.As(err, &migrationErr))
	assert.Equal(t, "002", migrationErr.Version)
	assert.Equal(t, 1, applied)

	assert.True(t, tableExists(t, db, "widgets"))
	assert.False(t, tableExists(t, db, "gadgets"))

	ok, err := NewSQLiteExecutor(db).IsVersionApplied(ctx, "002")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_RejectsGapsAndMissingFiles(t *testing.T) {
	ctx := context.Background()

	t.Run("gap in sequence", func(t *testing.T) {
		db := openTestDB(t)
		fsys := mapFS(map[string]string{
			"001_a.sql": "CREATE TABLE a (id TEXT);",
			"003_c.sql": "CREATE TABLE c (id TEXT);",
		})
		_, err := newTestManager(t, db, fsys).RunMigrations(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrVersionConflict))
	})

	t.Run("applied version without file", func(t *testing.T) {
		db := openTestDB(t)
		_, err := newTestManager(t, db, mapFS(map[string]string{
			"001_a.sql": "CREATE TABLE a (id TEXT);",
			"002_b.sql": "CREATE TABLE b (id TEXT);",
		})).RunMigrations(ctx)
		require.NoError(t, err)

		_, err = newTestManager(t, db, mapFS(map[string]string{
			"001_a.sql": "CREATE TABLE a (id TEXT);",
		})).RunMigrations(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrVersionConflict))
	})

	t.Run("edited applied migration", func(t *testing.T) {
		db := openTestDB(t)
		_, err := newTestManager(t, db, mapFS(map[string]string{
			"001_a.sql": "CREATE TABLE a (id TEXT);",
		})).RunMigrations(ctx)
		require.NoError(t, err)

		_, err = newTestManager(t, db, mapFS(map[string]string{
			"001_a.sql": "CREATE TABLE a (id TEXT, extra TEXT);",
		})).RunMigrations(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrChecksumMismatch))
	})
}

func TestSQLiteExecutor_EmptyMigration(t *testing.T) {
	db := openTestDB(t)
	executor := NewSQLiteExecutor(db)
	require.NoError(t, executor.InitializeVersionTable(context.Background()))

	err := executor.ExecuteMigration(context.Background(), Migration{Version: "001", SQL: "-- only a comment"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMigrationFile))
}
