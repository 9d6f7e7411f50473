// Package migration applies versioned SQL files to a SQLite database.
//
// Migration files are named {version}_{description}.sql (for example
// "001_initial_schema.sql") and are read from an fs.FS, usually an embedded
// directory. Applied versions are recorded in a schema_migrations table in
// the same transaction as the migration itself, so a file is either fully
// applied and recorded or not at all.
//
// Example usage:
//
//	executor := migration.NewSQLiteExecutor(db)
//	manager := migration.NewManager(migration.NewFileScanner(), executor, migrationsFS, "migrations", logger)
//	applied, err := manager.RunMigrations(ctx)
//	if err != nil {
//		return err
//	}
//	logger.Info("schema up to date", "applied", applied)
package migration
