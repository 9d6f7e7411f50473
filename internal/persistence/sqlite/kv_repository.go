package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/fates/internal/persistence"
)

// KeyValueRepository implements persistence.KeyValueRepository using SQLite
type KeyValueRepository struct {
	helper *QueryHelper
	logger *slog.Logger
	now    func() time.Time
}

var _ persistence.KeyValueRepository = (*KeyValueRepository)(nil)

// NewKeyValueRepository creates a new SQLite settings repository
func NewKeyValueRepository(helper *QueryHelper, logger *slog.Logger, now func() time.Time) *KeyValueRepository {
	return &KeyValueRepository{helper: helper, logger: logger, now: now}
}

// Set inserts key or replaces its value. created_at is kept from the first write.
func (r *KeyValueRepository) Set(ctx context.Context, key, value string) error {
	logger := repositoryLogger(ctx, r.logger, "kvstore", "set", "key", key)
	if err := persistence.ValidateName("key", key); err != nil {
		logResult(ctx, logger, err)
		return err
	}

	query := `
		INSERT INTO kvstore (key, value, created_at, updated_at)
		VALUES (?1, ?2, ?3, ?3)
		ON CONFLICT(key) DO UPDATE SET value = ?2, updated_at = ?3
	`
	_, err := r.helper.Exec(ctx, query, key, value, formatTime(r.now()))
	logResult(ctx, logger, err)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key, or def when there is none.
func (r *KeyValueRepository) Get(ctx context.Context, key, def string) (string, error) {
	var value sql.NullString
	found, err := r.helper.QueryRow(ctx, `SELECT value FROM kvstore WHERE key = ?`, []any{key}, func(row rowScanner) error {
		return row.Scan(&value)
	})
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "kvstore", "get", "key", key), err)
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return def, nil
	}
	return value.String, nil
}

// Delete removes key. Deleting a missing key affects zero rows.
func (r *KeyValueRepository) Delete(ctx context.Context, key string) (int64, error) {
	affected, err := r.helper.Exec(ctx, `DELETE FROM kvstore WHERE key = ?`, key)
	logResult(ctx, repositoryLogger(ctx, r.logger, "kvstore", "delete", "key", key), err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", key, err)
	}
	return affected, nil
}

// List returns every setting ordered by key.
func (r *KeyValueRepository) List(ctx context.Context) ([]persistence.KeyValue, error) {
	query := `SELECT key, value, created_at, updated_at FROM kvstore ORDER BY key`
	items, err := queryAll(ctx, r.helper, query, func(row rowScanner) (persistence.KeyValue, error) {
		var kv persistence.KeyValue
		var value sql.NullString
		var createdStr, updatedStr string
		if err := row.Scan(&kv.Key, &value, &createdStr, &updatedStr); err != nil {
			return persistence.KeyValue{}, err
		}
		kv.Value = value.String

		var err error
		if kv.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
			return persistence.KeyValue{}, err
		}
		if kv.UpdatedAt, err = parseTime("updated_at", updatedStr); err != nil {
			return persistence.KeyValue{}, err
		}
		return kv, nil
	})
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "kvstore", "list"), err)
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return items, nil
}
