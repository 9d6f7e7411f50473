package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/fates/internal/persistence"
)

// TagRepository implements persistence.TagRepository using SQLite
type TagRepository struct {
	helper *QueryHelper
	logger *slog.Logger
	now    func() time.Time
}

var _ persistence.TagRepository = (*TagRepository)(nil)

// NewTagRepository creates a new SQLite tag repository
func NewTagRepository(helper *QueryHelper, logger *slog.Logger, now func() time.Time) *TagRepository {
	return &TagRepository{helper: helper, logger: logger, now: now}
}

// CreateTag registers name. An existing tag is left untouched.
func (r *TagRepository) CreateTag(ctx context.Context, name string) error {
	logger := repositoryLogger(ctx, r.logger, "tag", "create", "tag", name)
	if err := persistence.ValidateName("tag name", name); err != nil {
		logResult(ctx, logger, err)
		return err
	}

	now := formatTime(r.now())
	affected, err := r.helper.Exec(ctx,
		`INSERT OR IGNORE INTO tags (name, created_at, last_used_at) VALUES (?, ?, ?)`,
		name, now, now,
	)
	logResult(ctx, logger, err, "rows_affected", affected)
	if err != nil {
		return fmt.Errorf("create tag %s: %w", name, err)
	}
	return nil
}

func (r *TagRepository) GetTag(ctx context.Context, name string) (persistence.Tag, bool, error) {
	tag, found, err := queryOne(ctx, r.helper,
		`SELECT name, created_at, last_used_at FROM tags WHERE name = ?`, scanTag, name)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "tag", "get", "tag", name), err)
		return persistence.Tag{}, false, fmt.Errorf("get tag %s: %w", name, err)
	}
	return tag, found, nil
}

// ListTags returns every tag ordered by name.
func (r *TagRepository) ListTags(ctx context.Context) ([]persistence.Tag, error) {
	tags, err := queryAll(ctx, r.helper, `SELECT name, created_at, last_used_at FROM tags ORDER BY name`, scanTag)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "tag", "list"), err)
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// TouchTag stamps last_used_at with the current time.
func (r *TagRepository) TouchTag(ctx context.Context, name string) (int64, error) {
	affected, err := r.helper.Exec(ctx,
		`UPDATE tags SET last_used_at = ? WHERE name = ?`, formatTime(r.now()), name)
	logResult(ctx, repositoryLogger(ctx, r.logger, "tag", "touch", "tag", name), err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("touch tag %s: %w", name, err)
	}
	return affected, nil
}

func (r *TagRepository) DeleteTag(ctx context.Context, name string) (int64, error) {
	affected, err := r.helper.Exec(ctx, `DELETE FROM tags WHERE name = ?`, name)
	logResult(ctx, repositoryLogger(ctx, r.logger, "tag", "delete", "tag", name), err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("delete tag %s: %w", name, err)
	}
	return affected, nil
}

func scanTag(row rowScanner) (persistence.Tag, error) {
	var tag persistence.Tag
	var createdStr, lastUsedStr string
	if err := row.Scan(&tag.Name, &createdStr, &lastUsedStr); err != nil {
		return persistence.Tag{}, err
	}

	var err error
	if tag.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return persistence.Tag{}, err
	}
	if tag.LastUsedAt, err = parseTime("last_used_at", lastUsedStr); err != nil {
		return persistence.Tag{}, err
	}
	return tag, nil
}
