package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/fates/internal/persistence"
)

const notificationColumns = `id, title, content, type, status, related_task_id, created_at, read_at,
	expire_at, action_url, reserved_1, reserved_2, reserved_3, reserved_4, reserved_5`

// NotificationRepository implements persistence.NotificationRepository using SQLite
type NotificationRepository struct {
	helper *QueryHelper
	logger *slog.Logger
	now    func() time.Time
}

var _ persistence.NotificationRepository = (*NotificationRepository)(nil)

// NewNotificationRepository creates a new SQLite notification repository
func NewNotificationRepository(helper *QueryHelper, logger *slog.Logger, now func() time.Time) *NotificationRepository {
	return &NotificationRepository{helper: helper, logger: logger, now: now}
}

// CreateNotification inserts a notification record as given.
func (r *NotificationRepository) CreateNotification(ctx context.Context, record persistence.NotificationRecord) error {
	logger := repositoryLogger(ctx, r.logger, "notification", "create", "notification_id", record.ID)
	if err := persistence.Validate(record); err != nil {
		logResult(ctx, logger, err)
		return err
	}

	query := `
		INSERT INTO notification_records (` + notificationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		record.ID,
		record.Title,
		record.Content,
		record.Type,
		int(record.Status),
		nullString(record.RelatedTaskID),
		formatTime(record.CreatedAt),
		formatNullTime(record.ReadAt),
		formatNullTime(record.ExpireAt),
		nullString(record.ActionURL),
		nullString(record.Reserved1),
		nullString(record.Reserved2),
		nullString(record.Reserved3),
		nullString(record.Reserved4),
		nullString(record.Reserved5),
	)
	logResult(ctx, logger, err)
	if err != nil {
		return fmt.Errorf("create notification %s: %w", record.ID, err)
	}
	return nil
}

func (r *NotificationRepository) GetNotification(ctx context.Context, id string) (persistence.NotificationRecord, bool, error) {
	query := `SELECT ` + notificationColumns + ` FROM notification_records WHERE id = ?`
	record, found, err := queryOne(ctx, r.helper, query, scanNotification, id)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "notification", "get", "notification_id", id), err)
		return persistence.NotificationRecord{}, false, fmt.Errorf("get notification %s: %w", id, err)
	}
	return record, found, nil
}

// ListNotifications returns every notification, newest first.
func (r *NotificationRepository) ListNotifications(ctx context.Context) ([]persistence.NotificationRecord, error) {
	query := `SELECT ` + notificationColumns + ` FROM notification_records ORDER BY created_at DESC, id`
	return r.list(ctx, "list", query)
}

// ListUnreadNotifications returns unread notifications, newest first.
func (r *NotificationRepository) ListUnreadNotifications(ctx context.Context) ([]persistence.NotificationRecord, error) {
	query := `SELECT ` + notificationColumns + ` FROM notification_records WHERE status = ? ORDER BY created_at DESC, id`
	return r.list(ctx, "list_unread", query, int(persistence.NotificationUnread))
}

// UpdateNotification overwrites the mutable columns. read_at and created_at
// are never changed here.
func (r *NotificationRepository) UpdateNotification(ctx context.Context, record persistence.NotificationRecord) (int64, error) {
	logger := repositoryLogger(ctx, r.logger, "notification", "update", "notification_id", record.ID)
	if err := persistence.Validate(record); err != nil {
		logResult(ctx, logger, err)
		return 0, err
	}

	query := `
		UPDATE notification_records SET
			title = ?, content = ?, type = ?, status = ?, related_task_id = ?,
			expire_at = ?, action_url = ?,
			reserved_1 = ?, reserved_2 = ?, reserved_3 = ?, reserved_4 = ?, reserved_5 = ?
		WHERE id = ?
	`
	affected, err := r.helper.Exec(ctx, query,
		record.Title,
		record.Content,
		record.Type,
		int(record.Status),
		nullString(record.RelatedTaskID),
		formatNullTime(record.ExpireAt),
		nullString(record.ActionURL),
		nullString(record.Reserved1),
		nullString(record.Reserved2),
		nullString(record.Reserved3),
		nullString(record.Reserved4),
		nullString(record.Reserved5),
		record.ID,
	)
	logResult(ctx, logger, err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("update notification %s: %w", record.ID, err)
	}
	return affected, nil
}

func (r *NotificationRepository) DeleteNotification(ctx context.Context, id string) (int64, error) {
	affected, err := r.helper.Exec(ctx, `DELETE FROM notification_records WHERE id = ?`, id)
	logResult(ctx, repositoryLogger(ctx, r.logger, "notification", "delete", "notification_id", id), err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("delete notification %s: %w", id, err)
	}
	return affected, nil
}

// MarkNotificationRead marks one unread notification as read.
func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, id string) (int64, error) {
	return r.markRead(ctx, "mark_read", `AND id = ?`, id)
}

// MarkNotificationsReadByType marks every unread notification of a type as read.
func (r *NotificationRepository) MarkNotificationsReadByType(ctx context.Context, notificationType int) (int64, error) {
	return r.markRead(ctx, "mark_read_by_type", `AND type = ?`, notificationType)
}

// MarkAllNotificationsRead marks every unread notification as read.
func (r *NotificationRepository) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	return r.markRead(ctx, "mark_all_read", ``)
}

// markRead restricts to unread rows so read_at keeps the first read time.
func (r *NotificationRepository) markRead(ctx context.Context, operation, filter string, args ...any) (int64, error) {
	query := `UPDATE notification_records SET status = ?, read_at = ? WHERE status = ? ` + filter
	params := append([]any{
		int(persistence.NotificationRead),
		formatTime(r.now()),
		int(persistence.NotificationUnread),
	}, args...)

	affected, err := r.helper.Exec(ctx, query, params...)
	logResult(ctx, repositoryLogger(ctx, r.logger, "notification", operation), err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("%s notifications: %w", operation, err)
	}
	return affected, nil
}

func (r *NotificationRepository) list(ctx context.Context, operation, query string, args ...any) ([]persistence.NotificationRecord, error) {
	records, err := queryAll(ctx, r.helper, query, scanNotification, args...)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "notification", operation), err)
		return nil, fmt.Errorf("%s notifications: %w", operation, err)
	}
	return records, nil
}

func scanNotification(row rowScanner) (persistence.NotificationRecord, error) {
	var record persistence.NotificationRecord
	var relatedTaskID, actionURL, readAt, expireAt sql.NullString
	var r1, r2, r3, r4, r5 sql.NullString
	var createdStr string
	var status int

	if err := row.Scan(
		&record.ID,
		&record.Title,
		&record.Content,
		&record.Type,
		&status,
		&relatedTaskID,
		&createdStr,
		&readAt,
		&expireAt,
		&actionURL,
		&r1, &r2, &r3, &r4, &r5,
	); err != nil {
		return persistence.NotificationRecord{}, err
	}

	var err error
	if record.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return persistence.NotificationRecord{}, err
	}
	if record.ReadAt, err = parseNullTime("read_at", readAt); err != nil {
		return persistence.NotificationRecord{}, err
	}
	if record.ExpireAt, err = parseNullTime("expire_at", expireAt); err != nil {
		return persistence.NotificationRecord{}, err
	}

	record.Status = persistence.NotificationStatus(status)
	record.RelatedTaskID = stringPtr(relatedTaskID)
	record.ActionURL = stringPtr(actionURL)
	record.Reserved1 = stringPtr(r1)
	record.Reserved2 = stringPtr(r2)
	record.Reserved3 = stringPtr(r3)
	record.Reserved4 = stringPtr(r4)
	record.Reserved5 = stringPtr(r5)
	return record, nil
}
