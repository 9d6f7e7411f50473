package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/fates/internal/persistence"
)

const eventColumns = `id, title, description, tags, start_time, end_time, priority, type,
	created_at, updated_at, reserved_1, reserved_2, reserved_3, reserved_4, reserved_5`

// eventFieldQueries holds the prebuilt exact and substring statements for
// every queryable field, keyed by field.
var eventFieldQueries = func() map[persistence.EventField][2]string {
	queries := make(map[persistence.EventField][2]string)
	for _, field := range persistence.EventFields() {
		column := field.Column()
		queries[field] = [2]string{
			`SELECT ` + eventColumns + ` FROM matter WHERE ` + column + ` = ? ORDER BY start_time, id`,
			`SELECT ` + eventColumns + ` FROM matter WHERE ` + column + ` LIKE '%' || ? || '%' ORDER BY start_time, id`,
		}
	}
	return queries
}()

// EventRepository implements persistence.EventRepository using SQLite
type EventRepository struct {
	helper *QueryHelper
	logger *slog.Logger
}

var _ persistence.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates a new SQLite event repository
func NewEventRepository(helper *QueryHelper, logger *slog.Logger) *EventRepository {
	return &EventRepository{helper: helper, logger: logger}
}

// CreateEvent inserts a new event. Timestamps are stored as given.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) error {
	logger := repositoryLogger(ctx, r.logger, "event", "create", "event_id", event.ID)
	if err := persistence.Validate(event); err != nil {
		logResult(ctx, logger, err)
		return err
	}

	query := `
		INSERT INTO matter (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		event.ID,
		event.Title,
		nullString(event.Description),
		nullString(event.Tags),
		formatTime(event.StartTime),
		formatTime(event.EndTime),
		event.Priority,
		int(event.Kind),
		formatTime(event.CreatedAt),
		formatTime(event.UpdatedAt),
		nullString(event.Reserved1),
		nullString(event.Reserved2),
		nullString(event.Reserved3),
		nullString(event.Reserved4),
		nullString(event.Reserved5),
	)
	logResult(ctx, logger, err)
	if err != nil {
		return fmt.Errorf("create event %s: %w", event.ID, err)
	}
	return nil
}

// GetEvent retrieves an event by ID. The boolean is false when it doesn't exist.
func (r *EventRepository) GetEvent(ctx context.Context, id string) (persistence.Event, bool, error) {
	query := `SELECT ` + eventColumns + ` FROM matter WHERE id = ?`
	event, found, err := queryOne(ctx, r.helper, query, scanEvent, id)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "event", "get", "event_id", id), err)
		return persistence.Event{}, false, fmt.Errorf("get event %s: %w", id, err)
	}
	return event, found, nil
}

// ListEvents returns every event ordered by start time.
func (r *EventRepository) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM matter ORDER BY start_time, id`
	return r.list(ctx, "list", query)
}

// ListEventsInRange returns events that start in, end in, or span [start, end].
func (r *EventRepository) ListEventsInRange(ctx context.Context, start, end time.Time) ([]persistence.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM matter
		WHERE (start_time BETWEEN ?1 AND ?2)
			OR (end_time BETWEEN ?1 AND ?2)
			OR (start_time <= ?1 AND end_time >= ?2)
		ORDER BY start_time, id
	`
	return r.list(ctx, "list_in_range", query, formatTime(start), formatTime(end))
}

// QueryEventsByField filters on one enumerated column, exactly or by substring.
func (r *EventRepository) QueryEventsByField(ctx context.Context, field persistence.EventField, value string, exact bool) ([]persistence.Event, error) {
	queries, ok := eventFieldQueries[field]
	if !ok {
		err := fmt.Errorf("%w: %s", persistence.ErrUnknownField, field)
		logResult(ctx, repositoryLogger(ctx, r.logger, "event", "query_by_field"), err)
		return nil, err
	}
	query := queries[1]
	if exact {
		query = queries[0]
	}
	return r.list(ctx, "query_by_field", query, value)
}

// UpdateEvent overwrites the mutable columns of an event and returns the
// number of rows changed.
func (r *EventRepository) UpdateEvent(ctx context.Context, event persistence.Event) (int64, error) {
	logger := repositoryLogger(ctx, r.logger, "event", "update", "event_id", event.ID)
	if err := persistence.Validate(event); err != nil {
		logResult(ctx, logger, err)
		return 0, err
	}

	query := `
		UPDATE matter SET
			title = ?, description = ?, tags = ?, start_time = ?, end_time = ?,
			priority = ?, type = ?, updated_at = ?,
			reserved_1 = ?, reserved_2 = ?, reserved_3 = ?, reserved_4 = ?, reserved_5 = ?
		WHERE id = ?
	`
	affected, err := r.helper.Exec(ctx, query,
		event.Title,
		nullString(event.Description),
		nullString(event.Tags),
		formatTime(event.StartTime),
		formatTime(event.EndTime),
		event.Priority,
		int(event.Kind),
		formatTime(event.UpdatedAt),
		nullString(event.Reserved1),
		nullString(event.Reserved2),
		nullString(event.Reserved3),
		nullString(event.Reserved4),
		nullString(event.Reserved5),
		event.ID,
	)
	logResult(ctx, logger, err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("update event %s: %w", event.ID, err)
	}
	return affected, nil
}

// DeleteEvent removes an event. Deleting a missing id affects zero rows.
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) (int64, error) {
	affected, err := r.helper.Exec(ctx, `DELETE FROM matter WHERE id = ?`, id)
	logResult(ctx, repositoryLogger(ctx, r.logger, "event", "delete", "event_id", id), err, "rows_affected", affected)
	if err != nil {
		return 0, fmt.Errorf("delete event %s: %w", id, err)
	}
	return affected, nil
}

func (r *EventRepository) list(ctx context.Context, operation, query string, args ...any) ([]persistence.Event, error) {
	events, err := queryAll(ctx, r.helper, query, scanEvent, args...)
	if err != nil {
		logResult(ctx, repositoryLogger(ctx, r.logger, "event", operation), err)
		return nil, fmt.Errorf("%s events: %w", operation, err)
	}
	return events, nil
}

func scanEvent(row rowScanner) (persistence.Event, error) {
	var event persistence.Event
	var description, tags sql.NullString
	var r1, r2, r3, r4, r5 sql.NullString
	var startStr, endStr, createdStr, updatedStr string
	var kind int

	if err := row.Scan(
		&event.ID,
		&event.Title,
		&description,
		&tags,
		&startStr,
		&endStr,
		&event.Priority,
		&kind,
		&createdStr,
		&updatedStr,
		&r1, &r2, &r3, &r4, &r5,
	); err != nil {
		return persistence.Event{}, err
	}

	var err error
	if event.StartTime, err = parseTime("start_time", startStr); err != nil {
		return persistence.Event{}, err
	}
	if event.EndTime, err = parseTime("end_time", endStr); err != nil {
		return persistence.Event{}, err
	}
	if event.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return persistence.Event{}, err
	}
	if event.UpdatedAt, err = parseTime("updated_at", updatedStr); err != nil {
		return persistence.Event{}, err
	}

	event.Kind = persistence.EventKind(kind)
	event.Description = stringPtr(description)
	event.Tags = stringPtr(tags)
	event.Reserved1 = stringPtr(r1)
	event.Reserved2 = stringPtr(r2)
	event.Reserved3 = stringPtr(r3)
	event.Reserved4 = stringPtr(r4)
	event.Reserved5 = stringPtr(r5)
	return event, nil
}
