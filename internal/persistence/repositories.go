package persistence

import (
	"context"
	"time"
)

// EventRepository persists Event rows.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id string) (Event, bool, error)
	ListEvents(ctx context.Context) ([]Event, error)
	UpdateEvent(ctx context.Context, event Event) (int64, error)
	DeleteEvent(ctx context.Context, id string) (int64, error)
	// ListEventsInRange returns events overlapping the closed interval [start, end].
	ListEventsInRange(ctx context.Context, start, end time.Time) ([]Event, error)
	// QueryEventsByField matches value exactly, or as a substring when exact is false.
	QueryEventsByField(ctx context.Context, field EventField, value string, exact bool) ([]Event, error)
}

// RecurringTaskRepository persists RecurringTask rows.
type RecurringTaskRepository interface {
	CreateRecurringTask(ctx context.Context, task RecurringTask) error
	GetRecurringTask(ctx context.Context, id string) (RecurringTask, bool, error)
	ListRecurringTasks(ctx context.Context) ([]RecurringTask, error)
	UpdateRecurringTask(ctx context.Context, task RecurringTask) (int64, error)
	DeleteRecurringTask(ctx context.Context, id string) (int64, error)
	ListActiveRecurringTasks(ctx context.Context) ([]RecurringTask, error)
	UpdateRecurringTaskStatus(ctx context.Context, id string, status TaskStatus) (int64, error)
}

// KeyValueRepository stores application settings.
type KeyValueRepository interface {
	Set(ctx context.Context, key, value string) error
	// Get returns def when key is absent.
	Get(ctx context.Context, key, def string) (string, error)
	Delete(ctx context.Context, key string) (int64, error)
	List(ctx context.Context) ([]KeyValue, error)
}

// TagRepository persists Tag rows.
type TagRepository interface {
	// CreateTag is a no-op when the tag already exists.
	CreateTag(ctx context.Context, name string) error
	GetTag(ctx context.Context, name string) (Tag, bool, error)
	ListTags(ctx context.Context) ([]Tag, error)
	TouchTag(ctx context.Context, name string) (int64, error)
	DeleteTag(ctx context.Context, name string) (int64, error)
}

// TodoRepository persists Todo rows.
type TodoRepository interface {
	CreateTodo(ctx context.Context, todo Todo) error
	GetTodo(ctx context.Context, id string) (Todo, bool, error)
	ListTodos(ctx context.Context) ([]Todo, error)
	UpdateTodo(ctx context.Context, todo Todo) (int64, error)
	DeleteTodo(ctx context.Context, id string) (int64, error)
}

// NotificationRepository persists NotificationRecord rows.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, record NotificationRecord) error
	GetNotification(ctx context.Context, id string) (NotificationRecord, bool, error)
	ListNotifications(ctx context.Context) ([]NotificationRecord, error)
	ListUnreadNotifications(ctx context.Context) ([]NotificationRecord, error)
	UpdateNotification(ctx context.Context, record NotificationRecord) (int64, error)
	DeleteNotification(ctx context.Context, id string) (int64, error)
	MarkNotificationRead(ctx context.Context, id string) (int64, error)
	MarkNotificationsReadByType(ctx context.Context, notificationType int) (int64, error)
	MarkAllNotificationsRead(ctx context.Context) (int64, error)
}
