package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/fates/internal/persistence"
)

var (
	eventCounter        uint64
	taskCounter         uint64
	todoCounter         uint64
	notificationCounter uint64
)

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// ----------------------------- Event fixtures -----------------------------

// EventOption configures a generated event.
type EventOption func(*persistence.Event)

// NewEvent returns a one-hour normal event starting idx hours after
// ReferenceTime, with optional overrides.
func NewEvent(opts ...EventOption) persistence.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	event := persistence.Event{
		ID:        fmt.Sprintf("event-%03d", idx),
		Title:     fmt.Sprintf("Event %03d", idx),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Kind:      persistence.EventKindNormal,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

func WithEventID(id string) EventOption {
	return func(e *persistence.Event) { e.ID = id }
}

func WithEventTitle(title string) EventOption {
	return func(e *persistence.Event) { e.Title = title }
}

func WithEventDescription(description string) EventOption {
	return func(e *persistence.Event) { e.Description = StrPtr(description) }
}

func WithEventTags(tags string) EventOption {
	return func(e *persistence.Event) { e.Tags = StrPtr(tags) }
}

// WithEventWindow sets the start and end instants.
func WithEventWindow(start, end time.Time) EventOption {
	return func(e *persistence.Event) {
		e.StartTime = start
		e.EndTime = end
	}
}

func WithEventPriority(priority int) EventOption {
	return func(e *persistence.Event) { e.Priority = priority }
}

func WithEventKind(kind persistence.EventKind) EventOption {
	return func(e *persistence.Event) { e.Kind = kind }
}

func WithEventTimestamps(created, updated time.Time) EventOption {
	return func(e *persistence.Event) {
		e.CreatedAt = created
		e.UpdatedAt = updated
	}
}

// ------------------------- Recurring task fixtures -------------------------

// RecurringTaskOption configures a generated recurring task.
type RecurringTaskOption func(*persistence.RecurringTask)

// NewRecurringTask returns an active daily task created idx minutes after
// ReferenceTime.
func NewRecurringTask(opts ...RecurringTaskOption) persistence.RecurringTask {
	idx := atomic.AddUint64(&taskCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	task := persistence.RecurringTask{
		ID:         fmt.Sprintf("task-%03d", idx),
		Title:      fmt.Sprintf("Task %03d", idx),
		RepeatTime: `{"frequency":"daily","at":"09:00"}`,
		Status:     persistence.TaskStatusActive,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&task)
	}
	return task
}

func WithTaskID(id string) RecurringTaskOption {
	return func(t *persistence.RecurringTask) { t.ID = id }
}

func WithTaskTitle(title string) RecurringTaskOption {
	return func(t *persistence.RecurringTask) { t.Title = title }
}

func WithTaskStatus(status persistence.TaskStatus) RecurringTaskOption {
	return func(t *persistence.RecurringTask) { t.Status = status }
}

func WithTaskRepeatRule(rule string) RecurringTaskOption {
	return func(t *persistence.RecurringTask) { t.RepeatTime = rule }
}

func WithTaskTimestamps(created, updated time.Time) RecurringTaskOption {
	return func(t *persistence.RecurringTask) {
		t.CreatedAt = created
		t.UpdatedAt = updated
	}
}

// ------------------------------ Todo fixtures ------------------------------

// TodoOption configures a generated todo.
type TodoOption func(*persistence.Todo)

// NewTodo returns an open todo created idx minutes after ReferenceTime.
func NewTodo(opts ...TodoOption) persistence.Todo {
	idx := atomic.AddUint64(&todoCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	todo := persistence.Todo{
		ID:        fmt.Sprintf("todo-%03d", idx),
		Title:     fmt.Sprintf("Todo %03d", idx),
		Status:    persistence.TodoStatusTodo,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&todo)
	}
	return todo
}

func WithTodoID(id string) TodoOption {
	return func(t *persistence.Todo) { t.ID = id }
}

func WithTodoStatus(status string) TodoOption {
	return func(t *persistence.Todo) { t.Status = status }
}

func WithTodoTimestamps(created, updated time.Time) TodoOption {
	return func(t *persistence.Todo) {
		t.CreatedAt = created
		t.UpdatedAt = updated
	}
}

// -------------------------- Notification fixtures --------------------------

// NotificationOption configures a generated notification record.
type NotificationOption func(*persistence.NotificationRecord)

// NewNotification returns an unread notification of type 0 created idx
// minutes after ReferenceTime.
func NewNotification(opts ...NotificationOption) persistence.NotificationRecord {
	idx := atomic.AddUint64(&notificationCounter, 1)
	record := persistence.NotificationRecord{
		ID:        fmt.Sprintf("notification-%03d", idx),
		Title:     fmt.Sprintf("Notification %03d", idx),
		Content:   fmt.Sprintf("Body %03d", idx),
		Status:    persistence.NotificationUnread,
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

func WithNotificationID(id string) NotificationOption {
	return func(n *persistence.NotificationRecord) { n.ID = id }
}

func WithNotificationType(notificationType int) NotificationOption {
	return func(n *persistence.NotificationRecord) { n.Type = notificationType }
}

func WithNotificationCreatedAt(t time.Time) NotificationOption {
	return func(n *persistence.NotificationRecord) { n.CreatedAt = t }
}

func WithNotificationRelatedTask(id string) NotificationOption {
	return func(n *persistence.NotificationRecord) { n.RelatedTaskID = StrPtr(id) }
}

func WithNotificationExpireAt(t time.Time) NotificationOption {
	return func(n *persistence.NotificationRecord) { n.ExpireAt = TimePtr(t) }
}
