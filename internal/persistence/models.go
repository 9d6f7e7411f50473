package persistence

import "time"

// EventKind classifies an Event ("matter") row.
type EventKind int

const (
	EventKindNormal EventKind = 0
	EventKindRepeat EventKind = 1
	EventKindTodo   EventKind = 2
)

// TaskStatus is the lifecycle state of a RecurringTask. Transitions are driven
// entirely by callers.
type TaskStatus int

const (
	TaskStatusArchived TaskStatus = -1
	TaskStatusStopped  TaskStatus = 0
	TaskStatusActive   TaskStatus = 1
)

// NotificationStatus tracks whether a notification has been read.
type NotificationStatus int

const (
	NotificationUnread NotificationStatus = 0
	NotificationRead   NotificationStatus = 1
)

// Well-known Todo status values. The repository stores any string.
const (
	TodoStatusTodo       = "todo"
	TodoStatusInProgress = "in_progress"
	TodoStatusCompleted  = "completed"
)

// Event represents a timed calendar entry, stored in the matter table.
type Event struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description *string   `json:"description"`
	Tags        *string   `json:"tags"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Priority    int       `json:"priority"`
	Kind        EventKind `json:"type_"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Reserved1   *string   `json:"reserved_1"`
	Reserved2   *string   `json:"reserved_2"`
	Reserved3   *string   `json:"reserved_3"`
	Reserved4   *string   `json:"reserved_4"`
	Reserved5   *string   `json:"reserved_5"`
}

// RecurringTask is a task that repeats according to an opaque, serialized rule.
type RecurringTask struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Tags        *string    `json:"tags"`
	RepeatTime  string     `json:"repeat_time"`
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// KeyValue is a single application setting.
type KeyValue struct {
	Key       string    `json:"key" validate:"required"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a label that events and tasks reference by name.
type Tag struct {
	Name       string    `json:"name" validate:"required"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// Todo is a simple checklist item.
type Todo struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotificationRecord is a delivered notification. Unset optional timestamps
// are nil rather than the sentinel time.
type NotificationRecord struct {
	ID            string             `json:"id" validate:"required"`
	Title         string             `json:"title" validate:"required"`
	Content       string             `json:"content"`
	Type          int                `json:"type_"`
	Status        NotificationStatus `json:"status"`
	RelatedTaskID *string            `json:"related_task_id"`
	CreatedAt     time.Time          `json:"created_at"`
	ReadAt        *time.Time         `json:"read_at"`
	ExpireAt      *time.Time         `json:"expire_at"`
	ActionURL     *string            `json:"action_url"`
	Reserved1     *string            `json:"reserved_1"`
	Reserved2     *string            `json:"reserved_2"`
	Reserved3     *string            `json:"reserved_3"`
	Reserved4     *string            `json:"reserved_4"`
	Reserved5     *string            `json:"reserved_5"`
}
