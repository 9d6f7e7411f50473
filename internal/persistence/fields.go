package persistence

import "fmt"

// EventField names an Event column that QueryEventsByField may filter on.
// The set is closed; column names never come from caller input.
type EventField int

const (
	EventFieldID EventField = iota
	EventFieldTitle
	EventFieldDescription
	EventFieldTags
	EventFieldStartTime
	EventFieldEndTime
	EventFieldPriority
	EventFieldKind
	EventFieldCreatedAt
	EventFieldUpdatedAt
	EventFieldReserved1
	EventFieldReserved2
	EventFieldReserved3
	EventFieldReserved4
	EventFieldReserved5
)

var eventFieldColumns = [...]string{
	EventFieldID:          "id",
	EventFieldTitle:       "title",
	EventFieldDescription: "description",
	EventFieldTags:        "tags",
	EventFieldStartTime:   "start_time",
	EventFieldEndTime:     "end_time",
	EventFieldPriority:    "priority",
	EventFieldKind:        "type",
	EventFieldCreatedAt:   "created_at",
	EventFieldUpdatedAt:   "updated_at",
	EventFieldReserved1:   "reserved_1",
	EventFieldReserved2:   "reserved_2",
	EventFieldReserved3:   "reserved_3",
	EventFieldReserved4:   "reserved_4",
	EventFieldReserved5:   "reserved_5",
}

// EventFields lists every queryable field in column order.
func EventFields() []EventField {
	fields := make([]EventField, len(eventFieldColumns))
	for i := range eventFieldColumns {
		fields[i] = EventField(i)
	}
	return fields
}

// Column returns the matter column backing f, or "" if f is out of range.
func (f EventField) Column() string {
	if !f.Valid() {
		return ""
	}
	return eventFieldColumns[f]
}

// Valid reports whether f is one of the enumerated fields.
func (f EventField) Valid() bool {
	return f >= 0 && int(f) < len(eventFieldColumns)
}

func (f EventField) String() string {
	if !f.Valid() {
		return fmt.Sprintf("EventField(%d)", int(f))
	}
	return eventFieldColumns[f]
}

// ParseEventField converts a column name to its EventField.
func ParseEventField(name string) (EventField, error) {
	for i, column := range eventFieldColumns {
		if column == name {
			return EventField(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}
