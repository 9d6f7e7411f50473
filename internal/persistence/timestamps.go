package persistence

import (
	"encoding/json"
	"time"
)

var defaultTime = time.Unix(0, 0).UTC()

// DefaultTime returns the sentinel instant (1970-01-01T00:00:00Z) used when a
// required timestamp is omitted from decoded input.
func DefaultTime() time.Time {
	return defaultTime
}

// IsDefaultTime reports whether t is the sentinel returned by DefaultTime.
func IsDefaultTime(t time.Time) bool {
	return t.Unix() == 0 && t.Nanosecond() == 0
}

// UnmarshalJSON decodes an Event, defaulting omitted timestamps to DefaultTime.
func (e *Event) UnmarshalJSON(data []byte) error {
	type event Event
	decoded := event{
		StartTime: defaultTime,
		EndTime:   defaultTime,
		CreatedAt: defaultTime,
		UpdatedAt: defaultTime,
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*e = Event(decoded)
	return nil
}

// UnmarshalJSON decodes a RecurringTask, defaulting omitted timestamps to DefaultTime.
func (t *RecurringTask) UnmarshalJSON(data []byte) error {
	type task RecurringTask
	decoded := task{CreatedAt: defaultTime, UpdatedAt: defaultTime}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*t = RecurringTask(decoded)
	return nil
}

// UnmarshalJSON decodes a KeyValue, defaulting omitted timestamps to DefaultTime.
func (kv *KeyValue) UnmarshalJSON(data []byte) error {
	type keyValue KeyValue
	decoded := keyValue{CreatedAt: defaultTime, UpdatedAt: defaultTime}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*kv = KeyValue(decoded)
	return nil
}

// UnmarshalJSON decodes a Tag, defaulting omitted timestamps to DefaultTime.
func (t *Tag) UnmarshalJSON(data []byte) error {
	type tag Tag
	decoded := tag{CreatedAt: defaultTime, LastUsedAt: defaultTime}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*t = Tag(decoded)
	return nil
}

// UnmarshalJSON decodes a Todo, defaulting omitted timestamps to DefaultTime.
func (t *Todo) UnmarshalJSON(data []byte) error {
	type todo Todo
	decoded := todo{CreatedAt: defaultTime, UpdatedAt: defaultTime}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*t = Todo(decoded)
	return nil
}
