package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fates/internal/persistence"
	"github.com/example/fates/internal/testfixtures"
)

func eventIDs(events []persistence.Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestEventRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewSQLiteHarness(t)

	start := time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.UTC)
	event := testfixtures.NewEvent(
		testfixtures.WithEventID("event-rt"),
		testfixtures.WithEventTags("work,focus"),
		testfixtures.WithEventWindow(start, start.Add(90*time.Minute)),
		testfixtures.WithEventPriority(3),
		testfixtures.WithEventKind(persistence.EventKindRepeat),
	)
	event.Reserved2 = testfixtures.StrPtr("extra")
	require.NoError(t, h.Events.CreateEvent(ctx, event))

	got, found, err := h.Events.GetEvent(ctx, "event-rt")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, event.Title, got.Title)
	assert.Nil(t, got.Description)
	require.NotNil(t, got.Tags)
	assert.Equal(t, "work,focus", *got.Tags)
	assert.True(t, got.StartTime.Equal(start), "start %v != %v", got.StartTime, start)
	assert.True(t, got.EndTime.Equal(start.Add(90*time.Minute)))
	assert.Equal(t, 3, got.Priority)
	assert.Equal(t, persistence.EventKindRepeat, got.Kind)
	assert.Nil(t, got.Reserved1)
	require.NotNil(t, got.Reserved2)
	assert.Equal(t, "extra", *got.Reserved2)
}

func TestEventRepository_MissingRows(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewSQLiteHarness(t)

	_, found, err := h.Events.GetEvent(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)

	n, err := h.Events.UpdateEvent(ctx, testfixtures.NewEvent(testfixtures.WithEventID("nope")))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = h.Events.DeleteEvent(ctx, "nope")
	require.NoError(t, err)
	assert.Zero(t, n)

	events, err := h.Events.ListEvents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventRepository_ListOrdersByStartThenID(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewSQLiteHarness(t)
	base := testfixtures.ReferenceTime()

	for _, e := range []persistence.Event{
		testfixtures.NewEvent(testfixtures.WithEventID("c"), testfixtures.WithEventWindow(base.Add(2*time.Hour), base.Add(3*time.Hour))),
		testfixtures.NewEvent(testfixtures.WithEventID("b"), testfixtures.WithEventWindow(base, base.Add(time.Hour))),
		testfixtures.NewEvent(testfixtures.WithEventID("a"), testfixtures.WithEventWindow(base, base.Add(time.Hour))),
	} {
		require.NoError(t, h.Events.CreateEvent(ctx, e))
	}

	events, err := h.Events.ListEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, eventIDs(events))
}

func TestEventRepository_ListEventsInRange(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewSQLiteHarness(t)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	at := func(hour int) time.Time { return day.Add(time.Duration(hour) * time.Hour) }

	// Query window is [10, 20].
	for _, e := range []persistence.Event{
		testfixtures.NewEvent(testfixtures.WithEventID("inside"), testfixtures.WithEventWindow(at(12), at(14))),
		testfixtures.NewEvent(testfixtures.WithEventID("ends-after"), testfixtures.WithEventWindow(at(15), at(25))),
		testfixtures.NewEvent(testfixtures.WithEventID("starts-before"), testfixtures.WithEventWindow(at(5), at(10))),
		testfixtures.NewEvent(testfixtures.WithEventID("spans"), testfixtures.WithEventWindow(at(0), at(100))),
		testfixtures.NewEvent(testfixtures.WithEventID("later"), testfixtures.WithEventWindow(at(21), at(30))),
		testfixtures.NewEvent(testfixtures.WithEventID("earlier"), testfixtures.WithEventWindow(at(5), at(9))),
	} {
		require.NoError(t, h.Events.CreateEvent(ctx, e))
	}

	events, err := h.Events.ListEventsInRange(ctx, at(10), at(20))
	require.NoError(t, err)
	assert.Equal(t, []string{"spans", "starts-before", "inside", "ends-after"}, eventIDs(events))

	events, err = h.Events.ListEventsInRange(ctx, at(200), at(300))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventRepository_QueryEventsByField(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewSQLiteHarness(t)

	require.NoError(t, h.Events.CreateEvent(ctx, testfixtures.NewEvent(
		testfixtures.WithEventID("standup"), testfixtures.WithEventTitle("Daily standup"), testfixtures.WithEventTags("work"))))
	require.NoError(t, h.Events.CreateEvent(ctx, testfixtures.NewEvent(
		testfixtures.WithEventID("gym"), testfixtures.WithEventTitle("Gym"), testfixtures.WithEventTags("health"),
		testfixtures.WithEventKind(persistence.EventKindTodo))))

	tests := []struct {
		name  string
		field persistence.EventField
		value string
		exact bool
		want  []string
	}{
		{name: "exact title", field: persistence.EventFieldTitle, value: "Gym", exact: true, want: []string{"gym"}},
		{name: "exact title is not substring", field: persistence.EventFieldTitle, value: "standup", exact: true, want: []string{}},
		{name: "substring title", field: persistence.EventFieldTitle, value: "stand", exact: false, want: []string{"standup"}},
		{name: "substring tags", field: persistence.EventFieldTags, value: "ealt", exact: false, want: []string{"gym"}},
		{name: "kind column", field: persistence.EventFieldKind, value: "2", exact: true, want: []string{"gym"}},
		{name: "wildcards are literal input", field: persistence.EventFieldTitle, value: "' OR 1=1 --", exact: true, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := h.Events.QueryEventsByField(ctx, tt.field, tt.value, tt.exact)
			require.NoError(t, err)
			assert.Equal(t, tt.want, eventIDs(events))
		})
	}

	_, err := h.Events.QueryEventsByField(ctx, persistence.EventField(99), "x", true)
	assert.ErrorIs(t, err, persistence.ErrUnknownField)
	assert.ErrorIs(t, err, persistence.ErrMalformedInput)
}

func TestEventRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewSQLiteHarness(t)
	base := testfixtures.ReferenceTime()

	event := testfixtures.NewEvent(testfixtures.WithEventID("e"), testfixtures.WithEventTimestamps(base, base))
	require.NoError(t, h.Events.CreateEvent(ctx, event))

	event.CreatedAt = base.Add(24 * time.Hour)
	event.UpdatedAt = base.Add(time.Hour)
	event.Description = testfixtures.StrPtr("moved")
	n, err := h.Events.UpdateEvent(ctx, event)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, _, err := h.Events.GetEvent(ctx, "e")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(base), "created_at must not change on update")
	assert.True(t, got.UpdatedAt.Equal(base.Add(time.Hour)))
	require.NotNil(t, got.Description)
	assert.Equal(t, "moved", *got.Description)
}
