package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Current())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(90 * time.Minute)
	if !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}

	clock.Set(start.Add(2 * time.Hour))
	if got := clock.Current(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("expected %v, got %v", start.Add(2*time.Hour), got)
	}
}

func TestClockNowWithoutStepIsStable(t *testing.T) {
	clock := NewClock(ReferenceTime())
	first, second := clock.Now(), clock.Now()
	if !first.Equal(second) {
		t.Fatalf("expected a still clock, got %v then %v", first, second)
	}
}

func TestSteppingClock(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock := NewSteppingClock(start, time.Second)
	nowFn := clock.NowFunc()

	if got := nowFn(); !got.Equal(start) {
		t.Fatalf("expected %v first, got %v", start, got)
	}
	if got := nowFn(); !got.Equal(start.Add(time.Second)) {
		t.Fatalf("expected %v second, got %v", start.Add(time.Second), got)
	}
	if got := clock.Current(); !got.Equal(start.Add(2 * time.Second)) {
		t.Fatalf("expected current %v, got %v", start.Add(2*time.Second), got)
	}
}

func TestNilClockNowFunc(t *testing.T) {
	var clock *Clock
	if got := clock.NowFunc()(); got.Location() != time.UTC {
		t.Fatalf("expected UTC wall clock, got %v", got.Location())
	}
}
