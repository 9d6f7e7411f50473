package testfixtures

import (
	"testing"

	"github.com/google/uuid"
)

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("event")

	first := gen.Next()
	second := gen.Next()

	if first != "event-1" || second != "event-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
}

func TestIDGeneratorCanReset(t *testing.T) {
	gen := NewIDGenerator("")
	_ = gen.Next()
	gen.SetCounter(0)

	if next := gen.Next(); next != "id-1" {
		t.Fatalf("expected id-1 after reset, got %q", next)
	}
}

func TestIDGeneratorUUIDsAreDeterministic(t *testing.T) {
	a := NewIDGenerator("todo")
	b := NewIDGenerator("todo")

	first, other := a.NextUUID(), b.NextUUID()
	if first != other {
		t.Fatalf("expected identical UUIDs, got %q and %q", first, other)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("NextUUID returned an invalid UUID %q: %v", first, err)
	}
	if next := a.NextUUID(); next == first {
		t.Fatalf("expected a new UUID after advancing, got %q twice", next)
	}
}
