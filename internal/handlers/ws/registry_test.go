package ws

import (
	"testing"
)

func TestRegistryAddRemove(t *testing.T) {
	r := NewRoomRegistry()

	r.Add(7, "Planning", "a")
	r.Add(7, "Planning", "b")
	r.Add(7, "Planning", "a") // idempotent

	if got := r.Count(7); got != 2 {
		t.Fatalf("count: got %d, want 2", got)
	}

	r.Remove(7, "a")
	if got := r.Count(7); got != 1 {
		t.Fatalf("count after remove: got %d, want 1", got)
	}

	// Removing an unknown user is a no-op.
	r.Remove(7, "ghost")
	if got := r.Count(7); got != 1 {
		t.Fatalf("count after ghost remove: got %d, want 1", got)
	}
}

func TestRegistryDeletesEmptyRoomEntry(t *testing.T) {
	r := NewRoomRegistry()
	r.Add(3, "Budget", "a")
	r.Remove(3, "a")

	if got := len(r.Counts()); got != 0 {
		t.Fatalf("expected no rooms after last leave, got %d", got)
	}
	if users := r.Users(3); users != nil {
		t.Fatalf("expected nil user set for idle room, got %v", users)
	}
}

func TestRegistryCountsSortedByName(t *testing.T) {
	r := NewRoomRegistry()
	r.Add(2, "Venue", "a")
	r.Add(1, "Budget", "a")
	r.Add(1, "Budget", "b")

	counts := r.Counts()
	if len(counts) != 2 {
		t.Fatalf("rooms: got %d, want 2", len(counts))
	}
	if counts[0].Name != "Budget" || counts[0].Count != 2 {
		t.Errorf("first row: got %+v", counts[0])
	}
	if counts[1].Name != "Venue" || counts[1].Count != 1 {
		t.Errorf("second row: got %+v", counts[1])
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRoomRegistry()
	r.Add(1, "Budget", "a")
	r.Clear()
	if got := len(r.Counts()); got != 0 {
		t.Fatalf("expected empty registry after clear, got %d rooms", got)
	}
}
