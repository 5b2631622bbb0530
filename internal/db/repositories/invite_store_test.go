package repositories

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *InviteStore {
	t.Helper()
	return NewInviteStore(filepath.Join(t.TempDir(), "invited_users.json"))
}

func TestInviteStore_MissingFileIsEmptySet(t *testing.T) {
	store := newTestStore(t)

	set, err := store.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("expected empty set, got %v", set)
	}
}

func TestInviteStore_AddThenRemoveRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if err := store.Add(111); err != nil {
		t.Fatalf("add 111: %v", err)
	}
	if err := store.Add(222); err != nil {
		t.Fatalf("add 222: %v", err)
	}

	before, err := store.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if err := store.Add(333); err != nil {
		t.Fatalf("add 333: %v", err)
	}
	removed, err := store.Remove(333)
	if err != nil {
		t.Fatalf("remove 333: %v", err)
	}
	if !removed {
		t.Error("expected removal to be reported")
	}

	after, err := store.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// membership unchanged, order-independent
	if len(after) != len(before) {
		t.Fatalf("expected %d members, got %d", len(before), len(after))
	}
	for id := range before {
		if _, ok := after[id]; !ok {
			t.Errorf("expected member %d to survive round trip", id)
		}
	}
}

func TestInviteStore_AddIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Add(111); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Add(111); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	set, err := store.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(set) != 1 {
		t.Errorf("expected single member, got %v", set)
	}
}

func TestInviteStore_RemoveAbsentIsNoop(t *testing.T) {
	store := newTestStore(t)

	removed, err := store.Remove(999)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed {
		t.Error("expected no-op for absent id")
	}
}

func TestInviteStore_Contains(t *testing.T) {
	store := newTestStore(t)

	if err := store.Add(42); err != nil {
		t.Fatalf("add: %v", err)
	}

	ok, err := store.Contains(42)
	if err != nil || !ok {
		t.Errorf("expected membership, got ok=%v err=%v", ok, err)
	}
	ok, err = store.Contains(43)
	if err != nil || ok {
		t.Errorf("expected non-membership, got ok=%v err=%v", ok, err)
	}
}
