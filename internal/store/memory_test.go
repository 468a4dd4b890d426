package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type note struct {
	ID   int
	Body string
}

func (n note) EntityID() int { return n.ID }

func (n note) WithEntityID(id int) note {
	n.ID = id
	return n
}

func TestMemoryGet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the seed in order", func(t *testing.T) {
		m := NewMemory([]note{{ID: 0, Body: "a"}, {ID: 5, Body: "b"}})

		got, err := m.Get(ctx)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != 0 || got[1].ID != 5 {
			t.Fatalf("unexpected collection: %+v", got)
		}
	})

	t.Run("snapshots are independent of the backing collection", func(t *testing.T) {
		m := NewMemory([]note{{ID: 0, Body: "a"}})

		snapshot, _ := m.Get(ctx)
		snapshot[0].Body = "mutated"

		fresh, _ := m.Get(ctx)
		if fresh[0].Body != "a" {
			t.Fatal("expected the store to be unaffected by snapshot mutation")
		}
	})
}

func TestMemoryAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("allocating store assigns one past the max id", func(t *testing.T) {
		m := NewAllocatingMemory([]note{{ID: 2}, {ID: 7}, {ID: 4}})

		added, err := m.Add(ctx, note{ID: 999, Body: "new"})
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if added.ID != 8 {
			t.Fatalf("expected id 8, got %d", added.ID)
		}
	})

	t.Run("allocating store starts at zero when empty", func(t *testing.T) {
		m := NewAllocatingMemory[note](nil)

		added, err := m.Add(ctx, note{Body: "first"})
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if added.ID != 0 {
			t.Fatalf("expected id 0, got %d", added.ID)
		}
	})

	t.Run("add keeps existing elements in place", func(t *testing.T) {
		m := NewAllocatingMemory([]note{{ID: 0, Body: "a"}, {ID: 1, Body: "b"}})

		if _, err := m.Add(ctx, note{Body: "c"}); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		got, _ := m.Get(ctx)
		if len(got) != 3 || got[0].Body != "a" || got[1].Body != "b" || got[2].Body != "c" {
			t.Fatalf("unexpected collection after add: %+v", got)
		}
	})

	t.Run("caller-identity store rejects duplicates", func(t *testing.T) {
		m := NewMemory([]note{{ID: 3}})

		if _, err := m.Add(ctx, note{ID: 3}); !errors.Is(err, ErrDuplicateIdentity) {
			t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
		}
	})

	t.Run("concurrent adds allocate unique ids", func(t *testing.T) {
		m := NewAllocatingMemory[note](nil)

		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := m.Add(ctx, note{Body: "x"}); err != nil {
					t.Errorf("add failed: %v", err)
				}
			}()
		}
		wg.Wait()

		got, _ := m.Get(ctx)
		seen := make(map[int]bool, len(got))
		for _, n := range got {
			if seen[n.ID] {
				t.Fatalf("duplicate id allocated: %d", n.ID)
			}
			seen[n.ID] = true
		}
		if len(got) != 32 {
			t.Fatalf("expected 32 elements, got %d", len(got))
		}
	})
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the matching element wholesale", func(t *testing.T) {
		m := NewMemory([]note{{ID: 0, Body: "a"}, {ID: 1, Body: "b"}})

		if _, err := m.Update(ctx, note{ID: 1, Body: "edited"}); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		got, _ := m.Get(ctx)
		if got[1].Body != "edited" {
			t.Fatalf("expected the element to be replaced, got %+v", got)
		}
		if got[0].Body != "a" {
			t.Fatal("expected other elements untouched")
		}
	})

	t.Run("missing identity returns NotFound", func(t *testing.T) {
		m := NewMemory([]note{{ID: 0}})

		if _, err := m.Update(ctx, note{ID: 9}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMemoryRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes by identity", func(t *testing.T) {
		m := NewMemory([]note{{ID: 0}, {ID: 1}, {ID: 2}})

		if err := m.Remove(ctx, note{ID: 1}); err != nil {
			t.Fatalf("remove failed: %v", err)
		}

		got, _ := m.Get(ctx)
		if len(got) != 2 || got[0].ID != 0 || got[1].ID != 2 {
			t.Fatalf("unexpected collection after remove: %+v", got)
		}
	})

	t.Run("removing twice is idempotent", func(t *testing.T) {
		m := NewMemory([]note{{ID: 0}, {ID: 1}})

		if err := m.Remove(ctx, note{ID: 1}); err != nil {
			t.Fatalf("first remove failed: %v", err)
		}
		if err := m.Remove(ctx, note{ID: 1}); err != nil {
			t.Fatalf("second remove failed: %v", err)
		}

		got, _ := m.Get(ctx)
		if len(got) != 1 || got[0].ID != 0 {
			t.Fatalf("unexpected collection after double remove: %+v", got)
		}
	})
}
