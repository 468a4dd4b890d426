package store

import (
	"context"
	"sync"
)

// Memory is the in-memory Store implementation. It owns its backing slice
// outright: Get hands out copies, and every mutation runs under the mutex, so
// the read-max/assign/insert sequence of an allocating Add serialises against
// concurrent callers.
type Memory[T Entity[T]] struct {
	mu       sync.Mutex
	items    []T
	allocate bool
}

// NewMemory returns a store seeded with the given elements. Identities are
// caller-provided; Add rejects duplicates.
func NewMemory[T Entity[T]](seed []T) *Memory[T] {
	return &Memory[T]{items: append([]T(nil), seed...)}
}

// NewAllocatingMemory returns a seeded store that is authoritative for
// identity allocation: Add assigns 1 + max(existing ids), or 0 when the
// collection is empty.
func NewAllocatingMemory[T Entity[T]](seed []T) *Memory[T] {
	return &Memory[T]{items: append([]T(nil), seed...), allocate: true}
}

// Get returns a snapshot copy of the collection in insertion order.
func (m *Memory[T]) Get(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.items...), nil
}

// Add inserts the entity. An allocating store overwrites the identity with
// the next free one; otherwise a colliding identity is rejected.
func (m *Memory[T]) Add(ctx context.Context, t T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.allocate {
		t = t.WithEntityID(m.nextIDLocked())
	} else {
		for _, existing := range m.items {
			if existing.EntityID() == t.EntityID() {
				var zero T
				return zero, ErrDuplicateIdentity
			}
		}
	}
	m.items = append(m.items, t)
	return t, nil
}

// Update replaces the element matching t's identity in place, preserving the
// collection order.
func (m *Memory[T]) Update(ctx context.Context, t T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.items {
		if existing.EntityID() == t.EntityID() {
			m.items[i] = t
			return t, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// Remove deletes the element matching t's identity. Removing an absent
// identity leaves the collection unchanged.
func (m *Memory[T]) Remove(ctx context.Context, t T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.items {
		if existing.EntityID() == t.EntityID() {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *Memory[T]) nextIDLocked() int {
	if len(m.items) == 0 {
		return 0
	}
	max := m.items[0].EntityID()
	for _, existing := range m.items[1:] {
		if id := existing.EntityID(); id > max {
			max = id
		}
	}
	return max + 1
}
