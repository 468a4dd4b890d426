// Package store defines the uniform CRUD contract shared by every entity
// collection, together with the in-memory implementation used for
// development and tests. SQLite and remote-backed implementations satisfy
// the same contract.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Update when no element carries the given
	// identity. Recoverable: the caller may fall back to Add.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateIdentity is returned by Add when the caller-provided
	// identity already exists and the store is not responsible for
	// allocation.
	ErrDuplicateIdentity = errors.New("store: duplicate identity")
)

// Entity constrains stored types to value records with an integer identity.
type Entity[T any] interface {
	EntityID() int
	WithEntityID(id int) T
}

// Store is the uniform create/read/update/delete container for one entity
// type. Mutations appear atomic to subsequent Get calls: once a mutation's
// completion is observed, Get reflects it, and no partially-applied state is
// ever visible.
type Store[T Entity[T]] interface {
	// Get returns a snapshot of the full collection. Callers may call it
	// repeatedly and, absent concurrent mutation, receive equivalent
	// sequences in the same order.
	Get(ctx context.Context) ([]T, error)
	// Add inserts the entity and returns it as stored, with the identity
	// the store assigned when it is authoritative for allocation.
	Add(ctx context.Context, t T) (T, error)
	// Update replaces, wholesale, the element whose identity matches.
	Update(ctx context.Context, t T) (T, error)
	// Remove deletes the element whose identity matches. Removing an
	// absent identity is a no-op, not an error.
	Remove(ctx context.Context, t T) error
}
