package sched

import (
	"context"
	"errors"

	"github.com/example/shift-scheduler/internal/store"
)

var (
	// ErrEditorClosed is returned when a commit or removal arrives while no
	// shift is being edited.
	ErrEditorClosed = errors.New("sched: editor is closed")
	// ErrStaleCommit is returned when a commit targets a different shift
	// than the one the editor was opened for. A late completion must not
	// resurrect state the user already navigated away from.
	ErrStaleCommit = errors.New("sched: commit does not match the open shift")
)

// CommitPolicy decides what Commit does when the edited shift no longer
// exists in the store.
type CommitPolicy int

const (
	// CommitStrict fails the commit with the store's NotFound error and
	// leaves the editor open so the user can retry or cancel.
	CommitStrict CommitPolicy = iota
	// CommitUpsert falls back to adding the shift as a new record.
	CommitUpsert
)

// ShiftStore is the slice of the CRUD contract the editor needs.
type ShiftStore interface {
	Add(ctx context.Context, s Shift) (Shift, error)
	Update(ctx context.Context, s Shift) (Shift, error)
	Remove(ctx context.Context, s Shift) error
}

// Editor tracks the shift currently being edited. It holds a value copy of
// the shift, so in-progress edits never touch the backing collection until
// committed. The zero state is closed.
type Editor struct {
	shifts ShiftStore
	policy CommitPolicy

	open   bool
	active Shift
}

// NewEditor returns a closed editor committing through the given store.
func NewEditor(shifts ShiftStore, policy CommitPolicy) *Editor {
	return &Editor{shifts: shifts, policy: policy}
}

// IsOpen reports whether a shift is currently being edited.
func (e *Editor) IsOpen() bool {
	return e.open
}

// Active returns a copy of the shift under edit, if any.
func (e *Editor) Active() (Shift, bool) {
	return e.active, e.open
}

// Open begins editing a copy of the given shift. Opening is only valid from
// the closed state; a second Open without a Close is rejected.
func (e *Editor) Open(s Shift) error {
	if e.open {
		return ErrStaleCommit
	}
	e.open = true
	e.active = s
	return nil
}

// Close discards the in-progress copy without committing. Closing a closed
// editor is a no-op.
func (e *Editor) Close() {
	e.open = false
	e.active = Shift{}
}

// Commit writes the updated shift back through the store. The commit is
// guarded: it is dropped unless the editor is still open for the same shift
// identity. On a store error the editor state is left untouched so the user
// can retry or cancel; on success the editor stays open with the committed
// value as the new active copy.
func (e *Editor) Commit(ctx context.Context, updated Shift) error {
	if !e.open {
		return ErrEditorClosed
	}
	if updated.ID != e.active.ID {
		return ErrStaleCommit
	}

	persisted, err := e.shifts.Update(ctx, updated)
	if errors.Is(err, store.ErrNotFound) && e.policy == CommitUpsert {
		persisted, err = e.shifts.Add(ctx, updated)
	}
	if err != nil {
		return err
	}

	e.active = persisted
	return nil
}

// RemoveActive deletes the shift under edit and closes the editor. On a
// store error the editor stays open so the user can retry or cancel
// explicitly.
func (e *Editor) RemoveActive(ctx context.Context) error {
	if !e.open {
		return ErrEditorClosed
	}
	if err := e.shifts.Remove(ctx, e.active); err != nil {
		return err
	}
	e.Close()
	return nil
}
